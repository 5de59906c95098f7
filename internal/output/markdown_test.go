package output

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{`<script>alert("x")</script>gg`, "gg"},
		{"fish & chips", "fish & chips"},
		{"> quoted\n\n- item", "> quoted\n\n- item"},
		{"  padded  ", "padded"},
	}
	for _, tc := range tests {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	got, err := RenderMarkdownWithWidth("   ", 80)
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestRenderMarkdownWithWidth(t *testing.T) {
	got, err := RenderMarkdownWithWidth("# Finals\n\nSee you **Saturday**.", 10)
	if err != nil {
		t.Fatalf("RenderMarkdownWithWidth: %v", err)
	}
	if !strings.Contains(got, "Finals") || !strings.Contains(got, "Saturday") {
		t.Errorf("rendered output lost text: %q", got)
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	t.Setenv("COLUMNS", "")
	if got := TerminalWidth(0); got <= 0 {
		t.Errorf("TerminalWidth(0) = %d", got)
	}
	t.Setenv("COLUMNS", "123")
	if got := TerminalWidth(40); got != 123 && got <= 0 {
		t.Errorf("TerminalWidth = %d", got)
	}
}
