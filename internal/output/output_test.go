package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/marcus/clubdash/internal/models"
)

// TestFormatTimeAgoJustNow tests times less than a minute ago
func TestFormatTimeAgoJustNow(t *testing.T) {
	now := time.Now()
	tests := []time.Time{
		now,
		now.Add(-30 * time.Second),
		now.Add(-59 * time.Second),
	}

	for _, tm := range tests {
		result := FormatTimeAgo(tm)
		if result != "just now" {
			t.Errorf("FormatTimeAgo(%v) = %q, want 'just now'", tm, result)
		}
	}
}

// TestFormatTimeAgoMinutes tests times 1-59 minutes ago
func TestFormatTimeAgoMinutes(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{1 * time.Minute, "1m ago"},
		{2 * time.Minute, "2m ago"},
		{30 * time.Minute, "30m ago"},
		{59 * time.Minute, "59m ago"},
	}

	for _, tc := range tests {
		tm := time.Now().Add(-tc.duration)
		result := FormatTimeAgo(tm)
		if result != tc.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.duration, result, tc.expected)
		}
	}
}

// TestFormatTimeAgoHours tests times 1-23 hours ago
func TestFormatTimeAgoHours(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{1 * time.Hour, "1h ago"},
		{2 * time.Hour, "2h ago"},
		{12 * time.Hour, "12h ago"},
		{23 * time.Hour, "23h ago"},
	}

	for _, tc := range tests {
		tm := time.Now().Add(-tc.duration)
		result := FormatTimeAgo(tm)
		if result != tc.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.duration, result, tc.expected)
		}
	}
}

// TestFormatTimeAgoDays tests times 1-6 days ago
func TestFormatTimeAgoDays(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{24 * time.Hour, "1d ago"},
		{48 * time.Hour, "2d ago"},
		{6 * 24 * time.Hour, "6d ago"},
	}

	for _, tc := range tests {
		tm := time.Now().Add(-tc.duration)
		result := FormatTimeAgo(tm)
		if result != tc.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.duration, result, tc.expected)
		}
	}
}

// TestFormatTimeAgoOlder tests times 7+ days ago (humanized)
func TestFormatTimeAgoOlder(t *testing.T) {
	result := FormatTimeAgo(time.Now().Add(-21 * 24 * time.Hour))
	if !strings.Contains(result, "week") || !strings.HasSuffix(result, "ago") {
		t.Errorf("FormatTimeAgo(-21d) = %q, want weeks ago", result)
	}
}

func TestRelationBadge(t *testing.T) {
	tests := []struct {
		rel  models.Relationship
		want string
	}{
		{models.RelationAddable, "+ addable"},
		{models.RelationPending, "… pending"},
		{models.RelationFriend, "✓ friend"},
		{models.Relationship("blocked"), "? blocked"},
	}
	for _, tc := range tests {
		if got := RelationBadge(tc.rel); !strings.Contains(got, tc.want) {
			t.Errorf("RelationBadge(%s) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func TestFormatRequestStatusUnknown(t *testing.T) {
	if got := FormatRequestStatus("archived"); got != "archived" {
		t.Errorf("got %q, want plain status", got)
	}
}

func TestFormatUser(t *testing.T) {
	u := models.User{ID: 7, FirstName: "John", LastName: "Doe", Email: "jd@club.example"}
	result := FormatUser(u, models.RelationPending)
	for _, want := range []string{"#7", "John Doe", "jd@club.example", "pending"} {
		if !strings.Contains(result, want) {
			t.Errorf("FormatUser missing %q: %q", want, result)
		}
	}
}

func TestFormatRequestDirection(t *testing.T) {
	r := models.FriendRequest{
		ID: 3, SenderName: "Ann Lee", ReceiverName: "Bob Ray",
		Status: models.RequestPending, CreatedAt: time.Now(),
	}

	received := FormatRequest(r, true)
	if !strings.Contains(received, "from") || !strings.Contains(received, "Ann Lee") || strings.Contains(received, "Bob Ray") {
		t.Errorf("received = %q", received)
	}
	sent := FormatRequest(r, false)
	if !strings.Contains(sent, "to") || !strings.Contains(sent, "Bob Ray") || strings.Contains(sent, "Ann Lee") {
		t.Errorf("sent = %q", sent)
	}
	if !strings.Contains(sent, "just now") {
		t.Errorf("sent should include age: %q", sent)
	}
}

func TestFormatTournament(t *testing.T) {
	result := FormatTournament(models.Tournament{
		ID: 1, Name: "Spring Cup", StartDate: "2026-04-01", EndDate: "2026-04-03", Location: "Hall B",
	})
	for _, want := range []string{"Spring Cup", "2026-04-01 → 2026-04-03", "Hall B"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q: %q", want, result)
		}
	}
	if strings.Contains(result, "prize") {
		t.Errorf("empty prize pool should be omitted: %q", result)
	}
}

func TestFormatNewsLong(t *testing.T) {
	n := models.News{ID: 4, Title: "Finals", AuthorName: "Coach"}
	comments := []models.Comment{
		{ID: 1, UserID: 1, AuthorName: "Ann", Content: "gg"},
		{ID: 2, UserID: 2, AuthorName: "Bob", Content: "wp\nsee you"},
	}
	result := FormatNewsLong(n, "body text", comments, func(c models.Comment) bool { return c.UserID == 2 })

	for _, want := range []string{"#4: Finals", "Coach", "body text", "COMMENTS (2):", "gg", "    see you", "(you)"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in:\n%s", want, result)
		}
	}
	if strings.Count(result, "(you)") != 1 {
		t.Errorf("only own comments should be marked:\n%s", result)
	}
}

func TestFormatNewsLongNoComments(t *testing.T) {
	result := FormatNewsLong(models.News{ID: 1, Title: "Quiet"}, "", nil, nil)
	if !strings.Contains(result, "No comments yet") {
		t.Errorf("expected empty marker:\n%s", result)
	}
}

func TestIndentString(t *testing.T) {
	if got := IndentString("a\nb", 2); got != "  a\n  b" {
		t.Errorf("IndentString = %q", got)
	}
	if got := IndentString("", 2); got != "" {
		t.Errorf("IndentString(empty) = %q", got)
	}
}

// captureStdout returns what fn prints to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = orig
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestJSONError(t *testing.T) {
	out := captureStdout(t, func() { JSONError(ErrCodeNotFound, "no such news item") })

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("output %q is not JSON: %v", out, err)
	}
	if body.Error.Code != "not_found" || body.Error.Message != "no such news item" {
		t.Errorf("error = %+v", body.Error)
	}
}
