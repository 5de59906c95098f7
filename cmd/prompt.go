package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errAborted is returned when the user declines a confirmation.
var errAborted = errors.New("aborted")

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// isTerminal reports whether prompts can be interactive.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// confirm asks before a destructive action. --yes skips the question; without
// a terminal the action is refused unless --yes was given.
func confirm(cmd *cobra.Command, question string) error {
	if skipConfirm(cmd) {
		return nil
	}
	if !isTerminal() {
		return fmt.Errorf("%s: pass --yes to confirm without a terminal", question)
	}

	ok := false
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

// field is one value collected by ask.
type field struct {
	title    string
	value    *string
	password bool
}

// ask fills any empty fields. On a terminal it shows a huh form; otherwise it
// reads one line per field from stdin.
func ask(fields ...field) error {
	var missing []field
	for _, f := range fields {
		if strings.TrimSpace(*f.value) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if isTerminal() {
		inputs := make([]huh.Field, 0, len(missing))
		for _, f := range missing {
			in := huh.NewInput().
				Title(f.title).
				Value(f.value).
				Validate(notBlank(f.title))
			if f.password {
				in = in.EchoMode(huh.EchoModePassword)
			}
			inputs = append(inputs, in)
		}
		return huh.NewForm(huh.NewGroup(inputs...)).WithTheme(huh.ThemeDracula()).Run()
	}

	reader := bufio.NewReader(stdin)
	for _, f := range missing {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("read %s: %w", strings.ToLower(f.title), err)
		}
		*f.value = strings.TrimSpace(line)
	}
	return nil
}

func notBlank(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(title))
		}
		return nil
	}
}
