package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// TerminalPrompter renders interactive huh forms.
type TerminalPrompter struct{}

func (TerminalPrompter) AskBool(message string) (bool, error) {
	var answer bool
	if err := runForm(confirmField(message, &answer)); err != nil {
		return false, err
	}
	return answer, nil
}

// AskString returns the trimmed answer. An empty answer is valid and lets
// callers fall back to their own default.
func (TerminalPrompter) AskString(message string) (string, error) {
	var answer string
	if err := runForm(inputField(message, &answer)); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func confirmField(title string, value *bool) huh.Field {
	return huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(value)
}

func inputField(title string, value *string) huh.Field {
	return huh.NewInput().
		Title(title).
		Prompt("> ").
		Value(value)
}

func runForm(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(theme()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	return err
}
