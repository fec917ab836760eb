package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user questions. Every call blocks until an answer arrives.
type Prompter interface {
	AskBool(message string) (bool, error)
	AskString(message string) (string, error)
}

// NewPrompter returns a huh-backed prompter when stdin and stdout are terminals
// and a line-based prompter reading from in otherwise.
func NewPrompter(in io.Reader, w io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return TerminalPrompter{}
	}
	return NewLinePrompter(in, w)
}

var (
	_ Prompter = TerminalPrompter{}
	_ Prompter = (*LinePrompter)(nil)
)

// LinePrompter reads one line per answer. Only "y" and "yes" count as consent.
type LinePrompter struct {
	reader *bufio.Reader
	w      io.Writer
}

func NewLinePrompter(in io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), w: w}
}

func (p *LinePrompter) AskBool(message string) (bool, error) {
	line, err := p.ask(message + " (y/n) ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *LinePrompter) AskString(message string) (string, error) {
	return p.ask(strings.TrimRight(message, " ") + " ")
}

func (p *LinePrompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no input available: %w", err)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
