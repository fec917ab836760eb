package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Spinner shows progress while blocking network work (downloads, clones) runs.
type Spinner struct {
	w     io.Writer
	isTTY bool
}

// NewSpinner creates a spinner drawing on stderr when it is a terminal.
func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewSpinnerTo creates a spinner on w. Without a TTY the message is printed once.
func NewSpinnerTo(w io.Writer, isTTY bool) *Spinner {
	return &Spinner{w: w, isTTY: isTTY}
}

// Run calls fn while the spinner shows message, and returns fn's error.
func (s *Spinner) Run(message string, fn func() error) error {
	if !s.isTTY {
		fmt.Fprintln(s.w, DimStyle.Render(message))
		return fn()
	}

	program := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(s.w), tea.WithInput(nil))
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		_, _ = program.Run()
	}()

	err := fn()
	program.Send(finishedMsg{})
	<-exited
	return err
}

type finishedMsg struct{}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	finished bool
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(AccentStyle),
	)
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View is empty once finished so the line is cleared.
func (m spinnerModel) View() string {
	if m.finished {
		return ""
	}
	return m.spinner.View() + " " + DimStyle.Render(m.message)
}
