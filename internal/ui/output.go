package ui

import (
	"fmt"
	"io"
	"os"
)

// Output helpers print styled lines for the commands. lipgloss drops the
// styling when the writer is not a terminal.

var out io.Writer = os.Stdout

// SetOutput redirects every helper in this file. Returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

func Title(text string) {
	fmt.Fprintln(out, TitleStyle.Render(text))
}

func Success(text string) {
	fmt.Fprintln(out, SuccessStyle.Render("✓ "+text))
}

func Warning(text string) {
	fmt.Fprintln(out, WarningStyle.Render("! "+text))
}

func Error(text string) {
	fmt.Fprintln(out, ErrorStyle.Render("✗ "+text))
}

// Dim prints secondary text, indented.
func Dim(text string) {
	fmt.Fprintln(out, DimStyle.Render("  "+text))
}

func Line() {
	fmt.Fprintln(out)
}

func Print(text string) {
	fmt.Fprintln(out, text)
}

// RenderKind styles a template kind badge such as "[module]".
func RenderKind(text string) string {
	return AccentStyle.Render(text)
}
