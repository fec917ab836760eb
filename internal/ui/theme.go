package ui

import (
	"github.com/charmbracelet/huh"
)

// theme styles huh forms with the same palette as the output helpers.
func theme() *huh.Theme {
	t := huh.ThemeBase()

	focused := &t.Focused
	focused.Base = focused.Base.BorderForeground(colorAccent)
	focused.Title = focused.Title.Foreground(colorAccent).Bold(true)
	focused.Description = focused.Description.Foreground(colorMuted)
	focused.ErrorMessage = focused.ErrorMessage.Foreground(colorError)
	focused.ErrorIndicator = focused.ErrorIndicator.Foreground(colorError)
	focused.FocusedButton = focused.FocusedButton.Foreground(colorText).Background(colorAccent)
	focused.BlurredButton = focused.BlurredButton.Foreground(colorMuted).Background(colorSurface)
	focused.TextInput.Cursor = focused.TextInput.Cursor.Foreground(colorAccent)
	focused.TextInput.Prompt = focused.TextInput.Prompt.Foreground(colorAccent)
	focused.TextInput.Placeholder = focused.TextInput.Placeholder.Foreground(colorMuted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(colorSurface)
	t.Blurred.Title = t.Blurred.Title.Foreground(colorMuted).Bold(false)

	return t
}
