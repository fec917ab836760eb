package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors keep output readable on light and dark terminals.
var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1B1F27", Dark: "#F4F5F7"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6C7585", Dark: "#8A93A3"}
	colorSurface = lipgloss.AdaptiveColor{Light: "#E3E6EB", Dark: "#2A303B"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#6D48D6", Dark: "#A787FF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#16803C", Dark: "#63D78E"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#FACC15"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	DimStyle     = lipgloss.NewStyle().Foreground(colorMuted)

	// AccentStyle marks template kinds and the spinner.
	AccentStyle = lipgloss.NewStyle().Foreground(colorAccent)
)
