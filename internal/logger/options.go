package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

type settings struct {
	output     io.Writer
	level      zerolog.Level
	console    bool
	timestamps bool
	noColor    bool
}

// Option configures New.
type Option func(*settings)

// WithLevel sets the minimum level by name. Unknown names mean info.
func WithLevel(level string) Option {
	return func(s *settings) {
		s.level = ParseLevel(level)
	}
}

// WithConsoleWriter switches between human readable output and JSON lines.
func WithConsoleWriter(enabled bool) Option {
	return func(s *settings) {
		s.console = enabled
	}
}

func WithOutput(output io.Writer) Option {
	return func(s *settings) {
		s.output = output
	}
}

// WithTimestamps keeps the time column in console output.
func WithTimestamps() Option {
	return func(s *settings) {
		s.timestamps = true
	}
}

// WithNoColor disables ANSI colors in console output.
func WithNoColor(noColor bool) Option {
	return func(s *settings) {
		s.noColor = noColor
	}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
// "warning" is accepted as an alias of "warn".
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}
