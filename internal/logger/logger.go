package logger

import (
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	DefaultLogLevel = "info"
	// LevelEnvVar overrides the level of the CLI logger.
	LevelEnvVar = "CODETEMPLATE_LOG_LEVEL"
)

// New builds a logger tagged with the application name. Defaults: info level,
// console output on stderr, no timestamps.
func New(opts ...Option) *zerolog.Logger {
	s := &settings{
		output:  os.Stderr,
		level:   zerolog.InfoLevel,
		console: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := zerolog.New(s.output).
		Level(s.level).
		With().
		Timestamp().
		Str("app", "codetemplate").
		Logger()

	if s.console {
		writer := zerolog.ConsoleWriter{
			Out:           s.output,
			NoColor:       s.noColor,
			FieldsExclude: []string{"app"},
		}
		if !s.timestamps {
			writer.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		logger = logger.Output(writer)
	}

	return &logger
}

// NewConsoleLogger is the logger used by the CLI: human readable on stderr,
// colored only when stderr is a terminal.
func NewConsoleLogger() *zerolog.Logger {
	level := DefaultLogLevel
	if env, ok := os.LookupEnv(LevelEnvVar); ok {
		level = env
	}
	return New(
		WithLevel(level),
		WithOutput(os.Stderr),
		WithConsoleWriter(true),
		WithNoColor(!term.IsTerminal(int(os.Stderr.Fd()))),
	)
}
