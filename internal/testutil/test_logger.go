package testutil

import (
	"bytes"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/comonadd/codetemplate/internal/logger"
)

// NewTestLogger logs everything down to trace level on stdout, where go test
// attributes it to the running test.
func NewTestLogger() *zerolog.Logger {
	return logger.New(logger.WithLevel("trace"), logger.WithOutput(os.Stdout))
}

// NewBufferedLogger is NewTestLogger that also keeps a copy of the output so
// tests can assert on what was logged.
func NewBufferedLogger() (*zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(logger.WithLevel("trace"), logger.WithOutput(io.MultiWriter(os.Stdout, &buf))), &buf
}
