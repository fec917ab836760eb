package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// Command describes a single external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
	// Interactive connects the process to the terminal instead of capturing output.
	Interactive bool
}

// Runner runs external commands. The core never retries; failures surface as
// the underlying call reports them.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExitCode reports the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// OSRunner runs commands with os/exec.
type OSRunner struct {
	logger *zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func NewOSRunner(logger *zerolog.Logger) *OSRunner {
	return &OSRunner{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithIO returns a copy of the runner wired to the given streams.
func (r *OSRunner) WithIO(stdin io.Reader, stdout, stderr io.Writer) *OSRunner {
	return &OSRunner{logger: r.logger, stdin: stdin, stdout: stdout, stderr: stderr}
}

func (r *OSRunner) Run(ctx context.Context, c Command) error {
	r.logger.Debug().Msgf("Running command: %s %v in directory: %s", c.Name, c.Args, c.Dir)

	cmd := r.build(ctx, c)
	if c.Interactive {
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
		if err := cmd.Run(); err != nil {
			r.logger.Debug().Err(err).Msgf("Command failed: %s %v", c.Name, c.Args)
			return err
		}
		r.logger.Debug().Msgf("Command succeeded: %s %v", c.Name, c.Args)
		return nil
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Debug().Err(err).Msgf("Command failed: %s %v\nOutput:\n%s", c.Name, c.Args, output)
		return err
	}

	r.logger.Debug().Msgf("Command succeeded: %s %v", c.Name, c.Args)
	return nil
}

func (r *OSRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	r.logger.Debug().Msgf("Running command: %s %v in directory: %s", c.Name, c.Args, c.Dir)

	cmd := r.build(ctx, c)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// #nosec G204 -- command names come from ecosystem configuration and template manifests
	output, err := cmd.Output()
	if err != nil {
		r.logger.Debug().Err(err).Msgf("Command failed: %s %v\nStderr:\n%s", c.Name, c.Args, stderr.String())
		return output, err
	}
	return output, nil
}

func (r *OSRunner) build(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}
