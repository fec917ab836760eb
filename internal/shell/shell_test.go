package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/testutil"
)

func TestOSRunnerOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	r := NewOSRunner(testutil.NewTestLogger())

	out, err := r.Output(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestOSRunnerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	r := NewOSRunner(testutil.NewTestLogger())

	err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	code, ok := ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestOSRunnerMissingBinary(t *testing.T) {
	r := NewOSRunner(testutil.NewTestLogger())

	err := r.Run(context.Background(), Command{Name: "codetemplate-definitely-missing-binary"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	_, ok := ExitCode(err)
	assert.False(t, ok)
}

func TestFakeRunner(t *testing.T) {
	f := NewFakeRunner()
	f.Outputs[Key("pip", "list")] = "foo==1.0\n"
	f.Failures[Key("pip", "install", "bad")] = errors.New("boom")

	out, err := f.Output(context.Background(), Command{Name: "pip", Args: []string{"list"}})
	require.NoError(t, err)
	assert.Equal(t, "foo==1.0\n", string(out))

	err = f.Run(context.Background(), Command{Name: "pip", Args: []string{"install", "bad"}})
	assert.EqualError(t, err, "boom")

	assert.Equal(t, 1, f.Count("pip", "list"))
	assert.Equal(t, 0, f.Count("npm"))
}

func TestExitStatus(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ExitStatus(2))
	code, ok := ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 2, code)
	assert.EqualError(t, ExitStatus(1), "exit status 1")
}
