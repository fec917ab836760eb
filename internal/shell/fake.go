package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeRunner records commands and answers them from canned responses keyed by
// "name arg1 arg2". Used by tests across packages.
type FakeRunner struct {
	mu       sync.Mutex
	Calls    []Command
	Outputs  map[string]string
	Failures map[string]error
}

// ExitStatus is an error carrying a process exit code, for canned failures.
type ExitStatus int

func (e ExitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e ExitStatus) ExitCode() int { return int(e) }

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs:  map[string]string{},
		Failures: map[string]error{},
	}
}

func Key(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func (f *FakeRunner) Run(_ context.Context, c Command) error {
	_, err := f.record(c)
	return err
}

func (f *FakeRunner) Output(_ context.Context, c Command) ([]byte, error) {
	return f.record(c)
}

// Count returns how many times the given command line was invoked.
func (f *FakeRunner) Count(name string, args ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := Key(name, args...)
	n := 0
	for _, c := range f.Calls {
		if Key(c.Name, c.Args...) == key {
			n++
		}
	}
	return n
}

func (f *FakeRunner) record(c Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, c)
	key := Key(c.Name, c.Args...)
	if err, ok := f.Failures[key]; ok {
		return nil, err
	}
	if out, ok := f.Outputs[key]; ok {
		return []byte(out), nil
	}
	return nil, nil
}

func (f *FakeRunner) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = fmt.Sprintf("%s (dir=%s)", Key(c.Name, c.Args...), c.Dir)
	}
	return strings.Join(lines, "\n")
}
