package dynamic

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/comonadd/codetemplate/internal/placeholder"
)

// RunCall is one Services.Run invocation recorded by FakeServices.
type RunCall struct {
	Dir  string
	Name string
	Args []string
}

// FakeServices answers prompts from queues and records external tool runs.
// Resource and render operations touch the real filesystem under Dest and
// Resources. Used by tests across packages.
type FakeServices struct {
	mu        sync.Mutex
	Dest      string
	Resources string
	Bools     []bool
	Strings   []string
	Runs      []RunCall
	// RunHook, when set, is called for every Run after recording it.
	RunHook func(call RunCall) error
}

func (f *FakeServices) Destination() string { return f.Dest }

func (f *FakeServices) ResourcePath(name string) (string, error) {
	if f.Resources == "" {
		return "", ErrNoResources
	}
	return resolve(f.Resources, name), nil
}

func (f *FakeServices) CopyResource(name, dest string) error {
	src, err := f.ResourcePath(name)
	if err != nil {
		return err
	}
	target := resolve(f.Dest, dest)
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(target, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o600)
	})
}

func (f *FakeServices) AskBool(message string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Bools) == 0 {
		return false, fmt.Errorf("unexpected prompt %q: %w", message, io.EOF)
	}
	answer := f.Bools[0]
	f.Bools = f.Bools[1:]
	return answer, nil
}

func (f *FakeServices) AskString(message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Strings) == 0 {
		return "", fmt.Errorf("unexpected prompt %q: %w", message, io.EOF)
	}
	answer := f.Strings[0]
	f.Strings = f.Strings[1:]
	return answer, nil
}

func (f *FakeServices) Render(src, dest string, values map[string]string) error {
	if f.Resources != "" {
		src = resolve(f.Resources, src)
	}
	return placeholder.NewSubstitutor(values).RenderFile(src, resolve(f.Dest, dest))
}

func (f *FakeServices) Run(_ context.Context, dir, name string, args ...string) error {
	call := RunCall{Dir: dir, Name: name, Args: args}
	f.mu.Lock()
	f.Runs = append(f.Runs, call)
	hook := f.RunHook
	f.mu.Unlock()
	if hook != nil {
		return hook(call)
	}
	return nil
}
