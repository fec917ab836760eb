package instantiate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/dynamic"
	"github.com/comonadd/codetemplate/internal/shell"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/testutil"
	"github.com/comonadd/codetemplate/internal/ui"
)

type stubModule struct {
	path     string
	generate func(ctx context.Context, req dynamic.GenerateRequest) (bool, error)
	calls    int
	last     dynamic.GenerateRequest
}

func (m *stubModule) Path() string              { return m.path }
func (m *stubModule) Lookup(string) (any, bool) { return nil, false }
func (m *stubModule) Generate(ctx context.Context, req dynamic.GenerateRequest) (bool, error) {
	m.calls++
	m.last = req
	return m.generate(ctx, req)
}

func newInstantiator(answers ...string) (*Instantiator, *shell.FakeRunner) {
	runner := shell.NewFakeRunner()
	prompter := ui.NewLinePrompter(testutil.NewMockStdinReader(answers), io.Discard)
	return New(testutil.NewTestLogger(), prompter, runner), runner
}

func write(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	require.NoError(t, os.Chmod(path, mode))
}

func TestInstantiatePlainDirectory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site")
	write(t, filepath.Join(src, "index.html"), "<h1>hi</h1>", 0o644)
	write(t, filepath.Join(src, "css", "style.css"), "body{}", 0o644)
	write(t, filepath.Join(src, "bin", "run.sh"), "#!/bin/sh\n", 0o755)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o755))
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink("index.html", filepath.Join(src, "home.html")))
	}

	meta := &template.Meta{Name: "site", FullPath: src, Variant: template.PlainDirectory{}}
	dest := filepath.Join(t.TempDir(), "out")

	inst, _ := newInstantiator()
	require.NoError(t, inst.Instantiate(context.Background(), meta, dest))

	content, err := os.ReadFile(filepath.Join(dest, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(content))
	assert.DirExists(t, filepath.Join(dest, "empty"))

	info, err := os.Stat(filepath.Join(dest, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	if runtime.GOOS != "windows" {
		link, err := os.Readlink(filepath.Join(dest, "home.html"))
		require.NoError(t, err)
		assert.Equal(t, "index.html", link)
	}
}

func TestInstantiateDestinationExists(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site")
	write(t, filepath.Join(src, "index.html"), "x", 0o644)
	plain := &template.Meta{Name: "site", FullPath: src, Variant: template.PlainDirectory{}}

	mod := &stubModule{path: "m.yaml", generate: func(context.Context, dynamic.GenerateRequest) (bool, error) { return true, nil }}
	dynamicMeta := &template.Meta{Name: "m", Variant: template.DynamicModule{Module: mod}}

	dest := t.TempDir()
	inst, _ := newInstantiator()

	for _, meta := range []*template.Meta{plain, dynamicMeta} {
		err := inst.Instantiate(context.Background(), meta, dest)
		assert.ErrorIs(t, err, ErrDestinationExists, meta.Kind().String())
	}
	assert.Zero(t, mod.calls)
}

func TestInstantiateAllowEmptyDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "site")
	write(t, filepath.Join(src, "index.html"), "x", 0o644)
	meta := &template.Meta{Name: "site", FullPath: src, Variant: template.PlainDirectory{}}
	inst, _ := newInstantiator()

	empty := t.TempDir()
	require.NoError(t, inst.Instantiate(context.Background(), meta, empty, AllowEmptyDestination()))
	assert.FileExists(t, filepath.Join(empty, "index.html"))

	nonEmpty := t.TempDir()
	write(t, filepath.Join(nonEmpty, "keep.txt"), "x", 0o644)
	err := inst.Instantiate(context.Background(), meta, nonEmpty, AllowEmptyDestination())
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.NoFileExists(t, filepath.Join(nonEmpty, "index.html"))

	file := filepath.Join(t.TempDir(), "file")
	write(t, file, "x", 0o644)
	err = inst.Instantiate(context.Background(), meta, file, AllowEmptyDestination())
	assert.ErrorIs(t, err, ErrDestinationExists)
}

func TestInstantiateDynamicModule(t *testing.T) {
	mod := &stubModule{path: "lib.yaml", generate: func(_ context.Context, req dynamic.GenerateRequest) (bool, error) {
		return true, os.MkdirAll(req.Destination, 0o755)
	}}
	meta := &template.Meta{Name: "lib", Variant: template.DynamicModule{Module: mod}}
	dest := filepath.Join(t.TempDir(), "lib")

	inst, _ := newInstantiator()
	require.NoError(t, inst.Instantiate(context.Background(), meta, dest))
	assert.Equal(t, 1, mod.calls)
	assert.Equal(t, dest, mod.last.Destination)
	assert.Empty(t, mod.last.ResourcesRoot)
	assert.Equal(t, dest, mod.last.Services.Destination())

	_, err := mod.last.Services.ResourcePath("x")
	assert.ErrorIs(t, err, ErrNoResources)
	assert.ErrorIs(t, mod.last.Services.CopyResource("x", "y"), ErrNoResources)
}

func TestInstantiateDynamicModuleWithResources(t *testing.T) {
	res := t.TempDir()
	write(t, filepath.Join(res, "README.tpl"), "# ${title}\n", 0o644)
	write(t, filepath.Join(res, "scaffold", "a.txt"), "a", 0o644)
	write(t, filepath.Join(res, "single.txt"), "s", 0o600)

	mod := &stubModule{path: "lib/codetemplate.yaml", generate: func(ctx context.Context, req dynamic.GenerateRequest) (bool, error) {
		svc := req.Services
		if err := svc.CopyResource("scaffold", "scaffold"); err != nil {
			return false, err
		}
		if err := svc.CopyResource("single.txt", "nested/single.txt"); err != nil {
			return false, err
		}
		title, err := svc.AskString("Title:")
		if err != nil {
			return false, err
		}
		if err := svc.Render("README.tpl", "README.md", map[string]string{"title": title}); err != nil {
			return false, err
		}
		return true, svc.Run(ctx, "scaffold", "git", "init")
	}}
	meta := &template.Meta{Name: "lib", Variant: template.DynamicModuleWithResources{Module: mod, ResourcesRoot: res}}
	dest := filepath.Join(t.TempDir(), "lib")

	inst, runner := newInstantiator("My Lib")
	require.NoError(t, inst.Instantiate(context.Background(), meta, dest))
	assert.Equal(t, res, mod.last.ResourcesRoot)

	assert.FileExists(t, filepath.Join(dest, "scaffold", "a.txt"))
	assert.FileExists(t, filepath.Join(dest, "nested", "single.txt"))
	readme, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# My Lib\n", string(readme))

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, filepath.Join(dest, "scaffold"), runner.Calls[0].Dir)
	assert.True(t, runner.Calls[0].Interactive)
}

func TestInstantiateGenerationFailure(t *testing.T) {
	t.Run("reported failure", func(t *testing.T) {
		mod := &stubModule{path: "m.yaml", generate: func(context.Context, dynamic.GenerateRequest) (bool, error) { return false, nil }}
		meta := &template.Meta{Name: "m", Variant: template.DynamicModule{Module: mod}}

		inst, _ := newInstantiator()
		err := inst.Instantiate(context.Background(), meta, filepath.Join(t.TempDir(), "out"))
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("generator error", func(t *testing.T) {
		mod := &stubModule{path: "m.yaml", generate: func(context.Context, dynamic.GenerateRequest) (bool, error) {
			return false, io.ErrUnexpectedEOF
		}}
		meta := &template.Meta{Name: "m", Variant: template.DynamicModule{Module: mod}}

		inst, _ := newInstantiator()
		err := inst.Instantiate(context.Background(), meta, filepath.Join(t.TempDir(), "out"))
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestInstantiateDeclinedPromptLeavesNothing(t *testing.T) {
	mod := &stubModule{path: "m.yaml", generate: func(_ context.Context, req dynamic.GenerateRequest) (bool, error) {
		proceed, err := req.Services.AskBool("Continue?")
		if err != nil || !proceed {
			return false, err
		}
		return true, os.MkdirAll(req.Destination, 0o755)
	}}
	meta := &template.Meta{Name: "m", Variant: template.DynamicModule{Module: mod}}
	dest := filepath.Join(t.TempDir(), "out")

	inst, _ := newInstantiator("n")
	err := inst.Instantiate(context.Background(), meta, dest)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.NoDirExists(t, dest)
}
