package templaterepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/testutil"
)

func initRepository(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestFetchGitSource(t *testing.T) {
	remote := initRepository(t, map[string]string{
		"README.md":                        "root",
		"python/lib/pyproject.toml":        "[project]",
		"python/lib/pkg/__init__.py":       "",
		"python/lib/pkg/__pycache__/x.pyc": "junk",
		"python/lib/node_modules/dep/a.js": "junk",
		"python/other/codetemplates.json":  "{}",
	})

	cache, err := NewCache(testutil.NewTestLogger(), t.TempDir())
	require.NoError(t, err)
	client := NewClient(testutil.NewTestLogger(), cache)

	source, err := ParseSource("file://" + filepath.ToSlash(remote))
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, client.Fetch(context.Background(), source, "python/lib", dest))

	assert.FileExists(t, filepath.Join(dest, "pyproject.toml"))
	assert.FileExists(t, filepath.Join(dest, "pkg", "__init__.py"))
	assert.NoDirExists(t, filepath.Join(dest, "pkg", "__pycache__"))
	assert.NoDirExists(t, filepath.Join(dest, "node_modules"))
	assert.NoDirExists(t, filepath.Join(dest, ".git"))
	assert.NoFileExists(t, filepath.Join(dest, "README.md"))

	whole := filepath.Join(t.TempDir(), "whole")
	require.NoError(t, client.Fetch(context.Background(), source, "", whole))
	assert.FileExists(t, filepath.Join(whole, "README.md"))
	assert.NoDirExists(t, filepath.Join(whole, ".git"))

	err = client.Fetch(context.Background(), source, "python/missing", filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestFetchGitSourceUnknownRef(t *testing.T) {
	remote := initRepository(t, map[string]string{"a.txt": "a"})

	cache, err := NewCache(testutil.NewTestLogger(), t.TempDir())
	require.NoError(t, err)
	client := NewClient(testutil.NewTestLogger(), cache)

	source := Source{Kind: KindGit, URL: "file://" + filepath.ToSlash(remote), Ref: "no-such-branch"}
	dest := filepath.Join(t.TempDir(), "x")
	require.Error(t, client.Fetch(context.Background(), source, "", dest))
	assert.NoDirExists(t, dest)
}

func TestReferenceCandidates(t *testing.T) {
	assert.Equal(t, []plumbing.ReferenceName{""}, referenceCandidates(""))
	assert.Equal(t, []plumbing.ReferenceName{"refs/pull/1/head"}, referenceCandidates("refs/pull/1/head"))
	assert.Equal(t, []plumbing.ReferenceName{"refs/heads/v1", "refs/tags/v1"}, referenceCandidates("v1"))
}
