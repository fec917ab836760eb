package searchpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/testutil"
)

func TestResolveDefaultOrder(t *testing.T) {
	base := t.TempDir()
	userRoot := filepath.Join(base, "config", "templates")
	cacheDir := filepath.Join(base, "cache")

	r := NewResolver(testutil.NewTestLogger(), Options{UserRoot: userRoot, CacheDir: cacheDir})
	paths, err := r.Resolve()
	require.NoError(t, err)

	assert.Equal(t, SearchPath{userRoot, BundledDir(cacheDir)}, paths)
	assert.DirExists(t, userRoot, "user root is created")
	assert.FileExists(t, filepath.Join(BundledDir(cacheDir), "create-react-app.yaml"))
}

func TestResolveExtraPaths(t *testing.T) {
	base := t.TempDir()
	userRoot := filepath.Join(base, "user")
	extraA := filepath.Join(base, "a")
	extraB := filepath.Join(base, "b")
	require.NoError(t, os.MkdirAll(extraA, 0o755))
	require.NoError(t, os.MkdirAll(extraB, 0o755))

	r := NewResolver(testutil.NewTestLogger(), Options{
		UserRoot:       userRoot,
		ExtraPaths:     []string{extraB, filepath.Join(base, "missing"), extraA, extraB + "/", userRoot},
		DisableBundled: true,
	})
	paths, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, SearchPath{userRoot, extraB, extraA}, paths)
}

func TestResolveBundledOverride(t *testing.T) {
	base := t.TempDir()
	bundledRoot := filepath.Join(base, "shipped")
	require.NoError(t, os.MkdirAll(bundledRoot, 0o755))

	r := NewResolver(testutil.NewTestLogger(), Options{
		UserRoot:    filepath.Join(base, "user"),
		BundledRoot: bundledRoot,
		CacheDir:    filepath.Join(base, "cache"),
	})
	paths, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, bundledRoot, paths[len(paths)-1])
	assert.NoDirExists(t, BundledDir(filepath.Join(base, "cache")))
}

func TestResolveDisableBundled(t *testing.T) {
	base := t.TempDir()
	r := NewResolver(testutil.NewTestLogger(), Options{
		UserRoot:       filepath.Join(base, "user"),
		CacheDir:       filepath.Join(base, "cache"),
		DisableBundled: true,
	})
	paths, err := r.Resolve()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestResolveRelativePathsAreAbsolute(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)

	r := NewResolver(testutil.NewTestLogger(), Options{UserRoot: "templates", DisableBundled: true})
	paths, err := r.Resolve()
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, filepath.IsAbs(paths[0]))
}

func TestResolveRequiresUserRoot(t *testing.T) {
	_, err := NewResolver(testutil.NewTestLogger(), Options{}).Resolve()
	assert.Error(t, err)
}
