package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const envPrefix = "CODETEMPLATE_"

// IsolateEnv points the config, cache and home directories at a fresh temp
// dir and clears every CODETEMPLATE_* variable and GITHUB_TOKEN for the
// duration of the test. It returns the temp dir.
func IsolateEnv(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("HOME", base)

	unset := []string{"GITHUB_TOKEN"}
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, envPrefix) {
			unset = append(unset, name)
		}
	}
	for _, name := range unset {
		// Setenv registers the restore; Unsetenv makes the variable absent.
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return base
}
