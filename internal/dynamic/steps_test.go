package dynamic

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepsManifest = `
description: steps demo
generator:
  steps:
    - ask: {var: ts, message: "Use TypeScript?", type: bool}
    - ask: {var: src, message: "Source directory", default: src}
    - mkdir: ${src}
    - render:
        from: main.tpl
        to: ${src}/main.ts
      when: ts
    - copy:
        from: main.js
        to: ${src}/main.js
      when: "!ts"
    - run: [npm, init, -y]
    - run: [git, init, $name]
      dir: ${src}
`

func setupSteps(t *testing.T) (Module, string, string) {
	t.Helper()
	dir := t.TempDir()
	res := filepath.Join(dir, "resources")
	require.NoError(t, os.MkdirAll(res, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(res, "main.tpl"), []byte("// ${name} in ${src}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(res, "main.js"), []byte("console.log(1)\n"), 0o600))

	path := writeManifest(t, dir, EntryFile, stepsManifest)
	mod, err := newEvaluator(nil, nil, "").Evaluate(path)
	require.NoError(t, err)
	return mod, res, filepath.Join(t.TempDir(), "proj")
}

func TestStepsGeneratorTypeScript(t *testing.T) {
	mod, res, dest := setupSteps(t)
	svc := &FakeServices{Dest: dest, Resources: res, Bools: []bool{true}, Strings: []string{""}}

	ok, err := mod.Generate(context.Background(), GenerateRequest{Destination: dest, ResourcesRoot: res, Services: svc})
	require.NoError(t, err)
	assert.True(t, ok)

	content, err := os.ReadFile(filepath.Join(dest, "src", "main.ts"))
	require.NoError(t, err)
	assert.Equal(t, "// proj in src\n", string(content))
	assert.NoFileExists(t, filepath.Join(dest, "src", "main.js"))

	assert.Equal(t, []RunCall{
		{Dir: "", Name: "npm", Args: []string{"init", "-y"}},
		{Dir: "src", Name: "git", Args: []string{"init", "proj"}},
	}, svc.Runs)
}

func TestStepsGeneratorJavaScript(t *testing.T) {
	mod, res, dest := setupSteps(t)
	svc := &FakeServices{Dest: dest, Resources: res, Bools: []bool{false}, Strings: []string{"lib"}}

	ok, err := mod.Generate(context.Background(), GenerateRequest{Destination: dest, ResourcesRoot: res, Services: svc})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.FileExists(t, filepath.Join(dest, "lib", "main.js"))
	assert.NoFileExists(t, filepath.Join(dest, "lib", "main.ts"))
}

func TestStepsGeneratorPromptFailure(t *testing.T) {
	mod, res, dest := setupSteps(t)
	svc := &FakeServices{Dest: dest, Resources: res}

	ok, err := mod.Generate(context.Background(), GenerateRequest{Destination: dest, ResourcesRoot: res, Services: svc})
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, svc.Runs)
}

func TestStepsUnknownWhenVariable(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "t.yaml", "description: d\ngenerator:\n  steps:\n    - mkdir: x\n      when: missing\n")
	mod, err := newEvaluator(nil, nil, "").Evaluate(path)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out")
	ok, err := mod.Generate(context.Background(), GenerateRequest{Destination: dest, Services: &FakeServices{Dest: dest}})
	assert.ErrorContains(t, err, "unknown variable")
	assert.False(t, ok)
}

func TestEnabled(t *testing.T) {
	vars := map[string]string{"yes": "true", "no": "false", "word": "maybe"}

	tests := []struct {
		when    string
		want    bool
		wantErr bool
	}{
		{when: "", want: true},
		{when: "yes", want: true},
		{when: "!yes", want: false},
		{when: "no", want: false},
		{when: "!no", want: true},
		{when: "word", wantErr: true},
		{when: "absent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.when, func(t *testing.T) {
			got, err := enabled(tt.when, vars)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
