package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type newProjectInputs struct {
	Template    string `validate:"required,template_name" cli:"template"`
	Destination string `validate:"required" cli:"destination"`
}

type addInputs struct {
	Source string `validate:"template_source" cli:"source"`
	Name   string `validate:"omitempty,template_name" cli:"--name"`
}

type fileInputs struct {
	ConfigFile string `validate:"omitempty,yaml" cli:"--config"`
	EnvFile    string `validate:"omitempty,path_read" cli:"--env-file"`
}

func assertErrorDetail(t *testing.T, v *Validator, err error, field, detail string) {
	t.Helper()
	for _, ve := range v.ParseValidationErrors(err) {
		if ve.Field == field {
			assert.Equal(t, detail, ve.Detail)
			return
		}
	}
	t.Fatalf("no validation error for %s in %v", field, err)
}

func TestNewValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Struct(&struct {
		Dir string `validate:"dir" cli:"--dir"`
	}{Dir: filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dir must be a valid existing directory")
}

func TestTemplateInputs(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	require.NoError(t, v.Struct(&newProjectInputs{Template: "rollup-lib", Destination: "out"}))
	require.NoError(t, v.Struct(&addInputs{Source: "acme/templates@v1.2.0", Name: "acme.web"}))

	err = v.Struct(&newProjectInputs{Template: "../escape", Destination: "out"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assertErrorDetail(t, v, err, "newProjectInputs.Template",
		"template must be a template name made of letters, digits, dots, dashes and underscores: ../escape")

	err = v.Struct(&newProjectInputs{Template: "ok"})
	assertErrorDetail(t, v, err, "newProjectInputs.Destination", "destination is a required field")

	err = v.Struct(&addInputs{Source: "not a source"})
	assertErrorDetail(t, v, err, "addInputs.Source", "source must be owner/repo[@ref] or a git URL: not a source")
}

func TestParseValidationErrorsMessage(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Struct(&addInputs{Source: "", Name: ".hidden"})
	require.Error(t, err)
	assert.Equal(t,
		"validation error\nsource must be owner/repo[@ref] or a git URL: \n--name must be a template name made of letters, digits, dots, dashes and underscores: .hidden\n",
		v.ParseValidationErrors(err).Error())
}

func TestFileInputs(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	dir := t.TempDir()

	good := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(good, []byte("search_paths: [a, b]\n"), 0o600))
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("key: [unclosed"), 0o600))

	assert.NoError(t, v.Struct(&fileInputs{}))
	assert.NoError(t, v.Struct(&fileInputs{ConfigFile: good, EnvFile: good}))
	assert.NoError(t, v.Struct(&fileInputs{ConfigFile: empty}))

	err = v.Struct(&fileInputs{ConfigFile: bad})
	assertErrorDetail(t, v, err, "fileInputs.ConfigFile", "--config must be a valid YAML file: "+bad)

	err = v.Struct(&fileInputs{ConfigFile: dir})
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.env")
	err = v.Struct(&fileInputs{EnvFile: missing})
	assertErrorDetail(t, v, err, "fileInputs.EnvFile", "--env-file must have read access to path: "+missing)
}

func TestIsValidTemplateName(t *testing.T) {
	valid := []string{"a", "rollup-lib", "create_react_app", "v1.2", "_private"}
	invalid := []string{"", ".hidden", "-flag", "a/b", `a\b`, "..", "has space", string(make([]byte, maxTemplateNameLength+1))}

	for _, name := range valid {
		assert.NoError(t, IsValidTemplateName(name), name)
	}
	for _, name := range invalid {
		assert.Error(t, IsValidTemplateName(name), name)
	}
}

func TestIsValidTemplateSource(t *testing.T) {
	valid := []string{
		"acme/templates",
		"acme/templates@main",
		"acme/templates@feature/x",
		"https://github.com/acme/templates.git",
		"git@github.com:acme/templates.git",
		"file:///tmp/repo",
	}
	invalid := []string{"", "acme", "acme/", "/templates", "https://", "a/b/c", "acme/templates@"}

	for _, source := range valid {
		assert.NoError(t, IsValidTemplateSource(source), source)
	}
	for _, source := range invalid {
		assert.Error(t, IsValidTemplateSource(source), source)
	}
}
