package newproject

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/manager"
	"github.com/comonadd/codetemplate/internal/testutil"
	"github.com/comonadd/codetemplate/internal/ui"
)

type fakeCreator struct {
	name, dest string
	err        error
}

func (f *fakeCreator) NewProject(_ context.Context, name, dest string) error {
	f.name, f.dest = name, dest
	return f.err
}

func TestNewProject(t *testing.T) {
	var buf bytes.Buffer
	prev := ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(prev) })

	creator := &fakeCreator{}
	h := newHandler(testutil.NewTestLogger(), creator)
	dest := filepath.Join(t.TempDir(), "app")

	inputs := h.ResolveInputs([]string{"static-site", dest})
	require.NoError(t, h.ValidateInputs(inputs))
	require.NoError(t, h.Execute(context.Background(), inputs))

	assert.Equal(t, "static-site", creator.name)
	assert.Equal(t, dest, creator.dest)
	assert.Contains(t, buf.String(), `Creating new project with template "static-site"`)
	assert.Contains(t, buf.String(), "Project created at "+dest)
}

func TestNewProjectRelativeDestination(t *testing.T) {
	t.Chdir(t.TempDir())
	creator := &fakeCreator{}
	h := newHandler(testutil.NewTestLogger(), creator)

	inputs := h.ResolveInputs([]string{"static-site", "app"})
	require.NoError(t, h.ValidateInputs(inputs))
	require.NoError(t, h.Execute(context.Background(), inputs))
	assert.True(t, filepath.IsAbs(creator.dest))
	assert.Equal(t, "app", filepath.Base(creator.dest))
}

func TestNewProjectPropagatesFailure(t *testing.T) {
	creator := &fakeCreator{err: fmt.Errorf("%w: %q", manager.ErrTemplateNotFound, "nope")}
	h := newHandler(testutil.NewTestLogger(), creator)

	inputs := h.ResolveInputs([]string{"nope", t.TempDir() + "/x"})
	require.NoError(t, h.ValidateInputs(inputs))
	err := h.Execute(context.Background(), inputs)
	require.ErrorIs(t, err, manager.ErrTemplateNotFound)
	assert.True(t, manager.IsRecoverable(err))
}

func TestNewProjectValidation(t *testing.T) {
	h := newHandler(testutil.NewTestLogger(), &fakeCreator{})

	tests := []struct {
		name   string
		inputs Inputs
	}{
		{"empty template", Inputs{Destination: "x"}},
		{"template with separator", Inputs{Template: "../evil", Destination: "x"}},
		{"hidden template", Inputs{Template: ".git", Destination: "x"}},
		{"empty destination", Inputs{Template: "site"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, h.ValidateInputs(tt.inputs))
		})
	}

	err := h.Execute(context.Background(), Inputs{Template: "site", Destination: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not validated")
}
