package remove

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/templateconfig"
	"github.com/comonadd/codetemplate/internal/templaterepo"
	"github.com/comonadd/codetemplate/internal/testutil"
	"github.com/comonadd/codetemplate/internal/ui"
)

func TestRemove(t *testing.T) {
	var buf bytes.Buffer
	prev := ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(prev) })

	logger := testutil.NewTestLogger()
	cfg := &config.Config{UserDir: t.TempDir()}
	for _, name := range []string{"web", "handmade"} {
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.TemplatesDir(), name), 0o755))
	}

	ledger, err := templateconfig.Load(logger, cfg.SourcesPath())
	require.NoError(t, err)
	ledger.Add("web", templateconfig.NewEntry(templaterepo.Source{Kind: templaterepo.KindGitHub, Owner: "org", Repo: "web", Ref: "main"}, "", time.Now()))
	require.NoError(t, ledger.Save())

	h := newHandler(logger, cfg)
	inputs := Inputs{Names: []string{"web", "handmade"}}
	require.NoError(t, h.ValidateInputs(inputs))
	require.NoError(t, h.Execute(inputs))

	assert.NoDirExists(t, filepath.Join(cfg.TemplatesDir(), "web"))
	assert.DirExists(t, filepath.Join(cfg.TemplatesDir(), "handmade"))
	assert.Contains(t, buf.String(), "Removed web")
	assert.Contains(t, buf.String(), `Template "handmade" was not installed`)

	reloaded, err := templateconfig.Load(logger, cfg.SourcesPath())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Names())
}

func TestRemoveValidation(t *testing.T) {
	h := newHandler(testutil.NewTestLogger(), &config.Config{UserDir: t.TempDir()})
	require.Error(t, h.ValidateInputs(Inputs{}))
	require.Error(t, h.ValidateInputs(Inputs{Names: []string{"ok", "../escape"}}))
	require.Error(t, h.Execute(Inputs{Names: []string{"ok"}}))
}
