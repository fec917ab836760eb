package list

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/config"
	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/templateconfig"
	"github.com/comonadd/codetemplate/internal/templaterepo"
	"github.com/comonadd/codetemplate/internal/testutil"
	"github.com/comonadd/codetemplate/internal/ui"
)

type fakeLister struct {
	metas []*template.Meta
}

func (f *fakeLister) List() ([]*template.Meta, error) { return f.metas, nil }

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(prev) })
	return &buf
}

func TestListShowsOrigins(t *testing.T) {
	buf := captureUI(t)
	cfg := &config.Config{UserDir: t.TempDir()}
	require.NoError(t, os.MkdirAll(cfg.TemplatesDir(), 0o755))

	ledger, err := templateconfig.Load(testutil.NewTestLogger(), cfg.SourcesPath())
	require.NoError(t, err)
	ledger.Add("web", templateconfig.NewEntry(templaterepo.Source{Kind: templaterepo.KindGitHub, Owner: "org", Repo: "templates", Ref: "main"}, "web", time.Now()))
	require.NoError(t, ledger.Save())

	bundledDir := filepath.Join(t.TempDir(), "bundled")
	lister := &fakeLister{metas: []*template.Meta{
		{Name: "web", Root: cfg.TemplatesDir(), Description: "Web site", Variant: template.PlainDirectory{}},
		{Name: "mine", Root: cfg.TemplatesDir(), Variant: template.PlainDirectory{}},
		{Name: "rollup-lib", Root: bundledDir, Description: "Rollup Library", Variant: template.DynamicModuleWithResources{}},
	}}

	h := newHandler(testutil.NewTestLogger(), lister, cfg)
	require.NoError(t, h.Execute())

	out := buf.String()
	assert.Contains(t, out, "Available Templates")
	assert.Contains(t, out, "org/templates@main (web)")
	assert.Contains(t, out, "module-dir")
	assert.Contains(t, out, bundledDir)
	assert.Contains(t, out, "NAME")

	// Rows are sorted by name.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("mine")), bytes.Index(buf.Bytes(), []byte("rollup-lib")))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("rollup-lib")), bytes.Index(buf.Bytes(), []byte("Web site")))
}

func TestListEmpty(t *testing.T) {
	buf := captureUI(t)
	h := newHandler(testutil.NewTestLogger(), &fakeLister{}, &config.Config{UserDir: t.TempDir()})

	require.NoError(t, h.Execute())
	assert.Contains(t, buf.String(), "No templates found")
}
