package search

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comonadd/codetemplate/internal/template"
	"github.com/comonadd/codetemplate/internal/testutil"
	"github.com/comonadd/codetemplate/internal/ui"
)

type fakeSearcher struct {
	results []*template.Meta
	err     error
	query   string
}

func (f *fakeSearcher) Search(query string) ([]*template.Meta, error) {
	f.query = query
	return f.results, f.err
}

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(prev) })
	return &buf
}

func TestSearchPrintsResults(t *testing.T) {
	buf := captureUI(t)
	searcher := &fakeSearcher{results: []*template.Meta{
		{Name: "site", Variant: template.PlainDirectory{}},
		{Name: "docs", Description: "Documentation site", Variant: template.PlainDirectory{}},
		{Name: "create-react-app", Description: "React app", Variant: template.DynamicModule{}},
		{Name: "rollup-lib", Description: "Rollup Library", Variant: template.DynamicModuleWithResources{}},
	}}

	h := newHandler(testutil.NewTestLogger(), searcher)
	require.NoError(t, h.Execute(h.ResolveInputs([]string{"Site"})))

	assert.Equal(t, "Site", searcher.query)
	out := buf.String()
	assert.Contains(t, out, `Searching "Site"`)
	assert.Contains(t, out, "[dir] site\n")
	assert.Contains(t, out, "[dir] docs: Documentation site")
	assert.Contains(t, out, "[module] create-react-app: React app")
	assert.Contains(t, out, "[module-dir] rollup-lib: Rollup Library")
	assert.Contains(t, out, "Total templates found: 4")
	assert.NotContains(t, out, "Nothing found")
}

func TestSearchAnnotatesDuplicateNamesWithRoot(t *testing.T) {
	buf := captureUI(t)
	searcher := &fakeSearcher{results: []*template.Meta{
		{Name: "site", Root: "/home/u/templates", Variant: template.PlainDirectory{}},
		{Name: "site", Root: "/usr/share/codetemplate/templates", Variant: template.PlainDirectory{}},
		{Name: "docs", Root: "/home/u/templates", Variant: template.PlainDirectory{}},
	}}

	h := newHandler(testutil.NewTestLogger(), searcher)
	require.NoError(t, h.Execute(h.ResolveInputs(nil)))

	out := buf.String()
	assert.Contains(t, out, "[dir] site (/home/u/templates)\n")
	assert.Contains(t, out, "[dir] site (/usr/share/codetemplate/templates)\n")
	assert.Contains(t, out, "[dir] docs\n")
	assert.Contains(t, out, "Total templates found: 3")
}

func TestSearchNothingFound(t *testing.T) {
	buf := captureUI(t)
	h := newHandler(testutil.NewTestLogger(), &fakeSearcher{})

	require.NoError(t, h.Execute(h.ResolveInputs(nil)))
	assert.Contains(t, buf.String(), "Nothing found")
	assert.NotContains(t, buf.String(), "Total templates found")
}

func TestSearchError(t *testing.T) {
	captureUI(t)
	boom := errors.New("user template root is not configured")
	h := newHandler(testutil.NewTestLogger(), &fakeSearcher{err: boom})

	err := h.Execute(Inputs{Query: "x"})
	require.ErrorIs(t, err, boom)
}
