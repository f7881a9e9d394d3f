package templates

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func testRenderer(t *testing.T, src string, globals map[string]any) *Renderer {
	t.Helper()
	set, err := LoadPartials(filepath.Join(src, "partials"), ".tmpl")
	require.NoError(t, err)
	return NewRenderer(set, SiteMeta{Title: "Test Site", BaseURL: "/"}, globals, "layout")
}

func discoverOne(t *testing.T, src, fileName string) Page {
	t.Helper()
	pages, err := DiscoverPages(src, ".tmpl")
	require.NoError(t, err)
	for _, p := range pages {
		if p.FileName == fileName {
			return p
		}
	}
	t.Fatalf("page %s not discovered", fileName)
	return Page{}
}

func TestRenderPage_IncludeAndVariables(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "partials", "header.tmpl"), "<h1>{{.Title}} | {{.Site.Title}}</h1>")
	writeFile(t, filepath.Join(src, "index.tmpl"), "---\ntitle: Home\n---\n{{template \"header\" .}}<p>body</p>")

	r := testRenderer(t, src, nil)
	out, err := r.RenderPage(discoverOne(t, src, "index.tmpl"))
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Home | Test Site</h1>")
	require.Contains(t, out, "<p>body</p>")
	require.NotContains(t, out, "{{")
}

func TestRenderPage_BindingsDoNotLeakAcrossPages(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.tmpl"), "---\ntitle: Alpha\ncustom: special\n---\n{{.custom}}")
	writeFile(t, filepath.Join(src, "b.tmpl"), "---\ntitle: Beta\n---\n{{.Title}}")

	r := testRenderer(t, src, nil)

	outA, err := r.RenderPage(discoverOne(t, src, "a.tmpl"))
	require.NoError(t, err)
	require.Contains(t, outA, "special")

	// b must not see a's binding; it renders from its own context only.
	outB, err := r.RenderPage(discoverOne(t, src, "b.tmpl"))
	require.NoError(t, err)
	require.Contains(t, outB, "Beta")
	require.NotContains(t, outB, "special")
}

func TestRenderPage_GlobalsMergedUnderPageVars(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.tmpl"), "---\nauthor: Page Author\n---\n{{.author}}")
	writeFile(t, filepath.Join(src, "b.tmpl"), "{{.author}}")

	r := testRenderer(t, src, map[string]any{"author": "Global Author"})

	outA, err := r.RenderPage(discoverOne(t, src, "a.tmpl"))
	require.NoError(t, err)
	require.Contains(t, outA, "Page Author")

	outB, err := r.RenderPage(discoverOne(t, src, "b.tmpl"))
	require.NoError(t, err)
	require.Contains(t, outB, "Global Author")
}

func TestRenderPage_UnknownPartialFailsBeforeExecution(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.tmpl"), `{{template "missing" .}}`)

	r := testRenderer(t, src, nil)
	_, err := r.RenderPage(discoverOne(t, src, "index.tmpl"))
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryRender))
	require.Contains(t, err.Error(), "index.tmpl")
	require.Contains(t, err.Error(), `"missing"`)
}

func TestRenderPage_UndefinedVariableFails(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.tmpl"), "{{.undefined}}")

	r := testRenderer(t, src, nil)
	_, err := r.RenderPage(discoverOne(t, src, "index.tmpl"))
	require.Error(t, err)
	require.True(t, siteerrors.IsCategory(err, siteerrors.CategoryRender))
}

func TestRenderPage_DefaultTitleFromStem(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "getting-started.tmpl"), "{{.Title}}")

	r := testRenderer(t, src, nil)
	out, err := r.RenderPage(discoverOne(t, src, "getting-started.tmpl"))
	require.NoError(t, err)
	require.Contains(t, out, "Getting Started")
}

func TestRenderPage_MarkdownWithLayout(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "partials", "layout.tmpl"),
		"<!DOCTYPE html>\n<html><body>{{.Content}}</body></html>")
	writeFile(t, filepath.Join(src, "about.md"), "---\ntitle: About\n---\n# Heading\n\nSome *text*.\n")

	r := testRenderer(t, src, nil)
	out, err := r.RenderPage(discoverOne(t, src, "about.md"))
	require.NoError(t, err)
	require.Contains(t, out, "<h1>Heading</h1>")
	require.Contains(t, out, "<em>text</em>")
	require.Contains(t, out, "<!DOCTYPE html>")
}

func TestRenderPage_MarkdownCustomLayout(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "partials", "layout.tmpl"), "default")
	writeFile(t, filepath.Join(src, "partials", "wide.tmpl"),
		`<html><body class="wide">{{.Content}}</body></html>`)
	writeFile(t, filepath.Join(src, "page.md"), "---\nlayout: wide\n---\ncontent\n")

	r := testRenderer(t, src, nil)
	out, err := r.RenderPage(discoverOne(t, src, "page.md"))
	require.NoError(t, err)
	require.Contains(t, out, `class="wide"`)
}

func TestRenderPage_MarkdownMissingLayoutFails(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "partials", "layout.tmpl"), "default")
	writeFile(t, filepath.Join(src, "page.md"), "---\nlayout: nope\n---\ncontent\n")

	r := testRenderer(t, src, nil)
	_, err := r.RenderPage(discoverOne(t, src, "page.md"))
	require.Error(t, err)
	require.Contains(t, err.Error(), `"nope"`)
}

func TestRenderPage_MarkdownFallbackShellWithoutPartials(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "page.md"), "---\ntitle: Solo\n---\nbody text\n")

	r := testRenderer(t, src, nil)
	out, err := r.RenderPage(discoverOne(t, src, "page.md"))
	require.NoError(t, err)
	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, "<title>Solo</title>")
	require.Contains(t, out, "body text")
}
