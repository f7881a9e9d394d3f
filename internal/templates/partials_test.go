package templates

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPartials_ClosedSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "header.tmpl"), "<header>{{.Title}}</header>")
	writeFile(t, filepath.Join(dir, "footer.tmpl"), "<footer></footer>")
	writeFile(t, filepath.Join(dir, "nav", "menu.tmpl"), "<nav></nav>")
	writeFile(t, filepath.Join(dir, "readme.txt"), "not a partial")

	set, err := LoadPartials(dir, ".tmpl")
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	require.Equal(t, []PartialID{"footer", "header", "nav/menu"}, set.IDs())

	require.True(t, set.Has("header"))
	require.True(t, set.Has("nav/menu"))
	require.False(t, set.Has("missing"))
	require.False(t, set.Has("readme"))
}

func TestLoadPartials_MissingDirIsEmptySet(t *testing.T) {
	set, err := LoadPartials(filepath.Join(t.TempDir(), "partials"), ".tmpl")
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}

func TestLoadPartials_NestedInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "header.tmpl"), `{{template "nav/menu" .}}`)
	writeFile(t, filepath.Join(dir, "nav", "menu.tmpl"), "<nav></nav>")

	set, err := LoadPartials(dir, ".tmpl")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
}

func TestLoadPartials_UnknownReferenceFailsAtLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "header.tmpl"), `{{template "missing" .}}`)

	_, err := LoadPartials(dir, ".tmpl")
	require.Error(t, err)
	require.Contains(t, err.Error(), `"header"`)
	require.Contains(t, err.Error(), `"missing"`)
}

func TestLoadPartials_ParseErrorNamesPartial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.tmpl"), "{{if}}")

	_, err := LoadPartials(dir, ".tmpl")
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken")
}

func TestReferencedTemplates_NestedBlocks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tmpl"), `{{if .X}}{{template "b" .}}{{else}}{{template "c" .}}{{end}}{{range .Items}}{{template "d" .}}{{end}}`)
	writeFile(t, filepath.Join(dir, "b.tmpl"), "b")
	writeFile(t, filepath.Join(dir, "c.tmpl"), "c")
	writeFile(t, filepath.Join(dir, "d.tmpl"), "d")

	set, err := LoadPartials(dir, ".tmpl")
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())
}
