package templates

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PageKind distinguishes how a discovered page is rendered.
type PageKind string

const (
	KindTemplate PageKind = "template" // Go template page
	KindMarkdown PageKind = "markdown" // Markdown body wrapped in a layout partial
)

// Page is a single top-level source file that renders to one output HTML file.
type Page struct {
	Name       string   // base name without extension, e.g. "index"
	FileName   string   // base name with extension, e.g. "index.tmpl"
	Path       string   // absolute or source-relative path to the file
	Kind       PageKind
	OutputName string // destination file name, e.g. "index.html"
}

// DiscoverPages lists the top-level pages of a source directory.
//
// Discovery is a single non-recursive listing filtered by extension: files in
// subdirectories (partials, assets) are never treated as pages. Results are
// sorted by file name so processing order is stable.
func DiscoverPages(sourceDir, templateExt string) ([]Page, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}

	var pages []Page
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)

		var kind PageKind
		switch {
		case strings.EqualFold(ext, templateExt):
			kind = KindTemplate
		case strings.EqualFold(ext, ".md"):
			kind = KindMarkdown
		default:
			continue
		}

		stem := strings.TrimSuffix(name, ext)
		pages = append(pages, Page{
			Name:       stem,
			FileName:   name,
			Path:       filepath.Join(sourceDir, name),
			Kind:       kind,
			OutputName: stem + ".html",
		})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].FileName < pages[j].FileName })
	return pages, nil
}
