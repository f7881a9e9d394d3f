package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// SiteMeta is the site-wide data exposed to every render as .Site.
type SiteMeta struct {
	Title   string
	BaseURL string
}

// PageMeta is the per-page data exposed to a render as .Page.
type PageMeta struct {
	Name       string
	OutputName string
	Title      string
}

// Renderer renders discovered pages against a partial set. Each top-level
// render receives an explicit variable mapping and executes against a fresh
// clone of the partials, so no state is shared across pages.
type Renderer struct {
	partials      *PartialSet
	site          SiteMeta
	globals       map[string]any
	defaultLayout PartialID
}

// NewRenderer constructs a Renderer. globals are config-level variable
// defaults merged under each page's front matter.
func NewRenderer(partials *PartialSet, site SiteMeta, globals map[string]any, defaultLayout PartialID) *Renderer {
	return &Renderer{
		partials:      partials,
		site:          site,
		globals:       globals,
		defaultLayout: defaultLayout,
	}
}

var titleCaser = cases.Title(language.English)

// RenderPage renders one page to its final HTML string. All failures are
// reported as render errors naming the page file.
func (r *Renderer) RenderPage(page Page) (string, error) {
	content, err := os.ReadFile(page.Path)
	if err != nil {
		return "", siteerrors.RenderFailed(page.FileName, err)
	}

	vars, body, err := SplitFrontMatter(content)
	if err != nil {
		return "", siteerrors.RenderFailed(page.FileName, err)
	}

	data := r.buildContext(page, vars)

	var out string
	switch page.Kind {
	case KindMarkdown:
		out, err = r.renderMarkdown(page, body, vars, data)
	default:
		out, err = r.renderTemplate(page, body, data)
	}
	if err != nil {
		return "", siteerrors.RenderFailed(page.FileName, err)
	}
	return out, nil
}

// buildContext assembles the explicit render context for one page: global
// defaults, overlaid by front matter, plus the Site and Page builtins.
func (r *Renderer) buildContext(page Page, vars map[string]any) map[string]any {
	data := make(map[string]any, len(r.globals)+len(vars)+2)
	for k, v := range r.globals {
		data[k] = v
	}
	for k, v := range vars {
		data[k] = v
	}

	title := pageTitle(page, vars)
	data["Site"] = r.site
	data["Page"] = PageMeta{Name: page.Name, OutputName: page.OutputName, Title: title}
	if _, ok := data["Title"]; !ok {
		data["Title"] = title
	}
	return data
}

// renderTemplate parses the page body into a clone of the partial set and
// executes it. Unknown includes are rejected before execution by checking the
// page's parse tree against the closed partial set.
func (r *Renderer) renderTemplate(page Page, body []byte, data map[string]any) (string, error) {
	set, err := r.partials.clone()
	if err != nil {
		return "", fmt.Errorf("clone partials: %w", err)
	}

	tpl, err := set.New(page.FileName).Parse(string(body))
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	for _, ref := range referencedTemplates(tpl.Tree) {
		if !r.partials.Has(PartialID(ref)) {
			return "", fmt.Errorf("references unknown partial %q (known: %v)", ref, r.partials.IDs())
		}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// renderMarkdown converts the Markdown body to HTML and injects it into the
// page's layout partial as a pre-escaped .Content value.
func (r *Renderer) renderMarkdown(page Page, body []byte, vars map[string]any, data map[string]any) (string, error) {
	rendered, err := MarkdownToHTML(body)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	data["Content"] = template.HTML(rendered)

	layout := r.defaultLayout
	if v, ok := vars["layout"].(string); ok && v != "" {
		layout = PartialID(v)
	}

	if !r.partials.Has(layout) {
		if layout == r.defaultLayout && r.partials.Len() == 0 {
			// Source trees without partials still get a valid page.
			return renderFallbackShell(data)
		}
		return "", fmt.Errorf("layout partial %q not found (known: %v)", layout, r.partials.IDs())
	}

	set, err := r.partials.clone()
	if err != nil {
		return "", fmt.Errorf("clone partials: %w", err)
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, string(layout), data); err != nil {
		return "", fmt.Errorf("execute layout %q: %w", layout, err)
	}
	return buf.String(), nil
}

const fallbackShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Content}}
</body>
</html>
`

var fallbackTemplate = template.Must(template.New("fallback").Parse(fallbackShell))

func renderFallbackShell(data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute fallback shell: %w", err)
	}
	return buf.String(), nil
}

// pageTitle resolves a page's display title: front matter wins, otherwise the
// file stem is title-cased ("getting-started" becomes "Getting Started").
func pageTitle(page Page, vars map[string]any) string {
	if v, ok := vars["title"].(string); ok && v != "" {
		return v
	}
	stem := page.Name
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.ReplaceAll(stem, "_", " ")
	return titleCaser.String(stem)
}
