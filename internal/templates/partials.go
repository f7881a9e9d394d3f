package templates

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template/parse"
)

// PartialID names a partial drawn from the closed set discovered under the
// partials directory. It is the slash-separated path relative to that
// directory with the template extension removed, e.g. "header" or "nav/menu".
type PartialID string

// PartialSet is the closed, discoverable set of include-only templates.
// Membership is computed once per build from a directory listing, so a
// missing-include condition is detected before execution rather than
// surfacing as a runtime failure mid-render.
type PartialSet struct {
	base *template.Template
	ids  map[PartialID]struct{}
}

// LoadPartials parses every template under partialsDir into a shared set.
// A missing directory yields an empty set, not an error.
func LoadPartials(partialsDir, templateExt string) (*PartialSet, error) {
	set := &PartialSet{
		base: template.New("partials").Option("missingkey=error"),
		ids:  make(map[PartialID]struct{}),
	}

	info, err := os.Stat(partialsDir)
	if os.IsNotExist(err) {
		return set, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("partials path is not a directory: %s", partialsDir)
	}

	err = filepath.WalkDir(partialsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), templateExt) {
			return nil
		}
		rel, err := filepath.Rel(partialsDir, path)
		if err != nil {
			return err
		}
		id := PartialID(strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)))

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read partial %s: %w", rel, err)
		}
		if _, err := set.base.New(string(id)).Parse(string(content)); err != nil {
			return fmt.Errorf("parse partial %s: %w", rel, err)
		}
		set.ids[id] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Partials may include other partials; validate those references up front
	// so a broken include is reported at load time with the offending partial.
	for id := range set.ids {
		if t := set.base.Lookup(string(id)); t != nil && t.Tree != nil {
			for _, ref := range referencedTemplates(t.Tree) {
				if !set.Has(PartialID(ref)) {
					return nil, fmt.Errorf("partial %q references unknown partial %q", id, ref)
				}
			}
		}
	}

	return set, nil
}

// Has reports whether id belongs to the set.
func (s *PartialSet) Has(id PartialID) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the sorted membership of the set.
func (s *PartialSet) IDs() []PartialID {
	ids := make([]PartialID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of partials in the set.
func (s *PartialSet) Len() int { return len(s.ids) }

// clone returns a fresh copy of the parsed set so each top-level render
// executes in isolation and bindings never leak across pages.
func (s *PartialSet) clone() (*template.Template, error) {
	c, err := s.base.Clone()
	if err != nil {
		return nil, err
	}
	// html/template.Clone does not carry options over; re-apply the one set
	// on the base in NewPartialSet.
	return c.Option("missingkey=error"), nil
}

// referencedTemplates walks a parse tree and collects the names of all
// {{template}} invocations, including those nested in if/range/with blocks.
func referencedTemplates(tree *parse.Tree) []string {
	if tree == nil || tree.Root == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var walk func(n parse.Node)
	walk = func(n parse.Node) {
		if n == nil {
			return
		}
		switch node := n.(type) {
		case *parse.ListNode:
			if node == nil {
				return
			}
			for _, child := range node.Nodes {
				walk(child)
			}
		case *parse.TemplateNode:
			seen[node.Name] = struct{}{}
		case *parse.IfNode:
			walk(node.List)
			walk(node.ElseList)
		case *parse.RangeNode:
			walk(node.List)
			walk(node.ElseList)
		case *parse.WithNode:
			walk(node.List)
			walk(node.ElseList)
		}
	}
	walk(tree.Root)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
