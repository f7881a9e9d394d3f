// Package verify checks built HTML output against a structural floor: a
// doctype declaration, html and body elements, and no unprocessed template
// syntax left behind by the render step.
package verify

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Finding is a single verification problem in one file.
type Finding struct {
	File    string
	Problem string
}

func (f Finding) String() string { return fmt.Sprintf("%s: %s", f.File, f.Problem) }

// VerifyFile checks one HTML file and returns its findings.
func VerifyFile(path string) ([]Finding, error) {
	// #nosec G304 -- path comes from walking the build output directory.
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return verifyContent(filepath.Base(path), data)
}

// VerifyReader checks HTML content from a reader, reporting findings under name.
func VerifyReader(name string, r io.Reader) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return verifyContent(name, data)
}

func verifyContent(name string, data []byte) ([]Finding, error) {
	var findings []Finding

	if bytes.Contains(data, []byte("{{")) {
		findings = append(findings, Finding{File: name, Problem: "unprocessed template syntax ({{) in output"})
	}

	// html.Parse synthesizes html/head/body nodes for any input, so element
	// presence is checked against the literal token stream; the parser is
	// used for the doctype, which it never synthesizes.
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	var hasDoctype bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.DoctypeNode {
			hasDoctype = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !hasDoctype {
		findings = append(findings, Finding{File: name, Problem: "missing doctype declaration"})
	}

	lower := bytes.ToLower(data)
	for _, el := range []string{"html", "body"} {
		if !bytes.Contains(lower, []byte("<"+el)) {
			findings = append(findings, Finding{File: name, Problem: "missing opening " + el + " tag"})
		}
		if !bytes.Contains(lower, []byte("</"+el+">")) {
			findings = append(findings, Finding{File: name, Problem: "missing closing " + el + " tag"})
		}
	}

	return findings, nil
}

// VerifyDir checks every .html file under dir (recursively) and returns all
// findings, sorted by file name for stable output.
func VerifyDir(dir string) ([]Finding, error) {
	var findings []Finding
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		found, err := VerifyFile(path)
		if err != nil {
			return err
		}
		for i := range found {
			rel, relErr := filepath.Rel(dir, path)
			if relErr == nil {
				found[i].File = filepath.ToSlash(rel)
			}
		}
		findings = append(findings, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Problem < findings[j].Problem
	})
	return findings, nil
}
