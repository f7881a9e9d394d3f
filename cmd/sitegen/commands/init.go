package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force    bool `help:"Overwrite existing configuration file"`
	Scaffold bool `default:"true" negatable:"" help:"Also create an example source tree"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Println("Initializing sitegen project")
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}

	if i.Scaffold {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return fmt.Errorf("reload config: %w", err)
		}
		if err := scaffoldSource(cfg); err != nil {
			return fmt.Errorf("scaffold source tree: %w", err)
		}
		fmt.Printf("Example source tree created in %s\n", cfg.Source.Directory)
	}

	fmt.Println("initialized successfully")
	return nil
}

// scaffoldSource writes a small working example: two pages, shared partials,
// and a stylesheet. Existing files are never overwritten.
func scaffoldSource(cfg *config.Config) error {
	root := cfg.Source.Directory
	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(root, "index"+cfg.Source.TemplateExt), exampleIndex},
		{filepath.Join(root, "about.md"), exampleAbout},
		{filepath.Join(root, cfg.Source.PartialsDir, "header"+cfg.Source.TemplateExt), exampleHeader},
		{filepath.Join(root, cfg.Source.PartialsDir, "footer"+cfg.Source.TemplateExt), exampleFooter},
		{filepath.Join(root, cfg.Source.PartialsDir, "layout"+cfg.Source.TemplateExt), exampleLayout},
		{filepath.Join(root, cfg.Source.AssetsDir, "css", "style.css"), exampleCSS},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

const exampleIndex = `---
title: Home
---
{{template "header" .}}
<main>
  <h1>{{.Title}}</h1>
  <p>Welcome to {{.Site.Title}}.</p>
</main>
{{template "footer" .}}
`

const exampleAbout = `---
title: About
---
# About

This page is written in Markdown and wrapped in the layout partial.
`

const exampleHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Page.Title}} - {{.Site.Title}}</title>
<link rel="stylesheet" href="assets/css/style.css">
</head>
<body>
`

const exampleFooter = `</body>
</html>
`

const exampleLayout = `{{template "header" .}}
<main>
{{.Content}}
</main>
{{template "footer" .}}
`

const exampleCSS = `body {
  font-family: sans-serif;
  margin: 2rem auto;
  max-width: 42rem;
}
`
