package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Site: SiteConfig{
			Title:   "My Site",
			BaseURL: "https://example.com",
			Vars: map[string]any{
				"author": "Site Owner",
			},
		},
		Source: SourceConfig{
			Directory:   "./site",
			TemplateExt: ".tmpl",
			PartialsDir: "partials",
			AssetsDir:   "assets",
			RootFiles:   append([]string(nil), DefaultRootFiles...),
		},
		Output: OutputConfig{
			Directory: "./public",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
