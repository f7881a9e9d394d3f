package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
}

// SiteConfig carries site-wide metadata exposed to every render.
type SiteConfig struct {
	Title   string         `yaml:"title"`
	BaseURL string         `yaml:"base_url,omitempty"`
	Vars    map[string]any `yaml:"vars,omitempty"` // global variable defaults, merged under page vars
}

// SourceConfig describes the layout of the source tree.
type SourceConfig struct {
	Directory     string   `yaml:"directory"`
	TemplateExt   string   `yaml:"template_ext,omitempty"`
	PartialsDir   string   `yaml:"partials_dir,omitempty"`
	AssetsDir     string   `yaml:"assets_dir,omitempty"`
	RootFiles     []string `yaml:"root_files,omitempty"` // fixed root-level files copied verbatim if present
	DefaultLayout string   `yaml:"default_layout,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// DefaultRootFiles is the fixed set of root-level files copied verbatim when
// no root_files list is configured.
var DefaultRootFiles = []string{
	"favicon.ico",
	"favicon.svg",
	"favicon-96x96.png",
	"apple-touch-icon.png",
	"robots.txt",
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is not an error.
	if err := godotenv.Load(".env", ".env.local"); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, siteerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns a configuration with all defaults applied, used by commands
// that run without a config file (e.g. serve over an ad-hoc directory).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Site"
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "/"
	}
	if c.Source.Directory == "" {
		c.Source.Directory = "./site"
	}
	if c.Source.TemplateExt == "" {
		c.Source.TemplateExt = ".tmpl"
	}
	if c.Source.PartialsDir == "" {
		c.Source.PartialsDir = "partials"
	}
	if c.Source.AssetsDir == "" {
		c.Source.AssetsDir = "assets"
	}
	if len(c.Source.RootFiles) == 0 {
		c.Source.RootFiles = append([]string(nil), DefaultRootFiles...)
	}
	if c.Source.DefaultLayout == "" {
		c.Source.DefaultLayout = "layout"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
}
