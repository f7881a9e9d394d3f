package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the static site from the configured source directory"`
	Serve  ServeCmd  `cmd:"" help:"Serve the site locally and rebuild on source changes"`
	Clean  CleanCmd  `cmd:"" help:"Remove the output directory"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file and example source tree"`
	Verify VerifyCmd `cmd:"" help:"Verify generated HTML in an output directory"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// resolveDirs determines the final source and output directories from CLI
// flags and config. Flags win over config.
func resolveDirs(cliSource, cliOutput string, cfg *config.Config) (source, output string) {
	source = cfg.Source.Directory
	if cliSource != "" {
		source = cliSource
	}
	output = cfg.Output.Directory
	if cliOutput != "" {
		output = cliOutput
	}
	return source, output
}
