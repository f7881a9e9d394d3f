package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// ServeCmd implements the 'serve' command: local preview with rebuild on change.
type ServeCmd struct {
	Source  string `short:"s" help:"Source directory (overrides config)"`
	Output  string `short:"o" help:"Output directory for the generated site (defaults to temp)"`
	Port    int    `short:"p" default:"8080" help:"Preview server port"`
	Metrics bool   `help:"Expose Prometheus metrics on /metrics"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	// Setup signal-based context for graceful shutdown
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(root.Config)
	if err != nil {
		// serve is usable without a config file; fall back to defaults.
		slog.Warn("config not loaded, using defaults", "error", err)
		cfg = config.Default()
	}

	source, output := resolveDirs(s.Source, s.Output, cfg)

	// Without an explicit -o, build into a temp directory so a casual
	// preview never clobbers a real output tree.
	tempOut := ""
	if s.Output == "" {
		tmp, err := os.MkdirTemp("", "sitegen-preview-*")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		output = tmp
		tempOut = tmp
		fmt.Println("Preview output directory:", output)
	}
	defer func() {
		if tempOut != "" {
			if err := os.RemoveAll(tempOut); err != nil {
				slog.Warn("failed to remove temp output", "dir", tempOut, "error", err)
			}
		}
	}()

	server := preview.NewServer(cfg, source, output, preview.Options{
		Port:          s.Port,
		EnableMetrics: s.Metrics,
	})
	return server.Run(sigctx)
}
