package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	Output string `short:"o" help:"Output directory to remove (overrides config)"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if c.Output == "" {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	_, output := resolveDirs("", c.Output, cfg)
	if err := os.RemoveAll(output); err != nil {
		return fmt.Errorf("remove output directory: %w", err)
	}
	fmt.Printf("Removed %s\n", output)
	return nil
}
