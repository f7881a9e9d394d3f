package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/site"
	"git.home.luguber.info/inful/sitegen/internal/templates"
	"git.home.luguber.info/inful/sitegen/internal/verify"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `short:"s" help:"Source directory (overrides config)"`
	Output string `short:"o" help:"Output directory for the generated site (overrides config)"`
	Verify bool   `help:"Verify generated HTML after the build"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	source, output := resolveDirs(b.Source, b.Output, cfg)
	return RunBuild(cfg, source, output, b.Verify)
}

// RunBuild executes one build run and prints per-file progress plus a final
// summary line. Any error aborts with the originating file in the message.
func RunBuild(cfg *config.Config, source, output string, verifyOutput bool) error {
	// Friendly user-facing messages go to stdout; slog goes to stderr.
	fmt.Println("Starting site build")

	builder := site.NewBuilder(cfg, source, output).
		OnPageWritten(func(page templates.Page) {
			fmt.Printf("  %s -> %s\n", page.FileName, page.OutputName)
		})

	report, err := builder.Build(context.Background())
	if err != nil {
		return err
	}

	if verifyOutput {
		findings, err := verify.VerifyDir(output)
		if err != nil {
			return fmt.Errorf("verify output: %w", err)
		}
		if len(findings) > 0 {
			for _, f := range findings {
				fmt.Println("  verify:", f)
			}
			return fmt.Errorf("verification failed with %d finding(s)", len(findings))
		}
		fmt.Println("Verification passed")
	}

	fmt.Printf("Built %d pages to %s\n", report.Pages, output)
	return nil
}
