package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/verify"
)

// VerifyCmd implements the 'verify' command over an already-built directory.
type VerifyCmd struct {
	Dir string `arg:"" default:"./public" help:"Built output directory to verify"`
}

func (v *VerifyCmd) Run(_ *Global, _ *CLI) error {
	findings, err := verify.VerifyDir(v.Dir)
	if err != nil {
		return fmt.Errorf("verify %s: %w", v.Dir, err)
	}
	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Println(" ", f)
		}
		return fmt.Errorf("verification failed with %d finding(s)", len(findings))
	}
	fmt.Println("Verification passed")
	return nil
}
