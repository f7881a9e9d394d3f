package site

import (
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Report captures metrics about a single build run. A run is ephemeral: the
// report exists for CLI summary and metrics only and is never written into
// the destination, which keeps output byte-identical across runs.
type Report struct {
	RunID           string
	SourceDir       string
	OutputDir       string
	Pages           int // top-level pages rendered and written
	AssetsCopied    int // files copied under assets/
	RootFilesCopied int // fixed root-level files copied
	Start           time.Time
	End             time.Time
	StageDurations  map[string]time.Duration
	Outcome         BuildOutcome
}

func newReport(sourceDir, outputDir string) *Report {
	return &Report{
		RunID:          uuid.NewString(),
		SourceDir:      sourceDir,
		OutputDir:      outputDir,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// Duration returns the total wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
