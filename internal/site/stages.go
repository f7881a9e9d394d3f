package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing stage and cause.
// Every stage failure aborts the run: the builder has no partial-failure
// tolerance, since every configured page is part of the published site.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// buildState carries mutable state across stages of one run.
type buildState struct {
	builder  *Builder
	report   *Report
	partials *templates.PartialSet
	pages    []templates.Page
	renderer *templates.Renderer
	rendered map[string]string // output file name -> rendered HTML
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timings and stopping on the
// first error. Cancellation is observed between stages.
func runStages(ctx context.Context, bs *buildState, recorder metrics.Recorder, stages []namedStage) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[st.name] = dur
		recorder.ObserveStageDuration(st.name, dur)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = newFatalStageError(st.name, err)
			}
			switch se.Kind {
			case StageErrorCanceled:
				recorder.IncStageResult(st.name, metrics.ResultCanceled)
			default:
				recorder.IncStageResult(st.name, metrics.ResultFatal)
			}
			return se
		}
		recorder.IncStageResult(st.name, metrics.ResultSuccess)
	}
	return nil
}
