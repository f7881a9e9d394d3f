package site

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

type captureRecorder struct {
	metrics.NoopRecorder
	stageResults map[string]metrics.ResultLabel
	outcomes     []string
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{stageResults: make(map[string]metrics.ResultLabel)}
}

func (c *captureRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	c.stageResults[stage] = result
}

func (c *captureRecorder) IncBuildOutcome(outcome string) {
	c.outcomes = append(c.outcomes, outcome)
}

func testState() *buildState {
	return &buildState{report: newReport("src", "dest")}
}

func TestRunStages_StopsOnFirstError(t *testing.T) {
	bs := testState()
	rec := newCaptureRecorder()
	ran := []string{}

	err := runStages(context.Background(), bs, rec, []namedStage{
		{"one", func(context.Context, *buildState) error { ran = append(ran, "one"); return nil }},
		{"two", func(context.Context, *buildState) error { ran = append(ran, "two"); return errors.New("boom") }},
		{"three", func(context.Context, *buildState) error { ran = append(ran, "three"); return nil }},
	})

	require.Error(t, err)
	require.Equal(t, []string{"one", "two"}, ran)

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorFatal, se.Kind)
	require.Equal(t, "two", se.Stage)

	require.Equal(t, metrics.ResultSuccess, rec.stageResults["one"])
	require.Equal(t, metrics.ResultFatal, rec.stageResults["two"])
	require.NotContains(t, rec.stageResults, "three")
}

func TestRunStages_PreservesStageErrorKind(t *testing.T) {
	bs := testState()
	canceled := newCanceledStageError("mid", context.Canceled)

	err := runStages(context.Background(), bs, metrics.NoopRecorder{}, []namedStage{
		{"mid", func(context.Context, *buildState) error { return canceled }},
	})

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorCanceled, se.Kind)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunStages_RecordsTimings(t *testing.T) {
	bs := testState()

	err := runStages(context.Background(), bs, metrics.NoopRecorder{}, []namedStage{
		{"sleepy", func(context.Context, *buildState) error { time.Sleep(time.Millisecond); return nil }},
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, bs.report.StageDurations["sleepy"], time.Millisecond)
}

func TestRunStages_CanceledBetweenStages(t *testing.T) {
	bs := testState()
	ctx, cancel := context.WithCancel(context.Background())

	err := runStages(ctx, bs, metrics.NoopRecorder{}, []namedStage{
		{"first", func(context.Context, *buildState) error { cancel(); return nil }},
		{"second", func(context.Context, *buildState) error { t.Fatal("second stage must not run"); return nil }},
	})

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, StageErrorCanceled, se.Kind)
	require.Equal(t, "second", se.Stage)
}
