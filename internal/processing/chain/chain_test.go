package chain

import (
	"context"
	"errors"
	"testing"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type recordingStep struct {
	name    string
	enabled bool
	err     error
	calls   *[]string
	produce bool
	cancel  context.CancelFunc
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) ShouldExecute(models.Parameters) bool { return s.enabled }

func (s *recordingStep) Apply(ctx context.Context, frame *Frame, params models.Parameters) error {
	*s.calls = append(*s.calls, s.name)
	if s.cancel != nil {
		s.cancel()
	}
	if s.err != nil {
		return s.err
	}
	if s.produce {
		m, err := safe.NewMat(frame.Source.Rows(), frame.Source.Cols(), gocv.MatTypeCV8UC1)
		if err != nil {
			return err
		}
		frame.SetSketch(m)
	}
	return nil
}

func newSource(t *testing.T) *safe.Mat {
	t.Helper()
	m, err := safe.NewMat(4, 4, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestExecuteRunsEnabledStepsInOrder(t *testing.T) {
	var calls []string
	tracker := timing.NewTracker(nil)
	pc := NewProcessingChain([]Step{
		&recordingStep{name: "first", enabled: true, calls: &calls, produce: true},
		&recordingStep{name: "skipped", enabled: false, calls: &calls},
		&recordingStep{name: "second", enabled: true, calls: &calls, produce: true},
	}, tracker)

	frame, err := pc.Execute(context.Background(), newSource(t), models.DefaultParameters())
	require.NoError(t, err)
	defer frame.Release()

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.True(t, frame.Sketch.IsValid())

	stages := tracker.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, "first", stages[0].Name)
	assert.Equal(t, "second", stages[1].Name)
}

func TestSetSketchReleasesPrevious(t *testing.T) {
	source := newSource(t)
	frame := &Frame{Source: source}

	first, err := safe.NewMat(2, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	second, err := safe.NewMat(2, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)

	frame.SetSketch(first)
	frame.SetSketch(second)
	assert.False(t, first.IsValid())
	assert.True(t, second.IsValid())

	frame.Release()
	assert.False(t, second.IsValid())
	assert.True(t, source.IsValid())
}

func TestExecuteWrapsStepError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	pc := NewProcessingChain([]Step{
		&recordingStep{name: "ok", enabled: true, calls: &calls, produce: true},
		&recordingStep{name: "broken", enabled: true, calls: &calls, err: boom},
		&recordingStep{name: "never", enabled: true, calls: &calls},
	}, nil)

	_, err := pc.Execute(context.Background(), newSource(t), models.DefaultParameters())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step broken failed")
	assert.Equal(t, []string{"ok", "broken"}, calls)
}

func TestExecuteStopsOnCancellation(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pc := NewProcessingChain([]Step{
		&recordingStep{name: "cancels", enabled: true, calls: &calls, produce: true, cancel: cancel},
		&recordingStep{name: "after", enabled: true, calls: &calls},
	}, nil)

	_, err := pc.Execute(ctx, newSource(t), models.DefaultParameters())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"cancels"}, calls)
}

func TestExecuteWithoutSketchFails(t *testing.T) {
	var calls []string
	pc := NewProcessingChain([]Step{
		&recordingStep{name: "noop", enabled: true, calls: &calls},
	}, nil)

	_, err := pc.Execute(context.Background(), newSource(t), models.DefaultParameters())
	assert.Error(t, err)
}

func TestExecuteRejectsClosedSource(t *testing.T) {
	source, err := safe.NewMat(2, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	source.Close()

	pc := NewProcessingChain(nil, nil)
	_, err = pc.Execute(context.Background(), source, models.DefaultParameters())
	assert.Error(t, err)
}
