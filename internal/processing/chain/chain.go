package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/safe"
)

// Frame carries the working images between steps. Source belongs to the
// caller and is never written or closed; Gray and Sketch belong to the
// frame.
type Frame struct {
	Source *safe.Mat
	Gray   *safe.Mat
	Sketch *safe.Mat
}

// SetGray replaces the luminance layer, releasing the previous one.
func (f *Frame) SetGray(m *safe.Mat) {
	if f.Gray != nil && f.Gray != m {
		f.Gray.Close()
	}
	f.Gray = m
}

// SetSketch replaces the sketch, releasing the previous one.
func (f *Frame) SetSketch(m *safe.Mat) {
	if f.Sketch != nil && f.Sketch != m {
		f.Sketch.Close()
	}
	f.Sketch = m
}

// Release closes every Mat the frame owns.
func (f *Frame) Release() {
	f.SetGray(nil)
	f.SetSketch(nil)
}

type Step interface {
	Apply(ctx context.Context, frame *Frame, params models.Parameters) error
	Name() string
	ShouldExecute(params models.Parameters) bool
}

type ProcessingChain struct {
	steps   []Step
	tracker *timing.Tracker
}

// NewProcessingChain builds a chain. tracker may be nil.
func NewProcessingChain(steps []Step, tracker *timing.Tracker) *ProcessingChain {
	return &ProcessingChain{
		steps:   steps,
		tracker: tracker,
	}
}

// Execute runs every enabled step against source. On success the caller owns
// the returned frame and must Release it.
func (pc *ProcessingChain) Execute(ctx context.Context, source *safe.Mat, params models.Parameters) (*Frame, error) {
	if err := safe.ValidateMatForOperation(source, "processing chain"); err != nil {
		return nil, err
	}

	frame := &Frame{Source: source}

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			frame.Release()
			return nil, ctx.Err()
		default:
		}

		if !step.ShouldExecute(params) {
			continue
		}

		var stop func() time.Duration
		if pc.tracker != nil {
			stop = pc.tracker.Start(step.Name())
		}

		err := step.Apply(ctx, frame, params)

		if stop != nil {
			stop()
		}

		if err != nil {
			frame.Release()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}
	}

	if frame.Sketch == nil {
		frame.Release()
		return nil, errors.New("processing chain produced no sketch")
	}

	return frame, nil
}

// StepNames lists every step in execution order, including ones the current
// parameters would skip.
func (pc *ProcessingChain) StepNames() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.Name()
	}
	return names
}
