package stages

import (
	"context"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/processing/chain"
	"pencil-sketch/internal/processing/filters"
)

// ThicknessStage darkens or lightens strokes with a final contrast change.
// The pivot is the sketch's mean luminance, not mid-gray 128, so on a
// mostly white page the paper stays put while the strokes move.
type ThicknessStage struct{}

func NewThicknessStage() *ThicknessStage {
	return &ThicknessStage{}
}

func (t *ThicknessStage) Name() string {
	return "thickness"
}

func (t *ThicknessStage) ShouldExecute(params models.Parameters) bool {
	return params.ThicknessLevel != 1
}

func (t *ThicknessStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if frame.Sketch == nil {
		return errNoSketch
	}

	adjusted, err := filters.Contrast(frame.Sketch, params.ThicknessLevel)
	if err != nil {
		return err
	}

	frame.SetSketch(adjusted)
	return nil
}
