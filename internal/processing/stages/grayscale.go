package stages

import (
	"context"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/processing/chain"
	"pencil-sketch/internal/processing/filters"
)

// GrayscaleStage extracts the luminance layer every later stage works from.
type GrayscaleStage struct{}

func NewGrayscaleStage() *GrayscaleStage {
	return &GrayscaleStage{}
}

func (g *GrayscaleStage) Name() string {
	return "grayscale"
}

func (g *GrayscaleStage) ShouldExecute(params models.Parameters) bool {
	return true
}

func (g *GrayscaleStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	gray, err := filters.Grayscale(frame.Source)
	if err != nil {
		return err
	}

	frame.SetGray(gray)
	return nil
}
