// Package stages implements the sketch pipeline as chain steps:
// grayscale, composite, sharpen, refine_edges, smooth_lines, thickness.
package stages

import (
	"context"
	"errors"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/processing/chain"
)

const (
	// DivideScale is the multiplier of the color-dodge division.
	DivideScale = 256

	EdgeContrastFactor  = 2.0
	EdgeSharpnessFactor = 2.0
	EdgeBlendAlpha      = 0.5

	BilateralDiameter   = 9
	BilateralSigmaColor = 75.0
	BilateralSigmaSpace = 75.0
)

var (
	errNoGray   = errors.New("grayscale layer missing")
	errNoSketch = errors.New("sketch layer missing")
)

// NewSketchChain returns the full pipeline. workers bounds the pure-Go pixel
// passes; tracker may be nil.
func NewSketchChain(workers int, tracker *timing.Tracker) *chain.ProcessingChain {
	return chain.NewProcessingChain([]chain.Step{
		NewGrayscaleStage(),
		NewCompositeStage(workers),
		NewSharpenStage(workers),
		NewEdgeRefineStage(),
		NewSmoothStage(),
		NewThicknessStage(),
	}, tracker)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
