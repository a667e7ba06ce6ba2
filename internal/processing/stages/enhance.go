package stages

import (
	"context"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/processing/chain"
	"pencil-sketch/internal/processing/filters"
)

// SharpenStage applies an unsharp mask whose radius depends on the style.
type SharpenStage struct {
	workers int
}

func NewSharpenStage(workers int) *SharpenStage {
	return &SharpenStage{workers: workers}
}

func (s *SharpenStage) Name() string {
	return "sharpen"
}

func (s *SharpenStage) ShouldExecute(params models.Parameters) bool {
	return params.SharpnessLevel > 0
}

func (s *SharpenStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if frame.Sketch == nil {
		return errNoSketch
	}

	sharpened, err := filters.UnsharpMask(frame.Sketch,
		float64(params.Style.SharpenRadius()),
		params.SharpnessLevel,
		filters.DefaultUnsharpThreshold,
		s.workers)
	if err != nil {
		return err
	}

	frame.SetSketch(sharpened)
	return nil
}

// EdgeRefineStage overlays a boosted edge map of the gray layer.
type EdgeRefineStage struct{}

func NewEdgeRefineStage() *EdgeRefineStage {
	return &EdgeRefineStage{}
}

func (e *EdgeRefineStage) Name() string {
	return "refine_edges"
}

func (e *EdgeRefineStage) ShouldExecute(params models.Parameters) bool {
	return params.RefineEdges
}

func (e *EdgeRefineStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if frame.Gray == nil {
		return errNoGray
	}
	if frame.Sketch == nil {
		return errNoSketch
	}

	edges, err := filters.FindEdges(frame.Gray)
	if err != nil {
		return err
	}
	defer edges.Close()

	contrasted, err := filters.Contrast(edges, EdgeContrastFactor)
	if err != nil {
		return err
	}
	defer contrasted.Close()

	sharpened, err := filters.Sharpness(contrasted, EdgeSharpnessFactor)
	if err != nil {
		return err
	}
	defer sharpened.Close()

	overlay, err := filters.MatchChannels(sharpened, frame.Sketch.Channels())
	if err != nil {
		return err
	}
	defer overlay.Close()

	refined, err := filters.Blend(frame.Sketch, overlay, EdgeBlendAlpha)
	if err != nil {
		return err
	}

	frame.SetSketch(refined)
	return nil
}

// SmoothStage removes speckle with a bilateral filter.
type SmoothStage struct{}

func NewSmoothStage() *SmoothStage {
	return &SmoothStage{}
}

func (s *SmoothStage) Name() string {
	return "smooth_lines"
}

func (s *SmoothStage) ShouldExecute(params models.Parameters) bool {
	return params.SmoothLines
}

func (s *SmoothStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if frame.Sketch == nil {
		return errNoSketch
	}

	smoothed, err := filters.Bilateral(frame.Sketch, BilateralDiameter, BilateralSigmaColor, BilateralSigmaSpace)
	if err != nil {
		return err
	}

	frame.SetSketch(smoothed)
	return nil
}
