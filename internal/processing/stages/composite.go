package stages

import (
	"context"
	"fmt"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/safe"
	"pencil-sketch/internal/processing/chain"
	"pencil-sketch/internal/processing/filters"
)

// CompositeStage builds the first sketch from the inverted, blurred
// luminance layer, either by blending or by color-dodge division.
type CompositeStage struct {
	workers int
}

func NewCompositeStage(workers int) *CompositeStage {
	return &CompositeStage{workers: workers}
}

func (c *CompositeStage) Name() string {
	return "composite"
}

func (c *CompositeStage) ShouldExecute(params models.Parameters) bool {
	return true
}

func (c *CompositeStage) Apply(ctx context.Context, frame *chain.Frame, params models.Parameters) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if frame.Gray == nil {
		return errNoGray
	}

	light, err := c.lightLayer(frame.Gray, params.Style)
	if err != nil {
		return err
	}
	defer light.Close()

	target, err := c.target(frame, params.ColorMode)
	if err != nil {
		return err
	}
	defer target.Close()

	var sketch *safe.Mat
	switch params.Composite {
	case models.CompositeBlend:
		sketch, err = c.blend(target, light, params.ContrastLevel)
	case models.CompositeDivide:
		sketch, err = c.divide(target, light, params.ContrastLevel)
	default:
		err = fmt.Errorf("unknown composite mode: %v", params.Composite)
	}
	if err != nil {
		return err
	}

	frame.SetSketch(sketch)
	return nil
}

// lightLayer is invert(blur(invert(gray))).
func (c *CompositeStage) lightLayer(gray *safe.Mat, style models.Style) (*safe.Mat, error) {
	inverted, err := filters.Invert(gray)
	if err != nil {
		return nil, err
	}
	defer inverted.Close()

	blurred, err := filters.GaussianBlur(inverted, float64(style.BlurRadius()))
	if err != nil {
		return nil, err
	}
	defer blurred.Close()

	return filters.Invert(blurred)
}

// target is the image the light layer is composited against: the gray layer,
// or the original colors in COLOR mode.
func (c *CompositeStage) target(frame *chain.Frame, mode models.ColorMode) (*safe.Mat, error) {
	if mode == models.ColorColor {
		return filters.MatchChannels(frame.Source, 3)
	}
	return frame.Gray.CloneWithTag("target")
}

func (c *CompositeStage) blend(target, light *safe.Mat, contrast float64) (*safe.Mat, error) {
	layer, err := filters.MatchChannels(light, target.Channels())
	if err != nil {
		return nil, err
	}
	defer layer.Close()

	return filters.Blend(target, layer, contrast)
}

func (c *CompositeStage) divide(target, light *safe.Mat, contrast float64) (*safe.Mat, error) {
	dodged, err := filters.Divide(target, light, DivideScale, c.workers)
	if err != nil {
		return nil, err
	}
	defer dodged.Close()

	return filters.Scale(dodged, contrast)
}
