package pipeline

import (
	"context"
	"fmt"
	"image"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/logger"
	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/conversion"
	"pencil-sketch/internal/opencv/safe"
	"pencil-sketch/internal/processing/stages"
)

type imageProcessor struct {
	logger  logger.Logger
	workers int
}

type processed struct {
	Sketch image.Image
	Gray   image.Image
}

// Process runs the sketch chain on input and converts the layers back to Go
// images. Every Mat created here is closed before returning.
func (p *imageProcessor) Process(ctx context.Context, input *models.ImageData, params models.Parameters, tracker *timing.Tracker) (*processed, error) {
	p.logger.Debug("ImageProcessor", "processing started", map[string]interface{}{
		"width":     input.Width,
		"height":    input.Height,
		"style":     params.Style.String(),
		"mode":      params.Composite.String(),
		"color":     params.ColorMode.String(),
		"contrast":  params.ContrastLevel,
		"sharpness": params.SharpnessLevel,
		"thickness": params.ThicknessLevel,
	})

	if err := safe.ValidateMatForOperation(input.Mat, "ProcessImage"); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	sketchChain := stages.NewSketchChain(p.workers, tracker)
	p.logger.Debug("ImageProcessor", "sketch chain built", map[string]interface{}{
		"steps": sketchChain.StepNames(),
	})

	frame, err := sketchChain.Execute(ctx, input.Mat, params)
	if err != nil {
		return nil, err
	}
	defer frame.Release()

	stop := tracker.Start("convert")
	sketch, err := conversion.MatToImage(frame.Sketch)
	if err != nil {
		stop()
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	gray, err := conversion.MatToImage(frame.Gray)
	stop()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}

	bounds := sketch.Bounds()
	p.logger.Info("ImageProcessor", "processing completed", map[string]interface{}{
		"input_size":  fmt.Sprintf("%dx%d", input.Width, input.Height),
		"output_size": fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"channels":    frame.Sketch.Channels(),
	})

	return &processed{Sketch: sketch, Gray: gray}, nil
}
