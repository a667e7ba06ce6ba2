// Package pipeline turns encoded images into encoded pencil sketches:
// decode, run the sketch chain, encode PNG.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/logger"
	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/memory"
)

// Result is a finished render.
type Result struct {
	Sketch  image.Image
	Gray    image.Image
	Metrics *Metrics
}

// Renderer is safe for concurrent use; every call owns its own Mats, timing
// and allocation accounting.
type Renderer struct {
	logger   logger.Logger
	settings models.PerformanceSettings
	saver    *imageSaver
}

func NewRenderer(log logger.Logger, settings models.PerformanceSettings) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{
		logger:   log,
		settings: settings,
		saver:    newImageSaver(log),
	}
}

// Render decodes data, sketches it and returns the PNG encoding.
func (r *Renderer) Render(ctx context.Context, data []byte, params models.Parameters) ([]byte, error) {
	result, err := r.RenderBytes(ctx, data, params)
	if err != nil {
		return nil, err
	}
	return r.saver.EncodeToBytes(result.Sketch)
}

// RenderImage sketches an already decoded image.
func (r *Renderer) RenderImage(ctx context.Context, img image.Image, params models.Parameters) (image.Image, *Metrics, error) {
	result, err := r.render(ctx, params, func(l *imageLoader) (*models.ImageData, error) {
		return l.LoadFromImage(img)
	})
	if err != nil {
		return nil, nil, err
	}
	return result.Sketch, result.Metrics, nil
}

// RenderBytes decodes data and returns the sketch together with the
// grayscale layer and the render metrics.
func (r *Renderer) RenderBytes(ctx context.Context, data []byte, params models.Parameters) (*Result, error) {
	return r.render(ctx, params, func(l *imageLoader) (*models.ImageData, error) {
		return l.LoadFromBytes(data)
	})
}

// Encode writes img as PNG.
func (r *Renderer) Encode(w io.Writer, img image.Image) error {
	return r.saver.SaveToWriter(w, img)
}

// SaveFile writes img to path as PNG.
func (r *Renderer) SaveFile(path string, img image.Image) error {
	return r.saver.SaveToPath(path, img)
}

func (r *Renderer) render(ctx context.Context, params models.Parameters, load func(*imageLoader) (*models.ImageData, error)) (*Result, error) {
	params, clamped, err := params.Normalize()
	if err != nil {
		return nil, err
	}
	if len(clamped) > 0 {
		r.logger.Warning("Renderer", "parameters clamped into range", map[string]interface{}{
			"clamped":   clamped,
			"contrast":  params.ContrastLevel,
			"sharpness": params.SharpnessLevel,
			"thickness": params.ThicknessLevel,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	memManager := memory.NewManager(r.logger, r.settings.MemoryLimit)
	tracker := timing.NewTracker(r.logger)

	stopLoad := tracker.Start("load")
	source, err := load(&imageLoader{memoryTracker: memManager, logger: r.logger})
	stopLoad()
	if err != nil {
		return nil, err
	}

	processor := &imageProcessor{logger: r.logger, workers: r.settings.Workers()}
	out, err := processor.Process(ctx, source, params, tracker)
	source.Release()
	r.checkLeaks(memManager)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	metrics := &Metrics{
		Width:    source.Width,
		Height:   source.Height,
		Channels: channelsOf(out.Sketch),
		Format:   source.Format,
		Stages:   tracker.Stages(),
		Total:    tracker.Total(),
		Memory:   memManager.Stats(),
		Clamped:  clamped,
	}

	r.logger.Debug("Renderer", "render metrics", metrics.Fields())

	return &Result{Sketch: out.Sketch, Gray: out.Gray, Metrics: metrics}, nil
}

func (r *Renderer) checkLeaks(memManager *memory.Manager) {
	leaks := memManager.Leaks()
	if len(leaks) == 0 {
		return
	}

	tags := make([]string, 0, len(leaks))
	for _, leak := range leaks {
		tags = append(tags, leak.Tag)
	}
	r.logger.Warning("Renderer", "Mats still allocated after render", map[string]interface{}{
		"count": len(leaks),
		"tags":  tags,
	})
}

func channelsOf(img image.Image) int {
	if _, ok := img.(*image.Gray); ok {
		return 1
	}
	return 3
}
