package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"pencil-sketch/internal/logger"
	"pencil-sketch/internal/models"
	"pencil-sketch/internal/opencv/conversion"
	"pencil-sketch/internal/opencv/safe"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type imageLoader struct {
	memoryTracker safe.MemoryTracker
	logger        logger.Logger
}

// LoadFromBytes decodes data with whichever registered decoder recognises
// it and converts the result to a BGR (or gray) Mat.
func (l *imageLoader) LoadFromBytes(data []byte) (*models.ImageData, error) {
	start := time.Now()

	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty input")}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	l.logger.Debug("ImageLoader", "image data decoded", map[string]interface{}{
		"size_bytes": len(data),
		"format":     format,
	})

	imageData, err := l.LoadFromImage(img)
	if err != nil {
		return nil, err
	}
	imageData.Format = format
	imageData.LoadTime = time.Since(start)

	return imageData, nil
}

// LoadFromImage wraps an already decoded image.
func (l *imageLoader) LoadFromImage(img image.Image) (*models.ImageData, error) {
	if img == nil {
		return nil, &DecodeError{Err: errors.New("nil image")}
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, &DecodeError{Err: fmt.Errorf("image has no pixels: %v", bounds)}
	}

	mat, err := conversion.ImageToMat(img, l.memoryTracker, "source")
	if err != nil {
		return nil, fmt.Errorf("image to Mat conversion failed: %w", err)
	}

	imageData := &models.ImageData{
		Image:    img,
		Mat:      mat,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: mat.Channels(),
		Format:   "image",
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
	})

	return imageData, nil
}
