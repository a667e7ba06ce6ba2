package models

import (
	"image"
	"time"

	"pencil-sketch/internal/opencv/safe"
)

// ImageData is a decoded input image together with its OpenCV form.
type ImageData struct {
	Image    image.Image
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
	LoadTime time.Duration
}

// Release closes the Mat. The Go image stays usable.
func (d *ImageData) Release() {
	if d == nil || d.Mat == nil {
		return
	}
	d.Mat.Close()
}
