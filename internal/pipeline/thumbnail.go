package pipeline

import (
	"image"

	"github.com/nfnt/resize"
)

// DefaultPreviewSize is the longest side of a preview image.
const DefaultPreviewSize = 512

// Thumbnail scales img down, keeping its aspect ratio, so that neither side
// exceeds maxDim. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		maxDim = DefaultPreviewSize
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return img
	}

	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
}
