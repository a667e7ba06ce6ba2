// Package filters holds the per-pixel building blocks of the sketch
// pipeline. Every function reads its inputs and returns a freshly allocated
// Mat; inputs are never written.
package filters

import (
	"fmt"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// newDst allocates a destination shaped like src and charged to the same
// tracker.
func newDst(src *safe.Mat, matType gocv.MatType, tag string) (*safe.Mat, error) {
	dst, err := safe.NewMatWithTracker(src.Rows(), src.Cols(), matType, src.Tracker(), tag)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}
	return dst, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
