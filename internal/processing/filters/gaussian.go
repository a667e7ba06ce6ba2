package filters

import (
	"image"
	"math"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// KernelSize returns the Gaussian aperture used for a blur radius: three
// sigmas on each side plus the centre, so always odd.
func KernelSize(radius float64) int {
	if radius <= 0 {
		return 1
	}
	return 2*int(math.Ceil(3*radius)) + 1
}

// GaussianBlur blurs src with sigma = radius. A radius <= 0 returns a copy.
func GaussianBlur(src *safe.Mat, radius float64) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "gaussian blur"); err != nil {
		return nil, err
	}

	if radius <= 0 {
		return src.CloneWithTag(src.Tag() + "_blur")
	}

	dst, err := newDst(src, src.Type(), src.Tag()+"_blur")
	if err != nil {
		return nil, err
	}

	kernelSize := KernelSize(radius)

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	gocv.GaussianBlur(srcMat, &dstMat, image.Point{X: kernelSize, Y: kernelSize}, radius, radius, gocv.BorderReflect101)

	return dst, nil
}

// Invert returns 255 - px for every sample.
func Invert(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "invert"); err != nil {
		return nil, err
	}

	dst, err := newDst(src, src.Type(), src.Tag()+"_inv")
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	gocv.BitwiseNot(srcMat, &dstMat)

	return dst, nil
}
