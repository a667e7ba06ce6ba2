package filters

import (
	"image"
	"math"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// DefaultUnsharpThreshold is the minimum |px - blur| difference that gets
// amplified by UnsharpMask.
const DefaultUnsharpThreshold = 3

// UnsharpMask adds (px - blur)*percent/100 to every sample whose distance
// from its Gaussian-blurred value is at least threshold. percent 0 returns
// a copy.
func UnsharpMask(src *safe.Mat, radius float64, percent, threshold, workers int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "unsharp mask"); err != nil {
		return nil, err
	}

	if percent == 0 || radius <= 0 {
		return src.CloneWithTag(src.Tag() + "_sharp")
	}

	blurred, err := GaussianBlur(src, radius)
	if err != nil {
		return nil, err
	}
	defer blurred.Close()

	srcPix, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	blurPix, err := blurred.Bytes()
	if err != nil {
		return nil, err
	}

	dst, err := newDst(src, src.Type(), src.Tag()+"_sharp")
	if err != nil {
		return nil, err
	}
	out, err := dst.Pixels()
	if err != nil {
		dst.Close()
		return nil, err
	}

	rowLen := src.Cols() * src.Channels()
	amount := float64(percent) / 100

	err = forEachRowBand(src.Rows(), workers, func(y0, y1 int) error {
		for i := y0 * rowLen; i < y1*rowLen; i++ {
			px := int(srcPix[i])
			diff := px - int(blurPix[i])
			if diff < threshold && -diff < threshold {
				out[i] = srcPix[i]
				continue
			}
			out[i] = clampByte(float64(px) + float64(diff)*amount)
		}
		return nil
	})
	if err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}

var (
	edgeKernel = [9]float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
	smoothKernel = [9]float32{
		1.0 / 13, 1.0 / 13, 1.0 / 13,
		1.0 / 13, 5.0 / 13, 1.0 / 13,
		1.0 / 13, 1.0 / 13, 1.0 / 13,
	}
)

// FindEdges convolves src with the 3x3 Laplacian edge kernel. Negative
// responses saturate to 0.
func FindEdges(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "find edges"); err != nil {
		return nil, err
	}
	return convolve3x3(src, edgeKernel, src.Tag()+"_edges")
}

func convolve3x3(src *safe.Mat, weights [9]float32, tag string) (*safe.Mat, error) {
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	for i, w := range weights {
		kernel.SetFloatAt(i/3, i%3, w)
	}

	dst, err := newDst(src, src.Type(), tag)
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	gocv.Filter2D(srcMat, &dstMat, -1, kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderReplicate)

	return dst, nil
}

// MeanLuminance returns the rounded mean gray level of src.
func MeanLuminance(src *safe.Mat) (float64, error) {
	if err := safe.ValidateMatForOperation(src, "mean luminance"); err != nil {
		return 0, err
	}

	gray := src
	if src.Channels() != 1 {
		var err error
		gray, err = Grayscale(src)
		if err != nil {
			return 0, err
		}
		defer gray.Close()
	}

	grayMat := gray.GetMat()
	return math.Floor(grayMat.Mean().Val1 + 0.5), nil
}

// Contrast pushes samples away from (factor > 1) or towards (factor < 1)
// the mean luminance: mean + factor*(px - mean). Factor 1 returns an exact
// copy.
func Contrast(src *safe.Mat, factor float64) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "contrast"); err != nil {
		return nil, err
	}

	if factor == 1 {
		return src.CloneWithTag(src.Tag() + "_contrast")
	}

	mean, err := MeanLuminance(src)
	if err != nil {
		return nil, err
	}

	return linear(src, factor, mean*(1-factor), src.Tag()+"_contrast")
}

// Sharpness interpolates between a lightly smoothed copy (factor 0) and src
// (factor 1); factors above 1 extrapolate and sharpen.
func Sharpness(src *safe.Mat, factor float64) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "sharpness"); err != nil {
		return nil, err
	}

	if factor == 1 {
		return src.CloneWithTag(src.Tag() + "_sharpness")
	}

	smooth, err := convolve3x3(src, smoothKernel, src.Tag()+"_smooth")
	if err != nil {
		return nil, err
	}
	defer smooth.Close()

	return weighted(smooth, src, 1-factor, factor, src.Tag()+"_sharpness")
}

// Bilateral applies OpenCV's edge-preserving bilateral filter. The filter
// always runs on three channels; single-channel input is expanded first and
// reduced back afterwards.
func Bilateral(src *safe.Mat, diameter int, sigmaColor, sigmaSpace float64) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "bilateral"); err != nil {
		return nil, err
	}

	color, err := ToBGR(src)
	if err != nil {
		return nil, err
	}
	defer color.Close()

	filtered, err := newDst(color, gocv.MatTypeCV8UC3, src.Tag()+"_bilateral")
	if err != nil {
		return nil, err
	}

	colorMat := color.GetMat()
	filteredMat := filtered.GetMat()

	gocv.BilateralFilter(colorMat, &filteredMat, diameter, sigmaColor, sigmaSpace)

	if src.Channels() == 3 {
		return filtered, nil
	}

	defer filtered.Close()
	return Grayscale(filtered)
}
