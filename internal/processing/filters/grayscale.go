package filters

import (
	"fmt"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Grayscale reduces a BGR or BGRA Mat to one luminance channel using the
// ITU-R BT.601 weights. Single-channel input is cloned.
func Grayscale(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale"); err != nil {
		return nil, err
	}

	switch src.Channels() {
	case 1:
		return src.CloneWithTag("gray")
	case 3:
		return convertColor(src, gocv.ColorBGRToGray, gocv.MatTypeCV8UC1, "gray")
	case 4:
		bgr, err := ToBGR(src)
		if err != nil {
			return nil, err
		}
		defer bgr.Close()
		return convertColor(bgr, gocv.ColorBGRToGray, gocv.MatTypeCV8UC1, "gray")
	default:
		return nil, fmt.Errorf("unsupported channel count for grayscale conversion: %d", src.Channels())
	}
}

// ToBGR expands a single-channel Mat to three identical channels. BGR input
// is cloned, BGRA input loses its alpha.
func ToBGR(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "BGR expansion"); err != nil {
		return nil, err
	}

	switch src.Channels() {
	case 1:
		return convertColor(src, gocv.ColorGrayToBGR, gocv.MatTypeCV8UC3, src.Tag()+"_bgr")
	case 3:
		return src.CloneWithTag(src.Tag() + "_bgr")
	case 4:
		return convertColor(src, gocv.ColorBGRAToBGR, gocv.MatTypeCV8UC3, src.Tag()+"_bgr")
	default:
		return nil, fmt.Errorf("unsupported channel count for BGR expansion: %d", src.Channels())
	}
}

// convertColor runs CvtColor into a new Mat after checking that src has the
// channel count code expects.
func convertColor(src *safe.Mat, code gocv.ColorConversionCode, dstType gocv.MatType, tag string) (*safe.Mat, error) {
	if err := safe.ValidateColorConversion(src, code); err != nil {
		return nil, err
	}

	dst, err := newDst(src, dstType, tag)
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	gocv.CvtColor(srcMat, &dstMat, code)

	return dst, nil
}

// MatchChannels returns src expanded or reduced to the given channel count.
func MatchChannels(src *safe.Mat, channels int) (*safe.Mat, error) {
	switch {
	case src.Channels() == channels:
		return src.CloneWithTag(src.Tag())
	case channels == 1:
		return Grayscale(src)
	case channels == 3:
		return ToBGR(src)
	default:
		return nil, fmt.Errorf("cannot convert %d channels to %d", src.Channels(), channels)
	}
}
