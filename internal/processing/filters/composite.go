package filters

import (
	"fmt"
	"math"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Blend returns a*(1-alpha) + b*alpha, rounded and saturated. alpha is
// clamped to [0,1].
func Blend(a, b *safe.Mat, alpha float64) (*safe.Mat, error) {
	if err := safe.ValidateSameShape(a, b, "blend"); err != nil {
		return nil, err
	}

	alpha = math.Max(0, math.Min(1, alpha))
	return weighted(a, b, 1-alpha, alpha, "blend")
}

// weighted is Blend without the clamp; Sharpness extrapolates past b.
func weighted(a, b *safe.Mat, wa, wb float64, tag string) (*safe.Mat, error) {
	dst, err := newDst(a, a.Type(), tag)
	if err != nil {
		return nil, err
	}

	aMat := a.GetMat()
	bMat := b.GetMat()
	dstMat := dst.GetMat()

	gocv.AddWeighted(aMat, wa, bMat, wb, 0, &dstMat)

	return dst, nil
}

// Divide computes min(255, round(num*scale/den)) per sample. A zero
// denominator saturates to 255. When num has several channels and den has
// one, every channel of num is divided by the same denominator.
func Divide(num, den *safe.Mat, scale float64, workers int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(num, "divide"); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatForOperation(den, "divide"); err != nil {
		return nil, err
	}
	if num.Rows() != den.Rows() || num.Cols() != den.Cols() {
		return nil, fmt.Errorf("divide: size mismatch %dx%d vs %dx%d", num.Cols(), num.Rows(), den.Cols(), den.Rows())
	}

	numCh := num.Channels()
	denCh := den.Channels()
	if denCh != 1 && denCh != numCh {
		return nil, fmt.Errorf("divide: denominator has %d channels, numerator %d", denCh, numCh)
	}

	numPix, err := num.Bytes()
	if err != nil {
		return nil, err
	}
	denPix, err := den.Bytes()
	if err != nil {
		return nil, err
	}

	dst, err := newDst(num, num.Type(), "divide")
	if err != nil {
		return nil, err
	}
	out, err := dst.Pixels()
	if err != nil {
		dst.Close()
		return nil, err
	}

	cols := num.Cols()
	err = forEachRowBand(num.Rows(), workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < cols; x++ {
				p := y*cols + x
				for c := 0; c < numCh; c++ {
					d := denPix[p*denCh+min(c, denCh-1)]
					i := p*numCh + c
					if d == 0 {
						out[i] = 255
						continue
					}
					out[i] = clampByte(float64(numPix[i]) * scale / float64(d))
				}
			}
		}
		return nil
	})
	if err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}

// Scale multiplies every sample by factor, rounding and saturating.
func Scale(src *safe.Mat, factor float64) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "scale"); err != nil {
		return nil, err
	}

	return linear(src, factor, 0, src.Tag()+"_scaled")
}

// linear returns clamp(round(px*alpha + beta)).
func linear(src *safe.Mat, alpha, beta float64, tag string) (*safe.Mat, error) {
	dst, err := newDst(src, src.Type(), tag)
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()

	srcMat.ConvertToWithParams(&dstMat, src.Type(), float32(alpha), float32(beta))

	return dst, nil
}
