package safe

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MaxDimension bounds either side of an image accepted by the pipeline.
const MaxDimension = 32768

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return fmt.Errorf("Mat is nil for operation: %s", operation)
	}

	if !mat.IsValid() {
		return fmt.Errorf("Mat is invalid for operation: %s", operation)
	}

	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

// ValidateSameShape checks that a and b can be combined pixel by pixel.
func ValidateSameShape(a, b *Mat, operation string) error {
	if err := ValidateMatForOperation(a, operation); err != nil {
		return err
	}
	if err := ValidateMatForOperation(b, operation); err != nil {
		return err
	}

	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("size mismatch %dx%d vs %dx%d for operation: %s",
			a.Cols(), a.Rows(), b.Cols(), b.Rows(), operation)
	}
	if a.Channels() != b.Channels() {
		return fmt.Errorf("channel mismatch %d vs %d for operation: %s",
			a.Channels(), b.Channels(), operation)
	}

	return nil
}

func ValidateColorConversion(src *Mat, code gocv.ColorConversionCode) error {
	if err := ValidateMatForOperation(src, "CvtColor"); err != nil {
		return err
	}

	channels := src.Channels()

	switch code {
	case gocv.ColorBGRToGray, gocv.ColorRGBToGray:
		if channels != 3 {
			return fmt.Errorf("BGR/RGB to Gray conversion requires 3 channels, got %d", channels)
		}
	case gocv.ColorGrayToBGR: // gocv.ColorGrayToRGB is the same constant
		if channels != 1 {
			return fmt.Errorf("Gray to BGR/RGB conversion requires 1 channel, got %d", channels)
		}
	case gocv.ColorBGRAToBGR:
		if channels != 4 {
			return fmt.Errorf("BGRA to BGR conversion requires 4 channels, got %d", channels)
		}
	}

	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}

	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}

	return nil
}
