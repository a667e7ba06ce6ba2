package conversion

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"pencil-sketch/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Channel order is RGB on the image.Image side and BGR inside every Mat.
// Nothing outside this package should need to know about the swap.

// ImageToMat converts a Go image to a Mat. *image.Gray becomes a single
// channel Mat; everything else becomes 3-channel BGR with alpha dropped.
func ImageToMat(img image.Image, tracker safe.MemoryTracker, tag string) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if err := safe.ValidateDimensions(width, height, "image to Mat conversion"); err != nil {
		return nil, err
	}

	var (
		buf     []byte
		matType gocv.MatType
	)

	switch typedImg := img.(type) {
	case *image.Gray:
		buf, matType = grayBytes(typedImg, width, height), gocv.MatTypeCV8UC1
	case *image.RGBA:
		buf, matType = rgbaBytes(typedImg, width, height), gocv.MatTypeCV8UC3
	case *image.NRGBA:
		buf, matType = nrgbaBytes(typedImg, width, height), gocv.MatTypeCV8UC3
	default:
		buf, matType = genericBytes(img, width, height), gocv.MatTypeCV8UC3
	}

	tmp, err := gocv.NewMatFromBytes(height, width, matType, buf)
	if err != nil {
		return nil, fmt.Errorf("Mat creation from pixel buffer failed: %w", err)
	}
	defer tmp.Close()

	mat, err := safe.NewMatFromMatWithTracker(tmp, tracker, tag)
	runtime.KeepAlive(buf)
	if err != nil {
		return nil, fmt.Errorf("safe Mat creation failed: %w", err)
	}

	return mat, nil
}

// MatToImage converts a Mat back to a Go image: *image.Gray for one channel,
// opaque *image.RGBA for BGR and BGRA.
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	rows := src.Rows()
	cols := src.Cols()
	channels := src.Channels()

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("pixel access failed: %w", err)
	}
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("unexpected buffer length %d for %dx%dx%d", len(data), cols, rows, channels)
	}

	switch channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, cols, rows))
		for y := 0; y < rows; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+cols], data[y*cols:(y+1)*cols])
		}
		return img, nil
	case 3, 4:
		img := image.NewRGBA(image.Rect(0, 0, cols, rows))
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				i := (y*cols + x) * channels
				o := y*img.Stride + x*4
				img.Pix[o+0] = data[i+2]
				img.Pix[o+1] = data[i+1]
				img.Pix[o+2] = data[i+0]
				img.Pix[o+3] = 255
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
}

func grayBytes(img *image.Gray, width, height int) []byte {
	buf := make([]byte, width*height)
	for y := 0; y < height; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(buf[y*width:(y+1)*width], img.Pix[off:off+width])
	}
	return buf
}

func rgbaBytes(img *image.RGBA, width, height int) []byte {
	buf := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		for x := 0; x < width; x++ {
			p := img.Pix[off+x*4 : off+x*4+4]
			i := (y*width + x) * 3
			buf[i+0] = p[2]
			buf[i+1] = p[1]
			buf[i+2] = p[0]
		}
	}
	return buf
}

func nrgbaBytes(img *image.NRGBA, width, height int) []byte {
	buf := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		for x := 0; x < width; x++ {
			p := img.Pix[off+x*4 : off+x*4+4]
			i := (y*width + x) * 3
			buf[i+0] = p[2]
			buf[i+1] = p[1]
			buf[i+2] = p[0]
		}
	}
	return buf
}

// genericBytes goes through the color model, which covers paletted, YCbCr
// (JPEG), CMYK and 16-bit images.
func genericBytes(img image.Image, width, height int) []byte {
	bounds := img.Bounds()
	buf := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			i := (y*width + x) * 3
			buf[i+0] = c.B
			buf[i+1] = c.G
			buf[i+2] = c.R
		}
	}
	return buf
}
