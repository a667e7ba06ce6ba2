package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"pencil-sketch/internal/logger"
)

type imageSaver struct {
	logger  logger.Logger
	encoder png.Encoder
}

func newImageSaver(log logger.Logger) *imageSaver {
	return &imageSaver{
		logger:  log,
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// SaveToWriter writes img as PNG. *image.Gray becomes an 8-bit grayscale
// PNG; anything opaque becomes truecolor.
func (s *imageSaver) SaveToWriter(writer io.Writer, img image.Image) error {
	if img == nil {
		return &EncodeError{Err: errors.New("no image to save")}
	}

	bounds := img.Bounds()
	s.logger.Debug("ImageSaver", "encoding png", map[string]interface{}{
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	})

	if err := s.encoder.Encode(writer, img); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": "png",
		})
		return &EncodeError{Err: err}
	}

	return nil
}

func (s *imageSaver) EncodeToBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.SaveToWriter(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToPath writes img to path as PNG. Every output failure, including
// creating or closing the file, is an *EncodeError.
func (s *imageSaver) SaveToPath(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return &EncodeError{Err: fmt.Errorf("create output: %w", err)}
	}

	if err := s.SaveToWriter(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	if err := file.Close(); err != nil {
		return &EncodeError{Err: fmt.Errorf("close output: %w", err)}
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path": path,
	})
	return nil
}
