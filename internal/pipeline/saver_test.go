package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pencil-sketch/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPNGRoundTripIsExact(t *testing.T) {
	saver := newImageSaver(logger.Nop())

	gray := image.NewGray(image.Rect(0, 0, 16, 9))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 7)
	}
	rgba := sceneImage(13, 7)

	for _, img := range []image.Image{gray, rgba} {
		data, err := saver.EncodeToBytes(img)
		require.NoError(t, err)

		decoded, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		switch want := img.(type) {
		case *image.Gray:
			assert.Equal(t, want.Pix, decoded.(*image.Gray).Pix)
		case *image.RGBA:
			assert.Equal(t, want.Pix, decoded.(*image.RGBA).Pix)
		}
	}
}

func TestSaveToWriterFailureIsEncodeError(t *testing.T) {
	saver := newImageSaver(logger.Nop())

	err := saver.SaveToWriter(failingWriter{}, solidImage(4, 4, color.RGBA{A: 255}))
	var encodeErr *EncodeError
	require.True(t, errors.As(err, &encodeErr))
	assert.Contains(t, err.Error(), "disk full")

	err = saver.SaveToWriter(&bytes.Buffer{}, nil)
	assert.True(t, errors.As(err, &encodeErr))
}

func TestSaveToPath(t *testing.T) {
	saver := newImageSaver(logger.Nop())
	path := filepath.Join(t.TempDir(), "sketch.png")

	require.NoError(t, saver.SaveToPath(path, sceneImage(5, 5)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Width)

}

func TestSaveToPathCreateFailureIsEncodeError(t *testing.T) {
	saver := newImageSaver(logger.Nop())
	path := filepath.Join(t.TempDir(), "missing", "x.png")

	err := saver.SaveToPath(path, sceneImage(2, 2))
	var encodeErr *EncodeError
	require.True(t, errors.As(err, &encodeErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestThumbnail(t *testing.T) {
	big := sceneImage(1000, 500)
	thumb := Thumbnail(big, 200)
	assert.Equal(t, 200, thumb.Bounds().Dx())
	assert.Equal(t, 100, thumb.Bounds().Dy())

	small := sceneImage(40, 30)
	assert.Same(t, small, Thumbnail(small, 200))

	tall := Thumbnail(sceneImage(300, 900), 0)
	assert.Equal(t, DefaultPreviewSize, tall.Bounds().Dy())
}
