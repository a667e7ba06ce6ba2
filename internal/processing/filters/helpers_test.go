package filters

import (
	"testing"

	"pencil-sketch/internal/opencv/safe"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newTestMat(t *testing.T, rows, cols, channels int, data []byte) *safe.Mat {
	t.Helper()

	matType := map[int]gocv.MatType{
		1: gocv.MatTypeCV8UC1,
		2: gocv.MatTypeCV8UC2,
		3: gocv.MatTypeCV8UC3,
		4: gocv.MatTypeCV8UC4,
	}[channels]

	require.Len(t, data, rows*cols*channels)
	tmp, err := gocv.NewMatFromBytes(rows, cols, matType, data)
	require.NoError(t, err)
	defer tmp.Close()

	m, err := safe.NewMatFromMat(tmp)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func solid(t *testing.T, rows, cols, channels int, value byte) *safe.Mat {
	t.Helper()
	data := make([]byte, rows*cols*channels)
	for i := range data {
		data[i] = value
	}
	return newTestMat(t, rows, cols, channels, data)
}

func horizontalGradient(t *testing.T, rows, cols int) *safe.Mat {
	t.Helper()
	data := make([]byte, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			data[y*cols+x] = byte(x * 255 / (cols - 1))
		}
	}
	return newTestMat(t, rows, cols, 1, data)
}

func checkerboard(t *testing.T, rows, cols, cell int) *safe.Mat {
	t.Helper()
	data := make([]byte, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if (x/cell+y/cell)%2 == 0 {
				data[y*cols+x] = 255
			}
		}
	}
	return newTestMat(t, rows, cols, 1, data)
}

func pixels(t *testing.T, m *safe.Mat) []byte {
	t.Helper()
	b, err := m.Bytes()
	require.NoError(t, err)
	return b
}

// keep asserts a filter succeeded and closes its result when the test ends.
func keep(t *testing.T) func(*safe.Mat, error) *safe.Mat {
	return func(m *safe.Mat, err error) *safe.Mat {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, m)
		t.Cleanup(m.Close)
		return m
	}
}
