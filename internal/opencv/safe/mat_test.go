package safe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type countingTracker struct {
	mu     sync.Mutex
	active map[uint64]int64
	tags   []string
}

func newCountingTracker() *countingTracker {
	return &countingTracker{active: make(map[uint64]int64)}
}

func (c *countingTracker) TrackAllocation(id uint64, size int64, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[id] = size
	c.tags = append(c.tags, tag)
}

func (c *countingTracker) TrackDeallocation(id uint64, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, id)
}

func TestNewMatRejectsInvalidDimensions(t *testing.T) {
	_, err := NewMat(0, 10, gocv.MatTypeCV8UC1)
	assert.Error(t, err)

	_, err = NewMat(10, -1, gocv.MatTypeCV8UC3)
	assert.Error(t, err)
}

func TestMatCloneIsIndependent(t *testing.T) {
	m, err := NewMat(4, 4, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.SetUCharAt(1, 1, 200))

	clone, err := m.CloneWithTag("copy")
	require.NoError(t, err)
	defer clone.Close()

	require.NoError(t, clone.SetUCharAt(1, 1, 7))

	v, err := m.GetUCharAt(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), v)
	assert.NotEqual(t, m.ID(), clone.ID())
}

func TestMatCloseIsIdempotent(t *testing.T) {
	tracker := newCountingTracker()
	m, err := NewMatWithTracker(2, 3, gocv.MatTypeCV8UC3, tracker, "test")
	require.NoError(t, err)
	assert.Len(t, tracker.active, 1)
	assert.Equal(t, int64(2*3*3), tracker.active[m.ID()])

	m.Close()
	m.Close()

	assert.False(t, m.IsValid())
	assert.True(t, m.Empty())
	assert.Zero(t, m.Rows())
	assert.Empty(t, tracker.active)

	_, err = m.GetUCharAt(0, 0)
	assert.Error(t, err)
	_, err = m.CloneWithTag("copy")
	assert.Error(t, err)
}

func TestMatBoundsChecks(t *testing.T) {
	m, err := NewMat(2, 2, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.GetUCharAt3(2, 0, 0)
	assert.Error(t, err)
	_, err = m.GetUCharAt3(0, 0, 3)
	assert.Error(t, err)
	assert.Error(t, m.SetUCharAt(-1, 0, 1))
}

func TestMatPixelsWritesThrough(t *testing.T) {
	m, err := NewMat(3, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer m.Close()

	pix, err := m.Pixels()
	require.NoError(t, err)
	require.Len(t, pix, 6)
	pix[5] = 99

	v, err := m.GetUCharAt(2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(99), v)

	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint8(99), b[5])
}

func TestValidateSameShape(t *testing.T) {
	a, err := NewMat(2, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewMat(2, 3, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer b.Close()
	c, err := NewMat(2, 2, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, ValidateSameShape(a, a, "test"))
	assert.Error(t, ValidateSameShape(a, b, "test"))
	assert.Error(t, ValidateSameShape(a, c, "test"))
	assert.Error(t, ValidateSameShape(nil, a, "test"))
}

func TestValidateDimensions(t *testing.T) {
	assert.NoError(t, ValidateDimensions(100, 100, "test"))
	assert.Error(t, ValidateDimensions(0, 100, "test"))
	assert.Error(t, ValidateDimensions(MaxDimension+1, 1, "test"))
}

func TestValidateColorConversion(t *testing.T) {
	gray, err := NewMat(2, 2, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer gray.Close()
	bgr, err := NewMat(2, 2, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	defer bgr.Close()
	bgra, err := NewMat(2, 2, gocv.MatTypeCV8UC4)
	require.NoError(t, err)
	defer bgra.Close()

	assert.NoError(t, ValidateColorConversion(bgr, gocv.ColorBGRToGray))
	assert.NoError(t, ValidateColorConversion(gray, gocv.ColorGrayToBGR))
	assert.NoError(t, ValidateColorConversion(bgra, gocv.ColorBGRAToBGR))

	assert.Error(t, ValidateColorConversion(gray, gocv.ColorBGRToGray))
	assert.Error(t, ValidateColorConversion(bgr, gocv.ColorGrayToBGR))
	assert.Error(t, ValidateColorConversion(bgr, gocv.ColorBGRAToBGR))
	assert.Error(t, ValidateColorConversion(nil, gocv.ColorBGRToGray))
}
