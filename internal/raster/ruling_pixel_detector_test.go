package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func TestRulingPixelDetector_DetectHorizontal(t *testing.T) {
	img := whiteImage(100, 20)
	for x := 0; x < 100; x++ {
		img.SetGray(x, 10, color.Gray{Y: 0})
	}

	lines := NewRulingPixelDetector().DetectHorizontal(img)

	// A one-pixel line has an edge on each side (rows 10 and 11); snapping
	// and collapsing in DetectSeparate merge the two, this raw scan does not.
	require.Len(t, lines, 2)
	assert.True(t, lines[0].IsHorizontal)
	assert.Equal(t, 10.0, lines[0].Start.Y)
	assert.GreaterOrEqual(t, lines[0].Length(), float64(HMinWidth))
}

func TestRulingPixelDetector_DetectHorizontal_TooShort(t *testing.T) {
	img := whiteImage(100, 20)
	for x := 0; x < 20; x++ {
		img.SetGray(x, 10, color.Gray{Y: 0})
	}

	lines := NewRulingPixelDetector().DetectHorizontal(img)
	assert.Empty(t, lines)
}

func TestRulingPixelDetector_DetectVertical(t *testing.T) {
	img := whiteImage(20, 100)
	for y := 0; y < 100; y++ {
		img.SetGray(10, y, color.Gray{Y: 0})
	}

	lines := NewRulingPixelDetector().DetectVertical(img)

	// One edge on each side of the one-pixel line (columns 10 and 11).
	require.Len(t, lines, 2)
	assert.False(t, lines[0].IsHorizontal)
	assert.Equal(t, 10.0, lines[0].Start.X)
	assert.GreaterOrEqual(t, lines[0].Length(), float64(VMinHeight))
}

func TestRulingPixelDetector_DetectSeparate_ScalesToPageSpace(t *testing.T) {
	img := whiteImage(200, 200)
	for x := 0; x < 200; x++ {
		img.SetGray(x, 50, color.Gray{Y: 0})
	}
	for y := 0; y < 100; y++ {
		img.SetGray(100, y, color.Gray{Y: 0})
	}

	horizontal, vertical := NewRulingPixelDetector().DetectSeparate(img, img)

	require.NotEmpty(t, horizontal)
	require.NotEmpty(t, vertical)
	assert.Equal(t, 24.0, horizontal[0].Start.Y)
	assert.Equal(t, 52.0, vertical[0].Start.X)
}

func TestGrayAt_OutOfBoundsIsWhite(t *testing.T) {
	img := whiteImage(10, 10)
	assert.Equal(t, uint8(255), grayAt(img, -1, -1))
	assert.Equal(t, uint8(255), grayAt(img, 20, 20))
}
