package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSquareOffset(t *testing.T) {
	tests := []struct {
		w, h     int
		wantOff  image.Point
		wantSide int
	}{
		{w: 100, h: 200, wantOff: image.Pt(50, 0), wantSide: 200},
		{w: 200, h: 100, wantOff: image.Pt(0, 50), wantSide: 200},
		{w: 64, h: 64, wantOff: image.Pt(0, 0), wantSide: 64},
		{w: 101, h: 200, wantOff: image.Pt(49, 0), wantSide: 200},
		{w: 1, h: 4, wantOff: image.Pt(1, 0), wantSide: 4},
	}

	for _, tt := range tests {
		off, side := SquareOffset(tt.w, tt.h)
		assert.Equal(t, tt.wantOff, off, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantSide, side, "%dx%d", tt.w, tt.h)
	}
}

func TestSquarePortrait(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	canonical := Square(solid(100, 200, red))

	require.Equal(t, image.Rect(0, 0, 200, 200), canonical.Bounds())

	// Content occupies columns [50, 150) on every row.
	assert.Equal(t, red, canonical.NRGBAAt(50, 0))
	assert.Equal(t, red, canonical.NRGBAAt(149, 199))
	assert.Equal(t, red, canonical.NRGBAAt(100, 100))

	// Padding is fully transparent.
	assert.Equal(t, uint8(0), canonical.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), canonical.NRGBAAt(49, 100).A)
	assert.Equal(t, uint8(0), canonical.NRGBAAt(150, 100).A)
	assert.Equal(t, uint8(0), canonical.NRGBAAt(199, 199).A)
}

func TestSquareLandscape(t *testing.T) {
	green := color.NRGBA{G: 255, A: 255}
	canonical := Square(solid(300, 100, green))

	require.Equal(t, image.Rect(0, 0, 300, 300), canonical.Bounds())
	assert.Equal(t, uint8(0), canonical.NRGBAAt(150, 99).A)
	assert.Equal(t, green, canonical.NRGBAAt(150, 100))
	assert.Equal(t, green, canonical.NRGBAAt(0, 199))
	assert.Equal(t, uint8(0), canonical.NRGBAAt(150, 200).A)
}

func TestSquareAlreadySquare(t *testing.T) {
	src := getTestImage(64, 64)
	canonical := Square(src)

	assert.Equal(t, ComputeChecksum(src), ComputeChecksum(canonical))
	assert.NotSame(t, src, canonical, "square input should be copied")
}

func TestSquareThenResize(t *testing.T) {
	canonical := Square(solid(100, 200, color.NRGBA{B: 255, A: 255}))

	img, err := Resize(canonical, 32, Lanczos3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
}

func TestNormalize(t *testing.T) {
	gray := image.NewGray(image.Rect(10, 10, 20, 30))
	gray.SetGray(10, 10, color.Gray{Y: 128})

	img := Normalize(gray)

	assert.Equal(t, image.Rect(0, 0, 10, 20), img.Bounds(), "bounds should be anchored at the origin")
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, img.NRGBAAt(0, 0))
}
