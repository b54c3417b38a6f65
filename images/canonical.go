package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Normalize converts any image to 8-bit non-premultiplied RGBA with its
// bounds anchored at the origin. Sources without an alpha channel become fully
// opaque.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// SquareOffset returns where a w x h image is placed on a square canvas of
// side max(w, h) so that it is centered. Offsets use floor division.
//
// Arguments:
//   - w: Source width.
//   - h: Source height.
//
// Returns:
//   - image.Point: The top-left position of the source on the canvas.
//   - int: The canvas side length.
//
// Example:
//
//	off, side := SquareOffset(100, 200) // off = (50, 0), side = 200
func SquareOffset(w, h int) (image.Point, int) {
	side := max(w, h)
	return image.Pt((side-w)/2, (side-h)/2), side
}

// Square derives the canonical image: the input centered on a transparent
// square canvas whose side equals the larger of its width and height. Nothing
// is cropped or stretched. A square input is returned as a copy.
//
// Arguments:
//   - img: The RGBA-normalized source image.
//
// Returns:
//   - *image.NRGBA: The canonical square image.
func Square(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return imaging.Clone(img)
	}

	off, side := SquareOffset(w, h)
	canvas := imaging.New(side, side, color.Transparent)
	return imaging.Paste(canvas, img, off)
}
