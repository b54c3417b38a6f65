package images

import (
	"crypto/md5"
	"fmt"
	"image"
)

// ComputeChecksum generates a deterministic checksum of an image's pixels and
// dimensions, used to confirm that regeneration is idempotent.
//
// Arguments:
//   - img: The image to compute the checksum for.
//
// Returns:
//   - A hex-encoded MD5 checksum string, or "empty" for a nil or empty image.
func ComputeChecksum(img *image.NRGBA) string {
	if img == nil || img.Bounds().Empty() {
		return "empty"
	}

	b := img.Bounds()
	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		hash.Write(img.Pix[off : off+4*b.Dx()])
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
