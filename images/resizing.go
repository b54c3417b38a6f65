package images

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ErrInvalidSize is returned when a target side length is not positive.
var ErrInvalidSize = errors.New("invalid target size")

// ResampleFilter names the resampling algorithm used for scaling. Only
// filters that avoid aliasing when shrinking are offered.
type ResampleFilter string

const (
	// Lanczos3 is a windowed-sinc filter with three lobes.
	Lanczos3 ResampleFilter = "lanczos3"
	// MitchellNetravali is a cubic filter balancing blur and ringing.
	MitchellNetravali ResampleFilter = "mitchell"
	// CatmullRom is a sharp cubic filter.
	CatmullRom ResampleFilter = "catmullrom"
	// Box averages every source pixel covered by a destination pixel.
	Box ResampleFilter = "box"

	// DefaultFilter is used when no filter is configured.
	DefaultFilter = Lanczos3
)

var filters = map[ResampleFilter]func(img *image.NRGBA, size int) image.Image{
	Lanczos3: func(img *image.NRGBA, size int) image.Image {
		return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
	},
	MitchellNetravali: func(img *image.NRGBA, size int) image.Image {
		return resize.Resize(uint(size), uint(size), img, resize.MitchellNetravali)
	},
	CatmullRom: func(img *image.NRGBA, size int) image.Image {
		dst := image.NewNRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		return dst
	},
	Box: func(img *image.NRGBA, size int) image.Image {
		return imaging.Resize(img, size, size, imaging.Box)
	},
}

// Filters returns the names of every supported filter, sorted.
func Filters() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// ParseFilter resolves a filter name. The empty string selects DefaultFilter.
//
// Arguments:
//   - name: The case-insensitive filter name.
//
// Returns:
//   - ResampleFilter: The resolved filter.
//   - error: An error if the filter is unknown.
func ParseFilter(name string) (ResampleFilter, error) {
	if name == "" {
		return DefaultFilter, nil
	}
	f := ResampleFilter(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := filters[f]; !ok {
		return "", fmt.Errorf("unsupported resample filter %q (supported: %s)", name, strings.Join(Filters(), ", "))
	}
	return f, nil
}

// Resize scales a square image to size x size.
//
// Arguments:
//   - img: The canonical (square) image.
//   - size: The target side length in pixels.
//   - filter: The resampling filter.
//
// Returns:
//   - *image.NRGBA: The resized image, exactly size x size.
//   - error: ErrInvalidSize for a non-positive size, or an unknown filter error.
func Resize(img *image.NRGBA, size int, filter ResampleFilter) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%d", size)
	}
	if filter == "" {
		filter = DefaultFilter
	}
	fn, ok := filters[filter]
	if !ok {
		return nil, fmt.Errorf("unsupported resample filter %q", filter)
	}

	// Same-size requests skip resampling so the pixels pass through untouched.
	if b := img.Bounds(); b.Dx() == size && b.Dy() == size {
		return imaging.Clone(img), nil
	}

	return Normalize(fn(img, size)), nil
}

// Variants resizes the canonical image to every requested size, in order.
//
// Arguments:
//   - canonical: The canonical (square) image.
//   - sizes: Target side lengths; the output preserves this order.
//   - filter: The resampling filter.
//
// Returns:
//   - []Variant: One variant per requested size.
//   - error: The first resize error encountered.
func Variants(canonical *image.NRGBA, sizes []int, filter ResampleFilter) ([]Variant, error) {
	out := make([]Variant, 0, len(sizes))
	for _, size := range sizes {
		img, err := Resize(canonical, size, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, Variant{Size: size, Image: img})
	}
	return out, nil
}
