// Package ico encodes and inspects multi-resolution Windows icon containers.
//
// A container is a 6-byte header, one 16-byte directory entry per image, and
// the PNG payloads of every image packed back to back. All integers are
// little-endian. Width and height are stored in a single byte each, with 0
// meaning 256.
package ico

import (
	"github.com/pkg/errors"
)

const (
	// HeaderSize is the size in bytes of the file header.
	HeaderSize = 6
	// DirEntrySize is the size in bytes of one directory entry.
	DirEntrySize = 16
	// MaxDimension is the largest width or height an entry can describe.
	MaxDimension = 256
	// TypeIcon is the resource type of an icon file.
	TypeIcon = 1
	// BitsPerPixel is the depth recorded for every RGBA entry.
	BitsPerPixel = 32
)

var (
	// ErrUnsupportedSize is returned for images that cannot be described by a
	// directory entry.
	ErrUnsupportedSize = errors.New("ico: unsupported image size")
	// ErrNoImages is returned when encoding an empty image list.
	ErrNoImages = errors.New("ico: no images to encode")
	// ErrMalformed is returned when a container cannot be parsed.
	ErrMalformed = errors.New("ico: malformed container")
)

// Header is the fixed file header.
type Header struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// DirEntry describes one embedded image.
type DirEntry struct {
	Width        uint8
	Height       uint8
	PaletteCount uint8
	Reserved     uint8
	Planes       uint16
	BitsPerPixel uint16
	Length       uint32
	Offset       uint32
}

// PixelWidth returns the width in pixels, applying the 0 means 256 rule.
func (e DirEntry) PixelWidth() int {
	return decodeDimension(e.Width)
}

// PixelHeight returns the height in pixels, applying the 0 means 256 rule.
func (e DirEntry) PixelHeight() int {
	return decodeDimension(e.Height)
}

// encodeDimension maps a side length to its single-byte field.
func encodeDimension(n int) (uint8, error) {
	if n < 1 || n > MaxDimension {
		return 0, errors.Wrapf(ErrUnsupportedSize, "side %d outside 1..%d", n, MaxDimension)
	}
	if n == MaxDimension {
		return 0, nil
	}
	return uint8(n), nil
}

func decodeDimension(b uint8) int {
	if b == 0 {
		return MaxDimension
	}
	return int(b)
}
