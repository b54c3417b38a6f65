// Package images - loading, squaring and resizing of icon source images.
package images

import (
	"image"
)

// Variant is the canonical image scaled to one target side length.
type Variant struct {
	// Size is the side length in pixels; the image is Size x Size.
	Size int `json:"size" yaml:"size"`
	// Image holds the 8-bit non-premultiplied RGBA pixels.
	Image *image.NRGBA `json:"-" yaml:"-"`
}

// Source describes a decoded source image before squaring.
type Source struct {
	// Format is the encoding the source was decoded from.
	Format ImageFormat `json:"format" yaml:"format"`
	// Width is the decoded width in pixels.
	Width int `json:"width" yaml:"width"`
	// Height is the decoded height in pixels.
	Height int `json:"height" yaml:"height"`
	// Image is the source normalized to RGBA.
	Image *image.NRGBA `json:"-" yaml:"-"`
}
