package images

import (
	"bytes"
	"strings"
)

// ImageFormat represents supported source image formats.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
	FormatBMP  ImageFormat = "bmp"
	FormatWebP ImageFormat = "webp"
	FormatSVG  ImageFormat = "svg"
	// FormatUnknown is returned when the data matches no supported signature.
	FormatUnknown ImageFormat = ""
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	gifMagic  = []byte("GIF8")
	bmpMagic  = []byte("BM")
)

// DetectFormat sniffs the format of raw image bytes. Raster formats are
// recognized by their signatures; SVG is recognized by the file extension or
// by an <svg element near the start of the document.
//
// Arguments:
//   - data: The raw image bytes.
//   - ext: The lower-cased file extension, including the dot. May be empty.
//
// Returns:
//   - ImageFormat: The detected format, or FormatUnknown.
func DetectFormat(data []byte, ext string) ImageFormat {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG
	case bytes.HasPrefix(data, gifMagic):
		return FormatGIF
	case bytes.HasPrefix(data, bmpMagic):
		return FormatBMP
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	}

	if ext == ".svg" {
		return FormatSVG
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if strings.Contains(strings.ToLower(string(head)), "<svg") {
		return FormatSVG
	}

	return FormatUnknown
}
