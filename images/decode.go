package images

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/jsummers/gobmp"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/webp"
)

// ErrDecode is returned when the source bytes cannot be decoded as an image.
var ErrDecode = errors.New("unable to decode source image")

// DefaultSVGRasterSize is the side of the square an SVG source is fitted into.
const DefaultSVGRasterSize = 1024

// DecodeOptions controls how a source image is decoded.
type DecodeOptions struct {
	// Ext is the lower-cased extension of the source file, used to recognize SVG.
	Ext string `json:"ext" yaml:"ext"`
	// SVGRasterSize is the largest side, in pixels, of a rasterized SVG source.
	SVGRasterSize int `json:"svgRasterSize" yaml:"svgRasterSize"`
}

// Decode decodes raw source bytes and normalizes the result to RGBA.
//
// Arguments:
//   - data: The raw bytes of the source image.
//   - opts: Decoding options.
//
// Returns:
//   - *Source: The decoded, RGBA-normalized source.
//   - error: ErrDecode (wrapped) if the data is not a supported image.
func Decode(data []byte, opts DecodeOptions) (*Source, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrDecode, "empty image data")
	}

	format := DetectFormat(data, opts.Ext)

	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG, FormatJPEG, FormatGIF:
		img, _, err = image.Decode(bytes.NewReader(data))
	case FormatBMP:
		img, err = gobmp.Decode(bytes.NewReader(data))
	case FormatWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	case FormatSVG:
		size := opts.SVGRasterSize
		if size <= 0 {
			size = DefaultSVGRasterSize
		}
		img, err = rasterizeSVG(data, size)
	default:
		return nil, errors.Wrap(ErrDecode, "unrecognized image format")
	}
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", format, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Wrapf(ErrDecode, "invalid image dimensions: %dx%d", b.Dx(), b.Dy())
	}

	return &Source{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Image:  Normalize(img),
	}, nil
}

// rasterizeSVG renders an SVG document so that its larger side equals size,
// preserving the aspect ratio of its view box.
func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(size), float64(size)
	}

	scale := float64(size) / math.Max(w, h)
	outW := int(math.Round(w * scale))
	outH := int(math.Round(h * scale))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	icon.SetTarget(0, 0, float64(outW), float64(outH))

	rgba := image.NewRGBA(image.Rect(0, 0, outW, outH))
	scanner := rasterx.NewScannerGV(outW, outH, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(outW, outH, scanner)
	icon.Draw(raster, 1.0)

	return imaging.Clone(rgba), nil
}
