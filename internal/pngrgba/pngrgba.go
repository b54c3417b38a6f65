// Package pngrgba writes PNG files that always carry an alpha channel.
//
// image/png picks the smallest color type that holds the pixels, so a fully
// opaque image is written as 24-bit RGB. Icon files and icon container
// payloads declare 32 bits per pixel, so every image here is written as
// 8-bit RGBA (color type 6) regardless of its content.
package pngrgba

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/draw"
	"io"

	"github.com/pkg/errors"
)

const (
	// ColorTypeRGBA is the IHDR color type for 8-bit truecolor with alpha.
	ColorTypeRGBA = 6

	bitDepth = 8
	// Byte offset of the color type inside a PNG stream.
	colorTypeOffset = 25
)

var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("pngrgba: empty image")

// Encode writes img to w as a non-interlaced 8-bit RGBA PNG. Pixel values
// are stored non-premultiplied. The output is deterministic for equal input.
//
// Arguments:
//   - w: The destination writer.
//   - img: The image to encode.
//
// Returns:
//   - error: ErrEmptyImage, or an error from compression or w.
func Encode(w io.Writer, img image.Image) error {
	src := toNRGBA(img)
	b := src.Bounds()
	if b.Empty() {
		return ErrEmptyImage
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(b.Dy()))
	ihdr[8] = bitDepth
	ihdr[9] = ColorTypeRGBA
	// Compression, filter and interlace methods are all 0.

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, zlib.BestCompression)
	if err != nil {
		return errors.Wrap(err, "pngrgba: zlib writer")
	}
	stride := 4 * b.Dx()
	row := make([]byte, 1+stride)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		// row[0] stays 0: filter type None.
		off := src.PixOffset(b.Min.X, y)
		copy(row[1:], src.Pix[off:off+stride])
		if _, err := zw.Write(row); err != nil {
			return errors.Wrap(err, "pngrgba: compress pixels")
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "pngrgba: compress pixels")
	}

	if _, err := w.Write(signature); err != nil {
		return errors.Wrap(err, "pngrgba: write signature")
	}
	for _, c := range []struct {
		name string
		data []byte
	}{
		{"IHDR", ihdr},
		{"IDAT", idat.Bytes()},
		{"IEND", nil},
	} {
		if err := writeChunk(w, c.name, c.data); err != nil {
			return err
		}
	}
	return nil
}

// ColorType returns the IHDR color type of a PNG stream, or -1 if data is
// too short or lacks the PNG signature.
func ColorType(data []byte) int {
	if len(data) <= colorTypeOffset || !bytes.HasPrefix(data, signature) {
		return -1
	}
	return int(data[colorTypeOffset])
}

func writeChunk(w io.Writer, name string, data []byte) error {
	buf := make([]byte, 0, 12+len(data))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, name...)
	buf = append(buf, data...)
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf[4:]))
	if _, err := w.Write(buf); err != nil {
		return errors.Wrapf(err, "pngrgba: write %s chunk", name)
	}
	return nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m
	}
	b := img.Bounds()
	m := image.NewNRGBA(b)
	draw.Draw(m, b, img, b.Min, draw.Src)
	return m
}
