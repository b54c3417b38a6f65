package ico

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconset/internal/pngrgba"
)

// Encode writes images as a single icon container. Every payload is encoded
// before anything is written, so a failure leaves w untouched.
//
// Arguments:
//   - w: The destination writer.
//   - imgs: The images to embed, each at its final dimensions (at most 256 per side).
//
// Returns:
//   - error: ErrNoImages, ErrUnsupportedSize, or an encoding/write error.
func Encode(w io.Writer, imgs []image.Image) error {
	data, err := Marshal(imgs)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "ico: write container")
	}
	return nil
}

// Marshal builds the complete container in memory. Entries appear in the
// order given and every payload is a 32-bit RGBA PNG. Nothing is returned
// unless every image could be encoded.
//
// Arguments:
//   - imgs: The images to embed, in directory order.
//
// Returns:
//   - []byte: The container bytes.
//   - error: ErrNoImages, ErrUnsupportedSize, or a PNG encoding error.
func Marshal(imgs []image.Image) ([]byte, error) {
	if len(imgs) == 0 {
		return nil, ErrNoImages
	}
	if len(imgs) > math.MaxUint16 {
		return nil, errors.Wrapf(ErrUnsupportedSize, "%d images exceed the entry count field", len(imgs))
	}

	entries := make([]DirEntry, len(imgs))
	payloads := make([][]byte, len(imgs))

	offset := uint32(HeaderSize + DirEntrySize*len(imgs))
	for i, img := range imgs {
		b := img.Bounds()
		width, err := encodeDimension(b.Dx())
		if err != nil {
			return nil, errors.Wrapf(err, "image %d (%dx%d)", i, b.Dx(), b.Dy())
		}
		height, err := encodeDimension(b.Dy())
		if err != nil {
			return nil, errors.Wrapf(err, "image %d (%dx%d)", i, b.Dx(), b.Dy())
		}

		var buf bytes.Buffer
		if err := pngrgba.Encode(&buf, img); err != nil {
			return nil, errors.Wrapf(err, "ico: encode image %d", i)
		}
		payloads[i] = buf.Bytes()

		entries[i] = DirEntry{
			Width:        width,
			Height:       height,
			Planes:       1,
			BitsPerPixel: BitsPerPixel,
			Length:       uint32(buf.Len()),
			Offset:       offset,
		}
		offset += uint32(buf.Len())
	}

	out := bytes.NewBuffer(make([]byte, 0, offset))
	header := Header{Type: TypeIcon, Count: uint16(len(imgs))}
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, errors.Wrap(err, "ico: write header")
	}
	if err := binary.Write(out, binary.LittleEndian, entries); err != nil {
		return nil, errors.Wrap(err, "ico: write directory")
	}
	for _, p := range payloads {
		out.Write(p)
	}

	return out.Bytes(), nil
}

// CheckSizes reports whether every side length can be stored in a container,
// without encoding anything.
func CheckSizes(sizes []int) error {
	if len(sizes) == 0 {
		return ErrNoImages
	}
	for _, s := range sizes {
		if _, err := encodeDimension(s); err != nil {
			return err
		}
	}
	return nil
}
