package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconset/ico"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := inspect(os.Stdout, flag.Arg(0)); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// DIB header sizes: BITMAPINFOHEADER, BITMAPV4HEADER, BITMAPV5HEADER.
var dibHeaderSizes = map[uint32]bool{40: true, 108: true, 124: true}

// inspect prints the directory of an icon container and checks that every
// PNG payload decodes to its declared size. BMP (DIB) payloads are listed
// but not decoded.
func inspect(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read container")
	}

	r := bytes.NewReader(data)
	dir, err := ico.ReadDirectory(r, int64(len(data)))
	if err != nil {
		return errors.Wrap(err, path)
	}

	fmt.Fprintf(w, "%s: %d images, %d bytes\n", path, dir.Header.Count, len(data))
	for i, e := range dir.Entries {
		payload, err := dir.Payload(r, i)
		if err != nil {
			return err
		}
		format, err := payloadFormat(payload)
		if err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		if format == "png" {
			cfg, _, err := image.DecodeConfig(bytes.NewReader(payload))
			if err != nil {
				return errors.Wrapf(ico.ErrMalformed, "entry %d payload: %v", i, err)
			}
			if cfg.Width != e.PixelWidth() || cfg.Height != e.PixelHeight() {
				return errors.Wrapf(ico.ErrMalformed, "entry %d declares %dx%d but payload is %dx%d",
					i, e.PixelWidth(), e.PixelHeight(), cfg.Width, cfg.Height)
			}
		} else {
			format = "bmp payload (not decoded)"
		}
		fmt.Fprintf(w, "  #%d  %3dx%-3d  %2dbpp  %-4s  length %-7d offset %d\n",
			i, e.PixelWidth(), e.PixelHeight(), e.BitsPerPixel, format, e.Length, e.Offset)
	}
	return nil
}

// payloadFormat tells PNG payloads from BMP (DIB) payloads.
func payloadFormat(payload []byte) (string, error) {
	if bytes.HasPrefix(payload, pngSignature) {
		return "png", nil
	}
	if len(payload) >= 4 && dibHeaderSizes[binary.LittleEndian.Uint32(payload)] {
		return "bmp", nil
	}
	return "", errors.Wrap(ico.ErrMalformed, "payload is neither PNG nor BMP")
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.ico>\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Prints the directory of a Windows icon container.\n")
		fmt.Fprintf(os.Stderr, "PNG payloads are checked against their entries; BMP payloads are listed only.\n")
	}
}
