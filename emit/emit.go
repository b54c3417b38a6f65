// Package emit writes resized icon variants and containers to disk.
package emit

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/jackmordaunt/icns/v3"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconset/ico"
	"github.com/nvr-ai/go-iconset/images"
	"github.com/nvr-ai/go-iconset/internal/pngrgba"
)

// ErrWrite matches every *WriteError via errors.Is.
var ErrWrite = errors.New("write failed")

// WriteError reports the destination that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// FileKind identifies what an emitted file contains.
type FileKind string

const (
	KindPNG  FileKind = "png"
	KindICO  FileKind = "ico"
	KindICNS FileKind = "icns"
)

// File is one emitted file.
type File struct {
	Kind FileKind `json:"kind" yaml:"kind"`
	Path string   `json:"path" yaml:"path"`
	Size int64    `json:"size" yaml:"size"`
}

// Manifest lists every file written by one run, in write order.
type Manifest struct {
	Files []File `json:"files" yaml:"files"`
}

// Add appends a file to the manifest.
func (m *Manifest) Add(f File) {
	m.Files = append(m.Files, f)
}

// PNGPath returns the destination of the PNG for one side length.
//
// Arguments:
//   - dir: The PNG output directory.
//   - pattern: A filename pattern with a single %d verb, e.g. "icon_%d.png".
//   - size: The side length.
func PNGPath(dir, pattern string, size int) string {
	return filepath.Join(dir, fmt.Sprintf(pattern, size))
}

// WritePNGs writes each variant as an independent 32-bit RGBA PNG file.
//
// Arguments:
//   - variants: The variants to write.
//   - dir: The output directory, created if absent.
//   - pattern: The filename pattern (see PNGPath).
//
// Returns:
//   - []File: The written files, in variant order.
//   - error: A *WriteError for the first file that could not be written.
//     Files written before the failure are left on disk.
func WritePNGs(variants []images.Variant, dir, pattern string) ([]File, error) {
	files := make([]File, 0, len(variants))
	for _, v := range variants {
		path := PNGPath(dir, pattern, v.Size)
		f, err := writeFile(path, KindPNG, func(w io.Writer) error {
			return pngrgba.Encode(w, v.Image)
		})
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	return files, nil
}

// WriteICO writes an encoded icon container. The directory is checked
// before the file is touched.
//
// Arguments:
//   - path: The container path; its directory is created if absent.
//   - container: The bytes produced by ico.Encode or ico.Marshal.
//
// Returns:
//   - File: The written container.
//   - error: ico.ErrMalformed before anything is written, or a *WriteError.
func WriteICO(path string, container []byte) (File, error) {
	if _, err := ico.ReadDirectory(bytes.NewReader(container), int64(len(container))); err != nil {
		return File{}, err
	}
	return writeFile(path, KindICO, func(w io.Writer) error {
		_, err := w.Write(container)
		return err
	})
}

// WriteICNS writes a macOS icon set derived from img.
func WriteICNS(path string, img image.Image) (File, error) {
	return writeFile(path, KindICNS, func(w io.Writer) error {
		return icns.Encode(w, img)
	})
}

// writeFile writes through a temporary sibling and renames it into place so
// that path is replaced in a single step. Existing files are overwritten.
func writeFile(path string, kind FileKind, write func(io.Writer) error) (File, error) {
	fail := func(err error) (File, error) {
		return File{}, &WriteError{Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fail(err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}

	return File{Kind: kind, Path: path, Size: info.Size()}, nil
}
