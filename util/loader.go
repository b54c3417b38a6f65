package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrSourceNotFound is returned when the source image path does not exist.
var ErrSourceNotFound = errors.New("source image not found")

// ImageFile represents a source image file read from disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Ext is the lower-cased file extension including the dot (e.g. ".png").
	Ext string
}

// LoadImageFile reads a single image file into memory.
//
// Arguments:
//   - path: Path to the image file.
//
// Returns:
//   - ImageFile: The raw bytes of the image file along with its path.
//   - error: ErrSourceNotFound (wrapped with the path) if the path does not exist,
//     or the underlying read error.
func LoadImageFile(path string) (ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ImageFile{}, errors.Wrap(ErrSourceNotFound, path)
		}
		return ImageFile{}, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return ImageFile{}, errors.Wrapf(ErrSourceNotFound, "%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, errors.Wrapf(err, "read %s", path)
	}

	return ImageFile{
		Path: path,
		Data: data,
		Ext:  strings.ToLower(filepath.Ext(path)),
	}, nil
}
