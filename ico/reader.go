package ico

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Directory is the parsed header and directory of a container.
type Directory struct {
	Header  Header
	Entries []DirEntry
}

// ReadDirectory parses the header and directory of a container and checks
// that every payload span lies inside the file without overlapping another.
//
// Arguments:
//   - r: The container contents.
//   - size: The total size of the container in bytes.
//
// Returns:
//   - *Directory: The parsed directory.
//   - error: ErrMalformed (wrapped) if the container is invalid.
func ReadDirectory(r io.ReaderAt, size int64) (*Directory, error) {
	sr := io.NewSectionReader(r, 0, size)

	var d Directory
	if err := binary.Read(sr, binary.LittleEndian, &d.Header); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "header: %v", err)
	}
	if d.Header.Reserved != 0 {
		return nil, errors.Wrapf(ErrMalformed, "reserved field is %d", d.Header.Reserved)
	}
	if d.Header.Type != TypeIcon {
		return nil, errors.Wrapf(ErrMalformed, "resource type %d is not an icon", d.Header.Type)
	}

	d.Entries = make([]DirEntry, d.Header.Count)
	if err := binary.Read(sr, binary.LittleEndian, d.Entries); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "directory: %v", err)
	}

	dirEnd := int64(HeaderSize + DirEntrySize*int(d.Header.Count))
	for i, e := range d.Entries {
		start, end := int64(e.Offset), int64(e.Offset)+int64(e.Length)
		if start < dirEnd || end > size {
			return nil, errors.Wrapf(ErrMalformed, "entry %d span [%d, %d) outside payload region [%d, %d)", i, start, end, dirEnd, size)
		}
		for j := 0; j < i; j++ {
			o := d.Entries[j]
			if start < int64(o.Offset)+int64(o.Length) && int64(o.Offset) < end {
				return nil, errors.Wrapf(ErrMalformed, "entry %d overlaps entry %d", i, j)
			}
		}
	}

	return &d, nil
}

// Payload returns the raw encoded bytes of entry i.
func (d *Directory) Payload(r io.ReaderAt, i int) ([]byte, error) {
	if i < 0 || i >= len(d.Entries) {
		return nil, errors.Errorf("ico: entry %d out of range (%d entries)", i, len(d.Entries))
	}
	e := d.Entries[i]
	buf := make([]byte, e.Length)
	n, err := r.ReadAt(buf, int64(e.Offset))
	if err == io.EOF && n == len(buf) {
		err = nil
	}
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "entry %d payload: %v", i, err)
	}
	return buf, nil
}

// Sizes returns the declared side length of every entry, in directory order.
func (d *Directory) Sizes() []int {
	sizes := make([]int, len(d.Entries))
	for i, e := range d.Entries {
		sizes[i] = e.PixelWidth()
	}
	return sizes
}
