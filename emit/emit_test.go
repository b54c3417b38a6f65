package emit

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-iconset/ico"
	"github.com/nvr-ai/go-iconset/images"
	"github.com/nvr-ai/go-iconset/internal/pngrgba"
)

func getTestVariants(sizes ...int) []images.Variant {
	return getTestVariantsAlpha(200, sizes...)
}

func getTestVariantsAlpha(alpha uint8, sizes ...int) []images.Variant {
	out := make([]images.Variant, len(sizes))
	for i, s := range sizes {
		img := image.NewNRGBA(image.Rect(0, 0, s, s))
		for y := 0; y < s; y++ {
			for x := 0; x < s; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: 90, A: alpha})
			}
		}
		out[i] = images.Variant{Size: s, Image: img}
	}
	return out
}

func encodeContainer(t *testing.T, variants []images.Variant) []byte {
	t.Helper()
	imgs := make([]image.Image, len(variants))
	for i, v := range variants {
		imgs[i] = v.Image
	}
	var buf bytes.Buffer
	require.NoError(t, ico.Encode(&buf, imgs))
	return buf.Bytes()
}

func TestWritePNGs(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
	}{
		{name: "translucent", alpha: 200},
		{name: "opaque", alpha: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testWritePNGs(t, getTestVariantsAlpha(tt.alpha, 16, 32, 64))
		})
	}
}

func testWritePNGs(t *testing.T, variants []images.Variant) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	files, err := WritePNGs(variants, dir, "icon_%d.png")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for i, f := range files {
		assert.Equal(t, KindPNG, f.Kind)
		assert.Equal(t, filepath.Join(dir, []string{"icon_16.png", "icon_32.png", "icon_64.png"}[i]), f.Path)

		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), f.Size)
		assert.Equal(t, pngrgba.ColorTypeRGBA, pngrgba.ColorType(data), "IHDR color type")

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, variants[i].Size, img.Bounds().Dx())
		assert.Equal(t, variants[i].Size, img.Bounds().Dy())
		_, isNRGBA := img.(*image.NRGBA)
		assert.True(t, isNRGBA, "PNG should decode as 8-bit RGBA with alpha")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files should be left behind")
}

func TestWritePNGsOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := PNGPath(dir, "icon_%d.png", 16)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := WritePNGs(getTestVariants(16), dir, "icon_%d.png")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, []byte("stale"), data)
}

func TestWritePNGsIdempotent(t *testing.T) {
	dir := t.TempDir()
	variants := getTestVariants(24, 48)

	_, err := WritePNGs(variants, dir, "icon_%d.png")
	require.NoError(t, err)
	first, err := os.ReadFile(PNGPath(dir, "icon_%d.png", 48))
	require.NoError(t, err)

	_, err = WritePNGs(variants, dir, "icon_%d.png")
	require.NoError(t, err)
	second, err := os.ReadFile(PNGPath(dir, "icon_%d.png", 48))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWritePNGsWriteError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	dir := filepath.Join(blocker, "out")
	files, err := WritePNGs(getTestVariants(16), dir, "icon_%d.png")

	require.Error(t, err)
	assert.Empty(t, files)
	assert.True(t, errors.Is(err, ErrWrite))

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, filepath.Join(dir, "icon_16.png"), werr.Path)
	assert.Contains(t, err.Error(), werr.Path)
}

func TestWriteICO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows", "runner", "resources", "app_icon.ico")
	f, err := WriteICO(path, encodeContainer(t, getTestVariants(16, 32, 256)))
	require.NoError(t, err)
	assert.Equal(t, KindICO, f.Kind)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), f.Size)

	dir, err := ico.ReadDirectory(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, []int{16, 32, 256}, dir.Sizes())
}

func TestWriteICOMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_icon.ico")

	container := encodeContainer(t, getTestVariants(16, 32))
	_, err := WriteICO(path, container[:len(container)-1])
	assert.True(t, errors.Is(err, ico.ErrMalformed))

	_, err = WriteICO(path, nil)
	assert.True(t, errors.Is(err, ico.ErrMalformed))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "container must not be produced")
}

func TestWriteICNS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macos", "AppIcon.icns")

	f, err := WriteICNS(path, getTestVariants(512)[0].Image)
	require.NoError(t, err)
	assert.Equal(t, KindICNS, f.Kind)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "icns", string(data[:4]))
}

func TestManifestAdd(t *testing.T) {
	var m Manifest
	m.Add(File{Kind: KindPNG, Path: "a.png", Size: 1})
	m.Add(File{Kind: KindICO, Path: "a.ico", Size: 2})
	assert.Len(t, m.Files, 2)
	assert.Equal(t, "a.ico", m.Files[1].Path)
}
