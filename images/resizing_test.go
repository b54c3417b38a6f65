package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestImage(w, h int) *image.NRGBA {
	// A red/blue checkerboard gives the filters something to smooth.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResize(t *testing.T) {
	src := getTestImage(512, 512)

	for _, filter := range []ResampleFilter{Lanczos3, MitchellNetravali, CatmullRom, Box} {
		t.Run(string(filter), func(t *testing.T) {
			for _, size := range []int{16, 24, 32, 48, 64, 128, 256, 512, 1024} {
				img, err := Resize(src, size, filter)
				require.NoError(t, err)
				assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds(), "size %d", size)
				assert.Len(t, img.Pix, size*size*4, "RGBA layout for size %d", size)
			}
		})
	}
}

func TestResizeDefaultFilter(t *testing.T) {
	img, err := Resize(getTestImage(64, 64), 32, "")
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestResizeInvalid(t *testing.T) {
	src := getTestImage(64, 64)

	_, err := Resize(src, 0, Lanczos3)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = Resize(src, -16, Lanczos3)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = Resize(src, 16, "nearest")
	assert.Error(t, err)
}

func TestResizeDeterministic(t *testing.T) {
	src := getTestImage(300, 300)

	a, err := Resize(src, 48, Lanczos3)
	require.NoError(t, err)
	b, err := Resize(src, 48, Lanczos3)
	require.NoError(t, err)

	assert.Equal(t, ComputeChecksum(a), ComputeChecksum(b))
}

func TestResizePreservesTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 256, 256))

	img, err := Resize(src, 32, Lanczos3)
	require.NoError(t, err)

	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i], "fully transparent input must stay transparent")
	}
}

func TestVariants(t *testing.T) {
	src := getTestImage(512, 512)
	sizes := []int{16, 32, 256}

	variants, err := Variants(src, sizes, Lanczos3)
	require.NoError(t, err)
	require.Len(t, variants, len(sizes))

	for i, v := range variants {
		assert.Equal(t, sizes[i], v.Size, "order must follow the request")
		assert.Equal(t, sizes[i], v.Image.Bounds().Dx())
		assert.Equal(t, sizes[i], v.Image.Bounds().Dy())
	}

	_, err = Variants(src, []int{16, 0}, Lanczos3)
	assert.True(t, errors.Is(err, ErrInvalidSize))
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ResampleFilter
		wantErr bool
	}{
		{name: "empty selects default", input: "", want: DefaultFilter},
		{name: "lanczos", input: "lanczos3", want: Lanczos3},
		{name: "case insensitive", input: " CatmullRom ", want: CatmullRom},
		{name: "box", input: "box", want: Box},
		{name: "mitchell", input: "mitchell", want: MitchellNetravali},
		{name: "nearest rejected", input: "nearest", wantErr: true},
		{name: "bilinear rejected", input: "bilinear", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilters(t *testing.T) {
	assert.Equal(t, []string{"box", "catmullrom", "lanczos3", "mitchell"}, Filters())
}
