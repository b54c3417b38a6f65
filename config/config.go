// Package config holds the settings of an icon generation run.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconset/ico"
	"github.com/nvr-ai/go-iconset/images"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

const (
	// DefaultSource is the source image read when none is configured.
	DefaultSource = "icon.png"
	// DefaultPNGDir is where the PNG variants are written.
	DefaultPNGDir = "."
	// DefaultPNGPattern names each PNG variant by its side length.
	DefaultPNGPattern = "icon_%d.png"
	// DefaultICOPath is the container destination used by desktop runners.
	DefaultICOPath = "windows/runner/resources/app_icon.ico"
)

var (
	// DefaultPNGSizes are the side lengths written as individual PNG files.
	DefaultPNGSizes = []int{16, 24, 32, 48, 64, 128, 256, 512}
	// DefaultICOSizes are the side lengths embedded in the container.
	DefaultICOSizes = []int{16, 24, 32, 48, 64, 128, 256}
)

// Config describes one generation run.
type Config struct {
	// Source is the path of the source image.
	Source string `json:"source" yaml:"source" toml:"source"`
	// PNGDir is the directory the PNG variants are written to.
	PNGDir string `json:"png_dir" yaml:"png_dir" toml:"png_dir"`
	// PNGPattern is the PNG filename pattern; it must contain one %d verb.
	PNGPattern string `json:"png_pattern" yaml:"png_pattern" toml:"png_pattern"`
	// PNGSizes are the side lengths written as PNG files, in order.
	PNGSizes []int `json:"png_sizes" yaml:"png_sizes" toml:"png_sizes"`
	// ICOPath is the destination of the icon container.
	ICOPath string `json:"ico_path" yaml:"ico_path" toml:"ico_path"`
	// ICOSizes are the side lengths embedded in the container, in order.
	ICOSizes []int `json:"ico_sizes" yaml:"ico_sizes" toml:"ico_sizes"`
	// ICNSPath enables a macOS icon set when non-empty.
	ICNSPath string `json:"icns_path" yaml:"icns_path" toml:"icns_path"`
	// Filter is the resampling filter name.
	Filter string `json:"filter" yaml:"filter" toml:"filter"`
	// SVGRasterSize is the side an SVG source is rasterized to before squaring.
	SVGRasterSize int `json:"svg_raster_size" yaml:"svg_raster_size" toml:"svg_raster_size"`
}

// Default returns the configuration used when no file or flags override it.
func Default() *Config {
	return &Config{
		Source:        DefaultSource,
		PNGDir:        DefaultPNGDir,
		PNGPattern:    DefaultPNGPattern,
		PNGSizes:      append([]int(nil), DefaultPNGSizes...),
		ICOPath:       DefaultICOPath,
		ICOSizes:      append([]int(nil), DefaultICOSizes...),
		Filter:        string(images.DefaultFilter),
		SVGRasterSize: images.DefaultSVGRasterSize,
	}
}

// Validate checks the configuration for values the pipeline cannot honor.
//
// Returns:
//   - error: ErrInvalid wrapped with the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.Wrap(ErrInvalid, "source is required")
	}
	if c.ICOPath == "" && len(c.PNGSizes) == 0 {
		return errors.Wrap(ErrInvalid, "nothing to generate: no png sizes and no ico path")
	}
	if err := checkSizes("png_sizes", c.PNGSizes); err != nil {
		return err
	}
	if len(c.PNGSizes) > 0 {
		if strings.Count(c.PNGPattern, "%d") != 1 || strings.Count(c.PNGPattern, "%") != 1 {
			return errors.Wrapf(ErrInvalid, "png_pattern %q must contain exactly one %%d", c.PNGPattern)
		}
	}
	if c.ICOPath != "" {
		if err := checkSizes("ico_sizes", c.ICOSizes); err != nil {
			return err
		}
		if err := ico.CheckSizes(c.ICOSizes); err != nil {
			return errors.Wrapf(ErrInvalid, "ico_sizes: %v", err)
		}
	}
	if _, err := images.ParseFilter(c.Filter); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if c.SVGRasterSize < 0 {
		return errors.Wrapf(ErrInvalid, "svg_raster_size %d is negative", c.SVGRasterSize)
	}
	if c.SVGRasterSize > 0 && c.SVGRasterSize < c.LargestSize() {
		return errors.Wrapf(ErrInvalid, "svg_raster_size %d is smaller than the largest output size %d", c.SVGRasterSize, c.LargestSize())
	}
	return nil
}

// AllSizes returns the union of PNG and container sizes, each once, in the
// order they first appear (PNG sizes first).
func (c *Config) AllSizes() []int {
	seen := make(map[int]bool)
	var out []int
	add := func(sizes []int) {
		for _, s := range sizes {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	add(c.PNGSizes)
	if c.ICOPath != "" {
		add(c.ICOSizes)
	}
	return out
}

// LargestSize returns the largest requested side length, or 0.
func (c *Config) LargestSize() int {
	largest := 0
	for _, s := range c.AllSizes() {
		largest = max(largest, s)
	}
	return largest
}

func checkSizes(field string, sizes []int) error {
	seen := make(map[int]bool, len(sizes))
	for _, s := range sizes {
		if s <= 0 {
			return errors.Wrapf(ErrInvalid, "%s: size %d must be positive", field, s)
		}
		if seen[s] {
			return errors.Wrapf(ErrInvalid, "%s: size %d listed twice", field, s)
		}
		seen[s] = true
	}
	return nil
}

// ParseSizes parses a comma-separated list of side lengths such as "16,32,48".
func ParseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalid, "size %q is not an integer", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
