package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with pointer fields so that keys absent from a
// file can be told apart from keys set to an empty value.
type fileConfig struct {
	Source        *string `json:"source" yaml:"source" toml:"source"`
	PNGDir        *string `json:"png_dir" yaml:"png_dir" toml:"png_dir"`
	PNGPattern    *string `json:"png_pattern" yaml:"png_pattern" toml:"png_pattern"`
	PNGSizes      *[]int  `json:"png_sizes" yaml:"png_sizes" toml:"png_sizes"`
	ICOPath       *string `json:"ico_path" yaml:"ico_path" toml:"ico_path"`
	ICOSizes      *[]int  `json:"ico_sizes" yaml:"ico_sizes" toml:"ico_sizes"`
	ICNSPath      *string `json:"icns_path" yaml:"icns_path" toml:"icns_path"`
	Filter        *string `json:"filter" yaml:"filter" toml:"filter"`
	SVGRasterSize *int    `json:"svg_raster_size" yaml:"svg_raster_size" toml:"svg_raster_size"`
}

// Load reads a configuration file on top of Default. The decoder is chosen by
// extension: .yaml/.yml, .toml or .json. Keys absent from the file keep their
// default values. Relative paths set in the file are resolved against the
// file's directory; defaults stay relative to the working directory.
//
// Arguments:
//   - path: Path to the configuration file.
//
// Returns:
//   - *Config: The merged configuration (not yet validated).
//   - error: An error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		_, err = toml.Decode(string(data), &fc)
	case ".json":
		err = json.Unmarshal(data, &fc)
	default:
		return nil, errors.Wrapf(ErrInvalid, "unsupported config format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	cfg := Default()
	fc.apply(cfg, filepath.Dir(path))
	return cfg, nil
}

// apply copies every key set in the file onto cfg.
func (fc *fileConfig) apply(cfg *Config, base string) {
	setPath := func(dst *string, v *string) {
		if v == nil {
			return
		}
		*dst = *v
		if *v != "" && !filepath.IsAbs(*v) {
			*dst = filepath.Join(base, *v)
		}
	}
	setPath(&cfg.Source, fc.Source)
	setPath(&cfg.PNGDir, fc.PNGDir)
	setPath(&cfg.ICOPath, fc.ICOPath)
	setPath(&cfg.ICNSPath, fc.ICNSPath)

	if fc.PNGPattern != nil {
		cfg.PNGPattern = *fc.PNGPattern
	}
	if fc.PNGSizes != nil {
		cfg.PNGSizes = *fc.PNGSizes
	}
	if fc.ICOSizes != nil {
		cfg.ICOSizes = *fc.ICOSizes
	}
	if fc.Filter != nil {
		cfg.Filter = *fc.Filter
	}
	if fc.SVGRasterSize != nil {
		cfg.SVGRasterSize = *fc.SVGRasterSize
	}
}
