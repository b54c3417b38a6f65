// Package generator runs the icon pipeline: load the source, square it,
// resize it to every configured size and write the PNG files and containers.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconset/config"
	"github.com/nvr-ai/go-iconset/emit"
	"github.com/nvr-ai/go-iconset/ico"
	"github.com/nvr-ai/go-iconset/images"
	"github.com/nvr-ai/go-iconset/profiler"
	"github.com/nvr-ai/go-iconset/util"
)

// Stage names one step of a run; failures are reported with it.
type Stage string

const (
	StageConfig Stage = "validate config"
	StageLoad   Stage = "load source"
	StageDecode Stage = "decode source"
	StageResize Stage = "resize"
	StageEncode Stage = "encode container"
	StageWrite  Stage = "write output"
)

// StageError wraps the error that stopped a run with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result summarizes a successful run.
type Result struct {
	// Source is the decoded source image.
	Source *images.Source
	// CanonicalSize is the side of the squared working image.
	CanonicalSize int
	// Checksum identifies the pixels of the squared working image. Runs with
	// equal checksums and configuration produce identical files.
	Checksum string
	// Variants holds one variant per distinct requested size.
	Variants []images.Variant
	// Manifest lists every written file.
	Manifest emit.Manifest
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Generator runs the pipeline for one configuration. Runs share no state and
// may be repeated; each regenerates every output.
type Generator struct {
	cfg      *config.Config
	filter   images.ResampleFilter
	logger   *log.Logger
	timer    *profiler.StageTimer
	debounce time.Duration
	onRun    func(*Result, error)
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress lines.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithTimer records per-stage durations into st.
func WithTimer(st *profiler.StageTimer) Option {
	return func(g *Generator) { g.timer = st }
}

// New validates the configuration and creates a Generator.
//
// Arguments:
//   - cfg: The run configuration.
//   - opts: Optional settings.
//
// Returns:
//   - *Generator: The generator.
//   - error: A *StageError for StageConfig if cfg is invalid.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &StageError{Stage: StageConfig, Err: err}
	}
	filter, err := images.ParseFilter(cfg.Filter)
	if err != nil {
		return nil, &StageError{Stage: StageConfig, Err: err}
	}

	g := &Generator{
		cfg:      cfg,
		filter:   filter,
		logger:   log.Default(),
		timer:    profiler.NewStageTimer(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Timer returns the stage timer the generator records into.
func (g *Generator) Timer() *profiler.StageTimer {
	return g.timer
}

// Run performs one complete generation. The context is checked between
// stages; a cancelled run stops before its next stage.
//
// Arguments:
//   - ctx: Cancellation for the run.
//
// Returns:
//   - *Result: Summary of the run.
//   - error: A *StageError naming the failing stage.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	var file util.ImageFile
	err := g.stage(ctx, StageLoad, func() error {
		var err error
		file, err = util.LoadImageFile(g.cfg.Source)
		return err
	})
	if err != nil {
		return nil, err
	}
	g.logger.Printf("🔄 Loading source icon: %s", file.Path)

	var canonical *image.NRGBA
	err = g.stage(ctx, StageDecode, func() error {
		src, err := images.Decode(file.Data, images.DecodeOptions{
			Ext:           file.Ext,
			SVGRasterSize: g.cfg.SVGRasterSize,
		})
		if err != nil {
			return errors.Wrap(err, file.Path)
		}
		res.Source = src
		canonical = images.Square(src.Image)
		res.CanonicalSize = canonical.Bounds().Dx()
		res.Checksum = images.ComputeChecksum(canonical)
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.logger.Printf("📋 Source image: %dx%d %s, canonical %dx%d (checksum %s)",
		res.Source.Width, res.Source.Height, res.Source.Format, res.CanonicalSize, res.CanonicalSize, res.Checksum)

	err = g.stage(ctx, StageResize, func() error {
		var err error
		res.Variants, err = images.Variants(canonical, g.cfg.AllSizes(), g.filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	bySize := make(map[int]images.Variant, len(res.Variants))
	for _, v := range res.Variants {
		bySize[v.Size] = v
	}

	// The container is encoded before anything is written, so an unusable
	// size list never leaves a partial set of files behind.
	var container []byte
	if g.cfg.ICOPath != "" {
		err = g.stage(ctx, StageEncode, func() error {
			imgs := make([]image.Image, len(g.cfg.ICOSizes))
			for i, size := range g.cfg.ICOSizes {
				imgs[i] = bySize[size].Image
			}
			var buf bytes.Buffer
			if err := ico.Encode(&buf, imgs); err != nil {
				return err
			}
			container = buf.Bytes()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err = g.stage(ctx, StageWrite, func() error {
		pngs := make([]images.Variant, len(g.cfg.PNGSizes))
		for i, size := range g.cfg.PNGSizes {
			pngs[i] = bySize[size]
		}
		files, err := emit.WritePNGs(pngs, g.cfg.PNGDir, g.cfg.PNGPattern)
		for _, f := range files {
			res.Manifest.Add(f)
			g.logger.Printf("✅ Generated: %s", f.Path)
		}
		if err != nil {
			return err
		}

		if container != nil {
			f, err := emit.WriteICO(g.cfg.ICOPath, container)
			if err != nil {
				return err
			}
			res.Manifest.Add(f)
			g.logger.Printf("✅ Generated: %s (%d images)", f.Path, len(g.cfg.ICOSizes))
		}

		if g.cfg.ICNSPath != "" {
			f, err := emit.WriteICNS(g.cfg.ICNSPath, largest(res.Variants).Image)
			if err != nil {
				return err
			}
			res.Manifest.Add(f)
			g.logger.Printf("✅ Generated: %s", f.Path)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	return res, nil
}

// stage runs fn under a stage name: it checks for cancellation first, times
// fn, and tags any error with the stage.
func (g *Generator) stage(ctx context.Context, s Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: s, Err: err}
	}
	done := g.timer.StartOperation(string(s))
	err := fn()
	done()
	if err != nil {
		return &StageError{Stage: s, Err: err}
	}
	return nil
}

func largest(vs []images.Variant) images.Variant {
	var best images.Variant
	for _, v := range vs {
		if v.Size > best.Size {
			best = v
		}
	}
	return best
}
