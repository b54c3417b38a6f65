package generator

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long Watch waits after the last change to the source
// before regenerating. Editors often write a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(g *Generator) { g.debounce = d }
}

// WithRunHook is called after every run started by Watch.
func WithRunHook(fn func(*Result, error)) Option {
	return func(g *Generator) { g.onRun = fn }
}

// Watch runs the pipeline once, then again every time the source file is
// written or recreated, until ctx is cancelled. Runs never overlap. A failed
// run is logged and watching continues.
//
// Arguments:
//   - ctx: Stops watching when cancelled.
//
// Returns:
//   - error: An error if the watcher cannot be set up.
func (g *Generator) Watch(ctx context.Context) error {
	src, err := filepath.Abs(g.cfg.Source)
	if err != nil {
		return errors.Wrap(err, "failed to resolve source path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	// The directory is watched rather than the file so that editors that
	// replace the file on save keep triggering events.
	if err := watcher.Add(filepath.Dir(src)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(src))
	}
	g.logger.Printf("👀 Watching %s for changes", src)

	g.runOnce(ctx)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != src {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(g.debounce)
			} else {
				timer.Reset(g.debounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			g.runOnce(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Printf("⚠️  Watcher error: %v", err)
		}
	}
}

func (g *Generator) runOnce(ctx context.Context) {
	res, err := g.Run(ctx)
	if err != nil {
		g.logger.Printf("❌ Failed to generate icons: %v", err)
	} else {
		g.logger.Printf("🎉 Generated %d files in %v", len(res.Manifest.Files), res.Duration)
	}
	if g.onRun != nil {
		g.onRun(res, err)
	}
}
