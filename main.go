package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nvr-ai/go-iconset/config"
	"github.com/nvr-ai/go-iconset/generator"
	"github.com/nvr-ai/go-iconset/images"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// options holds the command line flags.
type options struct {
	configFile string
	source     string
	outDir     string
	icoPath    string
	icnsPath   string
	sizes      string
	icoSizes   string
	filter     string
	watch      bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	var opts options
	fs.StringVar(&opts.configFile, "config", "", "Path to a .yaml, .toml or .json configuration file")
	fs.StringVar(&opts.source, "source", "", "Source image (default "+config.DefaultSource+")")
	fs.StringVar(&opts.outDir, "out", "", "Output directory for PNG files (default "+config.DefaultPNGDir+")")
	fs.StringVar(&opts.icoPath, "ico", "", "Icon container path (default "+config.DefaultICOPath+")")
	fs.StringVar(&opts.icnsPath, "icns", "", "Also write a macOS .icns file at this path")
	fs.StringVar(&opts.sizes, "sizes", "", "Comma-separated PNG sizes")
	fs.StringVar(&opts.icoSizes, "ico-sizes", "", "Comma-separated sizes embedded in the container (max 256)")
	fs.StringVar(&opts.filter, "filter", "", "Resampling filter: "+strings.Join(images.Filters(), ", "))
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate whenever the source image changes")
	fs.BoolVar(&opts.verbose, "v", false, "Print per-stage timings")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		log.Printf("❌ %v", err)
		return exitUsage
	}

	g, err := generator.New(cfg)
	if err != nil {
		log.Printf("❌ %v", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		if err := g.Watch(ctx); err != nil {
			log.Printf("❌ %v", err)
			return exitFailure
		}
		return 0
	}

	res, err := g.Run(ctx)
	if opts.verbose {
		fmt.Printf("\n=== STAGE TIMINGS ===\n%s\n", g.Timer())
	}
	if err != nil {
		log.Printf("❌ Failed to generate icons: %v", err)
		return exitFailure
	}

	fmt.Printf("\n[SUCCESS] All icon files generated in %v (checksum %s)\n", res.Duration, res.Checksum)
	for _, f := range res.Manifest.Files {
		fmt.Printf("  - %-4s %s (%d bytes)\n", f.Kind, f.Path, f.Size)
	}
	return 0
}

// buildConfig layers defaults, the optional config file and the flags.
func buildConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Load(opts.configFile); err != nil {
			return nil, err
		}
	}

	if opts.source != "" {
		cfg.Source = opts.source
	}
	if opts.outDir != "" {
		cfg.PNGDir = opts.outDir
	}
	if opts.icoPath != "" {
		cfg.ICOPath = opts.icoPath
	}
	if opts.icnsPath != "" {
		cfg.ICNSPath = opts.icnsPath
	}
	if opts.filter != "" {
		cfg.Filter = opts.filter
	}
	if opts.sizes != "" {
		sizes, err := config.ParseSizes(opts.sizes)
		if err != nil {
			return nil, err
		}
		cfg.PNGSizes = sizes
	}
	if opts.icoSizes != "" {
		sizes, err := config.ParseSizes(opts.icoSizes)
		if err != nil {
			return nil, err
		}
		cfg.ICOSizes = sizes
	}
	return cfg, nil
}

func usage(fs *flag.FlagSet) {
	name := fs.Name()
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [options]\n\n", name)
	fmt.Fprintf(out, "Generates resized PNG icons and a multi-resolution .ico from one source image.\n\n")
	fmt.Fprintf(out, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s -source icon.png\n", name)
	fmt.Fprintf(out, "  %s -config icons.yaml -v\n", name)
	fmt.Fprintf(out, "  %s -source logo.svg -icns macos/AppIcon.icns -watch\n", name)
}
