package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/blender"
	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/logger"
	"github.com/ivlev/frameblend/internal/watch"
)

// overrideFlag collects repeated -override id=count pairs.
type overrideFlag map[string]int

func (o overrideFlag) String() string {
	parts := make([]string, 0, len(o))
	for id, n := range o {
		parts = append(parts, fmt.Sprintf("%s=%d", id, n))
	}
	return strings.Join(parts, ",")
}

func (o overrideFlag) Set(value string) error {
	id, count, ok := strings.Cut(value, "=")
	if !ok || id == "" {
		return fmt.Errorf("expected id=count, got %q", value)
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return fmt.Errorf("bad count in %q: %w", value, err)
	}
	o[id] = n
	return nil
}

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	outPtr := flag.String("out", "", "Output directory for frames")
	prefixPtr := flag.String("prefix", "", "Frame file name prefix, e.g. week-")
	extPtr := flag.String("ext", "", "Frame format by extension: .png, .jpg, .webp")
	paddingPtr := flag.Int("padding", 0, "Zero-padding width of frame numbers")
	intermediatePtr := flag.Int("intermediate", config.DefaultIntermediate, "Intermediate frames per transition")
	easingPtr := flag.String("easing", "", "Blend curve: "+strings.Join(blender.CurveNames(), ", "))
	colorSpacePtr := flag.String("color-space", "", "Blend in srgb or linear light")
	qualityPtr := flag.Float64("quality", 0, "Lossy quality 1-100 for .jpg and .webp")
	losslessPtr := flag.Bool("lossless", false, "Lossless WebP frames")
	dpiPtr := flag.Int("dpi", 0, "Render DPI for PDF keyframes")
	dryRunPtr := flag.Bool("dry-run", false, "Print the transition plan and exit")
	watchPtr := flag.Bool("watch", false, "Re-run when keyframes or config change")
	logLevelPtr := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFilePtr := flag.String("log-file", "", "Rotating JSON log file")
	overrides := overrideFlag{}
	flag.Var(overrides, "override", "Per-keyframe intermediate count as id=count (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] keyframe1 keyframe2 [keyframe...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	load := func() (*config.BlendConfig, error) {
		cfg := &config.BlendConfig{}
		if err := config.Load(*configPtr, cfg); err != nil {
			return nil, err
		}

		args := flag.Args()
		if len(args) > 0 {
			cfg.Keyframes = nil
		}
		for _, path := range args {
			cfg.Keyframes = append(cfg.Keyframes, parseKeyframeArg(path))
		}
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "out":
				cfg.Output.Dir = *outPtr
			case "prefix":
				cfg.Output.Prefix = *prefixPtr
			case "ext":
				cfg.Output.Ext = *extPtr
			case "padding":
				cfg.Output.Padding = *paddingPtr
			case "intermediate":
				n := *intermediatePtr
				cfg.Intermediate = &n
			case "easing":
				cfg.Easing = *easingPtr
			case "color-space":
				cfg.ColorSpace = *colorSpacePtr
			case "quality":
				cfg.Output.Quality = float32(*qualityPtr)
			case "lossless":
				cfg.Output.Lossless = *losslessPtr
			case "dpi":
				cfg.DPI = *dpiPtr
			case "log-level":
				cfg.Log.Level = *logLevelPtr
			case "log-file":
				cfg.Log.File = *logFilePtr
			}
		})
		if len(overrides) > 0 && cfg.Overrides == nil {
			cfg.Overrides = map[string]int{}
		}
		for id, n := range overrides {
			cfg.Overrides[id] = n
		}
		return cfg, nil
	}

	cfg, err := load()
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("[-] Logger setup: %v", err)
	}
	if err := cfg.Verify(); err != nil {
		log.Fatalf("[-] Config: %v", err)
	}

	b := blender.New(cfg)
	if *dryRunPtr {
		if err := printPlan(b); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, b); err != nil {
		if !*watchPtr {
			log.Fatalf("[-] %v", err)
		}
		log.WithError(err).Error("[-] Initial run failed")
	}

	if *watchPtr {
		files := make([]string, 0, len(cfg.Keyframes)+1)
		for _, kf := range cfg.Keyframes {
			files = append(files, kf.Path)
		}
		if *configPtr != "" {
			files = append(files, *configPtr)
		}
		w := &watch.Watcher{
			Files: files,
			OnChange: func(ctx context.Context) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				if err := cfg.Verify(); err != nil {
					return fmt.Errorf("config: %w", err)
				}
				return run(ctx, blender.New(cfg))
			},
		}
		if err := w.Run(ctx); err != nil {
			log.Fatalf("[-] %v", err)
		}
	}
}

// parseKeyframeArg accepts "path", or "deck.pdf:3" for one PDF page.
func parseKeyframeArg(arg string) config.KeyframeConfig {
	if i := strings.LastIndex(arg, ":"); i > 0 {
		if page, err := strconv.Atoi(arg[i+1:]); err == nil && strings.EqualFold(arg[max(0, i-4):i], ".pdf") {
			return config.KeyframeConfig{Path: arg[:i], Page: page}
		}
	}
	return config.KeyframeConfig{Path: arg}
}

func run(ctx context.Context, b *blender.Blender) error {
	result, err := b.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\n[+++] Done! %d frames from %d transitions in %s\n", result.Frames, result.Transitions, result.OutputDir)
	fmt.Printf("[+++] Total time: %v\n", result.Elapsed.Round(time.Millisecond))
	return nil
}

func printPlan(b *blender.Blender) error {
	plan, err := b.Plan()
	if err != nil {
		return err
	}
	starts := plan.KeyframeFrames()
	for i, t := range plan.Transitions {
		marker := ""
		if t.Overridden {
			marker = " (override)"
		}
		last := starts[i] + t.Steps() - 1
		fmt.Printf("%-20s -> %-20s %3d intermediate%s  frames %s..%s\n",
			t.FromID, t.ToID, t.Intermediate, marker, b.FramePath(starts[i]), b.FramePath(last))
	}
	fmt.Printf("[*] Total: %d frames\n", plan.TotalFrames())
	return nil
}
