package blender

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/codec"
	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/source"
	"github.com/ivlev/frameblend/internal/system"
)

// FrameWriter persists one output frame.
type FrameWriter interface {
	WriteFrame(path string, img image.Image) error
}

// CodecWriter encodes frames by file extension.
type CodecWriter struct {
	Options codec.Options
}

func (w CodecWriter) WriteFrame(path string, img image.Image) error {
	return codec.WriteFile(path, img, w.Options)
}

// Emit receives frame n (1-based) of transition t at step k. frame is
// recycled once Emit returns.
type Emit func(n int, t Transition, k int, frame *image.NRGBA) error

type Result struct {
	Frames      int
	Transitions int
	OutputDir   string
	Elapsed     time.Duration
}

type Blender struct {
	Config *config.BlendConfig
	Open   source.Opener
	Writer FrameWriter
}

// New returns a Blender that reads keyframes through source.Open and
// writes frames with the codec matching cfg.Output.Ext.
func New(cfg *config.BlendConfig) *Blender {
	return &Blender{
		Config: cfg,
		Open:   source.Open,
		Writer: CodecWriter{Options: codec.Options{Quality: cfg.Output.Quality, Lossless: cfg.Output.Lossless}},
	}
}

// Keyframes returns the configured keyframe references in cycle order.
func (b *Blender) Keyframes() []source.Keyframe {
	refs := make([]source.Keyframe, len(b.Config.Keyframes))
	for i, kf := range b.Config.Keyframes {
		refs[i] = source.NewKeyframe(kf.Path, kf.Page, kf.ID)
	}
	return refs
}

// Plan resolves the transition table without touching any pixels.
func (b *Blender) Plan() (*Plan, error) {
	refs := b.Keyframes()
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	def := config.DefaultIntermediate
	if b.Config.Intermediate != nil {
		def = *b.Config.Intermediate
	}
	return NewPlan(ids, def, b.Config.Overrides)
}

// FramePath is the output path of global frame n.
func (b *Blender) FramePath(n int) string {
	out := b.Config.Output
	return filepath.Join(out.Dir, FrameName(out.Prefix, out.Padding, n, out.Ext))
}

// FrameName zero-pads n to width digits: FrameName("week-", 2, 7, ".webp") is "week-07.webp".
func FrameName(prefix string, width, n int, ext string) string {
	return fmt.Sprintf("%s%0*d%s", prefix, width, n, ext)
}

// Run validates the plan, loads all keyframes, then writes every frame in
// order. The first failure stops the run; frames already written stay.
func (b *Blender) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	curve, err := ParseCurve(b.Config.Easing)
	if err != nil {
		return nil, err
	}
	space, err := ParseColorSpace(b.Config.ColorSpace)
	if err != nil {
		return nil, err
	}
	if _, err := codec.FormatFromExt(b.Config.Output.Ext); err != nil {
		return nil, err
	}

	plan, err := b.Plan()
	if err != nil {
		return nil, err
	}

	log.Info("Loading keyframes...")
	frames, shape, err := LoadKeyframes(ctx, b.Keyframes(), b.Open, b.Config.DPI)
	if err != nil {
		return nil, err
	}
	log.Infof("All %d keyframes loaded with matching shape %s", len(frames), shape)

	if err := os.MkdirAll(b.Config.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	log.Debugf("Ensured output directory exists: %s", b.Config.Output.Dir)

	log.Infof("[*] Generating %d frames (easing %s, color space %s)...", plan.TotalFrames(), b.Config.Easing, space)

	written := 0
	err = Generate(ctx, frames, plan, curve, space, func(n int, t Transition, k int, frame *image.NRGBA) error {
		if k == 0 {
			kind := "standard"
			if t.Overridden {
				kind = "special"
			}
			log.Infof("  Applying %s transition (%d intermediate frames) for %s -> %s", kind, t.Intermediate, t.FromID, t.ToID)
		}

		path := b.FramePath(n)
		if err := b.Writer.WriteFrame(path, frame); err != nil {
			return &FrameError{Frame: n, Path: path, Err: err}
		}
		written++
		log.WithField("frame", n).Debugf("[>] Saved %s", path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Frames:      written,
		Transitions: len(plan.Transitions),
		OutputDir:   b.Config.Output.Dir,
		Elapsed:     time.Since(startTime),
	}, nil
}

// Generate blends every transition of plan in global order and hands each
// frame to emit. frames must share one shape and are only read.
func Generate(ctx context.Context, frames []*image.NRGBA, plan *Plan, curve Curve, space ColorSpace, emit Emit) error {
	if len(frames) != len(plan.Transitions) {
		return fmt.Errorf("plan has %d transitions for %d keyframes", len(plan.Transitions), len(frames))
	}

	n := 0
	for _, t := range plan.Transitions {
		from, to := frames[t.From], frames[t.To]
		steps := t.Steps()
		for k := 0; k < steps; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			alpha, beta := Weights(k, steps, curve)
			n++
			frame := system.GetFrame(from.Rect)
			Mix(frame, from, to, alpha, beta, space)
			err := emit(n, t, k, frame)
			system.PutFrame(frame)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
