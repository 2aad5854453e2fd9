package blender

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/source"
	"github.com/ivlev/frameblend/internal/system"
)

// checkMemory is swapped in tests.
var checkMemory = system.CheckMemory

// LoadKeyframes decodes every keyframe and verifies they share one shape.
// Nothing is returned unless all of them load; the error names the
// offending file.
func LoadKeyframes(ctx context.Context, refs []source.Keyframe, open source.Opener, dpi int) ([]*image.NRGBA, Shape, error) {
	if len(refs) < 2 {
		return nil, Shape{}, fmt.Errorf("%w, got %d", ErrTooFewKeyframes, len(refs))
	}
	if open == nil {
		open = source.Open
	}

	sources := make([]source.Source, 0, len(refs))
	defer func() {
		for _, s := range sources {
			s.Close()
		}
	}()

	// Open everything and read sizes first so a missing file or a bad
	// page number fails before any full decode.
	var required uint64
	for _, ref := range refs {
		src, err := open(ref.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, Shape{}, fmt.Errorf("input image file not found: %s", ref.Path)
			}
			return nil, Shape{}, fmt.Errorf("could not open keyframe %s: %w", ref.Path, err)
		}
		sources = append(sources, src)

		if ref.Index() >= src.PageCount() {
			return nil, Shape{}, fmt.Errorf("keyframe %s: page %d out of range (%d pages)", ref.Path, ref.Index()+1, src.PageCount())
		}
		w, h, err := src.PixelSize(ref.Index(), dpi)
		if err != nil {
			return nil, Shape{}, fmt.Errorf("could not load image %s: %w", ref.Path, err)
		}
		required += Shape{Width: w, Height: h}.Bytes()
	}

	if report, err := checkMemory(required); err != nil {
		log.WithError(err).Debug("[!] Memory preflight skipped")
	} else if !report.Fits() {
		log.WithFields(log.Fields{
			"required_mb":  report.Required >> 20,
			"available_mb": report.Available >> 20,
		}).Warn("[!] Keyframes may not fit into available memory")
	}

	frames := make([]*image.NRGBA, len(refs))
	var want Shape
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, Shape{}, err
		}

		img, err := sources[i].RenderPage(ref.Index(), dpi)
		if err != nil {
			return nil, Shape{}, fmt.Errorf("could not load image %s: %w", ref.Path, err)
		}

		shape := ShapeOf(img)
		if i == 0 {
			want = shape
		} else if shape != want {
			return nil, Shape{}, &ShapeError{Path: ref.Path, Want: want, Got: shape}
		}

		frames[i] = toNRGBA(img)
		log.WithFields(log.Fields{"id": ref.ID, "shape": shape.String()}).Infof("  Loaded %s", ref.Path)
	}

	return frames, want, nil
}
