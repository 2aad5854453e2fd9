package svgpath

import (
	"fmt"
	"image"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/ivlev/frameblend/internal/codec"
)

// DefaultPreviewSize is used when the SVG has no usable viewBox.
const DefaultPreviewSize = 512

// RenderPreview rasterizes the whole SVG into an image of at most size
// pixels on the long side (the viewBox size when size is 0) and writes it
// to out, encoded by extension.
func RenderPreview(svgPath, out string, size int) error {
	in, err := os.Open(svgPath)
	if err != nil {
		return fmt.Errorf("failed to open SVG file: %w", err)
	}
	defer in.Close()

	icon, err := oksvg.ReadIconStream(in)
	if err != nil {
		return fmt.Errorf("failed to parse SVG: %w", err)
	}

	w, h := previewSize(icon.ViewBox.W, icon.ViewBox.H, size)
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return codec.WriteFile(out, rgba, codec.Options{Lossless: true})
}

func previewSize(vw, vh float64, size int) (int, int) {
	if vw <= 0 || vh <= 0 {
		if size <= 0 {
			size = DefaultPreviewSize
		}
		return size, size
	}
	if size <= 0 {
		return int(vw + 0.5), int(vh + 0.5)
	}
	if vw >= vh {
		return size, max(1, int(float64(size)*vh/vw+0.5))
	}
	return max(1, int(float64(size)*vw/vh+0.5)), size
}
