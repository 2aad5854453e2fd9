package blender

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type ColorSpace int

const (
	// SRGB blends the stored 8-bit values directly, without gamma handling.
	SRGB ColorSpace = iota
	// Linear blends colour channels in linear light. Alpha stays native.
	Linear
)

func ParseColorSpace(name string) (ColorSpace, error) {
	switch strings.ToLower(name) {
	case "", "srgb":
		return SRGB, nil
	case "linear":
		return Linear, nil
	default:
		return SRGB, fmt.Errorf("unknown color space %q (known: srgb, linear)", name)
	}
}

func (c ColorSpace) String() string {
	if c == Linear {
		return "linear"
	}
	return "srgb"
}

// toLinear maps an 8-bit sRGB value to linear light in [0,1].
var toLinear = func() (table [256]float64) {
	for i := range table {
		table[i], _, _ = colorful.Color{R: float64(i) / 255.0}.LinearRgb()
	}
	return table
}()

func fromLinear(v float64) float64 {
	return colorful.LinearRgb(v, 0, 0).R * 255.0
}

// clamp8 clips v to [0,255] before rounding to the nearest integer.
func clamp8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Mix writes alpha*a + beta*b into dst channel by channel. All three
// buffers must have the same bounds and a tight stride (see toNRGBA).
func Mix(dst, a, b *image.NRGBA, alpha, beta float64, space ColorSpace) {
	if space == SRGB {
		for i := range dst.Pix {
			dst.Pix[i] = clamp8(alpha*float64(a.Pix[i]) + beta*float64(b.Pix[i]))
		}
		return
	}

	for i := 0; i+3 < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			pa, pb := a.Pix[i+c], b.Pix[i+c]
			if pa == pb {
				dst.Pix[i+c] = pa
				continue
			}
			dst.Pix[i+c] = clamp8(fromLinear(alpha*toLinear[pa] + beta*toLinear[pb]))
		}
		dst.Pix[i+3] = clamp8(alpha*float64(a.Pix[i+3]) + beta*float64(b.Pix[i+3]))
	}
}
