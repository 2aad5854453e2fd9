package blender

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Shape is the (width, height, channels) triple every keyframe of a cycle
// must share.
type Shape struct {
	Width    int
	Height   int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Channels)
}

// Bytes is the size of one 8-bit NRGBA buffer of this shape.
func (s Shape) Bytes() uint64 {
	return uint64(s.Width) * uint64(s.Height) * 4
}

// ShapeOf derives channels from the storage layout of img: 1 for gray,
// 4 when the layout carries an alpha channel, 3 otherwise. Pixel values
// are not inspected, so two images with the same layout always agree.
func ShapeOf(img image.Image) Shape {
	b := img.Bounds()
	return Shape{Width: b.Dx(), Height: b.Dy(), Channels: channels(img)}
}

func channels(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return 4
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return 4
	}
	// RGBA, RGBA64, YCbCr and CMYK: the stdlib decoders only produce
	// these for sources without a stored alpha channel.
	return 3
}

// toNRGBA returns img as a zero-origin NRGBA buffer with tight stride.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
