package capture

import (
	"image"

	"golang.org/x/image/draw"
)

// Encoding is the color encoding of a frame's pixels.
type Encoding int

const (
	// EncodingSRGB is 8-bit RGBA in the sRGB transfer curve.
	EncodingSRGB Encoding = iota
)

// Frame is one captured image.
type Frame struct {
	Image     *image.RGBA
	Encoding  Encoding
	Placement Placement
}

// Size returns the frame's pixel size.
func (f *Frame) Size() Size {
	b := f.Image.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Thumbnail returns the frame scaled to fit within maxSide pixels, for live
// preview. Frames that already fit are returned as is.
func (f *Frame) Thumbnail(maxSide int) *image.RGBA {
	s := f.Size()
	if maxSide <= 0 || (s.Width <= maxSide && s.Height <= maxSide) {
		return f.Image
	}
	fit := FitResolution(float32(s.Width), float32(s.Height), Size{Width: maxSide, Height: maxSide})
	dst := image.NewRGBA(image.Rect(0, 0, fit.Width, fit.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), f.Image, f.Image.Bounds(), draw.Src, nil)
	return dst
}
