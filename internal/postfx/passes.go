package postfx

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/parallel"
)

// ColorAdjust shifts brightness, contrast and saturation, then applies gamma.
// Changes are in [-1, 1]; zero leaves the channel alone. A gamma of 1 (or 0)
// does nothing.
type ColorAdjust struct {
	Brightness float64 `yaml:"brightness"`
	Contrast   float64 `yaml:"contrast"`
	Saturation float64 `yaml:"saturation"`
	Gamma      float64 `yaml:"gamma"`
}

func (c ColorAdjust) Apply(src *image.RGBA) (*image.RGBA, error) {
	out := src
	if c.Brightness != 0 {
		out = adjust.Brightness(out, c.Brightness)
	}
	if c.Contrast != 0 {
		out = adjust.Contrast(out, c.Contrast)
	}
	if c.Saturation != 0 {
		out = adjust.Saturation(out, c.Saturation)
	}
	if c.Gamma > 0 && c.Gamma != 1 {
		out = adjust.Gamma(out, c.Gamma)
	}
	if out == src {
		out = clone.AsRGBA(src)
	}
	return out, nil
}

// EdgeDetect darkens the image along Sobel edges of its luminance.
type EdgeDetect struct {
	// Threshold is the edge magnitude in [0, 1] below which nothing is drawn.
	Threshold float64 `yaml:"threshold"`
	// Strength is how dark a full-magnitude edge gets, in [0, 1].
	Strength float64 `yaml:"strength"`
}

func (e EdgeDetect) Apply(src *image.RGBA) (*image.RGBA, error) {
	edges := edgeMagnitude(src)
	shade := image.NewRGBA(src.Bounds())
	eachPixel(src, func(i int) {
		v := uint8(255)
		if m := float64(edges.Pix[i]) / 255; m > e.Threshold {
			v = uint8(255 * (1 - e.Strength*m))
		}
		shade.Pix[i], shade.Pix[i+1], shade.Pix[i+2], shade.Pix[i+3] = v, v, v, 255
	})
	out := blend.Multiply(src, shade)
	keepAlpha(out, src)
	return out, nil
}

// Blueprint redraws the image as edge lines over a transparent background.
type Blueprint struct {
	Threshold float64 `yaml:"threshold"`
	Line      [4]uint8 `yaml:"line"`
}

func (b Blueprint) Apply(src *image.RGBA) (*image.RGBA, error) {
	edges := edgeMagnitude(src)
	out := image.NewRGBA(src.Bounds())
	line := color.NRGBA{R: b.Line[0], G: b.Line[1], B: b.Line[2], A: b.Line[3]}
	eachPixel(src, func(i int) {
		m := float64(edges.Pix[i]) / 255
		if m <= b.Threshold {
			return
		}
		// RGBA is alpha-premultiplied
		a := m * float64(line.A) / 255
		out.Pix[i] = uint8(float64(line.R) * a)
		out.Pix[i+1] = uint8(float64(line.G) * a)
		out.Pix[i+2] = uint8(float64(line.B) * a)
		out.Pix[i+3] = uint8(255 * a)
	})
	return out, nil
}

// FXAA softens aliased edges by blending in a Gaussian blur where the edge
// magnitude passes Threshold.
type FXAA struct {
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
}

func (f FXAA) Apply(src *image.RGBA) (*image.RGBA, error) {
	if f.Radius <= 0 {
		return clone.AsRGBA(src), nil
	}
	edges := edgeMagnitude(src)
	soft := blur.Gaussian(src, f.Radius)
	out := clone.AsRGBA(src)
	eachPixel(src, func(i int) {
		m := float64(edges.Pix[i]) / 255
		if m <= f.Threshold {
			return
		}
		for c := 0; c < 4; c++ {
			out.Pix[i+c] = uint8(float64(src.Pix[i+c])*(1-m) + float64(soft.Pix[i+c])*m)
		}
	})
	return out, nil
}

// edgeMagnitude returns the Sobel magnitude of the luminance in every colour
// channel. Sobel clamps negative gradients to zero, so the inverted luminance
// is run too and the larger response kept; edges falling along +x or +y would
// otherwise vanish.
func edgeMagnitude(src *image.RGBA) *image.RGBA {
	gray := effect.Grayscale(src)
	rising := effect.Sobel(gray)
	falling := effect.Sobel(effect.Invert(gray))
	eachPixel(rising, func(i int) {
		for c := 0; c < 3; c++ {
			if falling.Pix[i+c] > rising.Pix[i+c] {
				rising.Pix[i+c] = falling.Pix[i+c]
			}
		}
	})
	return rising
}

// eachPixel calls fn with the Pix offset of every pixel, rows split across
// goroutines. Frames and bild outputs are packed and start at the origin, so
// one offset addresses the same pixel in each of them.
func eachPixel(src *image.RGBA, fn func(i int)) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				fn(y*src.Stride + x*4)
			}
		}
	})
}

func keepAlpha(dst, src *image.RGBA) {
	eachPixel(src, func(i int) {
		a := src.Pix[i+3]
		dst.Pix[i+3] = a
		for c := 0; c < 3; c++ {
			if dst.Pix[i+c] > a {
				dst.Pix[i+c] = a
			}
		}
	})
}
