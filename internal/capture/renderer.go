package capture

import (
	"image"
	"image/color"

	"github.com/Faultbox/vesselshot/internal/scene"
)

// Target is an offscreen render target.
type Target interface {
	Size() Size
	// Image reads the rendered pixels back. The returned image is not shared
	// with the target.
	Image() (*image.RGBA, error)
	Release()
}

// Renderer draws a scene into a target. Render blocks until the frame is done.
type Renderer interface {
	Acquire(size Size) (Target, error)
	Render(t Target, sc scene.Scene, cam Placement, background color.NRGBA) error
}

// Store persists captured images.
type Store interface {
	Save(img image.Image, name string) (string, error)
}
