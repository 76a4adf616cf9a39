// Package capture frames a vessel, renders it offscreen with capture shading
// programs swapped in, post-processes the frame and hands it to persistence.
package capture

import (
	"image/color"

	"github.com/Faultbox/vesselshot/pkg/math"
)

// Projection selects the camera projection.
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

func (p Projection) String() string {
	if p == Perspective {
		return "perspective"
	}
	return "orthographic"
}

// Orientation is the editor convention the vessel was built under.
type Orientation int

const (
	// OrientationVAB keeps the camera level.
	OrientationVAB Orientation = iota
	// OrientationSPH tilts the camera 90 degrees about the world right axis.
	OrientationSPH
)

func (o Orientation) String() string {
	if o == OrientationSPH {
		return "SPH"
	}
	return "VAB"
}

func (o Orientation) rotation() math.Quat {
	if o == OrientationSPH {
		return math.AngleAxis(90, math.Right)
	}
	return math.AngleAxis(0, math.Right)
}

// rotateAxis is the axis the view direction turns about.
func (o Orientation) rotateAxis() math.Vec3 {
	if o == OrientationSPH {
		return math.Forward
	}
	return math.Up
}

// Size is a pixel size.
type Size struct {
	Width, Height int
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Config holds the per-capture settings. A capture reads it once and never
// modifies it.
type Config struct {
	Projection  Projection
	Orientation Orientation
	// Offset shifts the camera sideways (X, Y) and zooms (Z).
	Offset math.Vec3
	// FairingOffset widens the framed width and depth to fit irregular
	// attachments such as procedural fairings.
	FairingOffset float32
	// ExportScale multiplies the auto-sized output. Values below 1 mean 1.
	ExportScale float32
	// MaxSize bounds the auto-sized output.
	MaxSize     Size
	NearClip    float32
	FieldOfView float32 // degrees
	Background  color.NRGBA
	// Effects overrides the chain's enable flags by effect name.
	Effects map[string]bool
}

// DefaultConfig returns the settings the editor starts with.
func DefaultConfig() Config {
	return Config{
		Projection:  Orthographic,
		Orientation: OrientationVAB,
		ExportScale: 4,
		MaxSize:     Size{Width: 1024, Height: 1024},
		NearClip:    0.3,
		FieldOfView: 60,
		Background:  color.NRGBA{R: 0, G: 18, B: 28, A: 255},
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if !c.MaxSize.Valid() {
		c.MaxSize = d.MaxSize
	}
	if c.NearClip <= 0 {
		c.NearClip = d.NearClip
	}
	if c.FieldOfView <= 0 || c.FieldOfView >= 180 {
		c.FieldOfView = d.FieldOfView
	}
	if c.ExportScale < 1 {
		c.ExportScale = 1
	}
	return c
}
