// Package render holds what the capture renderers share: collecting drawable
// surfaces from the scene and the fixed key light.
package render

import (
	"image/color"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// Item is one drawable surface resolved for rendering.
type Item struct {
	PartID    string
	SurfaceID string
	Bounds    math.Bounds
	Color     color.NRGBA
	// Shading is nil for surfaces still carrying a host program; those are
	// drawn flat with their base color.
	Shading *shader.Shading
}

// Collect returns the drawable surfaces of every part with a model, in scene
// order. Surfaces that do not implement scene.Drawable are skipped.
func Collect(sc scene.Scene) []Item {
	var items []Item
	for _, part := range sc.Parts() {
		model, ok := part.Model()
		if !ok {
			continue
		}
		for _, surf := range model.Surfaces() {
			d, ok := surf.(scene.Drawable)
			if !ok {
				continue
			}
			it := Item{
				PartID:    part.ID(),
				SurfaceID: surf.ID(),
				Bounds:    d.Bounds(),
				Color:     d.BaseColor(),
			}
			if p, ok := surf.Program().(*shader.Program); ok {
				s := p.Shading
				it.Shading = &s
			}
			items = append(items, it)
		}
	}
	return items
}

// Shade returns the lit color of it at a point with the given normal.
func (it Item) Shade(normal, toLight, toEye math.Vec3) color.NRGBA {
	if it.Shading == nil {
		return it.Color
	}
	return it.Shading.Shade(it.Color, normal, toLight, toEye)
}

// KeyLight returns the direction toward the light for a camera: over the
// viewer's right shoulder, so the faces toward the camera are lit.
func KeyLight(cam capture.Placement) math.Vec3 {
	t := cam.Transform
	return t.Forward.Neg().
		Add(t.Up.Scale(0.6)).
		Add(t.Right.Scale(0.4)).
		Normalize()
}
