// Package scene declares what the capture pipeline reads from and writes to
// the host's live scene graph.
package scene

import (
	"image/color"

	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// Part is one rigid sub-object of the vessel. Identity is ID; the pipeline never
// keeps a Part beyond one traversal.
type Part interface {
	ID() string
	// Origin is the part's world position.
	Origin() math.Vec3
	// Collider returns the world-space collider box, if the part has one.
	Collider() (math.Bounds, bool)
	// PhysicsExcluded marks parts such as launch clamps that must not
	// influence framing.
	PhysicsExcluded() bool
	// Model returns the part's renderable root, if it has one.
	Model() (Model, bool)
}

// Model is the renderable root of a part.
type Model interface {
	Surfaces() []Surface
}

// Surface is one mesh surface whose shading program can be swapped.
type Surface interface {
	ID() string
	Program() shader.Ref
	SetProgram(shader.Ref)
}

// Drawable is implemented by surfaces a renderer can draw.
type Drawable interface {
	Bounds() math.Bounds
	BaseColor() color.NRGBA
}

// Scene is the host's current vessel.
type Scene interface {
	Name() string
	Parts() []Part
	// FallbackCenter is where framing centers when the vessel has no parts.
	FallbackCenter() math.Vec3
}

// StructureNotifier is implemented by hosts that report part attach and
// remove. The returned cancel func unregisters handler.
type StructureNotifier interface {
	OnStructureChanged(handler func()) (cancel func())
}
