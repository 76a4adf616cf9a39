// Package vessel is an in-memory host: a vessel of parts that can be edited
// between captures and loaded from a YAML description.
package vessel

import (
	"image/color"

	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/internal/shader"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// Facility is the editor a vessel was built in. It decides the capture orientation.
type Facility string

const (
	FacilityVAB Facility = "VAB"
	FacilitySPH Facility = "SPH"
)

// Material is a host shading program.
type Material struct {
	name string
}

// NewMaterial creates a host material with the given program name.
func NewMaterial(name string) *Material {
	return &Material{name: name}
}

// Name implements shader.Ref.
func (m *Material) Name() string {
	return m.name
}

// Surface is a box-shaped mesh surface.
type Surface struct {
	id      string
	program shader.Ref
	bounds  math.Bounds
	color   color.NRGBA
}

// NewSurface creates a surface covering bounds.
func NewSurface(id string, program shader.Ref, bounds math.Bounds, c color.NRGBA) *Surface {
	return &Surface{id: id, program: program, bounds: bounds, color: c}
}

func (s *Surface) ID() string              { return s.id }
func (s *Surface) Program() shader.Ref     { return s.program }
func (s *Surface) SetProgram(p shader.Ref) { s.program = p }
func (s *Surface) Bounds() math.Bounds     { return s.bounds }
func (s *Surface) BaseColor() color.NRGBA  { return s.color }

// Model is a part's renderable root.
type Model struct {
	surfaces []*Surface
}

// Surfaces implements scene.Model.
func (m *Model) Surfaces() []scene.Surface {
	out := make([]scene.Surface, len(m.surfaces))
	for i, s := range m.surfaces {
		out[i] = s
	}
	return out
}

// Add appends a surface.
func (m *Model) Add(s *Surface) {
	m.surfaces = append(m.surfaces, s)
}

// Remove drops the surface with id and reports whether it was present.
func (m *Model) Remove(id string) bool {
	for i, s := range m.surfaces {
		if s.id == id {
			m.surfaces = append(m.surfaces[:i], m.surfaces[i+1:]...)
			return true
		}
	}
	return false
}

// Part is one rigid part of a vessel.
type Part struct {
	id       string
	origin   math.Vec3
	collider *math.Bounds
	excluded bool
	model    *Model
}

// PartOption configures a Part.
type PartOption func(*Part)

// WithCollider sets the collider box.
func WithCollider(b math.Bounds) PartOption {
	return func(p *Part) { p.collider = &b }
}

// WithModel attaches a renderable root holding surfaces.
func WithModel(surfaces ...*Surface) PartOption {
	return func(p *Part) { p.model = &Model{surfaces: surfaces} }
}

// Excluded flags the part as ignored for framing (a launch clamp).
func Excluded() PartOption {
	return func(p *Part) { p.excluded = true }
}

// NewPart creates a part at origin.
func NewPart(id string, origin math.Vec3, opts ...PartOption) *Part {
	p := &Part{id: id, origin: origin}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Part) ID() string            { return p.id }
func (p *Part) Origin() math.Vec3     { return p.origin }
func (p *Part) PhysicsExcluded() bool { return p.excluded }

// Collider implements scene.Part.
func (p *Part) Collider() (math.Bounds, bool) {
	if p.collider == nil {
		return math.Bounds{}, false
	}
	return *p.collider, true
}

// Model implements scene.Part.
func (p *Part) Model() (scene.Model, bool) {
	if p.model == nil {
		return nil, false
	}
	return p.model, true
}

// Vessel is an editable collection of parts.
type Vessel struct {
	name     string
	facility Facility
	fallback math.Vec3
	parts    []*Part

	handlers    map[int]func()
	nextHandler int
}

// New creates an empty vessel.
func New(name string, facility Facility) *Vessel {
	return &Vessel{
		name:     name,
		facility: facility,
		handlers: make(map[int]func()),
	}
}

func (v *Vessel) Name() string              { return v.name }
func (v *Vessel) Facility() Facility        { return v.facility }
func (v *Vessel) FallbackCenter() math.Vec3 { return v.fallback }

// SetFallbackCenter sets where an empty vessel is framed.
func (v *Vessel) SetFallbackCenter(c math.Vec3) {
	v.fallback = c
}

// Parts implements scene.Scene.
func (v *Vessel) Parts() []scene.Part {
	out := make([]scene.Part, len(v.parts))
	for i, p := range v.parts {
		out[i] = p
	}
	return out
}

// Part returns the part with id.
func (v *Vessel) Part(id string) (*Part, bool) {
	for _, p := range v.parts {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Attach adds parts and notifies structure handlers.
func (v *Vessel) Attach(parts ...*Part) {
	v.parts = append(v.parts, parts...)
	v.notify()
}

// Remove drops the part with id and notifies structure handlers.
func (v *Vessel) Remove(id string) bool {
	for i, p := range v.parts {
		if p.id == id {
			v.parts = append(v.parts[:i], v.parts[i+1:]...)
			v.notify()
			return true
		}
	}
	return false
}

// OnStructureChanged implements scene.StructureNotifier.
func (v *Vessel) OnStructureChanged(handler func()) (cancel func()) {
	id := v.nextHandler
	v.nextHandler++
	v.handlers[id] = handler
	return func() { delete(v.handlers, id) }
}

// Subscribers returns the number of registered structure handlers.
func (v *Vessel) Subscribers() int {
	return len(v.handlers)
}

func (v *Vessel) notify() {
	for _, h := range v.handlers {
		h()
	}
}
