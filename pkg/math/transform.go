package math

// Transform is a rigid camera transform: a position and an orthonormal basis.
// Translations are expressed in the transform's own (local) space.
type Transform struct {
	Position Vec3
	Right    Vec3
	Up       Vec3
	Forward  Vec3
}

// NewTransform creates a transform at position with rotation applied to the world axes.
func NewTransform(position Vec3, rotation Quat) Transform {
	return Transform{
		Position: position,
		Right:    rotation.Rotate(Right),
		Up:       rotation.Rotate(Up),
		Forward:  rotation.Rotate(Forward),
	}
}

// Translate moves the transform by v given in local space.
func (t *Transform) Translate(v Vec3) {
	t.Position = t.Position.
		Add(t.Right.Scale(v.X)).
		Add(t.Up.Scale(v.Y)).
		Add(t.Forward.Scale(v.Z))
}

// LookAt turns the transform so Forward points at target, keeping world up.
// A target at the current position leaves the rotation unchanged. When the view
// is parallel to world up the current Right axis is kept.
func (t *Transform) LookAt(target Vec3) {
	f := target.Sub(t.Position).Normalize()
	if f == (Vec3{}) {
		return
	}
	r := Up.Cross(f)
	if r.Length() < 1e-6 {
		r = t.Right.Sub(f.Scale(t.Right.Dot(f)))
	}
	r = r.Normalize()
	t.Forward = f
	t.Right = r
	t.Up = f.Cross(r)
}

// ViewMatrix returns the OpenGL view matrix for this transform.
func (t Transform) ViewMatrix() Mat4 {
	return View(t.Position, t.Right, t.Up, t.Forward)
}
