package capture

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/vesselshot/pkg/math"
)

// minFrameHeight stands in for a zero framed height when computing the aspect.
const minFrameHeight = 1e-4

// Placement is a fitted camera and the pixel sizes it renders at.
type Placement struct {
	Transform  math.Transform
	Projection Projection
	NearClip   float32
	FarClip    float32
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32
	// OrthoHalfSize is half the vertical view size in orthographic mode.
	OrthoHalfSize float32
	// Aspect is the camera's width/height ratio.
	Aspect float32

	// Framed box size as seen by the camera.
	FrameWidth, FrameHeight, FrameDepth float32

	// Calculated is the box aspect fitted into Config.MaxSize.
	Calculated Size
	// Output is the camera's image size. File is the size written to disk;
	// it differs from Output only for auto-sized captures with an export scale.
	Output Size
	File   Size
	// Auto is set when no size was requested.
	Auto bool
}

// Fit frames bounds from direction. A nil or invalid requested size selects
// auto sizing.
func Fit(bounds math.Bounds, direction math.Vec3, cfg Config, requested *Size) Placement {
	cfg = cfg.normalized()

	dir := direction.Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Forward
	}
	minusDir := dir.Neg()
	size := bounds.Size()

	tr := math.NewTransform(bounds.Center, cfg.Orientation.rotation())
	tr.Translate(minusDir.Scale(cfg.NearClip))
	tr.LookAt(bounds.Center)

	height := tr.Up.Mul(size).Length()
	width := tr.Right.Mul(size).Length() + cfg.FairingOffset
	depth := minusDir.Mul(size).Length() + cfg.FairingOffset

	positionOffset := (size.Length() - cfg.Offset.Z) / (2 * math32.Tan(math.Radians(cfg.FieldOfView)/2))
	tr.Translate(math.Vec3{X: cfg.Offset.X, Y: cfg.Offset.Y, Z: -positionOffset})

	p := Placement{
		Transform:   tr,
		Projection:  cfg.Projection,
		NearClip:    cfg.NearClip,
		FieldOfView: cfg.FieldOfView,
		FrameWidth:  width,
		FrameHeight: height,
		FrameDepth:  depth,
	}
	// the extra unit covers the first rotation step
	p.FarClip = tr.Position.Distance(bounds.Center) + cfg.NearClip + depth*2 + 1

	if cfg.Projection == Orthographic {
		p.OrthoHalfSize = (math32.Max(height, width) - cfg.Offset.Z) / 2
	}

	aspect := width / math32.Max(height, minFrameHeight)
	p.Calculated = FitResolution(width, height, cfg.MaxSize)

	if requested == nil || !requested.Valid() {
		p.Auto = true
		p.Aspect = aspect
		p.Output = p.Calculated
		p.File = Size{
			Width:  int(math32.Floor(float32(p.Output.Width) * cfg.ExportScale)),
			Height: int(math32.Floor(float32(p.Output.Height) * cfg.ExportScale)),
		}
	} else {
		p.Aspect = float32(requested.Width) / float32(requested.Height)
		p.Output = *requested
		p.File = *requested
	}
	return p
}

// FitResolution fits the width/height aspect into bound, filling the longer side.
// A zero height is treated as a tiny positive one. Both results are at least 1.
func FitResolution(width, height float32, bound Size) Size {
	aspect := width / math32.Max(height, minFrameHeight)
	var s Size
	if height >= width {
		s.Height = bound.Height
		s.Width = int(float32(s.Height) * aspect)
	} else {
		s.Width = bound.Width
		s.Height = int(float32(s.Width) / aspect)
	}
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}

// ViewMatrix returns the OpenGL view matrix.
func (p Placement) ViewMatrix() math.Mat4 {
	return p.Transform.ViewMatrix()
}

// ProjectionMatrix returns the OpenGL projection matrix.
func (p Placement) ProjectionMatrix() math.Mat4 {
	if p.Projection == Orthographic {
		h := p.OrthoHalfSize
		w := h * p.Aspect
		return math.Ortho(-w, w, -h, h, p.NearClip, p.FarClip)
	}
	return math.Perspective(math.Radians(p.FieldOfView), p.Aspect, p.NearClip, p.FarClip)
}

// Ray returns the view ray through normalized image coordinates u, v in
// [0, 1], with v = 0 at the top edge.
func (p Placement) Ray(u, v float32) math.Ray {
	x := 2*u - 1
	y := 1 - 2*v
	t := p.Transform
	if p.Projection == Orthographic {
		h := p.OrthoHalfSize
		origin := t.Position.
			Add(t.Right.Scale(x * h * p.Aspect)).
			Add(t.Up.Scale(y * h))
		return math.Ray{Origin: origin, Direction: t.Forward}
	}
	tanHalf := math32.Tan(math.Radians(p.FieldOfView) / 2)
	dir := t.Forward.
		Add(t.Right.Scale(x * tanHalf * p.Aspect)).
		Add(t.Up.Scale(y * tanHalf))
	return math.Ray{Origin: t.Position, Direction: dir.Normalize()}
}

// Depth converts a distance along r into a distance along the view axis.
func (p Placement) Depth(r math.Ray, dist float32) float32 {
	return dist * r.Direction.Dot(p.Transform.Forward)
}
