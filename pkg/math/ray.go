package math

import "github.com/chewxy/math32"

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBounds tests ray intersection with a box using the slab method.
// Returns the entry distance, the outward normal of the entry face and
// whether the ray hit. Hits starting inside the box are reported at the exit.
func (r Ray) IntersectBounds(box Bounds) (t float32, normal Vec3, hit bool) {
	lo, hi := box.Min(), box.Max()
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	enterAxis, exitAxis := -1, -1
	var enterSign, exitSign float32

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin.Axis(axis), r.Direction.Axis(axis)
		if d == 0 {
			if o < lo.Axis(axis) || o > hi.Axis(axis) {
				return 0, Vec3{}, false
			}
			continue
		}
		t1 := (lo.Axis(axis) - o) / d
		t2 := (hi.Axis(axis) - o) / d
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin, enterAxis, enterSign = t1, axis, sign
		}
		if t2 < tmax {
			tmax, exitAxis, exitSign = t2, axis, -sign
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, Vec3{}, false
	}
	if tmin < 0 {
		return tmax, axisNormal(exitAxis, exitSign), true
	}
	return tmin, axisNormal(enterAxis, enterSign), true
}

func axisNormal(axis int, sign float32) Vec3 {
	switch axis {
	case 0:
		return Vec3{sign, 0, 0}
	case 1:
		return Vec3{0, sign, 0}
	case 2:
		return Vec3{0, 0, sign}
	}
	return Vec3{}
}
