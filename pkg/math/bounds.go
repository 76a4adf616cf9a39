package math

// Bounds is an axis-aligned box stored as center and half-size.
type Bounds struct {
	Center  Vec3
	Extents Vec3
}

// NewBounds creates a box centered at center with the given full size.
func NewBounds(center, size Vec3) Bounds {
	return Bounds{Center: center, Extents: size.Scale(0.5)}
}

// BoundsFromMinMax creates a box from its corners, in any order.
func BoundsFromMinMax(a, b Vec3) Bounds {
	lo, hi := a.Min(b), a.Max(b)
	return Bounds{Center: lo.Add(hi).Scale(0.5), Extents: hi.Sub(lo).Scale(0.5)}
}

// Min returns the minimum corner.
func (b Bounds) Min() Vec3 {
	return b.Center.Sub(b.Extents)
}

// Max returns the maximum corner.
func (b Bounds) Max() Vec3 {
	return b.Center.Add(b.Extents)
}

// Size returns the full size along each axis.
func (b Bounds) Size() Vec3 {
	return b.Extents.Scale(2)
}

// Encapsulate returns the smallest box containing both b and other.
func (b Bounds) Encapsulate(other Bounds) Bounds {
	return BoundsFromMinMax(b.Min().Min(other.Min()), b.Max().Max(other.Max()))
}

// Expand grows the size by amount along every axis, half on each side.
func (b Bounds) Expand(amount float32) Bounds {
	d := amount * 0.5
	return Bounds{Center: b.Center, Extents: b.Extents.Add(Vec3{d, d, d})}
}

// Contains reports whether other lies entirely within b.
func (b Bounds) Contains(other Bounds) bool {
	lo, hi := b.Min(), b.Max()
	olo, ohi := other.Min(), other.Max()
	return lo.X <= olo.X && lo.Y <= olo.Y && lo.Z <= olo.Z &&
		hi.X >= ohi.X && hi.Y >= ohi.Y && hi.Z >= ohi.Z
}
