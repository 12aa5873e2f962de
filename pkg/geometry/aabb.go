package geometry

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vector3
	Max Vector3
}

// NewAABB creates a box from its two corners
func NewAABB(min, max Vector3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the identity element of SurroundingBox.
// Its corners are +Inf/-Inf so any union with a real box yields that box.
func EmptyAABB() AABB {
	return AABB{
		Min: Splat(math.Inf(1)),
		Max: Splat(math.Inf(-1)),
	}
}

// AABBFromTriangle returns the tightest box around the triangle's vertices
func AABBFromTriangle(tri Triangle) AABB {
	v := tri.Vertices()
	return AABB{
		Min: v[0].Min(v[1]).Min(v[2]),
		Max: v[0].Max(v[1]).Max(v[2]),
	}
}

// SurroundingBox returns the smallest box enclosing both a and b
func SurroundingBox(a, b AABB) AABB {
	return AABB{
		Min: a.Min.Min(b.Min),
		Max: a.Max.Max(b.Max),
	}
}

// Union is the method form of SurroundingBox
func (b AABB) Union(other AABB) AABB {
	return SurroundingBox(b, other)
}

// Extend returns the box grown to include a point
func (b AABB) Extend(point Vector3) AABB {
	return AABB{
		Min: b.Min.Min(point),
		Max: b.Max.Max(point),
	}
}

// IsEmpty reports whether the box is inverted on any axis,
// which is the case for EmptyAABB and anything that never saw a union.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// LongestAxis returns the axis with the largest extent.
// X wins only when strictly larger than both others; between Y and Z
// a tie goes to Z.
func (b AABB) LongestAxis() Axis {
	size := b.Size()
	if size.X > size.Y && size.X > size.Z {
		return AxisX
	}
	if size.Y > size.Z {
		return AxisY
	}
	return AxisZ
}

// Size returns the dimensions of the bounding box
func (b AABB) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b AABB) Center() Vector3 {
	return b.Min.Mul(0.5).Add(b.Max.Mul(0.5))
}

// Diagonal returns the length of the bounding box diagonal
func (b AABB) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the bounding box
func (b AABB) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// SurfaceArea returns the total area of the six faces
func (b AABB) SurfaceArea() float64 {
	size := b.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// Contains reports whether point lies inside the box, allowing eps slack on every side
func (b AABB) Contains(point Vector3, eps float64) bool {
	return point.X >= b.Min.X-eps && point.X <= b.Max.X+eps &&
		point.Y >= b.Min.Y-eps && point.Y <= b.Max.Y+eps &&
		point.Z >= b.Min.Z-eps && point.Z <= b.Max.Z+eps
}

// ContainsBox reports whether other lies entirely inside b, allowing eps slack
func (b AABB) ContainsBox(other AABB, eps float64) bool {
	return b.Contains(other.Min, eps) && b.Contains(other.Max, eps)
}

// Corners returns the eight corners of the box. Corner i takes the max
// coordinate on X when bit 2 of i is set, on Y for bit 1 and on Z for bit 0:
//
//	0 (min,min,min)  1 (min,min,max)  2 (min,max,min)  3 (min,max,max)
//	4 (max,min,min)  5 (max,min,max)  6 (max,max,min)  7 (max,max,max)
func (b AABB) Corners() [8]Vector3 {
	var corners [8]Vector3
	for i := range corners {
		c := b.Min
		if i&4 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&1 != 0 {
			c.Z = b.Max.Z
		}
		corners[i] = c
	}
	return corners
}
