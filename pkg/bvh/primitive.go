package bvh

import "github.com/philipparndt/gobvh/pkg/geometry"

// Primitive is the unit the builder partitions: a triangle together with
// its bounding box and the box midpoint, both computed once.
type Primitive struct {
	tri      geometry.Triangle
	box      geometry.AABB
	centroid geometry.Vector3
}

// NewPrimitive wraps a triangle. The centroid is the midpoint of the
// triangle's bounding box, not the true triangle centroid.
func NewPrimitive(tri geometry.Triangle) Primitive {
	box := geometry.AABBFromTriangle(tri)
	return Primitive{
		tri:      tri,
		box:      box,
		centroid: box.Min.Mul(0.5).Add(box.Max.Mul(0.5)),
	}
}

// Triangle returns the wrapped triangle
func (p *Primitive) Triangle() geometry.Triangle {
	return p.tri
}

// Box returns the triangle's bounding box
func (p *Primitive) Box() geometry.AABB {
	return p.box
}

// Centroid returns the midpoint of the bounding box
func (p *Primitive) Centroid() geometry.Vector3 {
	return p.centroid
}
