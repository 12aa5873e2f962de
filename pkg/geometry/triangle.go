package geometry

import (
	"errors"
	"fmt"
)

// ErrVertexIndex is returned when a vertex is addressed outside its valid range
var ErrVertexIndex = errors.New("vertex index out of range")

// Triangle represents a triangular facet in 3D space.
//
// A triangle either owns its three vertices or references them by index
// in a shared VertexBuffer. The face normal is derived from the vertices
// once, at construction.
type Triangle struct {
	vertices [3]Vector3
	shared   *VertexBuffer
	indices  [3]int
	normal   Vector3
}

// NewTriangle creates a triangle that owns its vertices
func NewTriangle(v0, v1, v2 Vector3) Triangle {
	return Triangle{
		vertices: [3]Vector3{v0, v1, v2},
		indices:  [3]int{-1, -1, -1},
		normal:   faceNormal(v0, v1, v2),
	}
}

// NewIndexedTriangle creates a triangle referencing three positions of buf
func NewIndexedTriangle(buf *VertexBuffer, i0, i1, i2 int) (Triangle, error) {
	if buf == nil {
		return Triangle{}, fmt.Errorf("indexed triangle without vertex buffer: %w", ErrVertexIndex)
	}
	t := Triangle{shared: buf, indices: [3]int{i0, i1, i2}}
	var v [3]Vector3
	for k, idx := range t.indices {
		p, err := buf.At(idx)
		if err != nil {
			return Triangle{}, fmt.Errorf("triangle vertex %d: %w", k, err)
		}
		v[k] = p
	}
	t.normal = faceNormal(v[0], v[1], v[2])
	return t, nil
}

func faceNormal(v0, v1, v2 Vector3) Vector3 {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	return edge1.Cross(edge2).Normalize()
}

// Indexed reports whether the triangle references a shared vertex buffer
func (t Triangle) Indexed() bool {
	return t.shared != nil
}

// Indices returns the vertex buffer indices; ok is false for owned triangles
func (t Triangle) Indices() (indices [3]int, ok bool) {
	return t.indices, t.shared != nil
}

// Buffer returns the shared vertex buffer, or nil for owned triangles
func (t Triangle) Buffer() *VertexBuffer {
	return t.shared
}

// Vertex returns vertex i, which must be 0, 1 or 2
func (t Triangle) Vertex(i int) (Vector3, error) {
	if i < 0 || i > 2 {
		return Vector3{}, fmt.Errorf("triangle vertex %d: %w", i, ErrVertexIndex)
	}
	if t.shared == nil {
		return t.vertices[i], nil
	}
	return t.shared.At(t.indices[i])
}

// Vertices returns all three vertices. Indices were checked at construction
// and the buffer is append-only, so this cannot go out of range.
func (t Triangle) Vertices() [3]Vector3 {
	if t.shared == nil {
		return t.vertices
	}
	p := t.shared.positions
	return [3]Vector3{p[t.indices[0]], p[t.indices[1]], p[t.indices[2]]}
}

// Normal returns the cached unit face normal
func (t Triangle) Normal() Vector3 {
	return t.normal
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	v := t.Vertices()
	edge1 := v[1].Sub(v[0])
	edge2 := v[2].Sub(v[0])
	return edge1.Cross(edge2).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	v := t.Vertices()
	return [3]float64{
		v[0].Distance(v[1]),
		v[1].Distance(v[2]),
		v[2].Distance(v[0]),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	v := t.Vertices()
	return Vector3{
		X: (v[0].X + v[1].X + v[2].X) / 3.0,
		Y: (v[0].Y + v[1].Y + v[2].Y) / 3.0,
		Z: (v[0].Z + v[1].Z + v[2].Z) / 3.0,
	}
}

// Degenerate reports whether the triangle has (near) zero area
func (t Triangle) Degenerate() bool {
	return t.Area() < 1e-12
}
