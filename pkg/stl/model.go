package stl

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// ErrInvalidVertex is returned for facets with NaN or infinite coordinates
var ErrInvalidVertex = errors.New("non-finite vertex")

// Model represents a complete STL model. Facets are stored as indexed
// triangles over a single shared vertex buffer; coincident corners are
// welded into one vertex.
type Model struct {
	Name      string
	Vertices  *geometry.VertexBuffer
	Triangles []geometry.Triangle

	lookup map[geometry.Vector3]int
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Vertices:  geometry.NewVertexBuffer(0),
		Triangles: make([]geometry.Triangle, 0),
		lookup:    make(map[geometry.Vector3]int),
	}
}

// AddFacet adds a triangle, reusing already known vertex positions
func (m *Model) AddFacet(v0, v1, v2 geometry.Vector3) error {
	for _, v := range [3]geometry.Vector3{v0, v1, v2} {
		if !v.IsFinite() {
			return fmt.Errorf("failed to add facet %d: %w %v", len(m.Triangles), ErrInvalidVertex, v)
		}
	}
	tri, err := geometry.NewIndexedTriangle(m.Vertices, m.vertexIndex(v0), m.vertexIndex(v1), m.vertexIndex(v2))
	if err != nil {
		return fmt.Errorf("failed to add facet %d: %w", len(m.Triangles), err)
	}
	m.Triangles = append(m.Triangles, tri)
	return nil
}

func (m *Model) vertexIndex(v geometry.Vector3) int {
	if idx, ok := m.lookup[v]; ok {
		return idx
	}
	idx := m.Vertices.Add(v)
	m.lookup[v] = idx
	return idx
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of distinct vertices
func (m *Model) VertexCount() int {
	return m.Vertices.Len()
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.AABB {
	bbox := geometry.EmptyAABB()
	for _, v := range m.Vertices.Positions() {
		bbox = bbox.Extend(v)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
