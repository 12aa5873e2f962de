package geometry

import "fmt"

// VertexBuffer is a list of positions shared between indexed triangles.
// Triangles only hold indices into it, so the buffer must outlive them
// and must not be reordered once triangles reference it.
type VertexBuffer struct {
	positions []Vector3
}

// NewVertexBuffer creates an empty buffer with room for capacity positions
func NewVertexBuffer(capacity int) *VertexBuffer {
	return &VertexBuffer{positions: make([]Vector3, 0, capacity)}
}

// Add appends a position and returns its index
func (b *VertexBuffer) Add(v Vector3) int {
	b.positions = append(b.positions, v)
	return len(b.positions) - 1
}

// Len returns the number of stored positions
func (b *VertexBuffer) Len() int {
	return len(b.positions)
}

// At returns the position stored at index i
func (b *VertexBuffer) At(i int) (Vector3, error) {
	if i < 0 || i >= len(b.positions) {
		return Vector3{}, fmt.Errorf("vertex buffer index %d of %d: %w", i, len(b.positions), ErrVertexIndex)
	}
	return b.positions[i], nil
}

// Positions returns the underlying positions. The slice must not be modified.
func (b *VertexBuffer) Positions() []Vector3 {
	return b.positions
}

// Float32s flattens the buffer into x,y,z triples for upload to a GPU
func (b *VertexBuffer) Float32s() []float32 {
	out := make([]float32, 0, 3*len(b.positions))
	for _, p := range b.positions {
		out = append(out, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return out
}
