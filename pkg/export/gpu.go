package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/gobvh/pkg/bvh"
	"github.com/philipparndt/gobvh/pkg/geometry"
)

// gpuMagic starts every buffer file written by WriteGPU
var gpuMagic = [4]byte{'B', 'V', 'H', '1'}

// ReflectionSpecular is the shader's specular reflection type, assigned to
// every exported triangle
const ReflectionSpecular uint32 = 1

// ErrInvalidGPU is returned by ReadGPU for files it cannot decode
var ErrInvalidGPU = errors.New("invalid BVH buffer file")

// readChunk bounds how many records ReadGPU decodes at once, so a header
// announcing more records than the file holds fails before allocating them.
const readChunk = 4096

// GPUTriangle is the per-triangle record read by the path tracing shader
type GPUTriangle struct {
	Vertices       [3]mgl32.Vec3
	Normal         mgl32.Vec3
	Emission       mgl32.Vec3
	Color          mgl32.Vec3
	ReflectionType uint32
}

// GPUNode is a tree node laid out in 16-byte rows. Interior nodes have
// Primitive = -1; leaves have Left = Right = -1.
type GPUNode struct {
	Min       mgl32.Vec3
	Left      int32
	Max       mgl32.Vec3
	Right     int32
	Primitive int32
	_         [3]int32
}

func vec3(v geometry.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// NewGPUTriangle converts a triangle into a grey, non-emissive specular record
func NewGPUTriangle(tri geometry.Triangle) GPUTriangle {
	v := tri.Vertices()
	return GPUTriangle{
		Vertices:       [3]mgl32.Vec3{vec3(v[0]), vec3(v[1]), vec3(v[2])},
		Normal:         vec3(tri.Normal()),
		Color:          mgl32.Vec3{0.5, 0.5, 0.5},
		ReflectionType: ReflectionSpecular,
	}
}

// FlattenTriangles returns one record per primitive in the tree's
// post-build order, so GPUNode.Primitive indexes straight into it.
func FlattenTriangles(tree *bvh.BVH) ([]GPUTriangle, error) {
	prims, err := tree.Primitives()
	if err != nil {
		return nil, err
	}

	out := make([]GPUTriangle, len(prims))
	for i := range prims {
		out[i] = NewGPUTriangle(prims[i].Triangle())
	}
	return out, nil
}

// FlattenNodes converts the node arena. Node IDs are preserved, so the
// root is at index 0 for any non-empty tree.
func FlattenNodes(tree *bvh.BVH) ([]GPUNode, error) {
	nodes, err := tree.Nodes()
	if err != nil {
		return nil, err
	}

	out := make([]GPUNode, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		g := GPUNode{
			Min:       vec3(n.Box.Min),
			Max:       vec3(n.Box.Max),
			Left:      -1,
			Right:     -1,
			Primitive: -1,
		}
		if left, right, ok := n.Children(); ok {
			g.Left, g.Right = int32(left), int32(right)
		} else if idx, ok := n.PrimitiveIndex(); ok {
			g.Primitive = int32(idx)
		}
		out[i] = g
	}
	return out, nil
}

// WriteGPU writes a little-endian buffer file: magic, node count, triangle
// count, the nodes, then the triangles.
func WriteGPU(w io.Writer, tree *bvh.BVH) error {
	nodes, err := FlattenNodes(tree)
	if err != nil {
		return err
	}
	tris, err := FlattenTriangles(tree)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	header := struct {
		Magic     [4]byte
		Nodes     uint32
		Triangles uint32
	}{gpuMagic, uint32(len(nodes)), uint32(len(tris))}

	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, nodes); err != nil {
		return fmt.Errorf("failed to write nodes: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, tris); err != nil {
		return fmt.Errorf("failed to write triangles: %w", err)
	}
	return bw.Flush()
}

// ReadGPU reads back a buffer file written by WriteGPU
func ReadGPU(r io.Reader) ([]GPUNode, []GPUTriangle, error) {
	var header struct {
		Magic     [4]byte
		Nodes     uint32
		Triangles uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != gpuMagic {
		return nil, nil, fmt.Errorf("%w: magic %q", ErrInvalidGPU, header.Magic[:])
	}
	// a tree over n triangles has 2n-1 nodes
	if uint64(header.Nodes) != max(2*uint64(header.Triangles), 1)-1 {
		return nil, nil, fmt.Errorf("%w: %d nodes for %d triangles", ErrInvalidGPU, header.Nodes, header.Triangles)
	}

	nodes, err := readRecords[GPUNode](r, header.Nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	tris, err := readRecords[GPUTriangle](r, header.Triangles)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read triangles: %w", err)
	}
	return nodes, tris, nil
}

// readRecords decodes n fixed-size records, growing the result one chunk
// at a time.
func readRecords[T any](r io.Reader, n uint32) ([]T, error) {
	out := make([]T, 0, min(int(n), readChunk))
	chunk := make([]T, min(int(n), readChunk))
	for remaining := int(n); remaining > 0; {
		k := min(remaining, readChunk)
		if err := binary.Read(r, binary.LittleEndian, chunk[:k]); err != nil {
			return nil, err
		}
		out = append(out, chunk[:k]...)
		remaining -= k
	}
	return out, nil
}

// SaveGPU writes the tree's buffers to filename
func SaveGPU(filename string, tree *bvh.BVH) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteGPU(file, tree); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SharedVertexData flattens triangles into a position list and an index
// list. Triangles that reference a VertexBuffer reuse its positions; owned
// triangles get three fresh positions each.
func SharedVertexData(tris []geometry.Triangle) (positions []float32, indices []uint32) {
	offsets := make(map[*geometry.VertexBuffer]uint32)

	for _, tri := range tris {
		if idx, ok := tri.Indices(); ok {
			buf := tri.Buffer()
			off, seen := offsets[buf]
			if !seen {
				off = uint32(len(positions) / 3)
				offsets[buf] = off
				positions = append(positions, buf.Float32s()...)
			}
			indices = append(indices, off+uint32(idx[0]), off+uint32(idx[1]), off+uint32(idx[2]))
			continue
		}

		base := uint32(len(positions) / 3)
		for _, v := range tri.Vertices() {
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
		}
		indices = append(indices, base, base+1, base+2)
	}
	return positions, indices
}
