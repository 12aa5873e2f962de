// Package export writes BVH data in formats consumed outside the builder:
// OBJ line meshes for visual debugging and little-endian float32 buffers
// for GPU upload.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// boxEdges lists the twelve cube edges as pairs of corner numbers (1-based),
// using the corner order of geometry.AABB.Corners.
var boxEdges = [12][2]int{
	{1, 2}, {1, 3}, {1, 5},
	{2, 4}, {2, 6},
	{3, 4}, {3, 7},
	{4, 8},
	{5, 6}, {5, 7},
	{6, 8},
	{7, 8},
}

// LineMesh is the content of an OBJ file made of vertex and line records
type LineMesh struct {
	Vertices []geometry.Vector3
	// Lines holds 1-based vertex indices, as written in the file
	Lines [][2]int
}

// WriteOBJ writes every box as 8 "v" records followed, after all boxes,
// by 12 "l" records per box whose indices are offset by 8 × box index.
func WriteOBJ(w io.Writer, boxes []geometry.AABB) error {
	bw := bufio.NewWriter(w)

	for _, box := range boxes {
		for _, c := range box.Corners() {
			bw.WriteString("v ")
			bw.WriteString(formatFloat(c.X))
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(c.Y))
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(c.Z))
			bw.WriteByte('\n')
		}
	}

	for i := range boxes {
		offset := 8 * i
		for _, e := range boxEdges {
			fmt.Fprintf(bw, "l %d %d\n", offset+e[0], offset+e[1])
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write OBJ: %w", err)
	}
	return nil
}

// SaveOBJ writes the boxes to filename, replacing any existing file
func SaveOBJ(filename string, boxes []geometry.AABB) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteOBJ(file, boxes); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadOBJ parses "v" and "l" records. Other record types and comments are
// skipped.
func ReadOBJ(r io.Reader) (*LineMesh, error) {
	mesh := &LineMesh{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				xyz[i] = f
			}
			mesh.Vertices = append(mesh.Vertices, geometry.NewVector3(xyz[0], xyz[1], xyz[2]))

		case "l":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: line needs 2 indices", lineNo)
			}
			a, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			b, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			mesh.Lines = append(mesh.Lines, [2]int{a, b})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	return mesh, nil
}

// LoadOBJ reads a line mesh from filename
func LoadOBJ(filename string) (*LineMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadOBJ(file)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
