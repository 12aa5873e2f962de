package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses STL data from r. A binary file is recognized by its size
// matching the triangle count in its header; anything else starting with
// "solid" is parsed as ASCII. Binary headers may start with "solid" too.
func Read(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	if isBinary(data) || !bytes.HasPrefix(data, []byte("solid")) {
		return parseBinary(bytes.NewReader(data))
	}
	return parseASCII(bytes.NewReader(data))
}

// isBinary reports whether data is exactly an 80-byte header, a triangle
// count and that many 50-byte records.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:binaryHeaderSize])
	return uint64(len(data)) == binaryHeaderSize+facetRecordSize*uint64(count)
}

func parseVertex(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		xyz[i] = f
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// parseASCII parses an ASCII STL file. Facet normals stored in the file
// are ignored; triangles derive their own.
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseVertex(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				if err := model.AddFacet(vertices[0], vertices[1], vertices[2]); err != nil {
					return nil, err
				}
			}
			vertices = vertices[:0] // Clear vertices
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

const (
	binaryHeaderSize = 84
	facetRecordSize  = 50
)

// facetRecord is the 50-byte binary STL triangle record
type facetRecord struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader) (*Model, error) {
	model := NewModel("")

	// Read 80-byte header
	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Extract name from header (if present)
	headerStr := string(bytes.TrimRight(header, "\x00 "))
	if len(headerStr) > 0 {
		model.Name = headerStr
	}

	// Read triangle count
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	var rec facetRecord
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}

		var v [3]geometry.Vector3
		for k, p := range rec.Vertices {
			v[k] = geometry.NewVector3(float64(p[0]), float64(p[1]), float64(p[2]))
		}
		if err := model.AddFacet(v[0], v[1], v[2]); err != nil {
			return nil, err
		}
	}

	return model, nil
}

// WriteBinary writes the model as a binary STL file. Stored normals are the
// triangles' derived face normals.
func WriteBinary(w io.Writer, model *Model) error {
	header := make([]byte, 80)
	copy(header, model.Name)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, tri := range model.Triangles {
		n := tri.Normal()
		rec := facetRecord{Normal: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}}
		for k, v := range tri.Vertices() {
			rec.Vertices[k] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}
