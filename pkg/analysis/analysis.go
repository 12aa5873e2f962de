package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gobvh/pkg/bvh"
	"github.com/philipparndt/gobvh/pkg/geometry"
	"github.com/philipparndt/gobvh/pkg/stl"
)

// MeshReport contains measurements of a loaded mesh
type MeshReport struct {
	Name          string
	TriangleCount int
	VertexCount   int
	Degenerate    int
	BoundingBox   geometry.AABB
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// TreeReport combines tree statistics with how far the tree is from a
// perfectly balanced one
type TreeReport struct {
	bvh.Stats
	ExpectedDepth int
	// Overlap is the summed volume of all leaf boxes divided by the root
	// volume. Values well above 1 mean leaves overlap a lot.
	Overlap float64
}

// AnalyzeModel measures the mesh
func AnalyzeModel(model *stl.Model) *MeshReport {
	result := &MeshReport{
		Name:          model.Name,
		TriangleCount: model.TriangleCount(),
		VertexCount:   model.VertexCount(),
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
	}
	if result.TriangleCount == 0 {
		return result
	}

	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		if triangle.Degenerate() {
			result.Degenerate++
		}
		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.MinEdgeLength = minLength
	result.MaxEdgeLength = maxLength
	result.AvgEdgeLength = totalLength / float64(3*result.TriangleCount)
	return result
}

// AnalyzeTree collects statistics of a built tree
func AnalyzeTree(tree *bvh.BVH) (*TreeReport, error) {
	stats, err := tree.Stats()
	if err != nil {
		return nil, err
	}

	report := &TreeReport{
		Stats:         stats,
		ExpectedDepth: bvh.ExpectedDepth(stats.Primitives),
	}

	leafVolume := 0.0
	err = tree.Walk(func(_ bvh.NodeID, node *bvh.Node, _ int) bool {
		if node.IsLeaf() {
			leafVolume += node.Box.Volume()
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if rootVolume := stats.RootBox.Volume(); stats.Nodes > 0 && rootVolume > 0 {
		report.Overlap = leafVolume / rootVolume
	}
	return report, nil
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatBox formats a box as "min - max"
func FormatBox(b geometry.AABB) string {
	if b.IsEmpty() {
		return "(empty)"
	}
	return FormatVector(b.Min) + " - " + FormatVector(b.Max)
}
