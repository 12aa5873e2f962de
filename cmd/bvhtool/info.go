package main

import (
	"fmt"

	"github.com/philipparndt/gobvh/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display mesh and hierarchy statistics",
	Long:  "Show mesh measurements (triangles, vertices, bounds, edge lengths) and the shape of the built hierarchy.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	src, tree, err := loadTree(cmd.Context(), filename)
	if err != nil {
		return err
	}

	mesh := analysis.AnalyzeModel(src.Model)
	report, err := analysis.AnalyzeTree(tree)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "================")
	if mesh.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", mesh.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", mesh.TriangleCount)
	fmt.Fprintf(out, "  Vertices: %d\n", mesh.VertexCount)
	fmt.Fprintf(out, "  Degenerate: %d\n", mesh.Degenerate)
	fmt.Fprintf(out, "  Surface Area: %s\n\n", analysis.FormatMeasurement(mesh.SurfaceArea, "square units"))

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  %s\n", analysis.FormatBox(mesh.BoundingBox))
	fmt.Fprintf(out, "  Size: %s\n", analysis.FormatVector(mesh.Dimensions))
	fmt.Fprintf(out, "  Diagonal: %s\n\n", analysis.FormatMeasurement(mesh.BoundingBox.Diagonal(), ""))

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %s\n", analysis.FormatMeasurement(mesh.MinEdgeLength, ""))
	fmt.Fprintf(out, "  Maximum: %s\n", analysis.FormatMeasurement(mesh.MaxEdgeLength, ""))
	fmt.Fprintf(out, "  Average: %s\n\n", analysis.FormatMeasurement(mesh.AvgEdgeLength, ""))

	fmt.Fprintln(out, "Hierarchy:")
	fmt.Fprintf(out, "  Nodes: %d (%d interior, %d leaves)\n", report.Nodes, report.Interior, report.Leaves)
	fmt.Fprintf(out, "  Depth: %d (balanced: %d)\n", report.MaxDepth, report.ExpectedDepth)
	fmt.Fprintf(out, "  Average leaf depth: %.2f\n", report.AvgLeafDepth)
	fmt.Fprintf(out, "  Leaf overlap: %.3f\n", report.Overlap)
	fmt.Fprintf(out, "  Build time: %s\n", report.BuildTime)
	return nil
}
