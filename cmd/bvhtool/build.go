package main

import (
	"fmt"

	"github.com/philipparndt/gobvh/internal/logger"
	"github.com/philipparndt/gobvh/pkg/analysis"
	"github.com/philipparndt/gobvh/pkg/bvh"
	"github.com/philipparndt/gobvh/pkg/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	objPath    string
	gpuPath    string
	noValidate bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Build the hierarchy and optionally export it",
	Long: `Build the hierarchy for an STL or OpenSCAD file, check its invariants and
write the requested exports. --obj writes every node box as an OBJ line mesh,
--gpu writes flattened node and triangle records.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&objPath, "obj", "", "write node boxes as an OBJ line mesh")
	buildCmd.Flags().StringVar(&gpuPath, "gpu", "", "write GPU node and triangle records")
	buildCmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip the tree invariant check")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	_, tree, err := loadTree(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if !noValidate {
		if err := tree.Validate(); err != nil {
			return err
		}
	}

	opts := cfg.Export
	if cmd.Flags().Changed("obj") {
		opts.OBJPath = objPath
	}
	if cmd.Flags().Changed("gpu") {
		opts.GPUPath = gpuPath
	}
	if err := exportTree(tree, opts.OBJPath, opts.GPUPath); err != nil {
		return err
	}

	stats, err := tree.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Triangles: %d\n", stats.Primitives)
	fmt.Fprintf(out, "Nodes: %d (%d leaves)\n", stats.Nodes, stats.Leaves)
	fmt.Fprintf(out, "Depth: %d\n", stats.MaxDepth)
	fmt.Fprintf(out, "Bounds: %s\n", analysis.FormatBox(stats.RootBox))
	fmt.Fprintf(out, "Build time: %s\n", stats.BuildTime)
	return nil
}

// exportTree writes the OBJ and GPU outputs whose path is non-empty.
func exportTree(tree *bvh.BVH, obj, gpu string) error {
	if obj != "" {
		boxes, err := tree.Boxes()
		if err != nil {
			return err
		}
		if err := export.SaveOBJ(obj, boxes); err != nil {
			return err
		}
		logger.Info("wrote OBJ", zap.String("path", obj), zap.Int("boxes", len(boxes)))
	}

	if gpu != "" {
		if err := export.SaveGPU(gpu, tree); err != nil {
			return err
		}
		logger.Info("wrote GPU records", zap.String("path", gpu))
	}
	return nil
}
