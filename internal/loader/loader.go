// Package loader turns mesh sources (.stl or .scad) into triangle models.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gobvh/pkg/openscad"
	"github.com/philipparndt/gobvh/pkg/stl"
	"go.uber.org/zap"
)

// ErrUnsupported is returned for files that are neither STL nor OpenSCAD.
var ErrUnsupported = errors.New("unsupported file type")

// Source describes a loaded mesh.
type Source struct {
	Path       string
	Model      *stl.Model
	IsOpenSCAD bool
	// Files lists the paths whose changes invalidate the model.
	Files []string
}

// Load loads a model from either an STL or an OpenSCAD file
func Load(ctx context.Context, filePath string, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".stl":
		model, err := stl.Parse(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		logger.Debug("loaded STL",
			zap.String("path", filePath),
			zap.Int("triangles", model.TriangleCount()),
			zap.Int("vertices", model.VertexCount()))
		return &Source{Path: filePath, Model: model, Files: []string{filePath}}, nil

	case ".scad":
		return loadOpenSCAD(ctx, filePath, logger)

	default:
		return nil, fmt.Errorf("%w: %s (expected .stl or .scad)", ErrUnsupported, ext)
	}
}

func loadOpenSCAD(ctx context.Context, filePath string, logger *zap.Logger) (*Source, error) {
	logger.Info("rendering OpenSCAD file", zap.String("path", filePath))

	renderer := openscad.NewRenderer(filepath.Dir(filePath), logger)

	deps, err := renderer.ResolveDependencies(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	tempFile, err := os.CreateTemp("", "bvhtool_*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()
	defer os.Remove(tempPath)

	if err := renderer.RenderToSTL(ctx, filePath, tempPath); err != nil {
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}

	model, err := stl.Parse(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	model.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	return &Source{Path: filePath, Model: model, IsOpenSCAD: true, Files: deps}, nil
}
