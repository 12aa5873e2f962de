package main

import (
	"context"
	"fmt"

	"github.com/philipparndt/gobvh/internal/loader"
	"github.com/philipparndt/gobvh/internal/logger"
	"github.com/philipparndt/gobvh/pkg/bvh"
	"go.uber.org/zap"
)

// loadTree loads a mesh source and builds its hierarchy with the configured options.
func loadTree(ctx context.Context, path string) (*loader.Source, *bvh.BVH, error) {
	src, err := loader.Load(ctx, path, logger.Named("loader"))
	if err != nil {
		return nil, nil, err
	}

	tree := bvh.New(src.Model.Triangles)
	if err := tree.Build(cfg.Build.Options(logger.Named("bvh"))); err != nil {
		return nil, nil, fmt.Errorf("building hierarchy for %s: %w", path, err)
	}

	logger.Info("hierarchy built",
		zap.String("source", path),
		zap.Int("triangles", tree.Len()),
		zap.Duration("elapsed", tree.BuildTime()))
	return src, tree, nil
}
