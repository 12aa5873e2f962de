// Package bvh builds a bounding volume hierarchy over triangles using
// median splits along the longest axis of each node's bounding box.
package bvh

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/philipparndt/gobvh/pkg/geometry"
	"go.uber.org/zap"
)

var (
	// ErrNotBuilt is returned by queries on a tree whose Build has not completed
	ErrNotBuilt = errors.New("bvh: uninitialized structure")

	// ErrAlreadyBuilt is returned when Build is called a second time
	ErrAlreadyBuilt = errors.New("bvh: already built")
)

// DefaultParallelThreshold is the smallest range handed to another goroutine
// when building with more than one worker.
const DefaultParallelThreshold = 4096

// BuildOptions controls how Build runs. The zero value builds on the
// calling goroutine without logging.
type BuildOptions struct {
	// Workers is the number of goroutines that may build subtrees at the
	// same time. Values <= 1 build sequentially; use runtime.NumCPU() for
	// all cores.
	Workers int

	// ParallelThreshold is the minimum range length forked onto a new
	// goroutine. Zero means DefaultParallelThreshold.
	ParallelThreshold int

	Logger *zap.Logger
}

// AllCores returns options that build on every available CPU
func AllCores(logger *zap.Logger) BuildOptions {
	return BuildOptions{Workers: runtime.NumCPU(), Logger: logger}
}

// BVH is a binary tree of bounding boxes over a set of triangles.
//
// Build reorders the primitive slice in place. The order before and after
// Build is unrelated, and leaf primitive indices are only meaningful once
// Build has returned.
type BVH struct {
	primitives []Primitive
	nodes      []Node
	root       NodeID
	built      bool
	buildTime  time.Duration
}

// New wraps every triangle in a Primitive. The tree is empty until Build.
func New(triangles []geometry.Triangle) *BVH {
	primitives := make([]Primitive, 0, len(triangles))
	for _, tri := range triangles {
		primitives = append(primitives, NewPrimitive(tri))
	}
	return &BVH{primitives: primitives, root: NoNode}
}

// Build constructs the tree. It must be called exactly once per BVH.
func (b *BVH) Build(opts BuildOptions) error {
	if b.built {
		return ErrAlreadyBuilt
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	bld := newBuilder(b.primitives, opts)
	root := bld.run()

	b.nodes = bld.nodes
	b.root = root
	b.buildTime = time.Since(start)
	b.built = true

	logger.Debug("BVH built",
		zap.Int("primitives", len(b.primitives)),
		zap.Int("nodes", len(b.nodes)),
		zap.Int("workers", bld.workers),
		zap.Duration("elapsed", b.buildTime),
	)
	return nil
}

// Built reports whether Build has completed
func (b *BVH) Built() bool {
	return b.built
}

// Root returns the ID of the root node, or NoNode for an empty tree
func (b *BVH) Root() (NodeID, error) {
	if !b.built {
		return NoNode, ErrNotBuilt
	}
	return b.root, nil
}

// Node returns the node with the given ID
func (b *BVH) Node(id NodeID) (*Node, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	if id < 0 || int(id) >= len(b.nodes) {
		return nil, fmt.Errorf("bvh: node %d of %d out of range", id, len(b.nodes))
	}
	return &b.nodes[id], nil
}

// Primitive returns the primitive at index i of the post-build order
func (b *BVH) Primitive(i int) (*Primitive, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	if i < 0 || i >= len(b.primitives) {
		return nil, fmt.Errorf("bvh: primitive %d of %d out of range", i, len(b.primitives))
	}
	return &b.primitives[i], nil
}

// Primitives returns every primitive in post-build order. The slice must
// not be modified.
func (b *BVH) Primitives() ([]Primitive, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	return b.primitives, nil
}

// Nodes returns the node arena in pre-order. The slice must not be modified.
func (b *BVH) Nodes() ([]Node, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	return b.nodes, nil
}

// Len returns the number of primitives
func (b *BVH) Len() int {
	return len(b.primitives)
}

// BuildTime returns how long Build took
func (b *BVH) BuildTime() time.Duration {
	return b.buildTime
}
