package bvh

import (
	"time"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// Stats summarizes the shape of a built tree
type Stats struct {
	Primitives   int
	Nodes        int
	Leaves       int
	Interior     int
	MaxDepth     int
	AvgLeafDepth float64
	RootBox      geometry.AABB
	BuildTime    time.Duration
}

// Stats collects statistics by walking the whole tree
func (b *BVH) Stats() (Stats, error) {
	s := Stats{
		Primitives: len(b.primitives),
		RootBox:    geometry.EmptyAABB(),
		BuildTime:  b.buildTime,
	}

	depthSum := 0
	err := b.Walk(func(id NodeID, node *Node, depth int) bool {
		s.Nodes++
		if id == b.root {
			s.RootBox = node.Box
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if node.IsLeaf() {
			s.Leaves++
			depthSum += depth
		} else {
			s.Interior++
		}
		return true
	})
	if err != nil {
		return Stats{}, err
	}

	if s.Leaves > 0 {
		s.AvgLeafDepth = float64(depthSum) / float64(s.Leaves)
	}
	return s, nil
}

// ExpectedDepth returns ceil(log2(n)), the depth of a median-split tree
// over n primitives.
func ExpectedDepth(n int) int {
	depth := 0
	for size := 1; size < n; size <<= 1 {
		depth++
	}
	return depth
}
