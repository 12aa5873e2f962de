package bvh

import (
	"errors"
	"fmt"
)

// ErrInvalidTree wraps every violation reported by Validate
var ErrInvalidTree = errors.New("bvh: invalid tree")

// boundsEpsilon is the slack allowed when checking that boxes contain vertices
const boundsEpsilon = 1e-9

// Validate checks the builder's contract: the root bounds every triangle,
// every interior node's box is the union of its children's boxes, every
// leaf holds one primitive and every primitive appears in exactly one leaf.
func (b *BVH) Validate() error {
	if !b.built {
		return ErrNotBuilt
	}
	if b.root == NoNode {
		if len(b.primitives) != 0 {
			return fmt.Errorf("%w: no root for %d primitives", ErrInvalidTree, len(b.primitives))
		}
		return nil
	}

	root := &b.nodes[b.root]
	for i := range b.primitives {
		for _, v := range b.primitives[i].tri.Vertices() {
			if !root.Box.Contains(v, boundsEpsilon) {
				return fmt.Errorf("%w: vertex %v of primitive %d outside root box", ErrInvalidTree, v, i)
			}
		}
	}

	seen := make([]bool, len(b.primitives))
	leaves := 0
	var violation error

	err := b.Walk(func(id NodeID, node *Node, _ int) bool {
		if idx, ok := node.PrimitiveIndex(); ok {
			if idx >= len(seen) {
				violation = fmt.Errorf("%w: leaf %d references primitive %d of %d", ErrInvalidTree, id, idx, len(seen))
				return false
			}
			if seen[idx] {
				violation = fmt.Errorf("%w: primitive %d referenced twice", ErrInvalidTree, idx)
				return false
			}
			seen[idx] = true
			leaves++
			if node.Box != b.primitives[idx].box {
				violation = fmt.Errorf("%w: leaf %d box differs from its primitive's box", ErrInvalidTree, id)
				return false
			}
			return true
		}

		left, right, _ := node.Children()
		if left == NoNode || right == NoNode {
			violation = fmt.Errorf("%w: interior node %d has a missing child", ErrInvalidTree, id)
			return false
		}
		union := b.nodes[left].Box.Union(b.nodes[right].Box)
		if node.Box != union {
			violation = fmt.Errorf("%w: node %d box %v is not the union %v of its children", ErrInvalidTree, id, node.Box, union)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if violation != nil {
		return violation
	}

	if leaves != len(b.primitives) {
		return fmt.Errorf("%w: %d leaves for %d primitives", ErrInvalidTree, leaves, len(b.primitives))
	}
	return nil
}
