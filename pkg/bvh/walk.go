package bvh

import (
	"fmt"
	"io"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// VisitFunc is called for every node during a walk. Returning false stops
// the walk.
type VisitFunc func(id NodeID, node *Node, depth int) bool

type stackEntry struct {
	id    NodeID
	depth int
}

// Walk visits every node depth-first with an explicit stack: a node is
// visited, then its left child is pushed, then its right child. The right
// subtree is therefore visited before the left one.
func (b *BVH) Walk(fn VisitFunc) error {
	if !b.built {
		return ErrNotBuilt
	}
	if b.root == NoNode {
		return nil
	}

	stack := []stackEntry{{id: b.root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &b.nodes[top.id]
		if !fn(top.id, node, top.depth) {
			return nil
		}

		if left, right, ok := node.Children(); ok {
			stack = append(stack, stackEntry{id: left, depth: top.depth + 1})
			stack = append(stack, stackEntry{id: right, depth: top.depth + 1})
		}
	}
	return nil
}

// Boxes returns every node's box in Walk order. An empty tree yields an
// empty, non-nil slice.
func (b *BVH) Boxes() ([]geometry.AABB, error) {
	boxes := make([]geometry.AABB, 0, len(b.nodes))
	err := b.Walk(func(_ NodeID, node *Node, _ int) bool {
		boxes = append(boxes, node.Box)
		return true
	})
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

// Print writes one "Box: (x, y, z) - (x, y, z)" line per node in Walk order
func (b *BVH) Print(w io.Writer) error {
	var writeErr error
	err := b.Walk(func(_ NodeID, node *Node, _ int) bool {
		_, writeErr = fmt.Fprintf(w, "Box: (%g, %g, %g) - (%g, %g, %g)\n",
			node.Box.Min.X, node.Box.Min.Y, node.Box.Min.Z,
			node.Box.Max.X, node.Box.Max.Y, node.Box.Max.Z)
		return writeErr == nil
	})
	if err != nil {
		return err
	}
	return writeErr
}
