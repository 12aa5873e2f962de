package bvh

import "github.com/philipparndt/gobvh/pkg/geometry"

// NodeID addresses a node in the tree's node arena
type NodeID int32

// NoNode marks the absence of a node, e.g. the root of an empty tree
const NoNode NodeID = -1

// Node is either an interior node with exactly two children or a leaf
// holding exactly one primitive. The zero value is neither; nodes are only
// created by the builder.
type Node struct {
	Box geometry.AABB

	left, right NodeID
	primitive   int32
}

func leafNode(box geometry.AABB, primitive int) Node {
	return Node{Box: box, left: NoNode, right: NoNode, primitive: int32(primitive)}
}

func interiorNode(box geometry.AABB, left, right NodeID) Node {
	return Node{Box: box, left: left, right: right, primitive: -1}
}

// IsLeaf reports whether the node carries a primitive
func (n *Node) IsLeaf() bool {
	return n.primitive >= 0
}

// Children returns the two child IDs of an interior node.
// ok is false for leaves.
func (n *Node) Children() (left, right NodeID, ok bool) {
	if n.IsLeaf() {
		return NoNode, NoNode, false
	}
	return n.left, n.right, true
}

// PrimitiveIndex returns the index of the leaf's primitive in the tree's
// primitive slice. ok is false for interior nodes.
func (n *Node) PrimitiveIndex() (index int, ok bool) {
	if !n.IsLeaf() {
		return -1, false
	}
	return int(n.primitive), true
}
