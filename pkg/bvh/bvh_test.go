package bvh

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/philipparndt/gobvh/pkg/geometry"
	"github.com/stretchr/testify/require"
)

func randomTriangles(n int, seed int64) []geometry.Triangle {
	rng := rand.New(rand.NewSource(seed))
	point := func() geometry.Vector3 {
		return geometry.NewVector3(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*100-50)
	}

	tris := make([]geometry.Triangle, 0, n)
	for i := 0; i < n; i++ {
		base := point()
		tris = append(tris, geometry.NewTriangle(
			base,
			base.Add(geometry.NewVector3(rng.Float64(), 0, 0)),
			base.Add(geometry.NewVector3(0, rng.Float64(), rng.Float64())),
		))
	}
	return tris
}

func unitTriangleAt(x float64) geometry.Triangle {
	return geometry.NewTriangle(
		geometry.NewVector3(x, 0, 0),
		geometry.NewVector3(x+1, 0, 0),
		geometry.NewVector3(x, 1, 0),
	)
}

func build(t *testing.T, tris []geometry.Triangle, opts BuildOptions) *BVH {
	t.Helper()
	tree := New(tris)
	require.NoError(t, tree.Build(opts))
	return tree
}

func TestBuildEmpty(t *testing.T) {
	tree := build(t, nil, BuildOptions{})

	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, NoNode, root)

	boxes, err := tree.Boxes()
	require.NoError(t, err)
	require.NotNil(t, boxes)
	require.Empty(t, boxes)

	require.NoError(t, tree.Validate())

	stats, err := tree.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.Nodes)
	require.Zero(t, stats.Leaves)
}

func TestBuildSingleTriangle(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(1, 2, 3),
		geometry.NewVector3(4, -1, 0),
		geometry.NewVector3(2, 5, 1),
	)
	tree := build(t, []geometry.Triangle{tri}, BuildOptions{})

	root, err := tree.Root()
	require.NoError(t, err)
	node, err := tree.Node(root)
	require.NoError(t, err)

	require.True(t, node.IsLeaf())
	idx, ok := node.PrimitiveIndex()
	require.True(t, ok)
	require.Equal(t, 0, idx)
	require.Equal(t, geometry.AABBFromTriangle(tri), node.Box)

	_, _, ok = node.Children()
	require.False(t, ok)

	boxes, err := tree.Boxes()
	require.NoError(t, err)
	require.Len(t, boxes, 1)
}

func TestQueryBeforeBuild(t *testing.T) {
	tree := New(randomTriangles(8, 1))

	_, err := tree.Root()
	require.ErrorIs(t, err, ErrNotBuilt)
	_, err = tree.Node(0)
	require.ErrorIs(t, err, ErrNotBuilt)
	_, err = tree.Primitive(0)
	require.ErrorIs(t, err, ErrNotBuilt)
	_, err = tree.Boxes()
	require.ErrorIs(t, err, ErrNotBuilt)
	_, err = tree.Stats()
	require.ErrorIs(t, err, ErrNotBuilt)
	require.ErrorIs(t, tree.Validate(), ErrNotBuilt)
	require.ErrorIs(t, tree.Walk(func(NodeID, *Node, int) bool { return true }), ErrNotBuilt)
	require.False(t, tree.Built())
}

func TestBuildTwice(t *testing.T) {
	tree := build(t, randomTriangles(4, 2), BuildOptions{})
	require.ErrorIs(t, tree.Build(BuildOptions{}), ErrAlreadyBuilt)
}

func TestLeafCountMatchesTriangleCount(t *testing.T) {
	for n := 0; n <= 65; n++ {
		tree := build(t, randomTriangles(n, int64(n)), BuildOptions{})

		stats, err := tree.Stats()
		require.NoError(t, err)
		require.Equal(t, n, stats.Leaves, "n=%d", n)
		if n > 0 {
			require.Equal(t, 2*n-1, stats.Nodes, "n=%d", n)
			require.Equal(t, n-1, stats.Interior, "n=%d", n)
		}
		require.Equal(t, ExpectedDepth(n), stats.MaxDepth, "n=%d", n)
		require.NoError(t, tree.Validate(), "n=%d", n)
	}
}

func TestRootBoundsEveryVertex(t *testing.T) {
	tris := randomTriangles(500, 3)
	tree := build(t, tris, BuildOptions{})

	root, err := tree.Root()
	require.NoError(t, err)
	node, err := tree.Node(root)
	require.NoError(t, err)

	for _, tri := range tris {
		for _, v := range tri.Vertices() {
			require.True(t, node.Box.Contains(v, 1e-9), "vertex %v outside %v", v, node.Box)
		}
	}
}

func TestInteriorBoxIsUnionOfChildren(t *testing.T) {
	tree := build(t, randomTriangles(300, 4), BuildOptions{})

	err := tree.Walk(func(id NodeID, node *Node, _ int) bool {
		left, right, ok := node.Children()
		if !ok {
			return true
		}
		l, err := tree.Node(left)
		require.NoError(t, err)
		r, err := tree.Node(right)
		require.NoError(t, err)
		require.Equal(t, geometry.SurroundingBox(l.Box, r.Box), node.Box, "node %d", id)
		return true
	})
	require.NoError(t, err)
}

func TestEveryPrimitiveInExactlyOneLeaf(t *testing.T) {
	tree := build(t, randomTriangles(257, 5), BuildOptions{})

	counts := make(map[int]int)
	err := tree.Walk(func(_ NodeID, node *Node, _ int) bool {
		if idx, ok := node.PrimitiveIndex(); ok {
			counts[idx]++
			p, err := tree.Primitive(idx)
			require.NoError(t, err)
			require.Equal(t, p.Box(), node.Box)
		}
		return true
	})
	require.NoError(t, err)
	require.Len(t, counts, 257)
	for idx, c := range counts {
		require.Equal(t, 1, c, "primitive %d", idx)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	tris := randomTriangles(1000, 6)

	a := build(t, tris, BuildOptions{})
	b := build(t, tris, BuildOptions{})

	aNodes, err := a.Nodes()
	require.NoError(t, err)
	bNodes, err := b.Nodes()
	require.NoError(t, err)
	require.Equal(t, aNodes, bNodes)

	aPrims, err := a.Primitives()
	require.NoError(t, err)
	bPrims, err := b.Primitives()
	require.NoError(t, err)
	require.Equal(t, aPrims, bPrims)
}

func TestParallelBuildMatchesSequential(t *testing.T) {
	tris := randomTriangles(5000, 7)

	seq := build(t, tris, BuildOptions{})
	par := build(t, tris, BuildOptions{Workers: 8, ParallelThreshold: 16})

	seqNodes, err := seq.Nodes()
	require.NoError(t, err)
	parNodes, err := par.Nodes()
	require.NoError(t, err)
	require.Equal(t, seqNodes, parNodes)

	seqBoxes, err := seq.Boxes()
	require.NoError(t, err)
	parBoxes, err := par.Boxes()
	require.NoError(t, err)
	require.Equal(t, seqBoxes, parBoxes)

	require.NoError(t, par.Validate())
}

func TestDegenerateInputTerminates(t *testing.T) {
	tris := make([]geometry.Triangle, 100)
	for i := range tris {
		tris[i] = unitTriangleAt(0)
	}
	tree := build(t, tris, BuildOptions{})

	stats, err := tree.Stats()
	require.NoError(t, err)
	require.Equal(t, 100, stats.Leaves)
	require.Equal(t, ExpectedDepth(100), stats.MaxDepth)
	require.NoError(t, tree.Validate())
}

func TestBuildDoesNotModifyInput(t *testing.T) {
	tris := []geometry.Triangle{unitTriangleAt(5), unitTriangleAt(0), unitTriangleAt(3)}
	before := append([]geometry.Triangle(nil), tris...)

	build(t, tris, BuildOptions{})
	require.Equal(t, before, tris)
}

func TestWalkOrder(t *testing.T) {
	// Right subtree is emitted before the left one.
	far := unitTriangleAt(5)
	near := unitTriangleAt(0)
	tree := build(t, []geometry.Triangle{far, near}, BuildOptions{})

	boxes, err := tree.Boxes()
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	require.Equal(t, geometry.SurroundingBox(geometry.AABBFromTriangle(far), geometry.AABBFromTriangle(near)), boxes[0])
	require.Equal(t, geometry.AABBFromTriangle(far), boxes[1])
	require.Equal(t, geometry.AABBFromTriangle(near), boxes[2])
}

func TestWalkStops(t *testing.T) {
	tree := build(t, randomTriangles(16, 8), BuildOptions{})

	visited := 0
	require.NoError(t, tree.Walk(func(NodeID, *Node, int) bool {
		visited++
		return visited < 3
	}))
	require.Equal(t, 3, visited)
}

func TestPrint(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 2, 3),
	)
	tree := build(t, []geometry.Triangle{tri}, BuildOptions{})

	var buf bytes.Buffer
	require.NoError(t, tree.Print(&buf))
	require.Equal(t, "Box: (0, 0, 0) - (1, 2, 3)\n", buf.String())
}

func TestExpectedDepth(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 1024: 10, 1025: 11}
	for n, want := range cases {
		require.Equal(t, want, ExpectedDepth(n), "n=%d", n)
	}
}
