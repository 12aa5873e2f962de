package bvh

import (
	"sync"

	"github.com/philipparndt/gobvh/pkg/geometry"
)

// insertionSortCutoff is the range length below which selection falls back
// to insertion sort.
const insertionSortCutoff = 8

type builder struct {
	prims []Primitive

	// Nodes are stored in pre-order. A subtree over k primitives always
	// holds 2k-1 nodes, so every node's slot is known before it is built
	// and concurrent subtree builds write to disjoint parts of the slice.
	nodes []Node

	workers   int
	threshold int
	sem       chan struct{}
}

func newBuilder(prims []Primitive, opts BuildOptions) *builder {
	b := &builder{
		prims:     prims,
		workers:   1,
		threshold: opts.ParallelThreshold,
	}
	if len(prims) > 0 {
		b.nodes = make([]Node, 2*len(prims)-1)
	}
	if b.threshold <= 0 {
		b.threshold = DefaultParallelThreshold
	}
	if opts.Workers > 1 {
		b.workers = opts.Workers
		// the calling goroutine is the first worker
		b.sem = make(chan struct{}, opts.Workers-1)
	}
	return b
}

func (b *builder) run() NodeID {
	return b.build(0, len(b.prims), 0)
}

// build constructs the subtree over prims[start:end] rooted at arena slot base
func (b *builder) build(start, end int, base NodeID) NodeID {
	if start == end {
		return NoNode
	}

	box := geometry.EmptyAABB()
	for i := start; i < end; i++ {
		box = geometry.SurroundingBox(box, b.prims[i].box)
	}

	if end-start == 1 {
		b.nodes[base] = leafNode(box, start)
		return base
	}

	axis := box.LongestAxis()
	mid := (start + end) / 2
	selectNth(b.prims[start:end], mid-start, axis)

	leftBase := base + 1
	rightBase := base + NodeID(2*(mid-start))

	var left, right NodeID
	if b.fork(end - start) {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-b.sem }()
			left = b.build(start, mid, leftBase)
		}()
		right = b.build(mid, end, rightBase)
		wg.Wait()
	} else {
		left = b.build(start, mid, leftBase)
		right = b.build(mid, end, rightBase)
	}

	b.nodes[base] = interiorNode(box, left, right)
	return base
}

// fork reports whether a range of length n should build its left half on a
// new goroutine, taking a worker slot if it does.
func (b *builder) fork(n int) bool {
	if b.sem == nil || n < b.threshold {
		return false
	}
	select {
	case b.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// selectNth reorders prims so that prims[k] holds the element that would be
// there if the slice were sorted by centroid along axis, every element before
// k has a key <= prims[k] and every element after has a key >= prims[k].
// Elements on either side are otherwise left in no particular order.
func selectNth(prims []Primitive, k int, axis geometry.Axis) {
	key := func(i int) float64 {
		return prims[i].centroid.Component(axis)
	}

	lo, hi := 0, len(prims)-1
	for hi > lo {
		if hi-lo < insertionSortCutoff {
			insertionSort(prims[lo:hi+1], axis)
			return
		}

		// median of three; also leaves sentinels at lo and hi
		mid := lo + (hi-lo)/2
		if key(mid) < key(lo) {
			prims[mid], prims[lo] = prims[lo], prims[mid]
		}
		if key(hi) < key(lo) {
			prims[hi], prims[lo] = prims[lo], prims[hi]
		}
		if key(hi) < key(mid) {
			prims[hi], prims[mid] = prims[mid], prims[hi]
		}
		pivot := key(mid)

		i, j := lo, hi
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				prims[i], prims[j] = prims[j], prims[i]
				i++
				j--
			}
		}

		// [lo, j] <= pivot, [i, hi] >= pivot, anything between equals pivot
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

func insertionSort(prims []Primitive, axis geometry.Axis) {
	for i := 1; i < len(prims); i++ {
		for j := i; j > 0 && prims[j].centroid.Component(axis) < prims[j-1].centroid.Component(axis); j-- {
			prims[j], prims[j-1] = prims[j-1], prims[j]
		}
	}
}
