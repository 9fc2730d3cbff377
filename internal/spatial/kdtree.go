package spatial

import (
	"sort"

	"github.com/paulmach/orb"
)

// KDTree is a balanced 2-d tree. The tree is rebuilt on the first query after
// an insert, splitting at the median of alternating axes.
type KDTree struct {
	points []orb.Point
	// order is the implicit tree: the node of range [lo, hi) sits at the
	// midpoint, its children in the two halves.
	order []int
	dirty bool
}

var _ Index = (*KDTree)(nil)

// NewKDTree returns a tree holding points, with ids 0..len(points)-1.
func NewKDTree(points ...orb.Point) *KDTree {
	t := &KDTree{}
	t.Insert(points...)
	return t
}

// Insert implements Index.
func (t *KDTree) Insert(points ...orb.Point) int {
	first := len(t.points)
	t.points = append(t.points, points...)
	t.dirty = t.dirty || len(points) > 0
	return first
}

// Len implements Index.
func (t *KDTree) Len() int { return len(t.points) }

func (t *KDTree) build() {
	t.order = make([]int, len(t.points))
	for k := range t.order {
		t.order[k] = k
	}
	t.split(0, len(t.order), 0)
	t.dirty = false
}

func (t *KDTree) split(lo, hi, axis int) {
	if hi-lo <= 1 {
		return
	}
	sub := t.order[lo:hi]
	sort.Slice(sub, func(a, b int) bool {
		pa, pb := t.points[sub[a]][axis], t.points[sub[b]][axis]
		if pa != pb {
			return pa < pb
		}
		return sub[a] < sub[b]
	})
	mid := (lo + hi) / 2
	t.split(lo, mid, 1-axis)
	t.split(mid+1, hi, 1-axis)
}

// Nearest implements Index.
func (t *KDTree) Nearest(p orb.Point, k int) []Neighbor {
	if k <= 0 || len(t.points) == 0 {
		return nil
	}
	if t.dirty {
		t.build()
	}
	b := &best{k: k}
	t.search(p, 0, len(t.order), 0, b)
	return b.neighbors(t.points)
}

func (t *KDTree) search(p orb.Point, lo, hi, axis int, b *best) {
	if lo >= hi {
		return
	}
	mid := (lo + hi) / 2
	id := t.order[mid]
	b.offer(candidate{id: id, d2: dist2(p, t.points[id])})

	diff := p[axis] - t.points[id][axis]
	nearLo, nearHi, farLo, farHi := lo, mid, mid+1, hi
	if diff > 0 {
		nearLo, nearHi, farLo, farHi = mid+1, hi, lo, mid
	}
	t.search(p, nearLo, nearHi, 1-axis, b)
	// Equal distance still matters: a lower id on the far side wins the tie.
	if diff*diff <= b.bound() {
		t.search(p, farLo, farHi, 1-axis, b)
	}
}
