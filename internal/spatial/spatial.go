// Package spatial provides nearest-neighbour indexes over planar points.
//
// Points receive ids in insertion order starting at 0. Queries return
// neighbours ordered by distance; equal distances are broken by the lower id,
// so every implementation answers the same query identically.
package spatial

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
)

// Neighbor is one query result.
type Neighbor struct {
	ID    int
	Point orb.Point
	Dist  float64
}

// Index is a point set answering k-nearest queries.
type Index interface {
	// Insert adds points and returns the id of the first one.
	Insert(points ...orb.Point) int
	// Nearest returns up to k neighbours of p ordered by (distance, id).
	Nearest(p orb.Point, k int) []Neighbor
	// Len reports the number of points.
	Len() int
}

func dist2(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// candidate is a neighbour under consideration, compared on squared distance.
type candidate struct {
	id int
	d2 float64
}

func worse(a, b candidate) bool {
	if a.d2 != b.d2 {
		return a.d2 > b.d2
	}
	return a.id > b.id
}

// best keeps the k best candidates in a max-heap, worst on top.
type best struct {
	k     int
	items []candidate
}

func (b *best) Len() int           { return len(b.items) }
func (b *best) Less(i, j int) bool { return worse(b.items[i], b.items[j]) }
func (b *best) Swap(i, j int)      { b.items[i], b.items[j] = b.items[j], b.items[i] }
func (b *best) Push(x any)         { b.items = append(b.items, x.(candidate)) }
func (b *best) Pop() any {
	n := len(b.items) - 1
	c := b.items[n]
	b.items = b.items[:n]
	return c
}

func (b *best) full() bool { return len(b.items) >= b.k }

// bound is the squared distance a new candidate must not exceed to matter.
func (b *best) bound() float64 {
	if !b.full() {
		return math.Inf(1)
	}
	return b.items[0].d2
}

func (b *best) offer(c candidate) {
	if !b.full() {
		heap.Push(b, c)
		return
	}
	if worse(b.items[0], c) {
		b.items[0] = c
		heap.Fix(b, 0)
	}
}

// neighbors drains b into ascending order.
func (b *best) neighbors(points []orb.Point) []Neighbor {
	out := make([]Neighbor, len(b.items))
	for k := len(out) - 1; k >= 0; k-- {
		c := heap.Pop(b).(candidate)
		out[k] = Neighbor{ID: c.id, Point: points[c.id], Dist: math.Sqrt(c.d2)}
	}
	return out
}
