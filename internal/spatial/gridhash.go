package spatial

import (
	"math"

	"github.com/paulmach/orb"
)

type cell struct{ x, y int }

// GridHash buckets points into square cells of a fixed size. It suits evenly
// spread points queried with a small k.
type GridHash struct {
	size    float64
	points  []orb.Point
	buckets map[cell][]int
	lo, hi  cell
}

var _ Index = (*GridHash)(nil)

// NewGridHash returns an empty index with the given cell size. A non-positive
// size is replaced by 1.
func NewGridHash(size float64) *GridHash {
	if !(size > 0) || math.IsInf(size, 0) {
		size = 1
	}
	return &GridHash{size: size, buckets: make(map[cell][]int)}
}

func (g *GridHash) cellOf(p orb.Point) cell {
	return cell{int(math.Floor(p[0] / g.size)), int(math.Floor(p[1] / g.size))}
}

// Insert implements Index.
func (g *GridHash) Insert(points ...orb.Point) int {
	first := len(g.points)
	for _, p := range points {
		id := len(g.points)
		g.points = append(g.points, p)
		c := g.cellOf(p)
		g.buckets[c] = append(g.buckets[c], id)
		if id == 0 {
			g.lo, g.hi = c, c
			continue
		}
		g.lo.x, g.lo.y = min(g.lo.x, c.x), min(g.lo.y, c.y)
		g.hi.x, g.hi.y = max(g.hi.x, c.x), max(g.hi.y, c.y)
	}
	return first
}

// Len implements Index.
func (g *GridHash) Len() int { return len(g.points) }

// Nearest implements Index. Rings of cells are scanned outward until no
// unscanned cell can hold a point closer than the current k-th neighbour.
func (g *GridHash) Nearest(p orb.Point, k int) []Neighbor {
	if k <= 0 || len(g.points) == 0 {
		return nil
	}
	b := &best{k: k}
	c := g.cellOf(p)
	reach := max(abs(c.x-g.lo.x), abs(c.x-g.hi.x), abs(c.y-g.lo.y), abs(c.y-g.hi.y))
	for r := 0; r <= reach; r++ {
		g.ring(p, c, r, b)
		// Every point beyond ring r is at least r*size away.
		if edge := float64(r) * g.size; b.full() && b.bound() < edge*edge {
			break
		}
	}
	return b.neighbors(g.points)
}

func (g *GridHash) ring(p orb.Point, c cell, r int, b *best) {
	visit := func(x, y int) {
		for _, id := range g.buckets[cell{x, y}] {
			b.offer(candidate{id: id, d2: dist2(p, g.points[id])})
		}
	}
	if r == 0 {
		visit(c.x, c.y)
		return
	}
	for x := c.x - r; x <= c.x+r; x++ {
		visit(x, c.y-r)
		visit(x, c.y+r)
	}
	for y := c.y - r + 1; y <= c.y+r-1; y++ {
		visit(c.x-r, y)
		visit(c.x+r, y)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
