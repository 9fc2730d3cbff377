package contour

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"isomap/internal/grid"
)

// Cell sides, in cell-local terms.
const (
	sideBottom = iota
	sideRight
	sideTop
	sideLeft
)

// segments[idx] lists the oriented segments (from side, to side) for a cell
// whose corners are above the level per idx: sw=1, se=2, ne=4, nw=8. The above
// region is always on the left of a segment.
var segments = [16][][2]uint8{
	0:  nil,
	1:  {{sideBottom, sideLeft}},
	2:  {{sideRight, sideBottom}},
	3:  {{sideRight, sideLeft}},
	4:  {{sideTop, sideRight}},
	5:  {{sideBottom, sideLeft}, {sideTop, sideRight}},
	6:  {{sideTop, sideBottom}},
	7:  {{sideTop, sideLeft}},
	8:  {{sideLeft, sideTop}},
	9:  {{sideBottom, sideTop}},
	10: {{sideRight, sideBottom}, {sideLeft, sideTop}},
	11: {{sideRight, sideTop}},
	12: {{sideLeft, sideRight}},
	13: {{sideBottom, sideRight}},
	14: {{sideLeft, sideBottom}},
	15: nil,
}

// joinedSaddles replaces segments[5] and segments[10] when the cell mean is
// above the level: the two above corners connect through the centre.
var joinedSaddles = map[int][][2]uint8{
	5:  {{sideBottom, sideRight}, {sideTop, sideLeft}},
	10: {{sideLeft, sideBottom}, {sideRight, sideTop}},
}

// edge identifies a grid edge by its midpoint on the doubled lattice:
// (2i+1, 2j) is the edge from (i, j) to (i+1, j), (2i, 2j+1) the edge from
// (i, j) to (i, j+1).
type edge struct{ a, b int32 }

func cellEdge(i, j int, side uint8) edge {
	a, b := int32(2*i), int32(2*j)
	switch side {
	case sideBottom:
		return edge{a + 1, b}
	case sideRight:
		return edge{a + 2, b + 1}
	case sideTop:
		return edge{a + 1, b + 2}
	default:
		return edge{a, b + 1}
	}
}

// fragment is a chain of edges under construction. Prepended edges are kept
// reversed in head so both ends grow in amortised O(1).
type fragment struct {
	head   []edge
	tail   []edge
	closed bool
	merged bool
}

func (f *fragment) last() edge { return f.tail[len(f.tail)-1] }

func (f *fragment) edges() []edge {
	out := make([]edge, 0, len(f.head)+len(f.tail))
	for k := len(f.head) - 1; k >= 0; k-- {
		out = append(out, f.head[k])
	}
	return append(out, f.tail...)
}

// tracer extracts a single level.
type tracer struct {
	g     grid.Adapter
	level float64

	frags   []*fragment
	closed  []*fragment
	byStart map[edge]*fragment
	byEnd   map[edge]*fragment
}

func trace(g grid.Adapter, level, tolerance float64) []orb.LineString {
	t := &tracer{
		g:       g,
		level:   level,
		byStart: make(map[edge]*fragment),
		byEnd:   make(map[edge]*fragment),
	}
	ni, nj := g.Dims()
	for i := 0; i < ni-1; i++ {
		for j := 0; j < nj-1; j++ {
			t.cell(i, j)
		}
	}

	var out []orb.LineString
	emit := func(f *fragment) {
		ls := make(orb.LineString, 0, len(f.head)+len(f.tail))
		for _, e := range f.edges() {
			ls = append(ls, t.point(e))
		}
		if ls = dedupe(ls, tolerance); len(ls) >= 2 {
			out = append(out, ls)
		}
	}
	for _, f := range t.closed {
		emit(f)
	}
	for _, f := range t.frags {
		if f.merged || f.closed {
			continue
		}
		emit(f)
	}
	return out
}

func (t *tracer) cell(i, j int) {
	sw := t.g.Value(i, j)
	se := t.g.Value(i+1, j)
	ne := t.g.Value(i+1, j+1)
	nw := t.g.Value(i, j+1)
	if math.IsNaN(sw) || math.IsNaN(se) || math.IsNaN(ne) || math.IsNaN(nw) {
		return
	}
	idx := 0
	if sw > t.level {
		idx |= 1
	}
	if se > t.level {
		idx |= 2
	}
	if ne > t.level {
		idx |= 4
	}
	if nw > t.level {
		idx |= 8
	}
	segs := segments[idx]
	if idx == 5 || idx == 10 {
		if (sw+se+ne+nw)/4 > t.level {
			segs = joinedSaddles[idx]
		}
	}
	for _, s := range segs {
		t.add(cellEdge(i, j, s[0]), cellEdge(i, j, s[1]))
	}
}

// add links the oriented segment s->e into the fragment set.
func (t *tracer) add(s, e edge) {
	f1, endsAtS := t.byEnd[s]
	f2, startsAtE := t.byStart[e]

	switch {
	case endsAtS && startsAtE && f1 == f2:
		// The segment closes a ring.
		f1.tail = append(f1.tail, e)
		delete(t.byEnd, s)
		delete(t.byStart, e)
		f1.closed = true
		t.closed = append(t.closed, f1)
	case endsAtS && startsAtE:
		// The segment splices two fragments.
		f1.tail = append(f1.tail, f2.edges()...)
		f2.merged = true
		delete(t.byEnd, s)
		delete(t.byStart, e)
		t.byEnd[f1.last()] = f1
	case endsAtS:
		f1.tail = append(f1.tail, e)
		delete(t.byEnd, s)
		t.byEnd[e] = f1
	case startsAtE:
		f2.head = append(f2.head, s)
		delete(t.byStart, e)
		t.byStart[s] = f2
	default:
		f := &fragment{tail: []edge{s, e}}
		t.frags = append(t.frags, f)
		t.byStart[s] = f
		t.byEnd[e] = f
	}
}

// point interpolates the crossing on e in projected space and converts it to
// geographic coordinates.
func (t *tracer) point(e edge) orb.Point {
	var i0, j0, i1, j1 int
	if e.a%2 == 1 {
		i0, j0 = int(e.a-1)/2, int(e.b)/2
		i1, j1 = i0+1, j0
	} else {
		i0, j0 = int(e.a)/2, int(e.b-1)/2
		i1, j1 = i0, j0+1
	}
	v0, v1 := t.g.Value(i0, j0), t.g.Value(i1, j1)
	f := (t.level - v0) / (v1 - v0)
	p0, p1 := t.g.Coord(i0, j0), t.g.Coord(i1, j1)
	return t.g.ToGeographic(orb.Point{p0[0] + f*(p1[0]-p0[0]), p0[1] + f*(p1[1]-p0[1])})
}

// dedupe drops points within tol of their predecessor, keeping a closed line
// closed.
func dedupe(ls orb.LineString, tol float64) orb.LineString {
	if len(ls) < 2 {
		return ls
	}
	closed := ls[0] == ls[len(ls)-1]
	body := ls
	if closed {
		body = ls[:len(ls)-1]
	}
	out := make(orb.LineString, 0, len(ls))
	out = append(out, body[0])
	for _, p := range body[1:] {
		if planar.Distance(p, out[len(out)-1]) > tol {
			out = append(out, p)
		}
	}
	if closed {
		if len(out) < 2 {
			return out
		}
		out = append(out, out[0])
	}
	return out
}
