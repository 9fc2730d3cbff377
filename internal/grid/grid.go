package grid

import (
	"math"

	"github.com/paulmach/orb"

	"isomap/internal/errs"
)

// Projection converts between a grid's native projected space and
// geographic lon/lat.
type Projection interface {
	// ToGeographic maps a projected (x, y) to (lon, lat).
	ToGeographic(p orb.Point) orb.Point
	// FromGeographic maps (lon, lat) to projected (x, y).
	FromGeographic(ll orb.Point) orb.Point
}

// Adapter is everything the pipeline needs to know about a structured grid.
type Adapter interface {
	Projection

	// Dims returns the sample counts along i (x) and j (y).
	Dims() (ni, nj int)
	// Value returns the sample at (i, j); NaN means missing.
	Value(i, j int) float64
	// Coord returns the projected coordinate of sample (i, j).
	Coord(i, j int) orb.Point
	// MinZoomForIndex returns the lowest zoom at which sample (i, j) is shown
	// when thinning with the given power-of-two base.
	MinZoomForIndex(i, j, base int) int
}

// Scalar is an immutable rectilinear scalar grid.
type Scalar struct {
	ni, nj int
	values []float64
	x0, y0 float64
	dx, dy float64
	proj   Projection
}

var _ Adapter = (*Scalar)(nil)

// NewScalar builds a grid whose sample (i, j) sits at projected coordinate
// (x0 + i*dx, y0 + j*dy). The values slice is copied.
func NewScalar(values []float64, ni, nj int, x0, y0, dx, dy float64, proj Projection) (*Scalar, error) {
	if ni < 2 || nj < 2 {
		return nil, errs.EmptyGrid(ni, nj)
	}
	if len(values) != ni*nj {
		return nil, errs.InvalidConfiguration("values", "length %d does not match %dx%d grid", len(values), ni, nj)
	}
	if dx == 0 || dy == 0 || math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return nil, errs.InvalidConfiguration("spacing", "grid spacing must be finite and non-zero, got (%v, %v)", dx, dy)
	}
	if proj == nil {
		proj = LatLon{}
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Scalar{ni: ni, nj: nj, values: v, x0: x0, y0: y0, dx: dx, dy: dy, proj: proj}, nil
}

// NewLatLon builds a regular lon/lat grid spanning bound, corner to corner.
func NewLatLon(values []float64, ni, nj int, bound orb.Bound) (*Scalar, error) {
	if ni < 2 || nj < 2 {
		return nil, errs.EmptyGrid(ni, nj)
	}
	dx := (bound.Max[0] - bound.Min[0]) / float64(ni-1)
	dy := (bound.Max[1] - bound.Min[1]) / float64(nj-1)
	return NewScalar(values, ni, nj, bound.Min[0], bound.Min[1], dx, dy, LatLon{})
}

// NewMercator builds a grid regular in EPSG:3857 metres whose corners are the
// corners of the geographic bound.
func NewMercator(values []float64, ni, nj int, bound orb.Bound) (*Scalar, error) {
	if ni < 2 || nj < 2 {
		return nil, errs.EmptyGrid(ni, nj)
	}
	p := Mercator{}
	lo := p.FromGeographic(bound.Min)
	hi := p.FromGeographic(bound.Max)
	dx := (hi[0] - lo[0]) / float64(ni-1)
	dy := (hi[1] - lo[1]) / float64(nj-1)
	return NewScalar(values, ni, nj, lo[0], lo[1], dx, dy, p)
}

// Dims implements Adapter.
func (g *Scalar) Dims() (int, int) { return g.ni, g.nj }

// Value implements Adapter.
func (g *Scalar) Value(i, j int) float64 { return g.values[i+j*g.ni] }

// Coord implements Adapter.
func (g *Scalar) Coord(i, j int) orb.Point {
	return orb.Point{g.x0 + float64(i)*g.dx, g.y0 + float64(j)*g.dy}
}

// ToGeographic implements Projection.
func (g *Scalar) ToGeographic(p orb.Point) orb.Point { return g.proj.ToGeographic(p) }

// FromGeographic implements Projection.
func (g *Scalar) FromGeographic(ll orb.Point) orb.Point { return g.proj.FromGeographic(ll) }

// MinZoomForIndex implements Adapter.
func (g *Scalar) MinZoomForIndex(i, j, base int) int { return MinZoom(i, j, base) }

// Values returns a copy of the samples in row-major order.
func (g *Scalar) Values() []float64 {
	v := make([]float64, len(g.values))
	copy(v, g.values)
	return v
}

// GeoBound returns the geographic bound of the grid's boundary samples.
func GeoBound(a Adapter) orb.Bound {
	ni, nj := a.Dims()
	var ring orb.LineString
	for i := 0; i < ni; i++ {
		ring = append(ring, a.ToGeographic(a.Coord(i, 0)), a.ToGeographic(a.Coord(i, nj-1)))
	}
	for j := 0; j < nj; j++ {
		ring = append(ring, a.ToGeographic(a.Coord(0, j)), a.ToGeographic(a.Coord(ni-1, j)))
	}
	return ring.Bound()
}
