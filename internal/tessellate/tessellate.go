// Package tessellate turns polylines into triangle-strip geometry that a
// vertex shader widens in screen space.
//
// Each segment (a, b) becomes six vertices: a(+n), a(+n), a(-n), b(+n), b(-n),
// b(-n), where n is the segment's unit normal stored as the extrusion vector.
// The repeated first and last vertices are degenerate and separate the
// segment's quad from its neighbours within one strip, so a line of N points
// always yields 6*(N-1) vertices. Joints are not mitred.
package tessellate

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"

	"isomap/internal/contour"
	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/vertex"
)

// Line is one polyline to tessellate.
type Line struct {
	// Points are positions in the bundle's coordinate space.
	Points []orb.Point
	// TexCoords has one entry per point.
	TexCoords []orb.Point
	// Origin and Zoom are copied to every vertex of the line.
	Origin orb.Point
	Zoom   float32
}

// VerticesPerSegment is the vertex count emitted for each segment.
const VerticesPerSegment = 6

// Lines tessellates lines into a single bundle, lines in input order.
func Lines(lines []Line) (*vertex.Lines, error) {
	n := 0
	for k, l := range lines {
		if len(l.Points) < 2 {
			return nil, errs.InvalidGeometry("points", "line %d has %d points, need at least 2", k, len(l.Points))
		}
		if len(l.TexCoords) != len(l.Points) {
			return nil, errs.InvalidGeometry("tex-coords", "line %d has %d texture coordinates for %d points", k, len(l.TexCoords), len(l.Points))
		}
		n += VerticesPerSegment * (len(l.Points) - 1)
	}

	out := &vertex.Lines{
		Vertices:  make([]float32, 0, 2*n),
		Extrusion: make([]float32, 0, 2*n),
		TexCoords: make([]float32, 0, 2*n),
		Origin:    make([]float32, 0, 2*n),
		Zoom:      make([]float32, 0, n),
	}
	for _, l := range lines {
		for k := 1; k < len(l.Points); k++ {
			a, b := l.Points[k-1], l.Points[k]
			ta, tb := l.TexCoords[k-1], l.TexCoords[k]
			nx, ny := normal(a, b)

			push(out, a, ta, nx, ny)
			push(out, a, ta, nx, ny)
			push(out, a, ta, -nx, -ny)
			push(out, b, tb, nx, ny)
			push(out, b, tb, -nx, -ny)
			push(out, b, tb, -nx, -ny)
		}
		for k := 0; k < VerticesPerSegment*(len(l.Points)-1); k++ {
			out.Origin = append(out.Origin, float32(l.Origin[0]), float32(l.Origin[1]))
			out.Zoom = append(out.Zoom, l.Zoom)
		}
	}
	return out, nil
}

func push(l *vertex.Lines, p, tc orb.Point, ex, ey float64) {
	l.Vertices = append(l.Vertices, float32(p[0]), float32(p[1]))
	l.TexCoords = append(l.TexCoords, float32(tc[0]), float32(tc[1]))
	l.Extrusion = append(l.Extrusion, float32(ex), float32(ey))
}

// normal returns (dy, -dx)/|d|, or zero for a zero-length segment.
func normal(a, b orb.Point) (float64, float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return 0, 0
	}
	return dy / mag, -dx / mag
}

// ArcLengthTexCoords returns (cumulative length, 0) for each point.
func ArcLengthTexCoords(points []orb.Point) []orb.Point {
	if len(points) == 0 {
		return nil
	}
	seg := make([]float64, len(points))
	for k := 1; k < len(points); k++ {
		seg[k] = math.Hypot(points[k][0]-points[k-1][0], points[k][1]-points[k-1][1])
	}
	floats.CumSum(seg, seg)
	out := make([]orb.Point, len(points))
	for k, d := range seg {
		out[k] = orb.Point{d, 0}
	}
	return out
}

// FromContours converts every contour line to normalised web-mercator with
// arc-length texture coordinates. Each line's origin is its first point.
func FromContours(set contour.Set, zoom float32) []Line {
	out := make([]Line, 0, set.NumLines())
	for _, c := range set {
		for _, ls := range c.Lines {
			points := make([]orb.Point, len(ls))
			for k, p := range ls {
				points[k] = grid.MercatorCoord(p)
			}
			out = append(out, Line{
				Points:    points,
				TexCoords: ArcLengthTexCoords(points),
				Origin:    points[0],
				Zoom:      zoom,
			})
		}
	}
	return out
}
