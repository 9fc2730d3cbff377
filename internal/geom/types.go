// Package geom loads vector overlays (coastlines, borders, stations) drawn
// on top of the contours.
package geom

import (
	"github.com/paulmach/orb"
)

// Overlay is a flattened set of geometries in lon/lat with optional
// per-feature attributes.
type Overlay struct {
	Points   orb.MultiPoint
	Lines    orb.MultiLineString
	Polygons orb.MultiPolygon

	// Columns and Rows hold feature attributes, one row per feature.
	Columns []string
	Rows    [][]string
}

// Add flattens g into the overlay. Bounds become polygons.
func (o *Overlay) Add(g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		o.Points = append(o.Points, g)
	case orb.MultiPoint:
		o.Points = append(o.Points, g...)
	case orb.LineString:
		o.Lines = append(o.Lines, g)
	case orb.MultiLineString:
		o.Lines = append(o.Lines, g...)
	case orb.Ring:
		o.Polygons = append(o.Polygons, orb.Polygon{g})
	case orb.Polygon:
		o.Polygons = append(o.Polygons, g)
	case orb.MultiPolygon:
		o.Polygons = append(o.Polygons, g...)
	case orb.Bound:
		o.Polygons = append(o.Polygons, g.ToPolygon())
	case orb.Collection:
		for _, c := range g {
			o.Add(c)
		}
	}
}

// Empty reports whether the overlay holds no geometry.
func (o *Overlay) Empty() bool {
	return len(o.Points) == 0 && len(o.Lines) == 0 && len(o.Polygons) == 0
}

// Bound is the bound of every geometry in the overlay.
func (o *Overlay) Bound() orb.Bound {
	var b orb.Bound
	first := true
	o.Vertices(func(p orb.Point) {
		if first {
			b, first = p.Bound(), false
			return
		}
		b = b.Extend(p)
	})
	return b
}

// Vertices calls fn for every vertex: points, line vertices and ring
// vertices, in that order.
func (o *Overlay) Vertices(fn func(orb.Point)) {
	for _, p := range o.Points {
		fn(p)
	}
	for _, ls := range o.Lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range o.Polygons {
		for _, r := range poly {
			for _, p := range r {
				fn(p)
			}
		}
	}
}
