package grid

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// earthCircumference is the equatorial circumference used by EPSG:3857.
const earthCircumference = 2 * math.Pi * 6378137.0

// LatLon is the identity projection: the grid is laid out in lon/lat.
type LatLon struct{}

// ToGeographic implements Projection.
func (LatLon) ToGeographic(p orb.Point) orb.Point { return p }

// FromGeographic implements Projection.
func (LatLon) FromGeographic(ll orb.Point) orb.Point { return ll }

// Mercator is spherical pseudo-mercator in metres (EPSG:3857).
type Mercator struct{}

// ToGeographic implements Projection.
func (Mercator) ToGeographic(p orb.Point) orb.Point { return project.Mercator.ToWGS84(p) }

// FromGeographic implements Projection.
func (Mercator) FromGeographic(ll orb.Point) orb.Point { return project.WGS84.ToMercator(ll) }

// MercatorCoord converts lon/lat to normalised web-mercator map coordinates:
// x grows eastward over [0, 1], y grows southward over [0, 1].
func MercatorCoord(ll orb.Point) orb.Point {
	m := project.WGS84.ToMercator(ll)
	return orb.Point{m[0]/earthCircumference + 0.5, 0.5 - m[1]/earthCircumference}
}

// LngLat is the inverse of MercatorCoord.
func LngLat(p orb.Point) orb.Point {
	m := orb.Point{(p[0] - 0.5) * earthCircumference, (0.5 - p[1]) * earthCircumference}
	return project.Mercator.ToWGS84(m)
}
