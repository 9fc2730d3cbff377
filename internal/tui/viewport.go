package tui

import (
	"math"

	"github.com/paulmach/orb"
)

// cellAspect is the width/height ratio of a terminal cell.
const cellAspect = 0.5

// labelCells is the on-screen distance between labels on one line at the
// deepest zoom, in cells.
const labelCells = 24

// viewport maps normalised web-mercator coordinates to terminal cells. Zoom
// works like a web map: each level doubles the scale.
type viewport struct {
	center orb.Point
	zoom   int
	// scale0 is cells per mercator unit at zoom 0.
	scale0 float64
	w, h   int
}

// newViewport scales the map so labels placed with the given spacing at
// maxZoom sit labelCells apart there.
func newViewport(spacing float64, maxZoom int) viewport {
	return viewport{
		center: orb.Point{0.5, 0.5},
		scale0: labelCells / (spacing * math.Exp2(float64(maxZoom))),
	}
}

func (v viewport) scale() float64 { return v.scale0 * math.Exp2(float64(v.zoom)) }

// toCell returns fractional cell coordinates of mercator point p.
func (v viewport) toCell(p orb.Point) (float64, float64) {
	s := v.scale()
	x := (p[0]-v.center[0])*s + float64(v.w)/2
	y := (p[1]-v.center[1])*s*cellAspect + float64(v.h)/2
	return x, y
}

// toMicro returns braille micro-pixel coordinates of p.
func (v viewport) toMicro(p orb.Point) (float64, float64) {
	x, y := v.toCell(p)
	return 2 * x, 4 * y
}

// fromCell returns the mercator point at the centre of cell (cx, cy).
func (v viewport) fromCell(cx, cy int) orb.Point {
	s := v.scale()
	return orb.Point{
		v.center[0] + (float64(cx)+0.5-float64(v.w)/2)/s,
		v.center[1] + (float64(cy)+0.5-float64(v.h)/2)/(s*cellAspect),
	}
}

// fit centres b and picks the deepest zoom in [0, maxZoom] showing all of it.
func (v viewport) fit(b orb.Bound, maxZoom int) viewport {
	v.center = b.Center()
	v.zoom = 0
	for z := maxZoom; z >= 0; z-- {
		s := v.scale0 * math.Exp2(float64(z))
		if b.Right()-b.Left() <= float64(v.w)/s && b.Top()-b.Bottom() <= float64(v.h)/(s*cellAspect) {
			v.zoom = z
			break
		}
	}
	return v
}

// pan moves the centre by (dx, dy) cells.
func (v viewport) pan(dx, dy int) viewport {
	s := v.scale()
	v.center[0] += float64(dx) / s
	v.center[1] += float64(dy) / (s * cellAspect)
	return v
}
