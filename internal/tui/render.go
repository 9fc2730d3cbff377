package tui

import (
	"math"
	"strings"

	"github.com/paulmach/orb"

	"isomap/internal/grid"
	"isomap/internal/tessellate"
)

// maxMercatorLat keeps overlay vertices away from the poles, where the
// projection diverges.
const maxMercatorLat = 85.05112878

func overlayCoord(ll orb.Point) orb.Point {
	ll[1] = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, ll[1]))
	return grid.MercatorCoord(ll)
}

// renderMap draws every visible layer into a w x h cell block.
func (m Model) renderMap(w, h int) string {
	v := m.sized()
	v.w, v.h = w, h
	c := newCanvas(w, h)
	path := func(pts []orb.Point, closed bool) {
		for k := 1; k < len(pts); k++ {
			x0, y0 := v.toMicro(overlayCoord(pts[k-1]))
			x1, y1 := v.toMicro(overlayCoord(pts[k]))
			c.line(x0, y0, x1, y1)
		}
		if closed && len(pts) > 2 {
			x0, y0 := v.toMicro(overlayCoord(pts[len(pts)-1]))
			x1, y1 := v.toMicro(overlayCoord(pts[0]))
			c.line(x0, y0, x1, y1)
		}
	}

	if o := m.overlay; m.showOverlay && o != nil {
		for _, poly := range o.Polygons {
			for _, ring := range poly {
				path(ring, true)
			}
		}
		for _, ls := range o.Lines {
			path(ls, false)
		}
		for _, p := range o.Points {
			x, y := v.toMicro(overlayCoord(p))
			c.set(int(math.Floor(x)), int(math.Floor(y)))
		}
	}

	if r := m.res; r != nil {
		if b := r.out.Billboards; m.showBillboards && b != nil {
			tier := v.zoom - (m.cfg.MaxZoom - m.cfg.ThinMaxZoom)
			for k := 0; k < b.Points(); k++ {
				base := 3 * 6 * k
				if int(b.Positions[base+2])/4 > tier {
					continue
				}
				x, y := v.toMicro(orb.Point{float64(b.Positions[base]), float64(b.Positions[base+1])})
				c.set(int(math.Floor(x)), int(math.Floor(y)))
			}
		}
		if l := r.out.Lines; m.showContours && l != nil {
			for s := 0; s+tessellate.VerticesPerSegment <= l.Len(); s += tessellate.VerticesPerSegment {
				a := orb.Point{float64(l.Vertices[2*s]), float64(l.Vertices[2*s+1])}
				b := orb.Point{float64(l.Vertices[2*(s+3)]), float64(l.Vertices[2*(s+3)+1])}
				x0, y0 := v.toMicro(a)
				x1, y1 := v.toMicro(b)
				c.line(x0, y0, x1, y1)
			}
		}
		if p := r.out.Placement; m.showLabels && p != nil {
			for _, lb := range p.Visible(v.zoom) {
				x, y := v.toCell(grid.MercatorCoord(lb.Position))
				c.label(int(math.Floor(x)), int(math.Floor(y)), lb.Text)
			}
		}
	}

	lines := c.lines()
	if m.hovering && m.hoverY >= 0 && m.hoverY < len(lines) {
		r := []rune(lines[m.hoverY])
		if m.hoverX >= 0 && m.hoverX < len(r) {
			marker := cursorStyle.Render("◯")
			lines[m.hoverY] = string(r[:m.hoverX]) + marker + string(r[m.hoverX+1:])
		}
	}
	return strings.Join(lines, "\n")
}
