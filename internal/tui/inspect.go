package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"isomap/internal/grid"
	"isomap/internal/label"
	"isomap/internal/spatial"
)

func formatLonLat(ll orb.Point) string {
	return fmt.Sprintf("lon=%.4f lat=%.4f", ll[0], ll[1])
}

// nearestLabel finds the label visible at the current zoom closest to
// mercator point p.
func (m Model) nearestLabel(p orb.Point) (label.Label, bool) {
	if m.res == nil || m.res.out.Placement == nil {
		return label.Label{}, false
	}
	visible := m.res.out.Placement.Visible(m.view.zoom)
	if len(visible) == 0 {
		return label.Label{}, false
	}
	idx := spatial.NewKDTree()
	for _, lb := range visible {
		idx.Insert(grid.MercatorCoord(lb.Position))
	}
	nn := idx.Nearest(p, 1)
	if len(nn) == 0 {
		return label.Label{}, false
	}
	return visible[nn[0].ID], true
}

// describe reports what lies under mercator point p.
func (m Model) describe(p orb.Point) string {
	s := formatLonLat(grid.LngLat(p))
	if m.res == nil {
		return s
	}
	if smp, ok := m.res.probe(p); ok {
		s += "  " + smp.String()
	}
	return s
}

// inspect summarises the run and the map centre for the popup.
func (m Model) inspect() string {
	if m.res == nil {
		return "no data yet"
	}
	v := m.view
	out := []string{
		fmt.Sprintf("field: %s  %dx%d %s", m.cfg.Field, m.cfg.NI, m.cfg.NJ, m.cfg.Projection),
		"centre: " + formatLonLat(grid.LngLat(v.center)),
	}
	if smp, ok := m.res.probe(v.center); ok {
		out = append(out, smp.String())
	} else {
		out = append(out, "centre is outside the grid")
	}
	if lb, ok := m.nearestLabel(v.center); ok {
		out = append(out, fmt.Sprintf("nearest label: %s at %s", lb.Text, formatLonLat(lb.Position)))
	}
	if m.overlay != nil {
		name := "pasted WKT"
		if m.selPath != "" {
			name = m.selPath
		}
		out = append(out, fmt.Sprintf("overlay: %s (%d attribute rows)", name, len(m.overlay.Rows)))
	}
	out = append(out,
		fmt.Sprintf("levels: %d  lines: %d  labels: %d", len(m.res.set), m.res.set.NumLines(), m.res.labels()),
		fmt.Sprintf("zoom: %d/%d  built in %s", v.zoom, m.cfg.MaxZoom, m.res.elapsed.Round(time.Millisecond)))
	return strings.Join(out, "\n")
}
