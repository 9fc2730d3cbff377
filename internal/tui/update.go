package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"isomap/internal/config"
	"isomap/internal/field"
	"isomap/internal/geom"
	"isomap/internal/logging"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(sidebarWidth-2, max(2, m.height-headerHeight-footerHeight-2))
		if m.res != nil && !m.fitted {
			m.fit()
		}
	case computedMsg:
		if msg.seq != m.seq {
			logging.Logger().Debug("dropping stale run", "seq", msg.seq, "current", m.seq)
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			logging.Logger().Error("pipeline failed", "err", msg.err)
			return m, nil
		}
		m.res = msg.res
		if !m.fitted && m.width > 0 {
			m.fit()
		}
		m.status = fmt.Sprintf("%s: %d levels, %d lines, %d labels in %s",
			m.cfg.Field, len(m.res.set), m.res.set.NumLines(), m.res.labels(), m.res.elapsed.Round(time.Millisecond))
		if m.tableMode == tableLevels {
			m.refreshTable()
		}
	case tea.KeyMsg:
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.tableMode != tableOff {
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		o, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.setOverlay(o, "pasted WKT")
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey applies a view-mode key. It reports false for keys it leaves
// to the focused component.
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	if m.tableMode != tableOff {
		switch key {
		case "up", "down", "pgup", "pgdown", "home", "end", "enter":
			return nil, false
		}
	}
	switch key {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "1":
		m.showContours = !m.showContours
		m.status = fmt.Sprintf("contours: %v", m.showContours)
	case "2":
		m.showLabels = !m.showLabels
		m.status = fmt.Sprintf("labels: %v", m.showLabels)
	case "3", "b":
		m.showBillboards = !m.showBillboards
		m.status = fmt.Sprintf("grid points: %v", m.showBillboards)
	case "4":
		m.showOverlay = !m.showOverlay
		m.status = fmt.Sprintf("overlay: %v", m.showOverlay)
	case "+", "=":
		m.setZoom(m.view.zoom + 1)
	case "-", "_":
		m.setZoom(m.view.zoom - 1)
	case "0":
		m.fit()
		m.status = fmt.Sprintf("fit: zoom %d", m.view.zoom)
	case "up":
		m.view = m.view.pan(0, -2)
	case "down":
		m.view = m.view.pan(0, 2)
	case "left":
		m.view = m.view.pan(-4, 0)
	case "right":
		m.view = m.view.pan(4, 0)
	case "[", "]":
		return m.stepInterval(key == "]"), true
	case "f":
		m.cycleField()
		return m.recompute(), true
	case "r":
		m.status = "recomputing"
		return m.recompute(), true
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.cycleTable()
	case "i":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
		} else {
			m.inspectPopup = m.inspect()
		}
	case "esc":
		m.inspectPopup = ""
		m.tableMode = tableOff
	case "enter":
		if !m.showSidebar {
			return nil, false
		}
		if it, ok := m.l.SelectedItem().(fileItem); ok {
			m.loadPath(it.path)
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) setZoom(z int) {
	z = max(0, min(m.cfg.MaxZoom, z))
	m.view.zoom = z
	m.status = fmt.Sprintf("zoom: %d/%d", z, m.cfg.MaxZoom)
	if m.tableMode == tableLevels {
		m.refreshTable()
	}
}

// fit frames the grid, or the overlay when no grid is available yet.
func (m *Model) fit() {
	v := m.sized()
	switch {
	case m.res != nil:
		v = v.fit(m.res.bound(), m.cfg.MaxZoom)
	case m.overlay != nil && !m.overlay.Empty():
		b := m.overlay.Bound()
		v = v.fit(overlayCoord(b.Min).Bound().Extend(overlayCoord(b.Max)), m.cfg.MaxZoom)
	default:
		return
	}
	m.view.center, m.view.zoom = v.center, v.zoom
	m.fitted = m.res != nil
}

// stepInterval halves or doubles the contour interval. An explicit level
// list is dropped in favour of the interval.
func (m *Model) stepInterval(up bool) tea.Cmd {
	next := m.cfg
	next.Levels = nil
	if up {
		next.Interval *= 2
	} else {
		next.Interval /= 2
	}
	if err := next.ContourOptions().Validate(); err != nil {
		m.status = err.Error()
		return nil
	}
	m.cfg = next
	m.status = fmt.Sprintf("interval: %g", m.cfg.Interval)
	return m.recompute()
}

func (m *Model) cycleField() {
	kinds := field.Kinds()
	next := kinds[0]
	for k, name := range kinds {
		if name == m.cfg.Field {
			next = kinds[(k+1)%len(kinds)]
		}
	}
	m.cfg.Field = next
	m.cfg.Interval = defaultInterval(field.Kind(next))
	m.cfg.Levels = nil
	m.status = "field: " + next
}

// defaultInterval picks an interval giving a readable chart for each field.
func defaultInterval(k field.Kind) float64 {
	switch k {
	case field.Heights:
		return 60
	case field.Saddle:
		return 1
	}
	return config.Default().Interval
}

// hover tracks the mouse over the map area.
func (m *Model) hover(x, y int) {
	ox, oy := m.mapOrigin()
	w, h := m.mapSize()
	cx, cy := x-ox, y-oy
	if cx < 0 || cy < 0 || cx >= w || cy >= h {
		m.hovering = false
		m.hoverInfo = ""
		return
	}
	m.hovering = true
	m.hoverX, m.hoverY = cx, cy
	m.hoverInfo = m.describe(m.sized().fromCell(cx, cy))
}
