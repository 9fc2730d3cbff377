// Package tui is the terminal viewer: it runs the contour pipeline on a
// synthetic field and draws the resulting bundles with braille graphics.
package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"isomap/internal/config"
	"isomap/internal/geom"
)

// tableMode selects what the table view lists.
type tableMode int

const (
	tableOff tableMode = iota
	tableLevels
	tableOverlay
)

// Layout constants shared by View and the mouse handler.
const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

type Model struct {
	cfg config.Config

	width  int
	height int

	showSidebar bool
	helpVisible bool

	view   viewport
	fitted bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	overlay *geom.Overlay

	// Pipeline state. seq numbers runs so late results of superseded runs
	// are dropped.
	seq  int
	busy bool
	res  *result

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showContours   bool
	showLabels     bool
	showBillboards bool
	showOverlay    bool

	inspectPopup string

	// hover state, in map cells
	hovering  bool
	hoverX    int
	hoverY    int
	hoverInfo string

	tableMode tableMode
	tbl       table.Model
}

// New builds a viewer for cfg. The configuration is assumed valid.
func New(cfg config.Config) Model {
	m := Model{
		cfg:          cfg,
		helpVisible:  true,
		view:         newViewport(cfg.LabelOptions().SpacingAtMaxZoom, cfg.MaxZoom),
		status:       "computing",
		seq:          1,
		busy:         true,
		showContours: true,
		showLabels:   true,
		showOverlay:  true,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Overlays"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one geometry per line. Enter to draw, Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if cfg.Overlay != "" {
		m.loadPath(cfg.Overlay)
	}
	return m
}

func (m Model) Init() tea.Cmd { return runCmd(m.seq, m.cfg) }

// mapSize returns the map area in cells for the current layout.
func (m Model) mapSize() (w, h int) {
	side := 0
	if m.showSidebar {
		side = sidebarWidth + 1
	}
	w = max(10, max(10, m.width)-side)
	h = max(4, m.height-headerHeight-footerHeight)
	return w, h
}

// mapOrigin is the screen cell of the map's top-left corner.
func (m Model) mapOrigin() (x, y int) {
	if m.showSidebar {
		return sidebarWidth + 1, headerHeight
	}
	return 0, headerHeight
}

// sized returns the viewport resized to the map area.
func (m Model) sized() viewport {
	v := m.view
	v.w, v.h = m.mapSize()
	return v
}
