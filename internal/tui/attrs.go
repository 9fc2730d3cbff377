package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColumnWidth = 24

// cycleTable steps off -> levels -> overlay attributes -> off, skipping
// the overlay table when there is nothing to show.
func (m *Model) cycleTable() {
	switch m.tableMode {
	case tableOff:
		m.tableMode = tableLevels
	case tableLevels:
		m.tableMode = tableOverlay
	default:
		m.tableMode = tableOff
	}
	if m.tableMode == tableOverlay && (m.overlay == nil || len(m.overlay.Columns) == 0) {
		m.tableMode = tableOff
		m.status = "no attributes for current overlay"
	}
	if m.tableMode != tableOff {
		m.refreshTable()
	}
}

// refreshTable rebuilds the table for the current mode.
func (m *Model) refreshTable() {
	var cols []string
	var rows [][]string
	switch m.tableMode {
	case tableLevels:
		cols, rows = m.levelRows()
	case tableOverlay:
		if m.overlay != nil {
			cols, rows = m.overlay.Columns, m.overlay.Rows
		}
	}
	if len(cols) == 0 || len(rows) == 0 {
		m.tableMode = tableOff
		m.status = "nothing to tabulate"
		return
	}

	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(maxColumnWidth, max(len(c)+2, 8))})
	}
	trows := make([]table.Row, len(rows))
	for k, r := range rows {
		cells := make([]string, len(tcols))
		cells[0] = strconv.Itoa(k + 1)
		copy(cells[1:], r)
		trows[k] = cells
	}
	// Clear rows first so the table never renders rows against the wrong
	// column count.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// levelRows summarises each contour level: its lines, vertices and how many
// of its labels the current zoom shows.
func (m *Model) levelRows() ([]string, [][]string) {
	if m.res == nil {
		return nil, nil
	}
	placed := map[float64]int{}
	shown := map[float64]int{}
	if p := m.res.out.Placement; p != nil {
		for k, c := range p.Candidates {
			placed[c.Level]++
			if p.MinZoom[k] <= m.view.zoom {
				shown[c.Level]++
			}
		}
	}
	cols := []string{"level", "lines", "points", "closed", "labels", "shown"}
	rows := make([][]string, 0, len(m.res.set))
	for _, c := range m.res.set {
		points, closed := 0, 0
		for _, ls := range c.Lines {
			points += len(ls)
			if len(ls) > 2 && ls[0] == ls[len(ls)-1] {
				closed++
			}
		}
		rows = append(rows, []string{
			strconv.FormatFloat(c.Level, 'g', -1, 64),
			strconv.Itoa(len(c.Lines)),
			strconv.Itoa(points),
			strconv.Itoa(closed),
			strconv.Itoa(placed[c.Level]),
			strconv.Itoa(shown[c.Level]),
		})
	}
	return cols, rows
}
