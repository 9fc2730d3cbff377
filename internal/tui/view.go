package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	mapWidth, mapHeight := m.mapSize()

	title := fmt.Sprintf(" isomap ─ %s every %g ", m.cfg.Field, m.cfg.Interval)
	if len(m.cfg.Levels) > 0 {
		title = fmt.Sprintf(" isomap ─ %s at %d levels ", m.cfg.Field, len(m.cfg.Levels))
	}
	header := headerStyle.Render(title)
	if m.busy {
		header += busyStyle.Render(" computing…")
	}
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var mapView string
	switch {
	case m.tableMode != tableOff:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		boxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(boxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := panelStyle.Width(boxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(mapWidth, mapHeight))
	}

	popup := ""
	if m.inspectPopup != "" && m.tableMode == tableOff {
		box := panelStyle.MaxWidth(max(20, min(60, contentWidth/2))).Render(m.inspectPopup)
		popup = lipgloss.Place(contentWidth, contentHeight, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := statusStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hovering && m.hoverInfo != "" {
		coords = statusStyle.Render("  " + m.hoverInfo + "  ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return screenStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 fit",
		"[/] interval",
		"f field",
		"1-4 layers",
		"Tab overlays",
		"p paste",
		"a tables",
		"i inspect",
		"q quit",
	}
	return statusStyle.Render("  " + strings.Join(keys, "  "))
}
