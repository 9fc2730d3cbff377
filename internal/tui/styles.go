package tui

import "github.com/charmbracelet/lipgloss"

// Palette by role: chart text, muted chrome, the isoline accent, warnings.
var (
	textFg   = lipgloss.Color("#E6E6E6")
	mutedFg  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#8B95A5"}
	isoFg    = lipgloss.Color("#0EA5E9")
	warnFg   = lipgloss.Color("#FFA500")
	frameCol = lipgloss.Color("#243141")

	screenStyle = lipgloss.NewStyle().Foreground(textFg)
	// panelStyle frames the level/attribute tables and the inspect popup.
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(frameCol).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(isoFg).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(mutedFg)
	busyStyle   = lipgloss.NewStyle().Foreground(warnFg).Italic(true)
	cursorStyle = lipgloss.NewStyle().Foreground(warnFg).Bold(true)
)
