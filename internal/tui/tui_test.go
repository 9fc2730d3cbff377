package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomap/internal/config"
	"isomap/internal/grid"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.NI, cfg.NJ = 31, 21
	return cfg
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCanvas_Line(t *testing.T) {
	c := newCanvas(2, 1)
	c.line(0, 0, 3, 0)
	assert.Equal(t, "⠉⠉", c.String())
}

func TestCanvas_LabelWins(t *testing.T) {
	c := newCanvas(5, 2)
	c.line(0, 0, 9, 7)
	c.label(2, 0, "7")
	rows := c.lines()
	assert.Equal(t, '7', []rune(rows[0])[2])
	assert.NotEqual(t, ' ', []rune(rows[1])[4])
}

func TestClip(t *testing.T) {
	_, _, _, _, ok := clip(-5, -5, -1, -2, 10, 10)
	assert.False(t, ok)

	x0, y0, x1, y1, ok := clip(-10, 5, 20, 5, 10, 10)
	require.True(t, ok)
	assert.InDelta(t, 0, x0, 1e-9)
	assert.InDelta(t, 10, x1, 1e-9)
	assert.InDelta(t, 5, y0, 1e-9)
	assert.InDelta(t, 5, y1, 1e-9)
}

func TestViewport_RoundTrip(t *testing.T) {
	v := newViewport(0.005, 8)
	v.w, v.h, v.zoom = 80, 24, 5
	p := v.fromCell(10, 5)
	x, y := v.toCell(p)
	assert.InDelta(t, 10.5, x, 1e-9)
	assert.InDelta(t, 5.5, y, 1e-9)
}

func TestViewport_Fit(t *testing.T) {
	v := newViewport(0.005, 8)
	v.w, v.h = 100, 30
	b := orb.Bound{Min: orb.Point{0.15, 0.35}, Max: orb.Point{0.32, 0.42}}
	v = v.fit(b, 8)
	assert.Equal(t, b.Center(), v.center)

	x0, y0 := v.toCell(b.Min)
	x1, y1 := v.toCell(b.Max)
	assert.GreaterOrEqual(t, x0, 0.0)
	assert.LessOrEqual(t, x1, 100.0)
	assert.GreaterOrEqual(t, y0, 0.0)
	assert.LessOrEqual(t, y1, 30.0)

	deeper := v
	deeper.zoom++
	x0, _ = deeper.toCell(b.Min)
	x1, _ = deeper.toCell(b.Max)
	_, y0 = deeper.toCell(b.Min)
	_, y1 = deeper.toCell(b.Max)
	assert.True(t, x0 < 0 || x1 > 100 || y0 < 0 || y1 > 30, "one zoom deeper must overflow")
}

func TestRun(t *testing.T) {
	res, err := run(context.Background(), testConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, res.set)
	require.NotNil(t, res.out.Lines)
	require.NotNil(t, res.out.Placement)
	require.NotNil(t, res.out.Billboards)
	require.NotNil(t, res.out.Mesh)
	assert.Positive(t, res.labels())

	p := grid.MercatorCoord(res.grid.ToGeographic(res.grid.Coord(15, 10)))
	s, ok := res.probe(p)
	require.True(t, ok)
	assert.InDelta(t, res.grid.Value(15, 10), s.value, 1e-2)
	assert.Positive(t, s.area)

	_, ok = res.probe(orb.Point{0.9, 0.9})
	assert.False(t, ok)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Field = "vorticity"
	_, err := run(context.Background(), cfg)
	assert.Error(t, err)
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := New(testConfig())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	res, err := run(context.Background(), m.cfg)
	require.NoError(t, err)
	next, _ = m.Update(computedMsg{seq: m.seq, res: res})
	return next.(Model)
}

func TestUpdate_DropsStaleRuns(t *testing.T) {
	m := New(testConfig())
	res, err := run(context.Background(), m.cfg)
	require.NoError(t, err)

	next, _ := m.Update(computedMsg{seq: m.seq - 1, res: res})
	m = next.(Model)
	assert.Nil(t, m.res)
	assert.True(t, m.busy)

	next, _ = m.Update(computedMsg{seq: m.seq, res: res})
	m = next.(Model)
	assert.Same(t, res, m.res)
	assert.False(t, m.busy)
}

func TestUpdate_Zoom(t *testing.T) {
	m := loaded(t)
	require.True(t, m.fitted)
	z := m.view.zoom
	next, _ := m.Update(key("-"))
	m = next.(Model)
	assert.Equal(t, max(0, z-1), m.view.zoom)

	for range 20 {
		next, _ = m.Update(key("+"))
		m = next.(Model)
	}
	assert.Equal(t, m.cfg.MaxZoom, m.view.zoom)
}

func TestUpdate_Interval(t *testing.T) {
	m := loaded(t)
	seq := m.seq
	next, cmd := m.Update(key("]"))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 8.0, m.cfg.Interval)
	assert.Equal(t, seq+1, m.seq)
	assert.True(t, m.busy)
}

func TestUpdate_CycleField(t *testing.T) {
	m := loaded(t)
	next, cmd := m.Update(key("f"))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "saddle", m.cfg.Field)
	assert.Equal(t, 1.0, m.cfg.Interval)
}

func TestUpdate_PasteWKT(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(key("p"))
	m = next.(Model)
	require.True(t, m.pasteMode)
	m.ta.SetValue("POINT(-100 40)\nLINESTRING(-110 30,-90 45)")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.pasteMode)
	require.NotNil(t, m.overlay)
	assert.Len(t, m.overlay.Points, 1)
	assert.Len(t, m.overlay.Lines, 1)
}

func TestLevelTable(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(key("a"))
	m = next.(Model)
	require.Equal(t, tableLevels, m.tableMode)
	assert.Len(t, m.tbl.Rows(), len(m.res.set))

	// No overlay is loaded, so the next step closes the table.
	next, _ = m.Update(key("a"))
	m = next.(Model)
	assert.Equal(t, tableOff, m.tableMode)
}

func TestRenderMap(t *testing.T) {
	m := loaded(t)
	out := m.renderMap(80, 24)
	assert.Len(t, strings.Split(out, "\n"), 24)
	assert.True(t, strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }), "contours drawn")
	assert.NotEmpty(t, m.View())
}

func TestInspect(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(key("i"))
	m = next.(Model)
	assert.Contains(t, m.inspectPopup, "field: pressure")
	assert.Contains(t, m.inspectPopup, "value=")
}

func TestHover(t *testing.T) {
	m := loaded(t)
	w, h := m.mapSize()
	next, _ := m.Update(tea.MouseMsg{X: w / 2, Y: headerHeight + h/2})
	m = next.(Model)
	assert.True(t, m.hovering)
	assert.Contains(t, m.hoverInfo, "lon=")

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0})
	m = next.(Model)
	assert.False(t, m.hovering)
}
