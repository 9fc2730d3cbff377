package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"isomap/internal/config"
	"isomap/internal/contour"
	"isomap/internal/field"
	"isomap/internal/grid"
	"isomap/internal/logging"
	"isomap/internal/worker"
)

// result is one run of the field -> contours -> bundles pipeline.
type result struct {
	grid    *grid.Scalar
	set     contour.Set
	out     *worker.Output
	elapsed time.Duration
}

// computedMsg carries a finished run. seq lets the model drop stale runs.
type computedMsg struct {
	seq int
	res *result
	err error
}

// run generates the configured field and builds every bundle the viewer
// draws.
func run(ctx context.Context, cfg config.Config) (*result, error) {
	start := time.Now()
	g, err := field.Generate(cfg.FieldSpec())
	if err != nil {
		return nil, err
	}
	set, err := contour.Extract(g, cfg.ContourOptions())
	if err != nil {
		return nil, err
	}

	lines := float32(cfg.MaxZoom)
	thinOpts := cfg.ThinOptions()
	meshOpts := cfg.MeshOptions()
	batch := worker.Batch{
		Contours:   set,
		LineZoom:   &lines,
		Grid:       g,
		Billboards: &thinOpts,
		Mesh:       &meshOpts,
	}
	// Placement rejects an empty set; a flat field simply has no labels.
	if len(set) > 0 {
		labelOpts := cfg.LabelOptions()
		batch.Labels = &labelOpts
	}
	out, err := worker.Pool{Limit: cfg.Jobs}.Build(ctx, batch)
	if err != nil {
		return nil, err
	}
	res := &result{grid: g, set: set, out: out, elapsed: time.Since(start)}
	logging.Logger().Info("pipeline finished",
		"field", cfg.Field,
		"levels", len(set),
		"lines", set.NumLines(),
		"labels", res.labels(),
		"elapsed", res.elapsed)
	return res, nil
}

// recompute supersedes any run in flight with a run of the current
// configuration.
func (m *Model) recompute() tea.Cmd {
	m.seq++
	m.busy = true
	return runCmd(m.seq, m.cfg)
}

func runCmd(seq int, cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		res, err := run(context.Background(), cfg)
		return computedMsg{seq: seq, res: res, err: err}
	}
}

func (r *result) labels() int {
	if r.out.Placement == nil {
		return 0
	}
	return r.out.Placement.Len()
}

// bound is the grid's extent in mercator coordinates.
func (r *result) bound() orb.Bound {
	geo := grid.GeoBound(r.grid)
	return grid.MercatorCoord(geo.Min).Bound().Extend(grid.MercatorCoord(geo.Max))
}

// sample is what the mesh knows about one mercator position.
type sample struct {
	i, j  int     // cell
	value float64 // bilinear value inside the cell
	area  float64 // cell area, squared mercator units
}

// probe locates mercator point p in the mesh. Columns are found by their x
// coordinates, rows by the left edge of the column.
func (r *result) probe(p orb.Point) (sample, bool) {
	mesh := r.out.Mesh
	if mesh == nil || mesh.Strips() == 0 {
		return sample{}, false
	}
	ni, nj := r.grid.Dims()
	strip := mesh.StripLen
	x := func(i int) float64 {
		if i == ni-1 {
			return float64(mesh.Vertices[2*((i-1)*strip+2)])
		}
		return float64(mesh.Vertices[2*(i*strip+1)])
	}
	y := func(i, j int) float64 {
		return float64(mesh.Vertices[2*(i*strip+1+2*j)+1])
	}

	if p[0] < x(0) || p[0] > x(ni-1) {
		return sample{}, false
	}
	i := sort.Search(ni-1, func(k int) bool { return x(k+1) >= p[0] })
	if i >= ni-1 {
		return sample{}, false
	}
	// Rows run north, mercator y runs south.
	if p[1] > y(i, 0) || p[1] < y(i, nj-1) {
		return sample{}, false
	}
	j := sort.Search(nj-1, func(k int) bool { return y(i, k+1) <= p[1] })
	if j >= nj-1 {
		return sample{}, false
	}

	fx := fraction(p[0], x(i), x(i+1))
	fy := fraction(p[1], y(i, j), y(i, j+1))
	v00, v10 := r.grid.Value(i, j), r.grid.Value(i+1, j)
	v01, v11 := r.grid.Value(i, j+1), r.grid.Value(i+1, j+1)
	v := (1-fy)*((1-fx)*v00+fx*v10) + fy*((1-fx)*v01+fx*v11)
	return sample{i: i, j: j, value: v, area: mesh.CellAreas[i+j*(ni-1)]}, true
}

func fraction(v, a, b float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

func (s sample) String() string {
	return fmt.Sprintf("value=%.2f cell=(%d,%d) area=%.3g", s.value, s.i, s.j, s.area)
}
