package contour

import (
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/logging"
)

// Contour is the set of polylines traced at one level. Every line has at least
// two points, in geographic (lon, lat); a closed line repeats its first point.
type Contour struct {
	Level float64
	Lines []orb.LineString
}

// Set is a level-sorted contour collection. Levels that produced no line are
// absent.
type Set []Contour

// Levels returns the levels present in s, ascending.
func (s Set) Levels() []float64 {
	out := make([]float64, len(s))
	for k, c := range s {
		out[k] = c.Level
	}
	return out
}

// ByLevel indexes the lines by level.
func (s Set) ByLevel() map[float64][]orb.LineString {
	out := make(map[float64][]orb.LineString, len(s))
	for _, c := range s {
		out[c.Level] = c.Lines
	}
	return out
}

// NumLines counts polylines over every level.
func (s Set) NumLines() int {
	n := 0
	for _, c := range s {
		n += len(c.Lines)
	}
	return n
}

// Extract traces every level of g. Levels run concurrently into fixed slots, so
// the result does not depend on opts.Workers. On error no Set is returned.
func Extract(g grid.Adapter, opts Options) (Set, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ni, nj := g.Dims()
	if ni < 2 || nj < 2 {
		return nil, errs.EmptyGrid(ni, nj)
	}
	levels, err := Levels(g, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	slots := make([][]orb.LineString, len(levels))
	var eg errgroup.Group
	eg.SetLimit(opts.workers())
	for k, level := range levels {
		eg.Go(func() error {
			slots[k] = trace(g, level, opts.Tolerance)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	set := make(Set, 0, len(levels))
	for k, lines := range slots {
		if len(lines) == 0 {
			continue
		}
		set = append(set, Contour{Level: levels[k], Lines: lines})
	}
	logging.Logger().Debug("contours extracted",
		"grid", [2]int{ni, nj},
		"levels", len(levels),
		"non_empty", len(set),
		"lines", set.NumLines(),
		"elapsed", time.Since(start))
	return set, nil
}
