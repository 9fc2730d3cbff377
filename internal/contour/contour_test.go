package contour_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomap/internal/contour"
	"isomap/internal/errs"
	"isomap/internal/field"
	"isomap/internal/grid"
)

func latlon(t testing.TB, values []float64, ni, nj int) *grid.Scalar {
	t.Helper()
	g, err := grid.NewLatLon(values, ni, nj, orb.Bound{Max: orb.Point{float64(ni - 1), float64(nj - 1)}})
	require.NoError(t, err)
	return g
}

// bump is a 3x3 grid with a single high centre sample.
func bump(t testing.TB, centre float64) *grid.Scalar {
	return latlon(t, []float64{
		0, 0, 0,
		0, centre, 0,
		0, 0, 0,
	}, 3, 3)
}

func TestExtract_ConstantGrid(t *testing.T) {
	values := make([]float64, 16)
	for k := range values {
		values[k] = 7
	}
	g := latlon(t, values, 4, 4)
	for _, level := range []float64{6, 7, 8} {
		set, err := contour.Extract(g, contour.Options{Levels: []float64{level}})
		require.NoError(t, err)
		assert.Empty(t, set, "level %v", level)
	}
}

func TestExtract_ClosedRing(t *testing.T) {
	set, err := contour.Extract(bump(t, 1), contour.Options{Levels: []float64{0.5}})
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Len(t, set[0].Lines, 1)

	ring := set[0].Lines[0]
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[len(ring)-1], "closed lines repeat their first point")
	assert.Equal(t, orb.CCW, orb.Ring(ring).Orientation(), "high side lies on the left")
	for _, p := range ring[:4] {
		assert.InDelta(t, 0.5, math.Abs(p[0]-1)+math.Abs(p[1]-1), 1e-12)
	}
}

func TestExtract_MissingValues(t *testing.T) {
	set, err := contour.Extract(bump(t, math.NaN()), contour.Options{Levels: []float64{0.5}})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestExtract_Saddle(t *testing.T) {
	t.Run("Separated", func(t *testing.T) {
		// Mean 0.5 is not above the level.
		g := latlon(t, []float64{1, 0, 0, 1}, 2, 2)
		set, err := contour.Extract(g, contour.Options{Levels: []float64{0.5}})
		require.NoError(t, err)
		require.Len(t, set, 1)
		lines := set[0].Lines
		require.Len(t, lines, 2)
		assertLine(t, orb.LineString{{0.5, 0}, {0, 0.5}}, lines[0])
		assertLine(t, orb.LineString{{0.5, 1}, {1, 0.5}}, lines[1])
	})
	t.Run("Joined", func(t *testing.T) {
		// Mean 0.55 is above the level, so sw and ne connect.
		g := latlon(t, []float64{1, 0, 0.2, 1}, 2, 2)
		set, err := contour.Extract(g, contour.Options{Levels: []float64{0.5}})
		require.NoError(t, err)
		require.Len(t, set, 1)
		lines := set[0].Lines
		require.Len(t, lines, 2)
		assertLine(t, orb.LineString{{0.5, 0}, {1, 0.5}}, lines[0])
		assertLine(t, orb.LineString{{0.375, 1}, {0, 0.625}}, lines[1])
	})
}

func assertLine(t *testing.T, want, got orb.LineString) {
	t.Helper()
	require.Len(t, got, len(want))
	for k := range want {
		assert.InDelta(t, want[k][0], got[k][0], 1e-12, "point %d x", k)
		assert.InDelta(t, want[k][1], got[k][1], 1e-12, "point %d y", k)
	}
}

func TestExtract_PointsInsideBounds(t *testing.T) {
	for _, proj := range []string{"latlon", "mercator"} {
		t.Run(proj, func(t *testing.T) {
			s := field.DefaultSpec()
			s.NI, s.NJ = 41, 27
			s.Projection = proj
			g, err := field.Generate(s)
			require.NoError(t, err)

			set, err := contour.Extract(g, contour.Options{Interval: 2})
			require.NoError(t, err)
			require.NotEmpty(t, set)

			b := s.Bound.Pad(1e-9)
			for _, c := range set {
				for _, l := range c.Lines {
					assert.GreaterOrEqual(t, len(l), 2)
					for _, p := range l {
						require.True(t, b.Contains(p), "level %v point %v outside %v", c.Level, p, s.Bound)
					}
				}
			}
		})
	}
}

func TestExtract_SortedAndWorkerIndependent(t *testing.T) {
	g, err := field.Generate(field.DefaultSpec())
	require.NoError(t, err)

	serial, err := contour.Extract(g, contour.Options{Interval: 4, Workers: 1})
	require.NoError(t, err)
	parallel, err := contour.Extract(g, contour.Options{Interval: 4, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)

	levels := serial.Levels()
	for k := 1; k < len(levels); k++ {
		assert.Less(t, levels[k-1], levels[k])
	}
	assert.Len(t, serial.ByLevel(), len(serial))
}

func TestExtract_Tolerance(t *testing.T) {
	set, err := contour.Extract(bump(t, 1), contour.Options{Levels: []float64{0.5}, Tolerance: 10})
	require.NoError(t, err)
	assert.Empty(t, set, "a ring collapsed to a single point is dropped")
}

type flat struct {
	grid.LatLon
	ni, nj int
}

func (f flat) Dims() (int, int)              { return f.ni, f.nj }
func (flat) Value(int, int) float64          { return 0 }
func (flat) Coord(i, j int) orb.Point        { return orb.Point{float64(i), float64(j)} }
func (flat) MinZoomForIndex(i, j, b int) int { return grid.MinZoom(i, j, b) }

func TestExtract_Errors(t *testing.T) {
	g := bump(t, 1)
	tooMany := make([]float64, contour.MaxLevels+1)
	for k := range tooMany {
		tooMany[k] = float64(k)
	}
	cases := []struct {
		name string
		g    grid.Adapter
		opts contour.Options
		err  error
	}{
		{"ZeroInterval", g, contour.Options{}, errs.ErrInvalidConfiguration},
		{"NegativeInterval", g, contour.Options{Interval: -1}, errs.ErrInvalidConfiguration},
		{"TooManyLevels", g, contour.Options{Levels: tooMany}, errs.ErrInvalidConfiguration},
		{"NaNLevel", g, contour.Options{Levels: []float64{math.NaN()}}, errs.ErrInvalidConfiguration},
		{"FineInterval", g, contour.Options{Interval: 0.01}, errs.ErrInvalidConfiguration},
		{"NegativeTolerance", g, contour.Options{Interval: 1, Tolerance: -1}, errs.ErrInvalidConfiguration},
		{"EmptyGrid", flat{ni: 1, nj: 5}, contour.DefaultOptions(), errs.ErrEmptyGrid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := contour.Extract(tc.g, tc.opts)
			require.ErrorIs(t, err, tc.err)
			assert.Nil(t, set)
		})
	}
}

func TestLevels(t *testing.T) {
	t.Run("Covering", func(t *testing.T) {
		g := latlon(t, []float64{10, 40, 70, 100}, 2, 2)
		levels, err := contour.Levels(g, contour.Options{Interval: 30})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 30, 60, 90, 120}, levels)
	})
	t.Run("ExplicitSortedUnique", func(t *testing.T) {
		levels, err := contour.Levels(bump(t, 1), contour.Options{Levels: []float64{3, 1, 2, 1}})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, levels)
	})
	t.Run("AllMissing", func(t *testing.T) {
		nan := math.NaN()
		g := latlon(t, []float64{nan, nan, nan, nan}, 2, 2)
		levels, err := contour.Levels(g, contour.DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, levels)

		set, err := contour.Extract(g, contour.DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, set)
	})
	t.Run("TinyIntervalConstantGrid", func(t *testing.T) {
		// value/interval is far beyond 2^53, where adding 1 to a float64 is a
		// no-op.
		g := latlon(t, []float64{1, 1, 1, 1}, 2, 2)
		levels, err := contour.Levels(g, contour.Options{Interval: 1e-17})
		require.NoError(t, err)
		require.Len(t, levels, 1)
		assert.InDelta(t, 1, levels[0], 1e-12)
	})
	t.Run("TinyIntervalCollapsingLevels", func(t *testing.T) {
		g := latlon(t, []float64{1, 1, 1, math.Nextafter(1, 2)}, 2, 2)
		_, err := contour.Levels(g, contour.Options{Interval: 1e-17})
		require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
		var e *errs.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "interval", e.Param)
	})
	t.Run("OverflowingInterval", func(t *testing.T) {
		g := latlon(t, []float64{-1e300, 0, 0, 1e300}, 2, 2)
		_, err := contour.Levels(g, contour.Options{Interval: 1e-300})
		require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
	})
}

func TestFeatureCollection(t *testing.T) {
	g, err := field.Generate(field.DefaultSpec())
	require.NoError(t, err)
	set, err := contour.Extract(g, contour.Options{Interval: 4})
	require.NoError(t, err)

	fc := set.FeatureCollection()
	require.Len(t, fc.Features, len(set))
	for k, f := range fc.Features {
		assert.Equal(t, set[k].Level, f.Properties["level"])
		mls, ok := f.Geometry.(orb.MultiLineString)
		require.True(t, ok)
		assert.Len(t, mls, len(set[k].Lines))
	}
}

func BenchmarkExtract(b *testing.B) {
	s := field.DefaultSpec()
	s.NI, s.NJ = 361, 181
	g, err := field.Generate(s)
	require.NoError(b, err)
	opts := contour.Options{Interval: 2}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := contour.Extract(g, opts); err != nil {
			b.Fatal(err)
		}
	}
}
