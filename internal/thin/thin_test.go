package thin_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/thin"
	"isomap/internal/vertex"
)

func uniform(t testing.TB, ni, nj int) *grid.Scalar {
	t.Helper()
	g, err := grid.NewMercator(make([]float64, ni*nj), ni, nj, orb.Bound{Min: orb.Point{-10, -5}, Max: orb.Point{20, 25}})
	require.NoError(t, err)
	return g
}

func TestBillboards_Tiers(t *testing.T) {
	g := uniform(t, 9, 9)
	want := map[int]int{2: 81, 1: 25, 0: 9}
	prev := math.MaxInt
	for maxZoom := 2; maxZoom >= 0; maxZoom-- {
		b, err := thin.Billboards(g, thin.Options{Base: 4, MaxZoom: maxZoom})
		require.NoError(t, err)
		require.NoError(t, vertex.Check(b))
		assert.Equal(t, want[maxZoom], b.Points(), "max zoom %d", maxZoom)
		assert.Less(t, b.Points(), prev)
		prev = b.Points()

		for v := 0; v < b.Len(); v++ {
			zoom := int(b.Positions[3*v+2]) / 4
			assert.LessOrEqual(t, zoom, maxZoom)
		}
	}
}

func TestBillboards_Layout(t *testing.T) {
	g := uniform(t, 5, 3)
	b, err := thin.Billboards(g, thin.Options{Base: 2, MaxZoom: 1})
	require.NoError(t, err)
	require.Equal(t, 15, b.Points())

	// Point 1 is (i=1, j=0): odd, so zoom 1.
	corners := []float32{0, 0, 1, 2, 3, 3}
	for v, c := range corners {
		assert.Equal(t, 4+c, b.Positions[3*(6+v)+2])
		assert.Equal(t, float32(0.25), b.TexCoords[2*(6+v)])
		assert.Equal(t, float32(0), b.TexCoords[2*(6+v)+1])
	}
	// Point 0 is (0, 0) at zoom 0, point 5 is (0, 1) at zoom 1.
	assert.Equal(t, float32(0), b.Positions[2])
	assert.Equal(t, float32(4), b.Positions[3*30+2])
	assert.Equal(t, float32(0.5), b.TexCoords[2*30+1])

	sw := grid.MercatorCoord(orb.Point{-10, -5})
	assert.InDelta(t, sw[0], float64(b.Positions[0]), 1e-6)
	assert.InDelta(t, sw[1], float64(b.Positions[1]), 1e-6)
}

func TestBillboards_Invalid(t *testing.T) {
	g := uniform(t, 3, 3)
	for _, opts := range []thin.Options{{Base: 0}, {Base: 3}, {Base: 4, MaxZoom: -1}} {
		_, err := thin.Billboards(g, opts)
		require.ErrorIs(t, err, errs.ErrInvalidConfiguration, "%+v", opts)
	}
	assert.Equal(t, 5, thin.DefaultOptions().Tiers())
}

func TestMesh(t *testing.T) {
	const ni, nj = 6, 4
	g := uniform(t, ni, nj)
	m, err := thin.Mesh(g, thin.MeshOptions{})
	require.NoError(t, err)
	require.NoError(t, vertex.Check(m))

	assert.Equal(t, 2*(nj+1), m.StripLen)
	assert.Equal(t, ni-1, m.Strips())
	assert.Len(t, m.CellAreas, (ni-1)*(nj-1))

	sw := grid.MercatorCoord(orb.Point{-10, -5})
	ne := grid.MercatorCoord(orb.Point{20, 25})
	hull := math.Abs((ne[0] - sw[0]) * (ne[1] - sw[1]))
	sum := 0.0
	for _, a := range m.CellAreas {
		sum += a
	}
	assert.InEpsilon(t, hull, sum, 1e-9)

	// Strip 0: duplicated first vertex, then (0,j),(1,j) pairs.
	assert.Equal(t, m.Vertices[0:2], m.Vertices[2:4])
	end := 2 * m.StripLen
	assert.Equal(t, m.Vertices[end-2:end], m.Vertices[end-4:end-2])
	assert.Equal(t, []float32{0, 0, 0, 0, 0.2, 0}, m.TexCoords[0:6])

	first := float32(m.CellAreas[0])
	last := float32(m.CellAreas[(nj-2)*(ni-1)])
	assert.Equal(t, []float32{first, first, first}, m.GridCellSize[0:3])
	assert.Equal(t, []float32{last, last, last}, m.GridCellSize[m.StripLen-3:m.StripLen])
}

func TestMesh_Margins(t *testing.T) {
	m, err := thin.Mesh(uniform(t, 3, 3), thin.MeshOptions{MarginR: 0.25, MarginS: 0.1})
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), m.TexCoords[0])
	assert.Equal(t, float32(0.1), m.TexCoords[1])
	// Row 2 right vertex of strip 0: r = 0.5*0.5+0.25, s = 1*0.8+0.1.
	k := 2 * (1 + 2*2 + 1)
	assert.InDelta(t, 0.5, m.TexCoords[k], 1e-7)
	assert.InDelta(t, 0.9, m.TexCoords[k+1], 1e-7)

	for _, opts := range []thin.MeshOptions{{MarginR: 0.5}, {MarginS: -0.1}} {
		_, err := thin.Mesh(uniform(t, 3, 3), opts)
		require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
	}
}
