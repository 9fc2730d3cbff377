// Package thin builds density-thinned billboard geometry and filled meshes
// from structured grids.
package thin

import (
	"math"
	"math/bits"
	"time"

	"github.com/paulmach/orb"

	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/logging"
	"isomap/internal/vertex"
)

// Options configures Billboards.
type Options struct {
	// Base is the thinning factor at zoom 0: only samples whose indices are
	// both multiples of Base are shown there. It must be a power of two.
	Base int
	// MaxZoom drops samples that would first appear deeper than it.
	MaxZoom int
}

// DefaultOptions thins by 16 up to zoom 4.
func DefaultOptions() Options {
	return Options{Base: 16, MaxZoom: 4}
}

// Validate checks the options.
func (o Options) Validate() error {
	if !grid.IsPowerOfTwo(o.Base) {
		return errs.InvalidConfiguration("base", "must be a power of two, got %d", o.Base)
	}
	if o.MaxZoom < 0 {
		return errs.InvalidConfiguration("max-zoom", "must not be negative, got %d", o.MaxZoom)
	}
	return nil
}

// Tiers returns the number of density tiers, log2(Base)+1.
func (o Options) Tiers() int { return bits.TrailingZeros(uint(o.Base)) + 1 }

// quadVertices is the vertex count of one billboard.
const quadVertices = 6

func dims(g grid.Adapter) (int, int, error) {
	ni, nj := g.Dims()
	if ni < 2 || nj < 2 {
		return 0, 0, errs.EmptyGrid(ni, nj)
	}
	return ni, nj, nil
}

func mercator(g grid.Adapter, i, j int) orb.Point {
	return grid.MercatorCoord(g.ToGeographic(g.Coord(i, j)))
}

// Billboards emits six vertices per retained sample, rows in j order. The
// third position component packs the sample's minimum zoom and the quad
// corner as zoom*4 + corner, the corner running 0, 0, 1, 2, 3, 3 so the
// first and last vertex are degenerate.
func Billboards(g grid.Adapter, opts Options) (*vertex.Billboards, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ni, nj, err := dims(g)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	out := &vertex.Billboards{}
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			zoom := g.MinZoomForIndex(i, j, opts.Base)
			if zoom > opts.MaxZoom {
				continue
			}
			p := mercator(g, i, j)
			r := float32(float64(i) / float64(ni-1))
			s := float32(float64(j) / float64(nj-1))
			for v := 0; v < quadVertices; v++ {
				corner := min(max(v-1, 0), 3)
				out.Positions = append(out.Positions, float32(p[0]), float32(p[1]), float32(zoom*4+corner))
				out.TexCoords = append(out.TexCoords, r, s)
			}
		}
	}
	logging.Logger().Debug("billboards built",
		"grid", [2]int{ni, nj},
		"base", opts.Base,
		"max_zoom", opts.MaxZoom,
		"points", out.Points(),
		"elapsed", time.Since(start))
	return out, nil
}

// MeshOptions configures Mesh. Margins inset the texture coordinates so
// samples land on texel centres; each must lie in [0, 0.5).
type MeshOptions struct {
	MarginR float64
	MarginS float64
}

// Validate checks the margins.
func (o MeshOptions) Validate() error {
	if !(o.MarginR >= 0 && o.MarginR < 0.5) {
		return errs.InvalidConfiguration("margin-r", "must lie in [0, 0.5), got %v", o.MarginR)
	}
	if !(o.MarginS >= 0 && o.MarginS < 0.5) {
		return errs.InvalidConfiguration("margin-s", "must lie in [0, 0.5), got %v", o.MarginS)
	}
	return nil
}

// Mesh covers the grid with one triangle strip per column i < ni-1. A strip
// pairs (i, j) with (i+1, j) for every row and duplicates its first and last
// vertex, 2*(nj+1) vertices in all. GridCellSize gives every vertex the area
// of its row's cell; the leading duplicate takes the first cell's area and
// the final three vertices the last cell's.
func Mesh(g grid.Adapter, opts MeshOptions) (*vertex.Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ni, nj, err := dims(g)
	if err != nil {
		return nil, err
	}

	strip := 2 * (nj + 1)
	n := (ni - 1) * strip
	out := &vertex.Mesh{
		Vertices:     make([]float32, 0, 2*n),
		TexCoords:    make([]float32, 0, 2*n),
		GridCellSize: make([]float32, 0, n),
		CellAreas:    make([]float64, (ni-1)*(nj-1)),
		StripLen:     strip,
	}

	// Rows of the current and next column, reused across strips.
	left := make([]orb.Point, nj)
	right := make([]orb.Point, nj)
	for j := range right {
		right[j] = mercator(g, 0, j)
	}
	texR := func(i int) float32 {
		return float32(float64(i)/float64(ni-1)*(1-2*opts.MarginR) + opts.MarginR)
	}
	texS := func(j int) float32 {
		return float32(float64(j)/float64(nj-1)*(1-2*opts.MarginS) + opts.MarginS)
	}

	for i := 0; i < ni-1; i++ {
		left, right = right, left
		for j := range right {
			right[j] = mercator(g, i+1, j)
		}
		r, rp1 := texR(i), texR(i+1)

		for j := 0; j < nj-1; j++ {
			out.CellAreas[i+j*(ni-1)] = quadArea(left[j], right[j], left[j+1], right[j+1])
		}
		area := func(j int) float32 {
			return float32(out.CellAreas[i+min(j, nj-2)*(ni-1)])
		}

		out.Vertices = append(out.Vertices, float32(left[0][0]), float32(left[0][1]))
		out.TexCoords = append(out.TexCoords, r, texS(0))
		out.GridCellSize = append(out.GridCellSize, area(0))
		for j := 0; j < nj; j++ {
			s := texS(j)
			out.Vertices = append(out.Vertices,
				float32(left[j][0]), float32(left[j][1]),
				float32(right[j][0]), float32(right[j][1]))
			out.TexCoords = append(out.TexCoords, r, s, rp1, s)
			out.GridCellSize = append(out.GridCellSize, area(j), area(j))
		}
		last := right[nj-1]
		out.Vertices = append(out.Vertices, float32(last[0]), float32(last[1]))
		out.TexCoords = append(out.TexCoords, rp1, texS(nj-1))
		out.GridCellSize = append(out.GridCellSize, area(nj-2))
	}
	return out, nil
}

// quadArea is the shoelace area of the cell with corners ll, lr, ul, ur,
// summed over the triangles (ll, lr, ul) and (ur, ul, lr).
func quadArea(ll, lr, ul, ur orb.Point) float64 {
	return 0.5 * math.Abs(
		ll[0]*(lr[1]-ul[1])+lr[0]*(ul[1]-ll[1])+ul[0]*(ll[1]-lr[1])+
			ur[0]*(ul[1]-lr[1])+ul[0]*(lr[1]-ur[1])+lr[0]*(ur[1]-ul[1]))
}
