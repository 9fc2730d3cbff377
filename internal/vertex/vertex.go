// Package vertex defines the GPU-ready geometry bundles produced by the
// tessellator and the grid thinner.
//
// A bundle is a set of parallel float32 arrays, one per vertex attribute, all
// describing the same number of vertices. Each array is meant for its own
// vertex buffer; Layouts describes them with one buffer layout per attribute
// and shader locations in declaration order. Bundles are built fresh by each
// call and never modified afterwards.
package vertex

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Attribute is one named array of a bundle.
type Attribute struct {
	Name       string
	Components int
	Data       []float32
}

// Len returns the number of vertices the attribute describes.
func (a Attribute) Len() int { return len(a.Data) / a.Components }

func (a Attribute) format() gputypes.VertexFormat {
	switch a.Components {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// Bundle is implemented by every geometry bundle.
type Bundle interface {
	// Attributes lists the arrays in shader-location order.
	Attributes() []Attribute
	// Len returns the vertex count.
	Len() int
}

// Layouts returns one non-interleaved buffer layout per attribute of b.
func Layouts(b Bundle) []gputypes.VertexBufferLayout {
	attrs := b.Attributes()
	out := make([]gputypes.VertexBufferLayout, len(attrs))
	for k, a := range attrs {
		out[k] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(4 * a.Components),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: a.format(), Offset: 0, ShaderLocation: uint32(k)},
			},
		}
	}
	return out
}

// Topology is the primitive topology of every bundle: a single triangle strip
// whose separate primitives are joined by degenerate vertices.
const Topology = gputypes.PrimitiveTopologyTriangleStrip

// Check verifies that every attribute of b describes b.Len() vertices.
func Check(b Bundle) error {
	n := b.Len()
	for _, a := range b.Attributes() {
		if len(a.Data)%a.Components != 0 || a.Len() != n {
			return fmt.Errorf("vertex: attribute %s holds %d floats, want %d", a.Name, len(a.Data), n*a.Components)
		}
	}
	return nil
}

// Lines is a tessellated line bundle.
type Lines struct {
	// Vertices are normalised web-mercator positions.
	Vertices []float32 `msgpack:"vertices"`
	// Extrusion is the unit screen-space offset direction.
	Extrusion []float32 `msgpack:"extrusion"`
	TexCoords []float32 `msgpack:"tex_coords"`
	// Origin is the per-line origin broadcast to each vertex.
	Origin []float32 `msgpack:"origin"`
	// Zoom is the per-line zoom broadcast to each vertex.
	Zoom []float32 `msgpack:"zoom"`
}

// Len implements Bundle.
func (l *Lines) Len() int { return len(l.Vertices) / 2 }

// Attributes implements Bundle.
func (l *Lines) Attributes() []Attribute {
	return []Attribute{
		{"vertices", 2, l.Vertices},
		{"extrusion", 2, l.Extrusion},
		{"tex_coords", 2, l.TexCoords},
		{"origin", 2, l.Origin},
		{"zoom", 1, l.Zoom},
	}
}

// Billboards is a thinned point bundle, six vertices per retained point.
type Billboards struct {
	// Positions are (x, y, zoom*4+corner): mercator position, the point's
	// minimum zoom and the quad corner packed in the third component.
	Positions []float32 `msgpack:"positions"`
	// TexCoords locate the point in the source grid, (i/(ni-1), j/(nj-1)).
	TexCoords []float32 `msgpack:"tex_coords"`
}

// Len implements Bundle.
func (b *Billboards) Len() int { return len(b.Positions) / 3 }

// Points returns the number of retained points.
func (b *Billboards) Points() int { return b.Len() / 6 }

// Attributes implements Bundle.
func (b *Billboards) Attributes() []Attribute {
	return []Attribute{
		{"positions", 3, b.Positions},
		{"tex_coords", 2, b.TexCoords},
	}
}

// Mesh is a filled grid drawn as one triangle strip per column.
type Mesh struct {
	Vertices  []float32 `msgpack:"vertices"`
	TexCoords []float32 `msgpack:"tex_coords"`
	// GridCellSize is the area of the cell each vertex belongs to.
	GridCellSize []float32 `msgpack:"grid_cell_size"`
	// CellAreas holds the (ni-1)*(nj-1) cell areas, i + j*(ni-1). Not a vertex
	// attribute.
	CellAreas []float64 `msgpack:"cell_areas"`
	// StripLen is the vertex count of each column strip.
	StripLen int `msgpack:"strip_len"`
}

// Len implements Bundle.
func (m *Mesh) Len() int { return len(m.Vertices) / 2 }

// Strips returns the number of column strips.
func (m *Mesh) Strips() int {
	if m.StripLen == 0 {
		return 0
	}
	return m.Len() / m.StripLen
}

// Attributes implements Bundle.
func (m *Mesh) Attributes() []Attribute {
	return []Attribute{
		{"vertices", 2, m.Vertices},
		{"tex_coords", 2, m.TexCoords},
		{"grid_cell_size", 1, m.GridCellSize},
	}
}
