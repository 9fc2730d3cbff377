package field_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isomap/internal/errs"
	"isomap/internal/field"
)

func TestGenerate(t *testing.T) {
	for _, kind := range field.Kinds() {
		t.Run(kind, func(t *testing.T) {
			s := field.DefaultSpec()
			s.Kind = field.Kind(kind)
			s.NI, s.NJ = 21, 11
			g, err := field.Generate(s)
			require.NoError(t, err)
			ni, nj := g.Dims()
			assert.Equal(t, 21, ni)
			assert.Equal(t, 11, nj)

			again, err := field.Generate(s)
			require.NoError(t, err)
			assert.Equal(t, g.Values(), again.Values(), "generation is deterministic")
		})
	}
}

func TestGenerate_Mercator(t *testing.T) {
	s := field.DefaultSpec()
	s.NI, s.NJ = 5, 5
	s.Projection = "mercator"
	g, err := field.Generate(s)
	require.NoError(t, err)
	ne := g.ToGeographic(g.Coord(4, 4))
	assert.InDelta(t, s.Bound.Max[0], ne[0], 1e-9)
	assert.InDelta(t, s.Bound.Max[1], ne[1], 1e-9)
}

func TestSpecValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*field.Spec)
		err  error
	}{
		{"UnknownKind", func(s *field.Spec) { s.Kind = "vorticity" }, errs.ErrInvalidConfiguration},
		{"TinyGrid", func(s *field.Spec) { s.NI = 1 }, errs.ErrEmptyGrid},
		{"EmptyBound", func(s *field.Spec) { s.Bound = orb.Bound{} }, errs.ErrInvalidConfiguration},
		{"Pole", func(s *field.Spec) { s.Bound.Max[1] = 90 }, errs.ErrInvalidConfiguration},
		{"Projection", func(s *field.Spec) { s.Projection = "lcc" }, errs.ErrInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := field.DefaultSpec()
			tc.mut(&s)
			require.ErrorIs(t, s.Validate(), tc.err)
		})
	}
}
