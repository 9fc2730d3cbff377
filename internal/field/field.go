// Package field generates deterministic analytic scalar fields on a grid.
// The viewer uses them in place of model output; tests use them as fixtures
// with known structure.
package field

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"isomap/internal/errs"
	"isomap/internal/grid"
)

// Kind names an analytic field.
type Kind string

const (
	// Pressure is a mean-sea-level pressure chart in hPa: two lows and a high.
	Pressure Kind = "pressure"
	// Heights is a 500 hPa height field in metres: a zonal gradient with a
	// travelling ridge/trough wave.
	Heights Kind = "heights"
	// Saddle is a hyperbolic paraboloid centred in the domain.
	Saddle Kind = "saddle"
)

type generator func(u, v float64) float64

var generators = map[Kind]generator{
	Pressure: pressure,
	Heights:  heights,
	Saddle:   saddle,
}

// Kinds lists the supported field kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(generators))
	for k := range generators {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// Spec describes a field to generate.
type Spec struct {
	Kind       Kind
	NI, NJ     int
	Bound      orb.Bound
	Projection string // "latlon" or "mercator"
}

// DefaultSpec is a 121x81 pressure chart over the contiguous United States.
func DefaultSpec() Spec {
	return Spec{
		Kind:       Pressure,
		NI:         121,
		NJ:         81,
		Bound:      orb.Bound{Min: orb.Point{-125, 24}, Max: orb.Point{-66, 50}},
		Projection: "latlon",
	}
}

// Validate checks s without generating data.
func (s Spec) Validate() error {
	if _, ok := generators[s.Kind]; !ok {
		return errs.InvalidConfiguration("field", "unknown field %q (want one of %s)", s.Kind, strings.Join(Kinds(), ", "))
	}
	if s.NI < 2 || s.NJ < 2 {
		return errs.EmptyGrid(s.NI, s.NJ)
	}
	if !(s.Bound.Max[0] > s.Bound.Min[0] && s.Bound.Max[1] > s.Bound.Min[1]) {
		return errs.InvalidConfiguration("bounds", "empty bound %v", s.Bound)
	}
	if s.Bound.Min[1] <= -90 || s.Bound.Max[1] >= 90 {
		return errs.InvalidConfiguration("bounds", "latitudes must lie strictly inside (-90, 90)")
	}
	switch s.Projection {
	case "latlon", "mercator", "":
	default:
		return errs.InvalidConfiguration("projection", "unknown projection %q", s.Projection)
	}
	return nil
}

// Generate samples the field. Values depend only on the normalised position
// (u, v) in [0, 1]^2 inside the bound, so a field looks the same at any
// resolution.
func Generate(s Spec) (*grid.Scalar, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	gen := generators[s.Kind]
	values := make([]float64, s.NI*s.NJ)
	for j := 0; j < s.NJ; j++ {
		v := float64(j) / float64(s.NJ-1)
		for i := 0; i < s.NI; i++ {
			u := float64(i) / float64(s.NI-1)
			values[i+j*s.NI] = gen(u, v)
		}
	}
	var (
		g   *grid.Scalar
		err error
	)
	if s.Projection == "mercator" {
		g, err = grid.NewMercator(values, s.NI, s.NJ, s.Bound)
	} else {
		g, err = grid.NewLatLon(values, s.NI, s.NJ, s.Bound)
	}
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", s.Kind, err)
	}
	return g, nil
}

func gaussian(u, v, cu, cv, su, sv float64) float64 {
	du := (u - cu) / su
	dv := (v - cv) / sv
	return math.Exp(-0.5 * (du*du + dv*dv))
}

func pressure(u, v float64) float64 {
	return 1013 -
		22*gaussian(u, v, 0.3, 0.65, 0.12, 0.15) -
		14*gaussian(u, v, 0.78, 0.3, 0.1, 0.12) +
		12*gaussian(u, v, 0.55, 0.2, 0.2, 0.18)
}

func heights(u, v float64) float64 {
	return 5700 - 240*v + 90*math.Sin(2*math.Pi*(1.5*u-0.1))*math.Sin(math.Pi*v)
}

func saddle(u, v float64) float64 {
	x := 2*u - 1
	y := 2*v - 1
	return 10 * (x*x - y*y)
}
