// Package config aggregates every option of the pipeline and the viewer.
package config

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"golang.org/x/text/language"

	"isomap/internal/contour"
	"isomap/internal/errs"
	"isomap/internal/field"
	"isomap/internal/label"
	"isomap/internal/spatial"
	"isomap/internal/thin"
)

// Index names accepted by Config.Index.
const (
	IndexKDTree   = "kdtree"
	IndexGridHash = "gridhash"
)

// Config is the flat option set bound to command-line flags.
type Config struct {
	// Field.
	Field      string
	NI, NJ     int
	Bounds     []float64 // min lon, min lat, max lon, max lat
	Projection string

	// Contours. A non-empty Levels overrides Interval.
	Interval  float64
	Levels    []float64
	Tolerance float64
	Workers   int

	// Labels. Zero LabelSpacing means the default for MaxZoom.
	MaxZoom      int
	LabelSpacing float64
	Decimals     int
	Locale       string
	Index        string

	// Thinning and mesh.
	ThinBase    int
	ThinMaxZoom int
	MarginR     float64
	MarginS     float64

	// Viewer.
	Overlay  string
	LogFile  string
	LogLevel string
	Jobs     int
}

// Default returns the viewer's defaults.
func Default() Config {
	fs := field.DefaultSpec()
	c := contour.DefaultOptions()
	t := thin.DefaultOptions()
	return Config{
		Field:       string(fs.Kind),
		NI:          fs.NI,
		NJ:          fs.NJ,
		Bounds:      []float64{fs.Bound.Min[0], fs.Bound.Min[1], fs.Bound.Max[0], fs.Bound.Max[1]},
		Projection:  fs.Projection,
		Interval:    4,
		Tolerance:   c.Tolerance,
		MaxZoom:     8,
		Decimals:    -1,
		Locale:      "en",
		Index:       IndexKDTree,
		ThinBase:    t.Base,
		ThinMaxZoom: t.MaxZoom,
		LogLevel:    "info",
	}
}

// Validate checks every option, reporting all failures at once.
func (c Config) Validate() error {
	var errList []error
	if len(c.Bounds) != 4 {
		errList = append(errList, errs.InvalidConfiguration("bounds", "want 4 values, got %d", len(c.Bounds)))
	} else if err := c.FieldSpec().Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := c.ContourOptions().Validate(); err != nil {
		errList = append(errList, err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errList = append(errList, errs.InvalidConfiguration("locale", "%v", err))
	}
	switch c.Index {
	case IndexKDTree, IndexGridHash:
	default:
		errList = append(errList, errs.InvalidConfiguration("index", "unknown index %q", c.Index))
	}
	if c.LabelSpacing < 0 {
		errList = append(errList, errs.InvalidConfiguration("spacing", "must not be negative, got %v", c.LabelSpacing))
	} else if err := c.LabelOptions().Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := c.ThinOptions().Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := c.MeshOptions().Validate(); err != nil {
		errList = append(errList, err)
	}
	if c.Jobs < 0 {
		errList = append(errList, errs.InvalidConfiguration("jobs", "must not be negative, got %d", c.Jobs))
	}
	if len(errList) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errList...))
	}
	return nil
}

// FieldSpec returns the synthetic field to display.
func (c Config) FieldSpec() field.Spec {
	s := field.Spec{Kind: field.Kind(c.Field), NI: c.NI, NJ: c.NJ, Projection: c.Projection}
	if len(c.Bounds) == 4 {
		s.Bound = orb.Bound{Min: orb.Point{c.Bounds[0], c.Bounds[1]}, Max: orb.Point{c.Bounds[2], c.Bounds[3]}}
	}
	return s
}

// ContourOptions returns the extraction options.
func (c Config) ContourOptions() contour.Options {
	return contour.Options{Interval: c.Interval, Levels: c.Levels, Tolerance: c.Tolerance, Workers: c.Workers}
}

// LabelOptions returns the placement options. An unparsable locale falls
// back to English; Validate reports it.
func (c Config) LabelOptions() label.Options {
	o := label.DefaultOptions(c.MaxZoom)
	if c.LabelSpacing > 0 {
		o.SpacingAtMaxZoom = c.LabelSpacing
	}
	o.Decimals = c.Decimals
	if tag, err := language.Parse(c.Locale); err == nil {
		o.Locale = tag
	}
	if c.Index == IndexGridHash {
		size := o.SpacingAtMaxZoom
		o.Index = func() spatial.Index { return spatial.NewGridHash(size) }
	}
	return o
}

// ThinOptions returns the billboard thinning options.
func (c Config) ThinOptions() thin.Options {
	return thin.Options{Base: c.ThinBase, MaxZoom: c.ThinMaxZoom}
}

// MeshOptions returns the mesh options.
func (c Config) MeshOptions() thin.MeshOptions {
	return thin.MeshOptions{MarginR: c.MarginR, MarginS: c.MarginS}
}
