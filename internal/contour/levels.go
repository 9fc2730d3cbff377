package contour

import (
	"math"
	"runtime"
	"sort"

	"gonum.org/v1/gonum/floats"

	"isomap/internal/errs"
	"isomap/internal/grid"
)

// MaxLevels caps both explicit and generated level sets.
const MaxLevels = 40

// Options configures extraction. Levels, when non-empty, overrides Interval.
type Options struct {
	// Interval spaces generated levels. Default 1.
	Interval float64
	// Levels is an explicit level list (at most MaxLevels).
	Levels []float64
	// Tolerance collapses consecutive points closer than or equal to it
	// (geographic degrees). Zero removes exact duplicates only.
	Tolerance float64
	// Workers bounds how many levels are traced concurrently; zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions returns Interval=1 and no explicit levels.
func DefaultOptions() Options {
	return Options{Interval: 1}
}

// Validate checks the options independently of any grid.
func (o Options) Validate() error {
	if len(o.Levels) > 0 {
		if len(o.Levels) > MaxLevels {
			return errs.InvalidConfiguration("levels", "at most %d levels, got %d", MaxLevels, len(o.Levels))
		}
		for k, l := range o.Levels {
			if math.IsNaN(l) || math.IsInf(l, 0) {
				return errs.InvalidConfiguration("levels", "level %d is not finite: %v", k, l)
			}
		}
	} else if !(o.Interval > 0) || math.IsInf(o.Interval, 0) {
		return errs.InvalidConfiguration("interval", "must be positive and finite, got %v", o.Interval)
	}
	if !(o.Tolerance >= 0) || math.IsInf(o.Tolerance, 0) {
		return errs.InvalidConfiguration("tolerance", "must be non-negative and finite, got %v", o.Tolerance)
	}
	if o.Workers < 0 {
		return errs.InvalidConfiguration("workers", "must not be negative, got %d", o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Levels returns the strictly increasing level set for g.
//
// Explicit levels are sorted and de-duplicated. Otherwise the levels are the
// multiples of Interval from floor(min/Interval) to ceil(max/Interval) over the
// non-missing samples; a grid with no samples yields no levels.
func Levels(g grid.Adapter, opts Options) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Levels) > 0 {
		levels := append([]float64(nil), opts.Levels...)
		sort.Float64s(levels)
		out := levels[:1]
		for _, l := range levels[1:] {
			if l != out[len(out)-1] {
				out = append(out, l)
			}
		}
		return out, nil
	}

	ni, nj := g.Dims()
	present := make([]float64, 0, ni*nj)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			if v := g.Value(i, j); !math.IsNaN(v) {
				present = append(present, v)
			}
		}
	}
	if len(present) == 0 {
		return nil, nil
	}
	lo := math.Floor(floats.Min(present) / opts.Interval)
	hi := math.Ceil(floats.Max(present) / opts.Interval)
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errs.InvalidConfiguration("interval", "interval %v overflows over [%v, %v]",
			opts.Interval, floats.Min(present), floats.Max(present))
	}
	if n := hi - lo + 1; n > MaxLevels {
		return nil, errs.InvalidConfiguration("interval", "interval %v yields %.0f levels over [%v, %v], at most %d allowed",
			opts.Interval, n, floats.Min(present), floats.Max(present), MaxLevels)
	}
	n := int(hi - lo)
	levels := make([]float64, 0, n+1)
	for m := 0; m <= n; m++ {
		l := (lo + float64(m)) * opts.Interval
		if len(levels) > 0 && l <= levels[len(levels)-1] {
			return nil, errs.InvalidConfiguration("interval", "interval %v is too fine to separate levels near %v",
				opts.Interval, l)
		}
		levels = append(levels, l)
	}
	return levels, nil
}
