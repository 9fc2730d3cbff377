// Package label places numeric labels along contour lines and assigns each a
// minimum zoom so that labels thin out evenly as the map zooms out.
//
// Placement runs in two phases. Candidates are emitted at a fixed arc-length
// spacing in web-mercator space and are never modified afterwards; thinning
// then fills a separate MinZoom slice by sampling an auxiliary grid over the
// candidates' bounding box at doubling strides, one stride per zoom tier, and
// promoting the candidate nearest each sample.
package label

import (
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gonum.org/v1/gonum/floats"

	"isomap/internal/contour"
	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/logging"
	"isomap/internal/spatial"
)

// Options configures Place.
type Options struct {
	// SpacingAtMaxZoom is the arc length between labels on one line, in
	// normalised web-mercator units.
	SpacingAtMaxZoom float64
	// MaxZoom is the deepest zoom; every candidate is visible there.
	MaxZoom int
	// Decimals fixes the fraction digits of the label text; -1 prints the
	// shortest form.
	Decimals int
	// Locale selects digit and separator conventions.
	Locale language.Tag
	// Index builds the nearest-neighbour index used for thinning. Nil means a
	// KDTree.
	Index func() spatial.Index
}

// DefaultOptions returns the spacing the map uses for maxZoom:
// 0.01 * 2^(7-maxZoom).
func DefaultOptions(maxZoom int) Options {
	return Options{
		SpacingAtMaxZoom: 0.01 * math.Pow(2, float64(7-maxZoom)),
		MaxZoom:          maxZoom,
		Decimals:         -1,
		Locale:           language.English,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if !(o.SpacingAtMaxZoom > 0) || math.IsInf(o.SpacingAtMaxZoom, 0) {
		return errs.InvalidConfiguration("spacing", "must be positive and finite, got %v", o.SpacingAtMaxZoom)
	}
	if o.MaxZoom < 0 {
		return errs.InvalidConfiguration("max-zoom", "must not be negative, got %d", o.MaxZoom)
	}
	if o.Decimals < -1 {
		return errs.InvalidConfiguration("decimals", "must be -1 or more, got %d", o.Decimals)
	}
	return nil
}

// Candidate is a label position on a contour line.
type Candidate struct {
	ID       int       `msgpack:"id"`
	Level    float64   `msgpack:"level"`
	Position orb.Point `msgpack:"pos"`
	Text     string    `msgpack:"text"`
}

// Label is a candidate frozen together with its minimum zoom.
type Label struct {
	Position orb.Point
	Text     string
	MinZoom  int
}

// Placement is the result of Place. MinZoom[k] belongs to Candidates[k].
type Placement struct {
	Candidates []Candidate `msgpack:"candidates"`
	MinZoom    []int       `msgpack:"min_zoom"`
}

// Len returns the number of candidates.
func (p *Placement) Len() int { return len(p.Candidates) }

// Labels returns every candidate with its minimum zoom.
func (p *Placement) Labels() []Label {
	out := make([]Label, len(p.Candidates))
	for k, c := range p.Candidates {
		out[k] = Label{Position: c.Position, Text: c.Text, MinZoom: p.MinZoom[k]}
	}
	return out
}

// Visible returns the labels shown at zoom.
func (p *Placement) Visible(zoom int) []Label {
	var out []Label
	for k, c := range p.Candidates {
		if p.MinZoom[k] <= zoom {
			out = append(out, Label{Position: c.Position, Text: c.Text, MinZoom: p.MinZoom[k]})
		}
	}
	return out
}

// Place emits label candidates along every line of set and thins them.
// Identical inputs always produce identical placements.
func Place(set contour.Set, opts Options) (*Placement, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, errs.EmptyLevelSet()
	}
	start := time.Now()

	contours := make(contour.Set, len(set))
	copy(contours, set)
	sort.SliceStable(contours, func(a, b int) bool { return contours[a].Level < contours[b].Level })

	f := newFormatter(opts.Locale, opts.Decimals)
	p := &Placement{}
	var merc []orb.Point
	for k, c := range contours {
		offset := math.Mod(float64(k)/2, 1)
		text := f.format(c.Level)
		for _, line := range c.Lines {
			for _, pos := range along(line, opts.SpacingAtMaxZoom, offset) {
				p.Candidates = append(p.Candidates, Candidate{
					ID:       len(p.Candidates),
					Level:    c.Level,
					Position: pos,
					Text:     text,
				})
				merc = append(merc, grid.MercatorCoord(pos))
			}
		}
	}

	p.MinZoom = make([]int, len(p.Candidates))
	for k := range p.MinZoom {
		p.MinZoom[k] = opts.MaxZoom
	}
	if len(merc) > 0 {
		thin(p.MinZoom, merc, opts)
	}
	logging.Logger().Debug("labels placed",
		"levels", len(contours),
		"candidates", len(p.Candidates),
		"elapsed", time.Since(start))
	return p, nil
}

// along returns the geographic positions at arc lengths spacing*(n+offset),
// n = 0, 1, ..., measured in web-mercator space.
func along(line orb.LineString, spacing, offset float64) []orb.Point {
	if len(line) < 2 {
		return nil
	}
	seg := make([]float64, len(line))
	prev := grid.MercatorCoord(line[0])
	for k := 1; k < len(line); k++ {
		m := grid.MercatorCoord(line[k])
		seg[k] = math.Hypot(m[0]-prev[0], m[1]-prev[1])
		prev = m
	}
	dist := floats.CumSum(make([]float64, len(seg)), seg)

	var out []orb.Point
	n := 0
	for k := 1; k < len(line); k++ {
		for target := spacing * (float64(n) + offset); target < dist[k]; target = spacing * (float64(n) + offset) {
			alpha := (target - dist[k-1]) / (dist[k] - dist[k-1])
			a, b := line[k-1], line[k]
			out = append(out, orb.Point{(1-alpha)*a[0] + alpha*b[0], (1-alpha)*a[1] + alpha*b[1]})
			n++
		}
	}
	return out
}

// thin lowers minZoom for the candidate nearest each auxiliary grid sample,
// from MaxZoom-1 down to 0 with the sampling stride doubling per tier.
func thin(minZoom []int, merc []orb.Point, opts Options) {
	var idx spatial.Index
	if opts.Index != nil {
		idx = opts.Index()
	} else {
		idx = spatial.NewKDTree()
	}
	idx.Insert(merc...)

	b := orb.MultiPoint(merc).Bound()
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	ni := max(1, int(math.Round(4*w/opts.SpacingAtMaxZoom)))
	nj := max(1, int(math.Round(4*h/opts.SpacingAtMaxZoom)))

	stride := 1
	for z := opts.MaxZoom - 1; z >= 0; z-- {
		if stride >= max(ni, nj) {
			// Only sample (0, 0) is left at this and every coarser tier, and
			// tier 0 wins.
			nb := idx.Nearest(b.Min, 1)
			minZoom[nb[0].ID] = 0
			break
		}
		for i := 0; i < ni; i += stride {
			x := b.Min[0] + float64(i)/float64(ni)*w
			for j := 0; j < nj; j += stride {
				y := b.Min[1] + float64(j)/float64(nj)*h
				nb := idx.Nearest(orb.Point{x, y}, 1)
				if id := nb[0].ID; minZoom[id] > z {
					minZoom[id] = z
				}
			}
		}
		stride *= 2
	}
}

// shortestDigits bounds the fraction digits of shortest-form labels, enough
// to hide float noise in generated levels such as 3*0.1.
const shortestDigits = 6

type formatter struct {
	p        *message.Printer
	decimals int
}

func newFormatter(tag language.Tag, decimals int) formatter {
	return formatter{p: message.NewPrinter(tag), decimals: decimals}
}

func (f formatter) format(v float64) string {
	if f.decimals < 0 {
		return f.p.Sprint(number.Decimal(v, number.NoSeparator(), number.MaxFractionDigits(shortestDigits)))
	}
	return f.p.Sprint(number.Decimal(v, number.NoSeparator(), number.Scale(f.decimals)))
}
