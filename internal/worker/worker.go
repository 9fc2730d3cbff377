// Package worker runs the geometry builders off the caller's goroutine.
//
// Each builder is an independent job. A job's result or error crosses back
// to the caller as a msgpack envelope, so callers only ever see values that
// survived serialisation, never memory shared with a job. Jobs are not
// interruptible: when the context is cancelled, finished results are
// discarded and the context error is returned.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"isomap/internal/contour"
	"isomap/internal/errs"
	"isomap/internal/grid"
	"isomap/internal/label"
	"isomap/internal/logging"
	"isomap/internal/tessellate"
	"isomap/internal/thin"
	"isomap/internal/vertex"
)

// Batch describes the jobs to run. A nil option pointer skips its job.
type Batch struct {
	// Contours feed the label and line jobs.
	Contours contour.Set
	Labels   *label.Options
	// LineZoom enables line tessellation, stamping each line with the zoom.
	LineZoom *float32

	// Grid feeds the billboard and mesh jobs.
	Grid       grid.Adapter
	Billboards *thin.Options
	Mesh       *thin.MeshOptions
}

// Output holds the results of the jobs that ran.
type Output struct {
	Placement  *label.Placement
	Lines      *vertex.Lines
	Billboards *vertex.Billboards
	Mesh       *vertex.Mesh
}

// Pool runs batches. The zero value runs every job of a batch at once.
type Pool struct {
	// Limit bounds concurrently running jobs; zero or less means no limit.
	Limit int
}

type envelope struct {
	Job     string      `msgpack:"job"`
	Payload []byte      `msgpack:"payload,omitempty"`
	Err     *errs.Error `msgpack:"err,omitempty"`
}

type job struct {
	name string
	run  func() (any, error)
	// decode fills the output from a payload.
	decode func(payload []byte, out *Output) error
}

// Build runs the jobs of b and waits for all of them. The first failing job's
// error is returned, wrapped with the job name.
func (p Pool) Build(ctx context.Context, b Batch) (*Output, error) {
	jobs, err := plan(b)
	if err != nil {
		return nil, err
	}

	envelopes := make([][]byte, len(jobs))
	eg, gctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		eg.SetLimit(p.Limit)
	}
	for k, j := range jobs {
		eg.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			start := time.Now()
			raw, err := seal(j.name, j.run)
			if err != nil {
				return fmt.Errorf("worker: %s: %w", j.name, err)
			}
			envelopes[k] = raw
			logging.Logger().Debug("job finished", "job", j.name, "bytes", len(raw), "elapsed", time.Since(start))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Output{}
	for k, j := range jobs {
		var env envelope
		if err := msgpack.Unmarshal(envelopes[k], &env); err != nil {
			return nil, fmt.Errorf("worker: %s: decode envelope: %w", j.name, err)
		}
		if env.Err != nil {
			return nil, fmt.Errorf("worker: %s: %w", j.name, env.Err)
		}
		if err := j.decode(env.Payload, out); err != nil {
			return nil, fmt.Errorf("worker: %s: decode result: %w", j.name, err)
		}
	}
	return out, nil
}

// seal runs fn and packs its result or failure. Only encoding failures are
// returned directly.
func seal(name string, fn func() (any, error)) ([]byte, error) {
	env := envelope{Job: name}
	v, err := fn()
	if err != nil {
		env.Err = asError(err)
	} else if env.Payload, err = msgpack.Marshal(v); err != nil {
		return nil, err
	}
	return msgpack.Marshal(&env)
}

func asError(err error) *errs.Error {
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return &errs.Error{Kind: errs.KindUnknown, Msg: err.Error()}
}

func decodeInto[T any](payload []byte, set func(*T)) error {
	v := new(T)
	if err := msgpack.Unmarshal(payload, v); err != nil {
		return err
	}
	set(v)
	return nil
}

func plan(b Batch) ([]job, error) {
	var jobs []job
	if b.Labels != nil {
		opts := *b.Labels
		jobs = append(jobs, job{
			name: "labels",
			run:  func() (any, error) { return label.Place(b.Contours, opts) },
			decode: func(p []byte, out *Output) error {
				return decodeInto(p, func(v *label.Placement) { out.Placement = v })
			},
		})
	}
	if b.LineZoom != nil {
		zoom := *b.LineZoom
		jobs = append(jobs, job{
			name: "lines",
			run:  func() (any, error) { return tessellate.Lines(tessellate.FromContours(b.Contours, zoom)) },
			decode: func(p []byte, out *Output) error {
				return decodeInto(p, func(v *vertex.Lines) { out.Lines = v })
			},
		})
	}
	if (b.Billboards != nil || b.Mesh != nil) && b.Grid == nil {
		return nil, errs.InvalidConfiguration("grid", "billboard and mesh jobs need a grid")
	}
	if b.Billboards != nil {
		opts := *b.Billboards
		jobs = append(jobs, job{
			name: "billboards",
			run:  func() (any, error) { return thin.Billboards(b.Grid, opts) },
			decode: func(p []byte, out *Output) error {
				return decodeInto(p, func(v *vertex.Billboards) { out.Billboards = v })
			},
		})
	}
	if b.Mesh != nil {
		opts := *b.Mesh
		jobs = append(jobs, job{
			name: "mesh",
			run:  func() (any, error) { return thin.Mesh(b.Grid, opts) },
			decode: func(p []byte, out *Output) error {
				return decodeInto(p, func(v *vertex.Mesh) { out.Mesh = v })
			},
		})
	}
	return jobs, nil
}
