// Package pipeline runs one channel through an ordered chain of whole-buffer
// stages. Each stage may change the sample rate; the pipeline tracks the
// rate, checks for cancellation between stages and records a trace of every
// stage that ran.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Stage is one transform in the chain. K identifies the stage to callers.
type Stage[K fmt.Stringer] struct {
	Key K

	// Rate is the sample rate the stage produces. Zero keeps the input rate.
	Rate float64

	Run func(x []float64) ([]float64, error)
}

// Error reports the stage that failed.
type Error[K fmt.Stringer] struct {
	Stage K
	Err   error
}

func (e *Error[K]) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *Error[K]) Unwrap() error { return e.Err }

// Trace records one completed stage.
type Trace[K fmt.Stringer] struct {
	Stage   K
	Samples int
	Rate    float64
	Elapsed time.Duration
}

// Result is a fully processed buffer.
type Result[K fmt.Stringer] struct {
	Samples []float64
	Rate    float64
	Trace   []Trace[K]
}

// Pipeline is an ordered list of stages. It holds no buffers and may be run
// concurrently on different inputs as long as the stage functions allow it.
type Pipeline[K fmt.Stringer] struct {
	stages []Stage[K]
	logger *slog.Logger
}

// New builds a pipeline. A nil logger discards.
func New[K fmt.Stringer](logger *slog.Logger, stages ...Stage[K]) *Pipeline[K] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline[K]{stages: stages, logger: logger}
}

// Len returns the number of stages.
func (p *Pipeline[K]) Len() int { return len(p.stages) }

// Keys returns the stage keys in run order.
func (p *Pipeline[K]) Keys() []K {
	keys := make([]K, len(p.stages))
	for i, s := range p.stages {
		keys[i] = s.Key
	}
	return keys
}

// Run feeds x, sampled at rate, through every stage in order. A cancelled
// context stops the chain before the next stage and is reported against it.
func (p *Pipeline[K]) Run(ctx context.Context, x []float64, rate float64) (Result[K], error) {
	res := Result[K]{Samples: x, Rate: rate, Trace: make([]Trace[K], 0, len(p.stages))}

	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return Result[K]{}, &Error[K]{Stage: s.Key, Err: err}
		}

		start := time.Now()
		p.logger.Debug("stage started", "stage", s.Key.String(), "samples", len(res.Samples), "rate", res.Rate)

		out, err := s.Run(res.Samples)
		if err != nil {
			return Result[K]{}, &Error[K]{Stage: s.Key, Err: err}
		}
		if s.Rate > 0 {
			res.Rate = s.Rate
		}
		res.Samples = out

		t := Trace[K]{Stage: s.Key, Samples: len(out), Rate: res.Rate, Elapsed: time.Since(start)}
		res.Trace = append(res.Trace, t)
		p.logger.Debug("stage finished", "stage", s.Key.String(), "samples", t.Samples, "rate", t.Rate, "elapsed", t.Elapsed)
	}
	return res, nil
}
