package pitcher

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Normalize scales x so its largest magnitude is 1. Silence and empty
// buffers are returned as copies.
func Normalize(x []float64) []float64 {
	out := slices.Clone(x)
	if len(x) == 0 {
		return out
	}
	peak := math.Max(floats.Max(x), -floats.Min(x))
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return out
	}
	f64.Scale(out, x, 1/peak)
	return out
}

// Downmix averages equal-length channels into one.
func Downmix(channels [][]float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, ErrEmptyInput
	}
	out := slices.Clone(channels[0])
	for i, ch := range channels[1:] {
		if len(ch) != len(out) {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrChannelLengthMismatch, i+1, len(ch), len(out))
		}
		floats.Add(out, ch)
	}
	floats.Scale(1/float64(len(channels)), out)
	return out, nil
}

// Rendering is one output of RenderMany.
type Rendering struct {
	Curve  Curve
	Output Output
}

// RenderMany renders in once per output curve. The path up to the output
// filter depends only on base, so it runs a single time and each curve is
// applied to a copy of its result. base.OutputFilter is ignored; with no
// curves given, every curve is rendered.
func RenderMany(ctx context.Context, base Config, in Audio, curves ...Curve) ([]Rendering, error) {
	if len(curves) == 0 {
		curves = Curves
	}

	shared := base
	shared.OutputFilter = false
	shared.Normalize = false
	p, err := New(shared)
	if err != nil {
		return nil, err
	}

	// Filters are designed up front so a bad curve fails before rendering.
	filters := make([]*Processor, len(curves))
	for i, c := range curves {
		cfg := base
		cfg.Curve = c
		cfg.OutputFilter = true
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		f, err := newOutputFilter(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s filter: %w", ErrInvalidConfig, c, err)
		}
		filters[i] = &Processor{cfg: cfg, logger: p.logger, outputFilter: f}
	}

	raw, err := p.Process(ctx, in)
	if err != nil {
		return nil, err
	}

	out := make([]Rendering, 0, len(curves))
	for i, c := range curves {
		if err := ctx.Err(); err != nil {
			return nil, &PipelineError{Stage: StageOutputFilter, Err: err}
		}
		fp := filters[i]
		r := Output{
			Channels:   make([][]float64, len(raw.Channels)),
			SampleRate: raw.SampleRate,
			Warnings:   slices.Clone(raw.Warnings),
			Trace:      raw.Trace,
		}
		for ch, x := range raw.Channels {
			r.Channels[ch] = fp.outputFilter.Apply(x)
		}
		if err := fp.finish(ctx, &r); err != nil {
			return nil, err
		}
		p.logger.Info("rendered curve", "curve", c.String(), "channels", len(r.Channels))
		out = append(out, Rendering{Curve: c, Output: r})
	}
	return out, nil
}
