package pitcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/tphakala/go-pitcher/internal/engine"
	"github.com/tphakala/go-pitcher/internal/filter"
	"github.com/tphakala/go-pitcher/internal/pipeline"
	"github.com/tphakala/go-pitcher/internal/quantize"
	"github.com/tphakala/go-pitcher/internal/tuning"
)

// Audio is planar audio: one slice per channel at SampleRate.
type Audio struct {
	Channels   [][]float64
	SampleRate int
}

// Output is a rendered buffer at OutputRate.
type Output struct {
	Channels   [][]float64
	SampleRate int

	// Warnings holds ErrNumericDegradation and ErrChannelLengthMismatch
	// occurrences. A run with warnings still succeeded.
	Warnings []error

	// Trace lists the stages each channel passed through.
	Trace [][]StageTrace
}

// Processor renders audio through the emulated signal path. Filters,
// quantizer levels and resamplers are designed once by New. A Processor
// is safe for concurrent use.
type Processor struct {
	cfg    Config
	logger *slog.Logger

	inputFilter  filter.Cascade
	outputFilter filter.Filter
	levels       *quantize.LevelSet

	upsampler       *engine.Resampler
	decimator       *engine.Resampler
	outputResampler *engine.Resampler

	ratio    float64
	degraded bool
}

// New validates cfg and designs every filter the configuration needs.
// Configuration errors wrap ErrInvalidConfig.
func New(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Processor{cfg: cfg, logger: logger}
	p.ratio, p.degraded = tuning.Ratio(cfg.Semitones)

	deviceRate := cfg.Device.SampleRate()
	var err error

	if cfg.InputFilter {
		if p.inputFilter, err = filter.InputAntiAlias(); err != nil {
			return nil, fmt.Errorf("%w: input filter: %w", ErrInvalidConfig, err)
		}
	}

	if cfg.Quantize {
		if p.levels, err = quantize.NewLevelSet(cfg.QuantizeBits, quantize.DefaultAmplitude, cfg.Alignment); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if cfg.ResampleMethod == ResampleDirect {
		if p.upsampler, err = engine.NewResampler(InputRate, deviceRate*ResampleFactor, cfg.Quality); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if p.decimator, err = engine.NewResampler(deviceRate*ResampleFactor, deviceRate, cfg.Quality); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if p.outputResampler, err = engine.NewResampler(deviceRate*HoldMultiplier, OutputRate, cfg.Quality); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if cfg.OutputFilter {
		if p.outputFilter, err = newOutputFilter(cfg); err != nil {
			return nil, fmt.Errorf("%w: %s filter: %w", ErrInvalidConfig, cfg.Curve, err)
		}
	}

	logger.Info("processor ready",
		"device", cfg.Device.String(),
		"device_rate", deviceRate,
		"semitones", cfg.Semitones,
		"ratio", p.ratio,
		"pitch_method", cfg.PitchMethod.String(),
		"resample_method", cfg.ResampleMethod.String(),
		"time_stretch", cfg.TimeStretch.String(),
		"output_filter", cfg.OutputFilter,
		"curve", cfg.Curve.String())
	if p.degraded && cfg.PitchMethod == PitchNative {
		logger.Warn("semitone offset beyond tuning table, ratio extrapolated",
			"semitones", cfg.Semitones, "min_tabulated", tuning.MinTabulated, "ratio", p.ratio)
	}
	return p, nil
}

func newOutputFilter(cfg Config) (filter.Filter, error) {
	switch cfg.Curve {
	case CurveShelf:
		return filter.Shelf(OutputRate)
	case CurveButterworth:
		return filter.Butterworth(OutputRate)
	case CurveVCF:
		return filter.NewLadder(OutputRate, cfg.VCFCutoff,
			filter.WithResonance(cfg.VCFResonance), filter.WithDrive(cfg.VCFDrive))
	default:
		return nil, fmt.Errorf("unknown curve %d", int(cfg.Curve))
	}
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config { return p.cfg }

// Ratio returns the tuning ratio applied by the native pitch method and
// whether it was extrapolated.
func (p *Processor) Ratio() (float64, bool) { return p.ratio, p.degraded }

// ProcessMono renders one channel sampled at InputRate.
func (p *Processor) ProcessMono(ctx context.Context, x []float64) (Output, error) {
	res, err := p.runChannel(ctx, x)
	if err != nil {
		return Output{}, err
	}

	out := Output{
		Channels:   [][]float64{res.Samples},
		SampleRate: OutputRate,
		Warnings:   p.warnings(),
		Trace:      [][]StageTrace{res.Trace},
	}
	if err := p.finish(ctx, &out); err != nil {
		return Output{}, err
	}
	return out, nil
}

// ProcessStereo renders a channel pair sampled at InputRate. The channels
// run through independent chains, concurrently when Config.Parallel is set.
// Chains that end at different lengths are trimmed to the shorter one and
// the trim is reported as ErrChannelLengthMismatch.
func (p *Processor) ProcessStereo(ctx context.Context, left, right []float64) (Output, error) {
	inputs := [stereoChannels][]float64{left, right}
	var results [stereoChannels]pipeline.Result[Stage]
	var errs [stereoChannels]error

	if p.cfg.Parallel {
		var wg sync.WaitGroup
		for ch := range inputs {
			wg.Add(1)
			go func(channel int) {
				defer wg.Done()
				results[channel], errs[channel] = p.runChannel(ctx, inputs[channel])
			}(ch)
		}
		wg.Wait()
	} else {
		for ch := range inputs {
			if results[ch], errs[ch] = p.runChannel(ctx, inputs[ch]); errs[ch] != nil {
				break
			}
		}
	}
	if err := firstError(errs[:]); err != nil {
		return Output{}, err
	}

	out := Output{
		SampleRate: OutputRate,
		Warnings:   p.warnings(),
		Trace:      [][]StageTrace{results[0].Trace, results[1].Trace},
	}

	l, r := results[0].Samples, results[1].Samples
	if len(l) != len(r) {
		n := min(len(l), len(r))
		warn := fmt.Errorf("%w: left %d, right %d samples, trimmed to %d", ErrChannelLengthMismatch, len(l), len(r), n)
		p.logger.Warn("channel lengths differ, trimming to the shorter", "stage", StageRecombine.String(),
			"left", len(l), "right", len(r), "samples", n)
		out.Warnings = append(out.Warnings, warn)
		l, r = l[:n], r[:n]
	}
	out.Channels = [][]float64{l, r}

	if err := p.finish(ctx, &out); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Process dispatches on the channel count of in, which must be sampled at
// InputRate. With Config.Mono set, stereo input is averaged to one channel
// first.
func (p *Processor) Process(ctx context.Context, in Audio) (Output, error) {
	if in.SampleRate != InputRate {
		return Output{}, &PipelineError{
			Stage: StageInputFilter,
			Err:   fmt.Errorf("%w: got %d Hz, want %d Hz", ErrSampleRate, in.SampleRate, InputRate),
		}
	}

	switch len(in.Channels) {
	case monoChannels:
		return p.ProcessMono(ctx, in.Channels[0])
	case stereoChannels:
		if p.cfg.Mono {
			mono, err := Downmix(in.Channels)
			if err != nil {
				return Output{}, &PipelineError{Stage: StageInputFilter, Err: err}
			}
			return p.ProcessMono(ctx, mono)
		}
		return p.ProcessStereo(ctx, in.Channels[0], in.Channels[1])
	default:
		return Output{}, &PipelineError{
			Stage: StageInputFilter,
			Err:   fmt.Errorf("%w: %d channels, want 1 or 2", ErrChannelLayout, len(in.Channels)),
		}
	}
}

func (p *Processor) runChannel(ctx context.Context, x []float64) (pipeline.Result[Stage], error) {
	if len(x) == 0 {
		return pipeline.Result[Stage]{}, &PipelineError{Stage: StageInputFilter, Err: ErrEmptyInput}
	}
	if i := slices.IndexFunc(x, notFinite); i >= 0 {
		return pipeline.Result[Stage]{}, &PipelineError{
			Stage: StageInputFilter,
			Err:   fmt.Errorf("%w: sample %d is %v", ErrMalformedInput, i, x[i]),
		}
	}

	res, err := p.chain().Run(ctx, x, InputRate)
	if err != nil {
		var se *pipeline.Error[Stage]
		if errors.As(err, &se) {
			p.logger.Error("stage failed", "stage", se.Stage.String(), "error", se.Err)
			return pipeline.Result[Stage]{}, &PipelineError{Stage: se.Stage, Err: se.Err}
		}
		return pipeline.Result[Stage]{}, err
	}
	p.logger.Info("channel rendered", "samples_in", len(x), "samples_out", len(res.Samples), "rate", res.Rate)
	return res, nil
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// finish applies the steps that follow recombination.
func (p *Processor) finish(ctx context.Context, out *Output) error {
	if !p.cfg.Normalize {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &PipelineError{Stage: StageNormalize, Err: err}
	}
	for i, ch := range out.Channels {
		out.Channels[i] = Normalize(ch)
	}
	p.logger.Debug("normalized output", "channels", len(out.Channels))
	return nil
}

func (p *Processor) warnings() []error {
	if !p.degraded || p.cfg.PitchMethod != PitchNative {
		return nil
	}
	return []error{fmt.Errorf("%w: %d semitones, ratio %.6f", ErrNumericDegradation, p.cfg.Semitones, p.ratio)}
}

// firstError returns the first non-nil error. runChannel has already
// wrapped it in a PipelineError.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
