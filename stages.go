package pitcher

import (
	"fmt"

	"github.com/tphakala/go-pitcher/internal/engine"
	"github.com/tphakala/go-pitcher/internal/hold"
	"github.com/tphakala/go-pitcher/internal/pipeline"
	"github.com/tphakala/go-pitcher/internal/pitch"
	"github.com/tphakala/go-pitcher/internal/quantize"
)

// Stage identifies a step of the signal path.
type Stage int

// Stages in run order.
const (
	StageInputFilter Stage = iota
	StageDeviceResample
	StageQuantize
	StagePitch
	StageTimeStretch
	StageHold
	StageOutputResample
	StageOutputFilter
	StageRecombine
	StageNormalize
)

func (s Stage) String() string {
	switch s {
	case StageInputFilter:
		return "input-filter"
	case StageDeviceResample:
		return "device-resample"
	case StageQuantize:
		return "quantize"
	case StagePitch:
		return "pitch"
	case StageTimeStretch:
		return "time-stretch"
	case StageHold:
		return "hold"
	case StageOutputResample:
		return "output-resample"
	case StageOutputFilter:
		return "output-filter"
	case StageRecombine:
		return "recombine"
	case StageNormalize:
		return "normalize"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageTrace records one completed stage of a channel.
type StageTrace = pipeline.Trace[Stage]

type stage = pipeline.Stage[Stage]

// chain builds the stage list for one channel. The pitch and time-stretch
// stages share the device-rate length through the closure, so every call
// returns a fresh chain.
func (p *Processor) chain() *pipeline.Pipeline[Stage] {
	deviceRate := float64(p.cfg.Device.SampleRate())
	var deviceLen int

	stages := make([]stage, 0, int(StageRecombine))

	if p.cfg.InputFilter {
		stages = append(stages, stage{Key: StageInputFilter, Run: func(x []float64) ([]float64, error) {
			return p.inputFilter.Apply(x), nil
		}})
	}

	stages = append(stages, stage{Key: StageDeviceResample, Rate: deviceRate, Run: p.resampleToDevice})

	if p.cfg.Quantize {
		stages = append(stages, stage{Key: StageQuantize, Run: func(x []float64) ([]float64, error) {
			return quantize.Quantize(x, p.levels), nil
		}})
	}

	stages = append(stages, stage{Key: StagePitch, Run: func(x []float64) ([]float64, error) {
		deviceLen = len(x)
		return p.shift(x)
	}})

	if p.cfg.TimeStretch != StretchNative {
		stages = append(stages, stage{Key: StageTimeStretch, Run: func(x []float64) ([]float64, error) {
			return p.stretch(x, deviceLen)
		}})
	}

	stages = append(stages,
		stage{Key: StageHold, Rate: deviceRate * HoldMultiplier, Run: func(x []float64) ([]float64, error) {
			return hold.Repeat(x, HoldMultiplier)
		}},
		stage{Key: StageOutputResample, Rate: OutputRate, Run: func(x []float64) ([]float64, error) {
			return p.outputResampler.Process(x), nil
		}},
	)

	if p.cfg.OutputFilter {
		stages = append(stages, stage{Key: StageOutputFilter, Run: func(x []float64) ([]float64, error) {
			return p.outputFilter.Apply(x), nil
		}})
	}

	return pipeline.New(p.logger, stages...)
}

// resampleToDevice converts from InputRate to the device rate, through an
// intermediate rate of ResampleFactor times the device rate.
func (p *Processor) resampleToDevice(x []float64) ([]float64, error) {
	if p.cfg.ResampleMethod == ResampleTwoStep {
		return engine.TwoStep(x, InputRate, float64(p.cfg.Device.SampleRate()), ResampleFactor)
	}
	return p.decimator.Process(p.upsampler.Process(x)), nil
}

func (p *Processor) shift(x []float64) ([]float64, error) {
	var (
		res pitch.Result
		err error
	)
	if p.cfg.PitchMethod == PitchSpectral {
		res, err = pitch.ShiftSpectral(x, p.cfg.Semitones)
	} else {
		res, err = pitch.Shift(x, p.cfg.Semitones)
	}
	if err != nil {
		return nil, err
	}
	if len(res.Samples) == 0 {
		return nil, fmt.Errorf("%w: %d samples pitched by %d semitones", ErrEmptyInput, len(x), p.cfg.Semitones)
	}
	return res.Samples, nil
}

// stretch restores the pre-pitch length n and, in custom mode, applies the
// configured factor on top.
func (p *Processor) stretch(x []float64, n int) ([]float64, error) {
	y, err := pitch.Stretch(x, float64(len(x))/float64(n))
	if err != nil {
		return nil, err
	}
	if p.cfg.TimeStretch != StretchCustom || p.cfg.StretchFactor == 1 {
		return y, nil
	}
	p.logger.Debug("custom time stretch", "factor", p.cfg.StretchFactor)
	if y, err = pitch.Stretch(y, p.cfg.StretchFactor); err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("%w: %d samples stretched by %g", ErrEmptyInput, len(x), p.cfg.StretchFactor)
	}
	return y, nil
}
