package filter

import (
	"errors"
	"fmt"
	"math"
)

// Ladder defaults.
const (
	DefaultLadderCutoff    = 10000.0
	DefaultLadderResonance = 0.1
	DefaultLadderDrive     = 1.0

	maxLadderResonance = 4.0
	maxLadderDrive     = 10.0

	// thermalVoltage is the transistor thermal voltage of the Huovilainen model.
	thermalVoltage = 0.312
	ladderStateCap = 4.0
)

// ErrInvalidLadder is returned for out-of-range ladder parameters.
var ErrInvalidLadder = errors.New("invalid ladder filter parameters")

// LadderOption configures a Ladder.
type LadderOption func(*Ladder) error

// WithResonance sets the feedback amount, 0 (none) to 4 (self-oscillation).
func WithResonance(r float64) LadderOption {
	return func(l *Ladder) error {
		if math.IsNaN(r) || r < 0 || r > maxLadderResonance {
			return fmt.Errorf("%w: resonance %g outside [0, %g]", ErrInvalidLadder, r, maxLadderResonance)
		}
		l.resonance = r
		return nil
	}
}

// WithDrive sets the input drive into the tanh stages.
func WithDrive(d float64) LadderOption {
	return func(l *Ladder) error {
		if math.IsNaN(d) || d <= 0 || d > maxLadderDrive {
			return fmt.Errorf("%w: drive %g outside (0, %g]", ErrInvalidLadder, d, maxLadderDrive)
		}
		l.drive = d
		return nil
	}
}

// Ladder is a four-pole transistor ladder low-pass (Huovilainen's nonlinear
// model), the resonant "VCF" output voicing. Apply is stateless across calls.
type Ladder struct {
	sampleRate float64
	cutoff     float64
	resonance  float64
	drive      float64

	g        float64
	feedback float64
	shape    float64
}

// NewLadder builds a ladder for the given sample rate and cutoff in Hz.
func NewLadder(sampleRate, cutoff float64, opts ...LadderOption) (*Ladder, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate %g", ErrInvalidLadder, sampleRate)
	}
	if !(cutoff > 0 && cutoff < sampleRate/2) {
		return nil, fmt.Errorf("%w: cutoff %g Hz must be in (0, %g)", ErrInvalidLadder, cutoff, sampleRate/2)
	}

	l := &Ladder{
		sampleRate: sampleRate,
		cutoff:     cutoff,
		resonance:  DefaultLadderResonance,
		drive:      DefaultLadderDrive,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	fc := cutoff / sampleRate
	// Polynomial fits that keep the tuned cutoff and resonance close to the
	// requested values across the band.
	fcr := max(1.8730*fc*fc*fc+0.4955*fc*fc-0.6490*fc+0.9988, 0)
	resComp := max(-3.9364*fc*fc+1.8409*fc+0.9968, 0)

	l.g = 2 * thermalVoltage * (1 - math.Exp(-2*math.Pi*fcr*fc))
	l.feedback = l.resonance * resComp
	l.shape = l.drive / (2 * thermalVoltage)

	return l, nil
}

// Cutoff returns the configured cutoff in Hz.
func (l *Ladder) Cutoff() float64 { return l.cutoff }

// Apply filters x from a cleared state. The output is scaled by 1+feedback
// so small signals keep unity gain at DC.
func (l *Ladder) Apply(x []float64) []float64 {
	var stage, tanhStage [4]float64
	var prev float64

	y := make([]float64, len(x))
	makeup := 1 + l.feedback

	for i, in := range x {
		fb := 0.5 * (stage[3] + prev)
		t0 := math.Tanh(l.shape * (in - l.feedback*fb))

		prevStage := stage
		stage[0] = clampState(stage[0] + l.g*(t0-math.Tanh(l.shape*prevStage[0])))
		tanhStage[0] = math.Tanh(l.shape * stage[0])
		for s := 1; s < 4; s++ {
			stage[s] = clampState(stage[s] + l.g*(tanhStage[s-1]-math.Tanh(l.shape*prevStage[s])))
			tanhStage[s] = math.Tanh(l.shape * stage[s])
		}

		prev = stage[3]
		out := stage[3] * makeup
		if math.IsNaN(out) || math.IsInf(out, 0) {
			out = 0
		}
		y[i] = out
	}
	return y
}

func clampState(v float64) float64 {
	return min(max(v, -ladderStateCap), ladderStateCap)
}
