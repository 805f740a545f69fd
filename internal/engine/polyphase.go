// Package engine implements the sample-rate converters of the emulated
// signal path: a soxr-style rational polyphase resampler and the spectral
// (FFT resample plus Chebyshev decimation) route.
package engine

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-pitcher/internal/filter"
	"github.com/tphakala/go-pitcher/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// ErrInvalidRate is returned for non-positive or non-integer sample rates
// and for ratios that need more phases than the resampler supports.
var ErrInvalidRate = errors.New("invalid sample rate")

// Quality levels for resampling.
// These follow soxr's quality presets.
type Quality int

const (
	// QualityQuick is an 8-bit design for previews.
	QualityQuick Quality = iota
	// QualityLow provides low quality 16-bit resampling.
	QualityLow
	// QualityMedium provides medium quality 16-bit resampling.
	QualityMedium
	// QualityHigh provides high quality 20-bit resampling (soxr_hq).
	QualityHigh
	// QualityVeryHigh provides very high quality 28-bit resampling.
	QualityVeryHigh
)

// String returns the preset name.
func (q Quality) String() string {
	switch q {
	case QualityQuick:
		return "quick"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	case QualityVeryHigh:
		return "veryhigh"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Attenuation returns the stopband attenuation in dB for the preset.
func (q Quality) Attenuation() float64 {
	switch q {
	case QualityQuick:
		return (bitsQuick + 1) * dbPerBit
	case QualityLow:
		return (bitsLow + 1) * dbPerBit
	case QualityMedium:
		return (bitsMedium + 1) * dbPerBit
	case QualityVeryHigh:
		return (bitsVeryHigh + 1) * dbPerBit
	default:
		return (bitsHigh + 1) * dbPerBit
	}
}

// Passband returns where the passband ends, as a fraction of the narrower
// of the input and output Nyquist frequencies.
func (q Quality) Passband() float64 {
	switch q {
	case QualityQuick, QualityLow:
		return passbandLow
	case QualityMedium:
		return passbandMedium
	case QualityVeryHigh:
		return passbandVeryHigh
	default:
		return passbandHigh
	}
}

// Resampler converts between two integer sample rates by the exact rational
// factor L/M.
//
// Conceptually the input is zero-stuffed by L, filtered by a Kaiser
// windowed-sinc prototype with DC gain L and decimated by M. Only the taps
// that meet non-zero input are evaluated: output sample j uses phase
// (j·M + D) mod L of the prototype, where D is the prototype's group delay,
// so the output is time-aligned with the input.
type Resampler struct {
	inputRate  int
	outputRate int

	up   int // L
	down int // M

	// phases[p] holds prototype taps p, p+L, p+2L, ... reversed, so a
	// forward dot product against the input window applies them.
	phases       [][]float64
	tapsPerPhase int
	delay        int // group delay at the prototype rate
	numTaps      int
}

// NewResampler designs a resampler from inputRate to outputRate.
func NewResampler(inputRate, outputRate int, quality Quality) (*Resampler, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("%w: input=%d, output=%d", ErrInvalidRate, inputRate, outputRate)
	}

	g := gcd(inputRate, outputRate)
	up, down := outputRate/g, inputRate/g
	if up > maxPhases {
		return nil, fmt.Errorf("%w: %d -> %d needs %d phases (max %d)",
			ErrInvalidRate, inputRate, outputRate, up, maxPhases)
	}

	r := &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		up:         up,
		down:       down,
	}
	if up == 1 && down == 1 {
		return r, nil
	}

	if err := r.design(quality); err != nil {
		return nil, err
	}
	return r, nil
}

// design builds the prototype and splits it into L phases.
func (r *Resampler) design(quality Quality) error {
	// Band edges relative to the prototype rate (input rate · L).
	norm := nyquistScale * math.Min(1/float64(r.up), 1/float64(r.down))
	fp := quality.Passband() * norm
	fs := stopbandEdge * norm
	att := quality.Attenuation()

	numTaps := mathutil.EstimateFilterLength(att, fs-fp)
	proto, err := filter.DesignLowPass(filter.LowPassParams{
		NumTaps:     numTaps,
		Cutoff:      (fp + fs) / 2,
		Attenuation: att,
		Gain:        float64(r.up),
	})
	if err != nil {
		return fmt.Errorf("failed to design prototype filter: %w", err)
	}

	tapsPerPhase := (numTaps + r.up - 1) / r.up
	phases := make([][]float64, r.up)
	for p := range phases {
		taps := make([]float64, tapsPerPhase)
		for i := range tapsPerPhase {
			if idx := p + i*r.up; idx < numTaps {
				taps[tapsPerPhase-1-i] = proto[idx]
			}
		}
		phases[p] = taps
	}

	r.phases = phases
	r.tapsPerPhase = tapsPerPhase
	r.delay = (numTaps - 1) / 2
	r.numTaps = numTaps
	return nil
}

// Process resamples a complete signal. The output has round(len·L/M)
// samples and starts aligned with the input; samples outside the input are
// treated as silence.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return []float64{}
	}
	if r.phases == nil {
		return slices.Clone(input)
	}

	outLen := r.OutputLength(len(input))
	k := r.tapsPerPhase

	// Window for output j starts at padded[m], m = (j·M + D) / L, and the
	// largest m any output reaches is bounded by lastPos/L.
	lastPos := int64(outLen-1)*int64(r.down) + int64(r.delay)
	padLen := max(int(lastPos/int64(r.up))+k, len(input)+k-1)
	padded := make([]float64, padLen)
	copy(padded[k-1:], input)

	out := make([]float64, outLen)
	for j := range out {
		pos := int64(j)*int64(r.down) + int64(r.delay)
		m := int(pos / int64(r.up))
		phase := int(pos % int64(r.up))
		out[j] = f64.DotProductUnsafe(r.phases[phase], padded[m:m+k])
	}
	return out
}

// OutputLength returns how many samples Process produces for n inputs.
func (r *Resampler) OutputLength(n int) int {
	return int(math.Round(float64(n) * float64(r.up) / float64(r.down)))
}

// Ratio returns outputRate / inputRate.
func (r *Resampler) Ratio() float64 {
	return float64(r.outputRate) / float64(r.inputRate)
}

// Factors returns the reduced interpolation and decimation factors L and M.
func (r *Resampler) Factors() (up, down int) {
	return r.up, r.down
}

// FilterLength returns the number of prototype taps (0 for a pass-through).
func (r *Resampler) FilterLength() int {
	return r.numTaps
}

// Latency returns the prototype group delay in output samples. Process
// compensates for it; the value is informational.
func (r *Resampler) Latency() int {
	return r.delay / r.down
}

// Direct resamples x from inRate to outRate in one polyphase pass.
func Direct(x []float64, inRate, outRate int, quality Quality) ([]float64, error) {
	r, err := NewResampler(inRate, outRate, quality)
	if err != nil {
		return nil, err
	}
	return r.Process(x), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
