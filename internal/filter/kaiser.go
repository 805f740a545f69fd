package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pitcher/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// KaiserWindow returns a symmetric Kaiser window:
//
//	w[n] = I₀(β·√(1 − ((n − α)/α)²)) / I₀(β),  α = (N−1)/2
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	if length == 1 {
		return []float64{1}
	}

	w := make([]float64, length)
	alpha := float64(length-1) / 2
	norm := mathutil.BesselI0(beta)
	for n := range w {
		x := (float64(n) - alpha) / alpha
		w[n] = mathutil.BesselI0(beta*math.Sqrt(1-x*x)) / norm
	}
	return w
}

// LowPassParams describes a Kaiser windowed-sinc low-pass prototype.
type LowPassParams struct {
	// NumTaps is the filter length; odd lengths give an integer group delay.
	NumTaps int

	// Cutoff is the -6 dB point in cycles per sample (0 to 0.5).
	Cutoff float64

	// Attenuation is the stopband attenuation in dB that selects β.
	Attenuation float64

	// Gain is the DC gain; a rational resampler with L phases uses L.
	Gain float64
}

// Validate checks the parameters.
func (p LowPassParams) Validate() error {
	if p.NumTaps < minFilterTaps || p.NumTaps > maxFilterTaps {
		return fmt.Errorf("filter length %d outside [%d, %d]", p.NumTaps, minFilterTaps, maxFilterTaps)
	}
	if p.Cutoff <= 0 || p.Cutoff >= 0.5 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 0.5))", p.Cutoff)
	}
	if p.Attenuation < 0 {
		return fmt.Errorf("invalid attenuation: %f dB (must be positive)", p.Attenuation)
	}
	if p.Gain <= 0 {
		return fmt.Errorf("invalid gain: %f (must be positive)", p.Gain)
	}
	return nil
}

// DesignLowPass builds the windowed-sinc prototype and scales it so its
// coefficients sum to Gain.
func DesignLowPass(p LowPassParams) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	win := KaiserWindow(p.NumTaps, mathutil.KaiserBeta(p.Attenuation))
	h := make([]float64, p.NumTaps)
	center := float64(p.NumTaps-1) / 2

	for n := range h {
		x := float64(n) - center
		if math.Abs(x) < sincZeroThreshold {
			h[n] = 2 * p.Cutoff * win[n]
			continue
		}
		h[n] = math.Sin(2*math.Pi*p.Cutoff*x) / (math.Pi * x) * win[n]
	}

	if sum := f64.Sum(h); math.Abs(sum) > sincZeroThreshold {
		f64.Scale(h, h, p.Gain/sum)
	}
	return h, nil
}
