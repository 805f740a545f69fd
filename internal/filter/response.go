package filter

import (
	"math"
	"math/cmplx"
)

// FilterResponse holds a sampled frequency response.
type FilterResponse struct {
	// Frequencies in cycles per sample, 0 to 0.5.
	Frequencies []float64

	// Magnitude is linear.
	Magnitude []float64

	// Phase in radians.
	Phase []float64
}

// At evaluates the cascade's complex response at f cycles per sample.
func (c Cascade) At(f float64) complex128 {
	z1 := cmplx.Exp(complex(0, -2*math.Pi*f))
	z2 := z1 * z1
	h := complex(1, 0)
	for _, s := range c {
		num := complex(s.B0, 0) + complex(s.B1, 0)*z1 + complex(s.B2, 0)*z2
		den := 1 + complex(s.A1, 0)*z1 + complex(s.A2, 0)*z2
		h *= num / den
	}
	return h
}

// FIRAt evaluates an FIR's complex response at f cycles per sample.
func FIRAt(taps []float64, f float64) complex128 {
	var re, im float64
	omega := 2 * math.Pi * f
	for n, h := range taps {
		re += h * math.Cos(omega*float64(n))
		im -= h * math.Sin(omega*float64(n))
	}
	return complex(re, im)
}

// FrequencyResponse samples the cascade at numPoints frequencies from DC up
// to (but excluding) Nyquist.
func FrequencyResponse(c Cascade, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	r := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}
	for k := range numPoints {
		f := float64(k) / float64(2*numPoints)
		h := c.At(f)
		r.Frequencies[k] = f
		r.Magnitude[k] = cmplx.Abs(h)
		r.Phase[k] = cmplx.Phase(h)
	}
	return r
}

// MagnitudeDB converts a linear magnitude to decibels, flooring at -200 dB.
func MagnitudeDB(magnitude float64) float64 {
	return dbMultiplier * math.Log10(math.Max(magnitude, minMagnitude))
}
