// Package filter designs and applies the fixed digital filters of the
// emulated signal path: elliptic, Butterworth and Chebyshev IIR cascades,
// a frequency-sampled FIR equalizer, Kaiser windowed-sinc prototypes for the
// resampler and a nonlinear ladder low-pass.
//
// IIR filters are realized as cascades of second-order sections in
// transposed direct form II, which is what scipy's sosfilt runs. Every Apply
// starts from zero state and returns a new slice of the same length.
package filter

import (
	"errors"
	"fmt"
	"slices"
)

// ErrSignalTooShort is returned by FiltFilt when the input cannot hold the
// edge padding.
var ErrSignalTooShort = errors.New("signal too short for zero-phase filtering")

// Section is one biquad with a0 normalized to 1:
//
//	H(z) = (B0 + B1·z⁻¹ + B2·z⁻²) / (1 + A1·z⁻¹ + A2·z⁻²)
type Section struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Cascade is a series connection of second-order sections.
type Cascade []Section

// Filter is anything that maps a buffer to a filtered buffer of equal length.
type Filter interface {
	Apply(x []float64) []float64
}

// Apply runs the cascade causally from zero initial state.
func (c Cascade) Apply(x []float64) []float64 {
	y := slices.Clone(x)
	for _, s := range c {
		s.run(y, 0, 0)
	}
	return y
}

// run filters buf in place starting from state (z0, z1) and returns the
// final state.
func (s Section) run(buf []float64, z0, z1 float64) (float64, float64) {
	for i, x := range buf {
		y := s.B0*x + z0
		z0 = s.B1*x - s.A1*y + z1
		z1 = s.B2*x - s.A2*y
		buf[i] = y
	}
	return z0, z1
}

// DCGain returns the cascade's gain at 0 Hz.
func (c Cascade) DCGain() float64 {
	g := 1.0
	for _, s := range c {
		g *= (s.B0 + s.B1 + s.B2) / (1 + s.A1 + s.A2)
	}
	return g
}

// steadyState returns per-section initial conditions for a unit step, the
// equivalent of scipy's sosfilt_zi.
func (c Cascade) steadyState() [][2]float64 {
	zi := make([][2]float64, len(c))
	scale := 1.0
	for i, s := range c {
		bp0 := s.B1 - s.A1*s.B0
		bp1 := s.B2 - s.A2*s.B0
		z0 := (bp0 + bp1) / (1 + s.A1 + s.A2)
		zi[i] = [2]float64{scale * z0, scale * (bp1 - s.A2*z0)}
		scale *= (s.B0 + s.B1 + s.B2) / (1 + s.A1 + s.A2)
	}
	return zi
}

// padLength mirrors sosfiltfilt's default: three times the number of
// non-trivial coefficients per side.
func (c Cascade) padLength() int {
	var zb, za int
	for _, s := range c {
		if s.B2 == 0 {
			zb++
		}
		if s.A2 == 0 {
			za++
		}
	}
	return filtfiltPadFactor * (2*len(c) + 1 - min(zb, za))
}

// FiltFilt applies the cascade forward and backward for zero phase, using odd
// extension at both edges and steady-state initial conditions.
func (c Cascade) FiltFilt(x []float64) ([]float64, error) {
	padLen := c.padLength()
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrSignalTooShort, len(x), padLen)
	}

	ext := oddExtend(x, padLen)
	zi := c.steadyState()

	forward := func(buf []float64) {
		x0 := buf[0]
		for i, s := range c {
			s.run(buf, zi[i][0]*x0, zi[i][1]*x0)
		}
	}

	forward(ext)
	slices.Reverse(ext)
	forward(ext)
	slices.Reverse(ext)

	return ext[padLen : len(ext)-padLen], nil
}

func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	out := make([]float64, 0, len(x)+2*n)
	for i := n; i >= 1; i-- {
		out = append(out, 2*x[0]-x[i])
	}
	out = append(out, x...)
	for i := 1; i <= n; i++ {
		out = append(out, 2*x[last]-x[last-i])
	}
	return out
}
