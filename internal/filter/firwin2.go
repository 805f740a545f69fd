package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidFIR is returned for malformed frequency-sampling specifications.
var ErrInvalidFIR = errors.New("invalid FIR specification")

// Firwin2 designs a linear-phase FIR with numTaps taps whose magnitude follows
// the piecewise-linear curve through (freq[i], gain[i]). Frequencies are in Hz
// and must rise strictly from 0 to fs/2. The response is sampled on a grid of
// 1+2^⌈log2(numTaps)⌉ points, inverse transformed and shaped by a symmetric
// Hamming window, as scipy's firwin2 does with its defaults.
func Firwin2(numTaps int, freq, gain []float64, fs float64) ([]float64, error) {
	if numTaps < minFilterTaps {
		return nil, fmt.Errorf("%w: %d taps (minimum %d)", ErrInvalidFIR, numTaps, minFilterTaps)
	}
	if len(freq) != len(gain) || len(freq) < 2 {
		return nil, fmt.Errorf("%w: need matching freq/gain tables of at least 2 points", ErrInvalidFIR)
	}

	nyq := fs / 2
	if freq[0] != 0 || freq[len(freq)-1] != nyq {
		return nil, fmt.Errorf("%w: frequencies must start at 0 and end at %g Hz", ErrInvalidFIR, nyq)
	}
	if numTaps%2 == 0 && gain[len(gain)-1] != 0 {
		return nil, fmt.Errorf("%w: even-length filters need zero gain at Nyquist", ErrInvalidFIR)
	}

	norm := make([]float64, len(freq))
	for i, f := range freq {
		if i > 0 && f <= freq[i-1] {
			return nil, fmt.Errorf("%w: frequencies must be strictly increasing", ErrInvalidFIR)
		}
		norm[i] = f / nyq
	}

	var curve interp.PiecewiseLinear
	if err := curve.Fit(norm, gain); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFIR, err)
	}

	nfreqs := 1 + 1<<int(math.Ceil(math.Log2(float64(numTaps))))
	half := float64(numTaps-1) / 2
	coeffs := make([]complex128, nfreqs)
	for i := range coeffs {
		x := float64(i) / float64(nfreqs-1)
		coeffs[i] = complex(curve.Predict(x), 0) * complexExp(-half*math.Pi*x)
	}

	n := 2 * (nfreqs - 1)
	full := fourier.NewFFT(n).Sequence(nil, coeffs)

	taps := make([]float64, numTaps)
	win := window.Hamming(numTaps)
	for i := range taps {
		taps[i] = full[i] / float64(n) * win[i]
	}
	return taps, nil
}

func complexExp(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}

// FIRToSOS factors an FIR numerator into second-order sections by finding the
// roots of its polynomial (eigenvalues of the companion matrix). Every section
// has a trivial denominator; the leading coefficient lands in the first one.
func FIRToSOS(taps []float64) (Cascade, error) {
	first := 0
	for first < len(taps) && taps[first] == 0 {
		first++
	}
	if first == len(taps) {
		return nil, fmt.Errorf("%w: all-zero numerator", ErrInvalidFIR)
	}
	b := taps[first:]

	last := len(b) - 1
	var origin int
	for last > 0 && b[last] == 0 {
		last--
		origin++
	}
	b = b[:last+1]

	lead := b[0]
	zeros := make([]complex128, 0, len(b)-1+origin)

	if deg := len(b) - 1; deg > 0 {
		companion := mat.NewDense(deg, deg, nil)
		for j := range deg {
			companion.Set(0, j, -b[j+1]/lead)
		}
		for i := 1; i < deg; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if ok := eig.Factorize(companion, mat.EigenNone); !ok {
			return nil, fmt.Errorf("%w: root finding did not converge", ErrInvalidFIR)
		}
		zeros = append(zeros, eig.Values(nil)...)
	}
	for range origin {
		zeros = append(zeros, 0)
	}

	if len(zeros) == 0 {
		return Cascade{{B0: lead}}, nil
	}

	groups := groupRoots(zeros)
	out := make(Cascade, 0, len(groups))
	for _, g := range groups {
		b1, b2 := quadFromRoots(g)
		out = append(out, Section{B0: 1, B1: b1, B2: b2})
	}
	out[0].B0 *= lead
	out[0].B1 *= lead
	out[0].B2 *= lead

	return out, nil
}
