package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tphakala/go-pitcher/internal/filter"
)

// ErrInvalidLength is returned when a requested sample count is not positive.
var ErrInvalidLength = errors.New("invalid resample length")

// FFTResample resamples x to exactly num samples by truncating or
// zero-padding its spectrum, with the semantics of scipy.signal.resample:
// when the shorter of the two lengths is even, its Nyquist bin is doubled on
// the way down and halved on the way up. The signal is assumed periodic.
func FFTResample(x []float64, num int) ([]float64, error) {
	if num <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, num)
	}
	nx := len(x)
	if nx == 0 {
		return make([]float64, num), nil
	}
	if num == nx {
		return slices.Clone(x), nil
	}

	spec := rfft(x)
	out := make([]complex128, num/hermitianDivisor+1)
	n := min(num, nx)
	copy(out, spec[:n/hermitianDivisor+1])

	if n%2 == 0 {
		nyq := n / hermitianDivisor
		if num < nx {
			out[nyq] *= 2
		} else {
			out[nyq] *= 0.5
		}
	}

	y := irfft(out, num)
	scale := float64(num) / float64(nx)
	for i := range y {
		y[i] *= scale
	}
	return y, nil
}

// Decimate low-passes x with an order-8 Chebyshev type I filter (0.05 dB
// ripple, edge 0.8/q of Nyquist) run forward and backward, then keeps every
// q-th sample. The result has ceil(len(x)/q) samples.
func Decimate(x []float64, q int) ([]float64, error) {
	if q < 1 {
		return nil, fmt.Errorf("%w: decimation factor %d", ErrInvalidLength, q)
	}
	if q == 1 {
		return slices.Clone(x), nil
	}

	aa, err := filter.Chebyshev1LP(decimateOrder, decimateRippleDB, decimateCutoff/float64(q))
	if err != nil {
		return nil, fmt.Errorf("design decimation filter: %w", err)
	}
	smooth, err := aa.FiltFilt(x)
	if err != nil {
		return nil, fmt.Errorf("decimate: %w", err)
	}

	out := make([]float64, 0, (len(smooth)+q-1)/q)
	for i := 0; i < len(smooth); i += q {
		out = append(out, smooth[i])
	}
	return out, nil
}

// TwoStep converts x from inRate to outRate by spectral resampling to
// factor·outRate followed by Decimate. The intermediate length is
// int(seconds·outRate·factor)+1, so a 96 kHz input headed for 26040 Hz with
// factor 2 passes through 52080 Hz.
func TwoStep(x []float64, inRate, outRate float64, factor int) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: rates %g -> %g", ErrInvalidLength, inRate, outRate)
	}
	if factor < 1 {
		return nil, fmt.Errorf("%w: factor %d", ErrInvalidLength, factor)
	}

	seconds := float64(len(x)) / inRate
	num := int(seconds*outRate*float64(factor)) + 1

	up, err := FFTResample(x, num)
	if err != nil {
		return nil, err
	}
	return Decimate(up, factor)
}
