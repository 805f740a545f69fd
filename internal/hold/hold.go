// Package hold implements the zero-order-hold oversampler that models the
// sampler's output stage: every sample is held for k output periods.
package hold

import (
	"errors"
	"fmt"
)

// Multiplier is the hold factor of the emulated output stage.
const Multiplier = 4

// ErrInvalidFactor is returned for a hold factor below one.
var ErrInvalidFactor = errors.New("invalid hold factor")

// Repeat returns x with each sample repeated k times. Samples pass through
// float32, matching the precision of the converter being modelled.
func Repeat(x []float64, k int) ([]float64, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, k)
	}
	out := make([]float64, len(x)*k)
	for i, v := range x {
		held := float64(float32(v))
		seg := out[i*k : (i+1)*k]
		for j := range seg {
			seg[j] = held
		}
	}
	return out, nil
}
