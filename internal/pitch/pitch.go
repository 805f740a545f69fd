// Package pitch implements the sampler's pitch control and the spectral time
// stretch used to restore or change duration afterwards.
//
// The native shift is an integer index resample: output samples are picked
// from the input by nearest index along a linear ramp, so pitching changes
// length and keeps the aliasing of the original hardware. Stretch is a phase
// vocoder that changes length without changing pitch.
package pitch

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"sync/atomic"

	"github.com/tphakala/go-pitcher/internal/tuning"
)

// ErrInvalidRatio is returned for a non-positive or non-finite ratio.
var ErrInvalidRatio = errors.New("invalid pitch ratio")

// Result is the outcome of a native pitch shift.
type Result struct {
	Samples []float64

	// Ratio is output length over input length.
	Ratio float64

	// Degraded is set when the ratio was extrapolated beyond the tuning table.
	Degraded bool
}

// TargetLength returns round(length·ratio), the exact output length of a
// shift by ratio.
func TargetLength(length int, ratio float64) int {
	return int(math.RoundToEven(float64(length) * ratio))
}

// Indices returns n source positions evenly spaced from 0 to length-1
// inclusive, each rounded to the nearest integer with ties to even.
func Indices(length, n int) []int {
	if n <= 0 || length <= 0 {
		return []int{}
	}
	idx := make([]int, n)
	if n == 1 {
		return idx
	}
	step := float64(length-1) / float64(n-1)
	for i := range idx {
		idx[i] = int(math.RoundToEven(float64(i) * step))
	}
	idx[n-1] = length - 1
	return idx
}

// Stream lazily yields x resampled by ratio through nearest-index lookup.
// The sequence is finite and one-shot: once a range over it has started,
// ranging again yields nothing.
func Stream(x []float64, ratio float64) iter.Seq[float64] {
	var used atomic.Bool
	return func(yield func(float64) bool) {
		if used.Swap(true) {
			return
		}
		n := TargetLength(len(x), ratio)
		if n <= 0 || len(x) == 0 {
			return
		}
		if n == 1 {
			yield(x[0])
			return
		}
		step := float64(len(x)-1) / float64(n-1)
		for i := range n - 1 {
			if !yield(x[int(math.RoundToEven(float64(i)*step))]) {
				return
			}
		}
		yield(x[len(x)-1])
	}
}

// Resample materializes Stream(x, ratio).
func Resample(x []float64, ratio float64) ([]float64, error) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRatio, ratio)
	}
	out := make([]float64, 0, TargetLength(len(x), ratio))
	for v := range Stream(x, ratio) {
		out = append(out, v)
	}
	return out, nil
}

// Shift pitches x by st semitones using the device tuning table. A shift of
// zero returns a copy of x.
func Shift(x []float64, st int) (Result, error) {
	ratio, degraded := tuning.Ratio(st)
	if st == 0 {
		return Result{Samples: slices.Clone(x), Ratio: ratio}, nil
	}
	out, err := Resample(x, ratio)
	if err != nil {
		return Result{}, err
	}
	return Result{Samples: out, Ratio: ratio, Degraded: degraded}, nil
}
