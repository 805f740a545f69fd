package pitch

import (
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-pitcher/internal/tuning"
	"gonum.org/v1/gonum/interp"
)

const semitonesPerOctave = 12

// ShiftSpectral is the alternative pitch method. It transposes x by st
// equal-tempered semitones at constant length (phase vocoder stretch, then a
// linear resample back to len(x)), and then time-stretches by
// PositiveStep^st so the duration follows the device tuning step the same
// way the native shift does. Result.Ratio is PositiveStep^-st.
func ShiftSpectral(x []float64, st int) (Result, error) {
	if st == 0 || len(x) == 0 {
		return Result{Samples: slices.Clone(x), Ratio: 1}, nil
	}

	rate := math.Exp2(-float64(st) / semitonesPerOctave)
	stretched, err := Stretch(x, rate)
	if err != nil {
		return Result{}, fmt.Errorf("spectral shift: %w", err)
	}
	transposed, err := resampleLinear(stretched, rate, len(x))
	if err != nil {
		return Result{}, fmt.Errorf("spectral shift: %w", err)
	}

	step := math.Pow(tuning.PositiveStep, float64(st))
	out, err := Stretch(transposed, step)
	if err != nil {
		return Result{}, fmt.Errorf("spectral shift: %w", err)
	}
	return Result{Samples: out, Ratio: 1 / step}, nil
}

// resampleLinear reads y, whose sample j sits at time j·spacing, at the
// integer times 0..n-1. Times past the end hold the last sample.
func resampleLinear(y []float64, spacing float64, n int) ([]float64, error) {
	out := make([]float64, n)
	switch len(y) {
	case 0:
		return out, nil
	case 1:
		for i := range out {
			out[i] = y[0]
		}
		return out, nil
	}

	xs := make([]float64, len(y))
	for j := range xs {
		xs[j] = float64(j) * spacing
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, y); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = pl.Predict(float64(i))
	}
	return out, nil
}
