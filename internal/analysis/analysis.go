// Package analysis measures rendered audio: spectral peaks, levels and
// durations. The command line tool and the end-to-end tests use it to check
// that a render kept its pitch and rate.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DominantFrequency returns the frequency in Hz of the strongest spectral
// peak of x, refined by parabolic interpolation over the log magnitudes of
// the peak bin and its neighbours. The DC bin is ignored. It returns 0 for
// signals shorter than four samples.
func DominantFrequency(x []float64, sampleRate float64) float64 {
	n := len(x)
	if n < 4 || sampleRate <= 0 {
		return 0
	}

	frame := make([]float64, n)
	copy(frame, x)
	window.Apply(frame, window.Hann)

	spec := fft.FFTReal(frame)
	half := n / 2
	mags := make([]float64, half+1)
	for k := range mags {
		mags[k] = cmplx.Abs(spec[k])
	}

	peak := 1
	for k := 2; k < half; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}

	offset := 0.0
	if peak > 0 && peak < half {
		a := logMag(mags[peak-1])
		b := logMag(mags[peak])
		c := logMag(mags[peak+1])
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	return (float64(peak) + offset) * sampleRate / float64(n)
}

func logMag(m float64) float64 {
	return math.Log(m + 1e-300)
}

// Peak returns the largest absolute sample value.
func Peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

// PeakDBFS returns Peak in dB relative to full scale, or -Inf for silence.
func PeakDBFS(x []float64) float64 {
	return 20 * math.Log10(Peak(x))
}

// Duration returns the length of n samples at sampleRate in seconds.
func Duration(n int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(n) / sampleRate
}
