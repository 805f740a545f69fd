package pitch

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// STFT geometry of the time stretcher.
const (
	FrameSize = 2048
	HopSize   = FrameSize / 4

	bins          = FrameSize/2 + 1
	windowSumTiny = 1e-300
)

// stft holds the analysis frames of one signal.
type stft struct {
	frames [][]complex128
}

// periodicHann returns the DFT-even Hann window of length n.
func periodicHann(n int) []float64 {
	return window.Hann(n + 1)[:n]
}

// analyze computes centered STFT frames: the signal is padded with
// FrameSize/2 zeros on each side and framed every HopSize samples.
func analyze(x []float64, fft *fourier.FFT, win []float64) stft {
	pad := FrameSize / 2
	padded := make([]float64, len(x)+2*pad)
	copy(padded[pad:], x)

	count := 1 + (len(padded)-FrameSize)/HopSize
	frames := make([][]complex128, count)
	buf := make([]float64, FrameSize)
	for t := range frames {
		seg := padded[t*HopSize : t*HopSize+FrameSize]
		for i, v := range seg {
			buf[i] = v * win[i]
		}
		frames[t] = fft.Coefficients(nil, buf)
	}
	return stft{frames: frames}
}

// vocode resamples the frame sequence at fractional steps of rate,
// interpolating magnitudes linearly and accumulating phase from the measured
// per-bin phase advance.
func (s stft) vocode(rate float64) stft {
	src := s.frames
	zero := make([]complex128, bins)
	at := func(i int) []complex128 {
		if i < len(src) {
			return src[i]
		}
		return zero
	}

	advance := make([]float64, bins)
	for k := range advance {
		advance[k] = 2 * math.Pi * HopSize * float64(k) / FrameSize
	}
	acc := make([]float64, bins)
	for k, v := range src[0] {
		acc[k] = cmplx.Phase(v)
	}

	out := make([][]complex128, 0, int(math.Ceil(float64(len(src))/rate)))
	for t := 0; ; t++ {
		step := float64(t) * rate
		if step >= float64(len(src)) {
			break
		}
		i := int(step)
		alpha := step - float64(i)
		left, right := at(i), at(i+1)

		frame := make([]complex128, bins)
		for k := range frame {
			mag := (1-alpha)*cmplx.Abs(left[k]) + alpha*cmplx.Abs(right[k])
			frame[k] = cmplx.Rect(mag, acc[k])

			d := cmplx.Phase(right[k]) - cmplx.Phase(left[k]) - advance[k]
			d -= 2 * math.Pi * math.RoundToEven(d/(2*math.Pi))
			acc[k] += advance[k] + d
		}
		out = append(out, frame)
	}
	return stft{frames: out}
}

// synthesize overlap-adds the frames, divides by the summed squared window
// and returns exactly length samples with the centering pad removed.
func (s stft) synthesize(length int, fft *fourier.FFT, win []float64) []float64 {
	pad := FrameSize / 2
	count := min(len(s.frames), int(math.Ceil(float64(length+2*pad)/HopSize)))
	if count <= 0 {
		return make([]float64, length)
	}
	total := FrameSize + HopSize*(count-1)

	y := make([]float64, total)
	norm := make([]float64, total)
	buf := make([]float64, FrameSize)
	scale := 1.0 / FrameSize
	for t := range count {
		fft.Sequence(buf, s.frames[t])
		off := t * HopSize
		for i, v := range buf {
			y[off+i] += v * scale * win[i]
			norm[off+i] += win[i] * win[i]
		}
	}
	for i := range y {
		if norm[i] > windowSumTiny {
			y[i] /= norm[i]
		}
	}

	out := make([]float64, length)
	if pad < len(y) {
		copy(out, y[pad:])
	}
	return out
}

// Stretch changes the duration of x by 1/rate without changing its pitch:
// rate 2 halves the length, rate 0.5 doubles it. The output has
// round(len(x)/rate) samples.
func Stretch(x []float64, rate float64) ([]float64, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: stretch rate %g", ErrInvalidRatio, rate)
	}
	if len(x) == 0 {
		return []float64{}, nil
	}
	if rate == 1 {
		return slices.Clone(x), nil
	}

	fft := fourier.NewFFT(FrameSize)
	win := periodicHann(FrameSize)

	length := int(math.RoundToEven(float64(len(x)) / rate))
	return analyze(x, fft, win).vocode(rate).synthesize(length, fft, win), nil
}
