package engine

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pitcher/internal/testutil"
)

func naiveDFT(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range n {
		var sum complex128
		for j, v := range x {
			sum += v * cmplx.Exp(complex(0, -2*math.Pi*float64(j*k)/float64(n)))
		}
		out[k] = sum
	}
	return out
}

func TestIsSmooth(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{1, true},
		{2048, true},
		{96000, true},
		{52080, false}, // 2^4·3·5·7·31
		{52081, false}, // prime
		{0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSmooth(tt.n), "n=%d", tt.n)
	}
}

func TestDFT_MatchesNaive(t *testing.T) {
	for _, n := range []int{8, 30, 17, 97, 210} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(math.Sin(0.37*float64(i)), math.Cos(1.3*float64(i*i)))
		}
		want := naiveDFT(x)
		got := newDFT(n).forward(x)
		require.Len(t, got, n)
		for k := range want {
			assert.InDelta(t, real(want[k]), real(got[k]), 1e-9, "n=%d k=%d", n, k)
			assert.InDelta(t, imag(want[k]), imag(got[k]), 1e-9, "n=%d k=%d", n, k)
		}
	}
}

func TestDFT_InverseIsUnnormalized(t *testing.T) {
	for _, n := range []int{16, 23} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(float64(i%5), -float64(i%3))
		}
		d := newDFT(n)
		back := d.inverse(d.forward(x))
		for i := range x {
			assert.InDelta(t, real(x[i])*float64(n), real(back[i]), 1e-8, "n=%d i=%d", n, i)
			assert.InDelta(t, imag(x[i])*float64(n), imag(back[i]), 1e-8, "n=%d i=%d", n, i)
		}
	}
}

func TestRealTransform_RoundTrip(t *testing.T) {
	for _, n := range []int{16, 31, 101, 1000} {
		x := testutil.Sine(3, float64(n), 0.7, n)
		for i := range x {
			x[i] += 0.1 * float64(i%7)
		}
		spec := rfft(x)
		require.Len(t, spec, n/2+1)
		y := irfft(spec, n)
		require.Len(t, y, n)
		for i := range x {
			assert.InDelta(t, x[i], y[i], 1e-10, "n=%d i=%d", n, i)
		}
	}
}

func TestFFTResample_NyquistBin(t *testing.T) {
	t.Run("upsample halves the Nyquist bin", func(t *testing.T) {
		y, err := FFTResample([]float64{1, -1, 1, -1}, 8)
		require.NoError(t, err)
		want := []float64{1, 0, -1, 0, 1, 0, -1, 0}
		for i := range want {
			assert.InDelta(t, want[i], y[i], 1e-12, "i=%d", i)
		}
	})

	t.Run("downsample doubles the Nyquist bin", func(t *testing.T) {
		y, err := FFTResample([]float64{1, 0, -1, 0, 1, 0, -1, 0}, 4)
		require.NoError(t, err)
		want := []float64{1, -1, 1, -1}
		for i := range want {
			assert.InDelta(t, want[i], y[i], 1e-12, "i=%d", i)
		}
	})
}

func TestFFTResample_PeriodicSine(t *testing.T) {
	// 100 whole periods, so the periodic extension is exactly a sine.
	const (
		freq = 1000.0
		dur  = 0.1
	)
	x := testutil.Sine(freq, 48000, 0.8, 4800)

	for _, num := range []int{2605, 5209, 9600} {
		y, err := FFTResample(x, num)
		require.NoError(t, err)
		require.Len(t, y, num)
		rate := float64(num) / dur
		want := testutil.Sine(freq, rate, 0.8, num)
		for i := range want {
			if !assert.InDelta(t, want[i], y[i], 1e-9, "num=%d i=%d", num, i) {
				break
			}
		}
	}
}

func TestFFTResample_Edges(t *testing.T) {
	_, err := FFTResample([]float64{1, 2}, 0)
	require.ErrorIs(t, err, ErrInvalidLength)

	y, err := FFTResample(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 5), y)

	x := []float64{0.1, 0.2, 0.3}
	y, err = FFTResample(x, 3)
	require.NoError(t, err)
	assert.Equal(t, x, y)
	y[0] = 9
	assert.InDelta(t, 0.1, x[0], 0, "result must not alias input")
}

func TestDecimate(t *testing.T) {
	t.Run("length is ceil(n/q)", func(t *testing.T) {
		for _, n := range []int{100, 101, 5209} {
			y, err := Decimate(make([]float64, n), 2)
			require.NoError(t, err)
			assert.Len(t, y, (n+1)/2)
		}
	})

	t.Run("passband tone survives", func(t *testing.T) {
		x := testutil.Sine(500, 48000, 1, 4800)
		y, err := Decimate(x, 2)
		require.NoError(t, err)
		assert.InDelta(t, 1/math.Sqrt2, testutil.ToneRMS(y, 200, 2200), 0.015)
	})

	t.Run("stopband tone is removed", func(t *testing.T) {
		x := testutil.Sine(20000, 48000, 1, 4800)
		y, err := Decimate(x, 2)
		require.NoError(t, err)
		assert.Less(t, testutil.ToneRMS(y, 200, 2200), 1e-3)
	})

	t.Run("factor one copies", func(t *testing.T) {
		x := []float64{1, 2, 3}
		y, err := Decimate(x, 1)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	})

	t.Run("invalid factor", func(t *testing.T) {
		_, err := Decimate([]float64{1}, 0)
		require.ErrorIs(t, err, ErrInvalidLength)
	})
}

func TestTwoStep_DeviceRate(t *testing.T) {
	// 0.1 s at 96 kHz -> 5209 samples -> 2605 samples. The extra sample
	// stretches the grid slightly: 5209 samples span the same 0.1 s.
	x := testutil.Sine(1000, 96000, 0.5, 9600)
	y, err := TwoStep(x, 96000, 26040, 2)
	require.NoError(t, err)
	require.Len(t, y, 2605)
	testutil.AssertNoNaNOrInf(t, y)

	want := testutil.Sine(1000, 5209/0.1/2, 0.5, len(y))
	for i := 300; i < 2300; i++ {
		if !assert.InDelta(t, want[i], y[i], 0.01, "i=%d", i) {
			break
		}
	}
}

func TestTwoStep_PrimeIntermediateLength(t *testing.T) {
	// One second lands on 52081 samples, a prime length.
	x := testutil.Sine(440, 96000, 0.5, 96000)
	y, err := TwoStep(x, 96000, 26040, 2)
	require.NoError(t, err)
	assert.Len(t, y, 26041)
	assert.InDelta(t, 0.5/math.Sqrt2, testutil.ToneRMS(y, 2000, 24000), 0.01)
}

func TestTwoStep_InvalidArgs(t *testing.T) {
	_, err := TwoStep([]float64{1}, 0, 26040, 2)
	require.ErrorIs(t, err, ErrInvalidLength)
	_, err = TwoStep([]float64{1}, 96000, 26040, 0)
	require.ErrorIs(t, err, ErrInvalidLength)
}
