package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pitcher/internal/testutil"
)

// soxr attenuation values: (bits + 1) * 6.0206
const (
	soxrAttenuationLow      = 17 * 6.0206 // ~102.35 dB
	soxrAttenuationHigh     = 21 * 6.0206 // ~126.43 dB
	soxrAttenuationVeryHigh = 29 * 6.0206 // ~174.60 dB
)

func TestQuality_Presets(t *testing.T) {
	tests := []struct {
		quality  Quality
		name     string
		att      float64
		passband float64
	}{
		{QualityLow, "low", soxrAttenuationLow, 1385.0 / 2048.0},
		{QualityMedium, "medium", soxrAttenuationLow, 0.91},
		{QualityHigh, "high", soxrAttenuationHigh, 0.913},
		{QualityVeryHigh, "veryhigh", soxrAttenuationVeryHigh, 0.913},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.quality.String())
			assert.InDelta(t, tt.att, tt.quality.Attenuation(), 0.1)
			assert.InDelta(t, tt.passband, tt.quality.Passband(), 1e-9)
		})
	}

	assert.InDelta(t, soxrAttenuationHigh, Quality(99).Attenuation(), 0.1, "unknown presets fall back to high")
}

func TestNewResampler_Factors(t *testing.T) {
	tests := []struct {
		name     string
		in, out  int
		up, down int
	}{
		{"ZOH rate to output", 104160, 48000, 100, 217},
		{"input to SP-1200", 96000, 26040, 217, 800},
		{"input to SP-12", 96000, 27500, 55, 192},
		{"CD to working rate", 44100, 96000, 320, 147},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResampler(tt.in, tt.out, QualityHigh)
			require.NoError(t, err)
			up, down := r.Factors()
			assert.Equal(t, tt.up, up)
			assert.Equal(t, tt.down, down)
			assert.InDelta(t, float64(tt.out)/float64(tt.in), r.Ratio(), 1e-12)
			assert.Equal(t, 1, r.FilterLength()%2, "prototype length should be odd")
		})
	}
}

func TestNewResampler_InvalidRates(t *testing.T) {
	_, err := NewResampler(0, 48000, QualityHigh)
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewResampler(48000, -1, QualityHigh)
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewResampler(1, 5000, QualityHigh)
	require.ErrorIs(t, err, ErrInvalidRate, "5000 phases exceed the limit")
}

func TestResampler_SameRateIsCopy(t *testing.T) {
	r, err := NewResampler(48000, 48000, QualityHigh)
	require.NoError(t, err)
	assert.Zero(t, r.FilterLength())

	x := []float64{0.5, -0.25, 1}
	y := r.Process(x)
	assert.Equal(t, x, y)
	y[0] = 0
	assert.InDelta(t, 0.5, x[0], 0)
}

func TestResampler_OutputLength(t *testing.T) {
	r, err := NewResampler(104160, 48000, QualityHigh)
	require.NoError(t, err)

	for _, n := range []int{1, 217, 10416, 10417, 41664} {
		want := int(math.Round(float64(n) * 100 / 217))
		assert.Equal(t, want, r.OutputLength(n))
		assert.Len(t, r.Process(make([]float64, n)), want)
	}
	assert.Empty(t, r.Process(nil))
}

func TestResampler_DCGain(t *testing.T) {
	r, err := NewResampler(104160, 48000, QualityHigh)
	require.NoError(t, err)

	x := make([]float64, 20832)
	for i := range x {
		x[i] = 1
	}
	y := r.Process(x)
	testutil.AssertNoNaNOrInf(t, y)
	for i := 2000; i < len(y)-2000; i++ {
		if !assert.InDelta(t, 1, y[i], 1e-4, "i=%d", i) {
			break
		}
	}
}

func TestResampler_SineIsTimeAligned(t *testing.T) {
	tests := []struct {
		name    string
		in, out int
		freq    float64
	}{
		{"downsample to output rate", 104160, 48000, 1000},
		{"downsample to device rate", 96000, 26040, 440},
		{"upsample", 44100, 96000, 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := testutil.Sine(tt.freq, float64(tt.in), 0.5, tt.in/4)
			y, err := Direct(x, tt.in, tt.out, QualityHigh)
			require.NoError(t, err)

			want := testutil.Sine(tt.freq, float64(tt.out), 0.5, len(y))
			skip := len(y) / 5
			for i := skip; i < len(y)-skip; i++ {
				if !assert.InDelta(t, want[i], y[i], 1e-3, "i=%d", i) {
					break
				}
			}
		})
	}
}

func TestResampler_RejectsAliases(t *testing.T) {
	// 30 kHz is above the 24 kHz output Nyquist.
	x := testutil.Sine(30000, 104160, 1, 20832)
	y, err := Direct(x, 104160, 48000, QualityHigh)
	require.NoError(t, err)

	skip := len(y) / 5
	assert.Less(t, testutil.ToneRMS(y, skip, len(y)-skip), 1e-4)
}

func TestResampler_Latency(t *testing.T) {
	r, err := NewResampler(104160, 48000, QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, (r.FilterLength()-1)/2/217, r.Latency())
	assert.Positive(t, r.Latency())
}
