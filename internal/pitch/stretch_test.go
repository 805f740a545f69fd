package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pitcher/internal/analysis"
	"github.com/tphakala/go-pitcher/internal/testutil"
)

const testRate = 26040.0

func TestPeriodicHann(t *testing.T) {
	w := periodicHann(8)
	require.Len(t, w, 8)
	assert.InDelta(t, 0, w[0], 1e-15)
	assert.InDelta(t, 1, w[4], 1e-15)
	assert.InDelta(t, w[1], w[7], 1e-15)
}

func TestStretch_LengthAndPitch(t *testing.T) {
	x := testutil.Sine(1000, testRate, 0.5, int(testRate))

	for _, rate := range []float64{0.5, 0.8, 1.25, 2} {
		y, err := Stretch(x, rate)
		require.NoError(t, err)
		assert.Len(t, y, int(math.RoundToEven(float64(len(x))/rate)), "rate=%g", rate)
		testutil.AssertNoNaNOrInf(t, y)

		mid := y[len(y)/4 : 3*len(y)/4]
		assert.InDelta(t, 1000, analysis.DominantFrequency(mid, testRate), 10, "rate=%g keeps pitch", rate)
		assert.InDelta(t, 0.5/math.Sqrt2, testutil.RMS(mid), 0.05, "rate=%g keeps level", rate)
	}
}

func TestStretch_UnityCopies(t *testing.T) {
	x := []float64{1, 2, 3}
	y, err := Stretch(x, 1)
	require.NoError(t, err)
	assert.Equal(t, x, y)
}

func TestStretch_ShortInput(t *testing.T) {
	y, err := Stretch([]float64{0.5, -0.5, 0.25}, 0.5)
	require.NoError(t, err)
	assert.Len(t, y, 6)

	y, err = Stretch(nil, 2)
	require.NoError(t, err)
	assert.Empty(t, y)
}

func TestStretch_InvalidRate(t *testing.T) {
	for _, r := range []float64{0, -2, math.NaN()} {
		_, err := Stretch([]float64{1, 2}, r)
		require.ErrorIs(t, err, ErrInvalidRatio)
	}
}

func TestShiftSpectral(t *testing.T) {
	x := testutil.Sine(1000, testRate, 0.5, int(testRate))

	res, err := ShiftSpectral(x, -12)
	require.NoError(t, err)
	want := int(math.RoundToEven(float64(len(x)) * res.Ratio))
	assert.InDelta(t, want, len(res.Samples), 1)
	assert.Greater(t, len(res.Samples), len(x), "shifting down lengthens")

	mid := res.Samples[len(res.Samples)/4 : 3*len(res.Samples)/4]
	assert.InDelta(t, 500, analysis.DominantFrequency(mid, testRate), 10, "an octave down halves the pitch")
}

func TestShiftSpectral_Zero(t *testing.T) {
	x := []float64{0.1, 0.2}
	res, err := ShiftSpectral(x, 0)
	require.NoError(t, err)
	assert.Equal(t, x, res.Samples)
	assert.InDelta(t, 1, res.Ratio, 0)
}

func TestResampleLinear(t *testing.T) {
	// Samples at times 0, 2, 4 read back at 0..5; time 5 holds the last value.
	got, err := resampleLinear([]float64{0, 2, 4}, 2, 6)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4, 4}, got, 1e-12)
}
