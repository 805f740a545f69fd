package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pitcher/internal/testutil"
	"github.com/tphakala/go-pitcher/internal/tuning"
)

func TestIndices(t *testing.T) {
	tests := []struct {
		name      string
		length, n int
		want      []int
	}{
		{"identity", 5, 5, []int{0, 1, 2, 3, 4}},
		{"stretch ties to even", 3, 5, []int{0, 0, 1, 2, 2}}, // 0, .5, 1, 1.5, 2
		{"shrink", 10, 4, []int{0, 3, 6, 9}},
		{"single", 7, 1, []int{0}},
		{"empty", 7, 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Indices(tt.length, tt.n))
		})
	}
}

func TestStream_MatchesIndices(t *testing.T) {
	x := testutil.Ramp(0, 99, 100)
	ratio, _ := tuning.Ratio(-5)
	n := TargetLength(len(x), ratio)

	var got []float64
	for v := range Stream(x, ratio) {
		got = append(got, v)
	}
	require.Len(t, got, n)
	for i, idx := range Indices(len(x), n) {
		assert.InDelta(t, x[idx], got[i], 0, "i=%d", i)
	}
}

func TestStream_IsOneShot(t *testing.T) {
	seq := Stream([]float64{1, 2, 3, 4}, 1.5)

	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 6, count)

	for range seq {
		t.Fatal("second range must yield nothing")
	}
}

func TestStream_EarlyBreakStillConsumes(t *testing.T) {
	seq := Stream([]float64{1, 2, 3, 4}, 1)
	for range seq {
		break
	}
	for range seq {
		t.Fatal("sequence restarted after a partial range")
	}
}

func TestShift_Length(t *testing.T) {
	x := testutil.Sine(440, 26040, 0.5, 26040)
	for st := -24; st <= 24; st++ {
		res, err := Shift(x, st)
		require.NoError(t, err)
		ratio, degraded := tuning.Ratio(st)
		assert.Len(t, res.Samples, int(math.RoundToEven(float64(len(x))*ratio)), "st=%d", st)
		assert.InDelta(t, ratio, res.Ratio, 0)
		assert.Equal(t, degraded, res.Degraded, "st=%d", st)
	}
}

func TestShift_ZeroIsIdentity(t *testing.T) {
	x := []float64{0.1, -0.2, 0.3}
	res, err := Shift(x, 0)
	require.NoError(t, err)
	assert.Equal(t, x, res.Samples)
	assert.False(t, res.Degraded)

	res.Samples[0] = 1
	assert.InDelta(t, 0.1, x[0], 0, "identity shift returns a copy")
}

func TestShift_OutputsAreInputSamples(t *testing.T) {
	x := testutil.Sine(1000, 26040, 0.9, 1000)
	set := make(map[float64]bool, len(x))
	for _, v := range x {
		set[v] = true
	}
	res, err := Shift(x, 7)
	require.NoError(t, err)
	for i, v := range res.Samples {
		require.True(t, set[v], "sample %d is not taken from the input", i)
	}
}

func TestResample_InvalidRatio(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Resample([]float64{1}, r)
		require.ErrorIs(t, err, ErrInvalidRatio, "ratio=%g", r)
	}
}
