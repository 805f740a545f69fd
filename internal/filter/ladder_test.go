package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pitcher/internal/testutil"
)

func TestNewLadder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		cutoff float64
		opts   []LadderOption
	}{
		{"zero rate", 0, 1000, nil},
		{"cutoff at nyquist", 48000, 24000, nil},
		{"negative cutoff", 48000, -1, nil},
		{"resonance too high", 48000, 1000, []LadderOption{WithResonance(5)}},
		{"zero drive", 48000, 1000, []LadderOption{WithDrive(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLadder(tt.rate, tt.cutoff, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidLadder)
		})
	}
}

func TestLadder_UnityDCGain(t *testing.T) {
	for _, res := range []float64{0, 0.1, 1.5} {
		l, err := NewLadder(48000, DefaultLadderCutoff, WithResonance(res))
		require.NoError(t, err)

		x := make([]float64, 4000)
		for i := range x {
			x[i] = 0.1
		}
		y := l.Apply(x)
		assert.InDelta(t, 0.1, y[len(y)-1], 1e-6, "resonance %v", res)
	}
}

func TestLadder_AttenuatesAboveCutoff(t *testing.T) {
	l, err := NewLadder(48000, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 2000, l.Cutoff(), 0)

	low := l.Apply(testutil.Sine(200, 48000, 0.25, 9600))
	high := l.Apply(testutil.Sine(16000, 48000, 0.25, 9600))

	lowRMS := testutil.ToneRMS(low, 2400, 9600)
	highRMS := testutil.ToneRMS(high, 2400, 9600)
	assert.Greater(t, lowRMS, 0.15)
	assert.Less(t, highRMS, 0.1*lowRMS)
}

func TestLadder_StatelessAndFinite(t *testing.T) {
	l, err := NewLadder(48000, 10000, WithResonance(3.9), WithDrive(4))
	require.NoError(t, err)

	x := testutil.Sine(440, 48000, 1, 4800)
	y1 := l.Apply(x)
	y2 := l.Apply(x)
	assert.Len(t, y1, len(x))
	assert.Equal(t, y1, y2)
	testutil.AssertNoNaNOrInf(t, y1)
}
