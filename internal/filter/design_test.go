package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nyq converts a fraction of Nyquist to cycles per sample.
func nyq(f float64) float64 { return f / 2 }

func assertStable(t *testing.T, c Cascade) {
	t.Helper()
	for i, s := range c {
		assert.Less(t, math.Abs(s.A2), 1.0, "section %d: |a2| >= 1", i)
		assert.Less(t, math.Abs(s.A1), 1+s.A2, "section %d: |a1| >= 1+a2", i)
	}
}

func TestEllipticLP_InputSpec(t *testing.T) {
	c, err := EllipticLP(4, 1, 72, 0.666)
	require.NoError(t, err)
	require.Len(t, c, 2)
	assertStable(t, c)

	assert.InDelta(t, -1.0, MagnitudeDB(math.Abs(c.DCGain())), 1e-6, "even order sits at -ripple at DC")

	for i := 0; i <= 200; i++ {
		f := 0.666 * float64(i) / 200
		db := MagnitudeDB(absAt(c, nyq(f)))
		assert.LessOrEqual(t, db, 1e-6, "passband peak at %.4f", f)
		assert.GreaterOrEqual(t, db, -1.0-1e-6, "passband trough at %.4f", f)
	}

	for f := 0.9; f < 1.0; f += 0.005 {
		assert.LessOrEqual(t, MagnitudeDB(absAt(c, nyq(f))), -71.99, "stopband at %.3f", f)
	}
}

func TestButterworthLP(t *testing.T) {
	cutoff := 10000.0 / 24000.0
	c, err := ButterworthLP(7, cutoff)
	require.NoError(t, err)
	require.Len(t, c, 4)
	assertStable(t, c)

	assert.InDelta(t, 1.0, c.DCGain(), 1e-9)
	assert.InDelta(t, -3.0103, MagnitudeDB(absAt(c, nyq(cutoff))), 0.01)

	prev := math.Inf(1)
	for f := 0.0; f < 1.0; f += 0.01 {
		m := absAt(c, nyq(f))
		assert.LessOrEqual(t, m, prev+1e-12, "not monotonic at %.2f", f)
		prev = m
	}
}

func TestChebyshev1LP_Ripple(t *testing.T) {
	c, err := Chebyshev1LP(8, 0.05, 0.4)
	require.NoError(t, err)
	assertStable(t, c)

	for f := 0.0; f <= 0.4; f += 0.004 {
		db := MagnitudeDB(absAt(c, nyq(f)))
		assert.InDelta(t, -0.025, db, 0.0251, "ripple at %.3f", f)
	}
	assert.Less(t, MagnitudeDB(absAt(c, nyq(0.6))), -55.0)
}

func TestDesign_InvalidParameters(t *testing.T) {
	_, err := ButterworthLP(0, 0.5)
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = ButterworthLP(4, 1.0)
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = Chebyshev1LP(4, 0, 0.5)
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = EllipticLP(4, 5, 3, 0.5)
	require.ErrorIs(t, err, ErrInvalidDesign)
}

func absAt(c Cascade, f float64) float64 {
	h := c.At(f)
	return math.Hypot(real(h), imag(h))
}
