package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEllipK(t *testing.T) {
	tests := []struct {
		k    float64
		want float64
	}{
		{0.5, 1.685750354812596},
		{1 / math.Sqrt2, 1.8540746773013717},
		{0.9, 2.2805491384227703},
	}

	for _, tt := range tests {
		kk, _ := EllipK(tt.k, EllipticTolerance)
		assert.InDelta(t, tt.want, kk, 1e-12, "K(%v)", tt.k)
	}

	kk, _ := EllipK(0, EllipticTolerance)
	assert.InDelta(t, math.Pi/2, kk, 1e-15)
}

func TestEllipK_Complement(t *testing.T) {
	k := 0.6
	_, kp := EllipK(k, EllipticTolerance)
	want, _ := EllipK(0.8, EllipticTolerance)
	assert.InDelta(t, want, kp, 1e-12)
}

func TestSN_QuarterPeriod(t *testing.T) {
	for _, k := range []float64{0.1, 0.5, 0.9} {
		assert.InDelta(t, 0, SN(0, k, EllipticTolerance), 1e-15)
		assert.InDelta(t, 1, SN(1, k, EllipticTolerance), 1e-12)
	}
}

func TestJacobiSCD_Identities(t *testing.T) {
	k := 0.7
	for _, u := range []float64{0.1, 0.5, 1.0, 1.5} {
		sn, cn, dn, ok := JacobiSCD(u, k, EllipticTolerance)
		require.True(t, ok)
		assert.InDelta(t, 1, sn*sn+cn*cn, 1e-10, "sn²+cn² at u=%v", u)
		assert.InDelta(t, 1, dn*dn+k*k*sn*sn, 1e-10, "dn²+k²sn² at u=%v", u)
	}

	_, _, _, ok := JacobiSCD(0.5, 1.2, EllipticTolerance)
	assert.False(t, ok)
}

func TestEllipDeg_FirstOrderIsIdentity(t *testing.T) {
	for _, m1 := range []float64{1e-4, 0.01, 0.2} {
		assert.InDelta(t, m1, EllipDeg(1, m1, EllipticTolerance), m1*1e-6)
	}
	assert.True(t, math.IsNaN(EllipDeg(4, 0, EllipticTolerance)))
}

func TestArcSC1_Inverse(t *testing.T) {
	// sc(u, k') = sn/cn with complementary modulus; verify by round trip.
	m := 0.3
	kp := math.Sqrt(1 - m)
	u := ArcSC1(0.8, m)
	require.False(t, math.IsNaN(u))

	sn, cn, _, ok := JacobiSCD(u, kp, EllipticTolerance)
	require.True(t, ok)
	assert.InDelta(t, 0.8, sn/cn, 1e-8)
}
