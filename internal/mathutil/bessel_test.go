package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-pitcher/internal/testutil"
)

func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"One", 1.0, 1.266065878, 1e-7},
		{"Boundary 3.75", 3.75, 9.118945994, 1e-7},
		{"Five", 5.0, 27.23987182, 1e-7},
		{"Ten", 10.0, 2815.716628, 1e-6},
		{"Negative one", -1.0, 1.266065878, 1e-7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertRelativeError(t, tt.expected, BesselI0(tt.x), tt.tolerance)
		})
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.1; x < 12.0; x += 0.1 {
		curr := BesselI0(x)
		assert.Greater(t, curr, prev, "not increasing at x=%v", x)
		prev = curr
	}
}

func TestKaiserBeta(t *testing.T) {
	assert.Zero(t, KaiserBeta(20))
	assert.InDelta(t, 0.1102*(100-8.7), KaiserBeta(100), 1e-12)
	assert.InDelta(t, 0.5842*math.Pow(9, 0.4)+0.07886*9, KaiserBeta(30), 1e-12)
}

func TestEstimateFilterLength(t *testing.T) {
	tests := []struct {
		name string
		att  float64
		bw   float64
	}{
		{"narrow", 120, 0.001},
		{"wide", 60, 0.1},
		{"zero bandwidth", 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := EstimateFilterLength(tt.att, tt.bw)
			assert.Equal(t, 1, n%2, "length must be odd")
			assert.GreaterOrEqual(t, n, MinFilterLength)
			assert.LessOrEqual(t, n, MaxFilterLength)
		})
	}

	assert.Greater(t, EstimateFilterLength(120, 0.001), EstimateFilterLength(120, 0.01))
}

func BenchmarkBesselI0(b *testing.B) {
	for b.Loop() {
		_ = BesselI0(7.5)
	}
}
