package tuning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		st       int
		want     float64
		degraded bool
	}{
		{"unity", 0, 1, false},
		{"one up", 1, 1 / PositiveStep, false},
		{"three up", 3, 0.9170040432140044, false},
		{"one down", -1, 1.05652677103003, false},
		{"lowest measured", -8, 1.5766735700797954, false},
		{"one past the table", -9, 1.6505451665956021, true},
		{"octave down", -12, 1.8721599561430226, true},
		{"two octaves down", -24, 2.7586191143327037, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, degraded := Ratio(tt.st)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.degraded, degraded)
		})
	}
}

func TestRatio_ZeroIsExact(t *testing.T) {
	r, _ := Ratio(0)
	assert.Equal(t, 1.0, r)
}

func TestRatio_Monotonic(t *testing.T) {
	prev := math.Inf(1)
	for st := -24; st <= 24; st++ {
		r, _ := Ratio(st)
		assert.Less(t, r, prev, "ratio must shrink as st rises (st=%d)", st)
		assert.Positive(t, r)
		prev = r
	}
}

func TestTable(t *testing.T) {
	tab := Table()
	assert.Len(t, tab, 8)
	assert.Equal(t, -1, tab[0].Semitones)
	assert.Equal(t, MinTabulated, tab[len(tab)-1].Semitones)
	for _, p := range tab {
		r, degraded := Ratio(p.Semitones)
		assert.False(t, degraded)
		assert.InDelta(t, p.Ratio, r, 0)
	}

	tab[0].Ratio = 99
	assert.InDelta(t, 1.05652677103003, Table()[0].Ratio, 0, "Table returns a copy")
}
