package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputAntiAlias(t *testing.T) {
	c, err := InputAntiAlias()
	require.NoError(t, err)
	assert.Len(t, c, InputOrder/2)
}

func TestOutputCurves(t *testing.T) {
	shelf, err := Shelf(48000)
	require.NoError(t, err)
	assert.InDelta(t, 0, MagnitudeDB(absAt(shelf, 1000.0/48000)), 0.1)
	assert.Less(t, MagnitudeDB(absAt(shelf, 15000.0/48000)), -24.0)

	bw, err := Butterworth(48000)
	require.NoError(t, err)
	assert.InDelta(t, -3.0103, MagnitudeDB(absAt(bw, ButterworthCutoff/48000)), 0.01)
	assert.InDelta(t, 0, MagnitudeDB(absAt(bw, 1000.0/48000)), 0.01)
}

func TestShelfFIR_OtherRates(t *testing.T) {
	taps, err := ShelfFIR(44100)
	require.NoError(t, err)
	assert.Len(t, taps, ShelfTaps)
}
