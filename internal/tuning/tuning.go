// Package tuning maps semitone offsets to the SP-1200's playback rate ratios.
//
// The device does not tune in equal temperament. Upward shifts use a fixed
// per-semitone step; downward shifts from -1 to -8 use measured ratios, and
// anything lower is extrapolated from the last measured segment, which
// drifts from what the hardware would do.
package tuning

import "math"

// PositiveStep is the per-semitone ratio for upward shifts; a shift of +st
// plays at PositiveStep^-st of the original length.
const PositiveStep = 1.02930223664

// MinTabulated is the lowest measured semitone offset.
const MinTabulated = -8

// Point is one measured tuning entry.
type Point struct {
	Semitones int
	Ratio     float64
}

var negative = [...]float64{
	1.05652677103003,   // -1
	1.1215356033380033, // -2
	1.1834835840896631, // -3
	1.253228360845465,  // -4
	1.3310440397149297, // -5
	1.4039714929646099, // -6
	1.5028019735639886, // -7
	1.5766735700797954, // -8
}

// Ratio returns the length ratio (output/input) for st semitones. The second
// result is true when st lies below the measured table and the ratio was
// extrapolated.
func Ratio(st int) (float64, bool) {
	switch {
	case st == 0:
		return 1, false
	case st > 0:
		return math.Pow(PositiveStep, -float64(st)), false
	case st >= MinTabulated:
		return negative[-st-1], false
	default:
		// Linear continuation of the (-8, -7) segment.
		lo, hi := negative[-MinTabulated-1], negative[-MinTabulated-2]
		slope := hi - lo
		return lo + slope*float64(st-MinTabulated), true
	}
}

// Table returns the measured negative entries from -1 down to -8.
func Table() []Point {
	out := make([]Point, len(negative))
	for i, r := range negative {
		out[i] = Point{Semitones: -(i + 1), Ratio: r}
	}
	return out
}
