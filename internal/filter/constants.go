package filter

const (
	// Kaiser windowed-sinc design limits.
	minFilterTaps = 3
	maxFilterTaps = 1<<19 - 1

	sincZeroThreshold = 1e-10

	// Root pairing tolerances used when grouping zeros/poles into sections.
	realRootTolerance = 1e-9
	conjugateMatchTol = 1e-4

	// sosfiltfilt pads by three times the filter order per side.
	filtfiltPadFactor = 3

	// Default number of points for frequency response evaluation.
	defaultResponsePoints = 512

	minMagnitude = 1e-10 // -200 dB
	dbMultiplier = 20.0
)
