package engine

// Quality preset constants.
const (
	// Stopband attenuation: att = (bits + 1) * 6.0206 dB, soxr's bits1 rule.
	dbPerBit = 6.0206

	bitsQuick    = 8
	bitsLow      = 16
	bitsMedium   = 16
	bitsHigh     = 20 // SOXR_HQ, what librosa's soxr_hq asks for
	bitsVeryHigh = 28

	// Passband end as a fraction of the narrower Nyquist.
	passbandLow      = 1385.0 / 2048.0 // soxr LOW_Q_BW0
	passbandMedium   = 0.91
	passbandHigh     = 0.913
	passbandVeryHigh = 0.913

	// Stopband begins at the narrower Nyquist.
	stopbandEdge = 1.0
)

// Polyphase layout constants.
const (
	// maxPhases bounds the interpolation factor after gcd reduction.
	maxPhases = 1 << 12

	// nyquistScale converts a fraction of Nyquist to cycles per sample.
	nyquistScale = 0.5
)

// Spectral transform constants.
const (
	// decimateOrder, decimateRippleDB and decimateCutoff are the anti-alias
	// filter of scipy.signal.decimate's IIR mode: cheby1(8, 0.05, 0.8/q).
	decimateOrder    = 8
	decimateRippleDB = 0.05
	decimateCutoff   = 0.8

	// hermitianDivisor gives the number of unique bins of a real transform.
	hermitianDivisor = 2
)
