package pitcher

import "github.com/tphakala/go-pitcher/internal/hold"

// Fixed rates of the emulated signal path.
const (
	// InputRate is the rate the pipeline expects its input at. Loaders
	// convert to it before processing.
	InputRate = 96000

	// OutputRate is the rate of every rendered buffer.
	OutputRate = 48000

	// ResampleFactor is the intermediate oversampling of the two-step
	// device resample.
	ResampleFactor = 2

	// HoldMultiplier is the zero-order-hold oversampling factor.
	HoldMultiplier = hold.Multiplier
)

// Device sample rates.
const (
	RateSP1200 = 26040
	RateSP12   = 27500
)

// Defaults of DefaultConfig.
const (
	DefaultQuantizeBits  = 12
	DefaultStretchFactor = 1.0
	DefaultVCFCutoff     = 10000.0
)

// Channel counts accepted by Process.
const (
	monoChannels   = 1
	stereoChannels = 2
)
