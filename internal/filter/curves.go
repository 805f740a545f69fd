package filter

import (
	"fmt"
	"math"
)

// Input anti-aliasing filter.
const (
	InputOrder      = 4
	InputRippleDB   = 1.0
	InputStopbandDB = 72.0
	InputCutoff     = 0.666 // fraction of Nyquist
)

// Output equalization.
const (
	ShelfTaps         = 45
	ButterworthOrder  = 7
	ButterworthCutoff = 10000.0 // Hz
)

// Output shelf curve, read off the device's output stage: frequency in Hz
// against attenuation in dB at a 48 kHz output rate.
var (
	shelfFreqs = []float64{0, 6510, 8000, 10000, 11111, 13020, 15000, 17500, 20000, 24000}
	shelfAttDB = []float64{0, 0, -5, -10, -15, -23, -28, -35, -41, -40}
)

// InputAntiAlias returns the elliptic low-pass applied before rate reduction.
func InputAntiAlias() (Cascade, error) {
	return EllipticLP(InputOrder, InputRippleDB, InputStopbandDB, InputCutoff)
}

// ShelfFIR designs the FIR behind the shelf curve for sample rate fs. The
// curve's top point is moved to fs/2 when fs is not 48 kHz.
func ShelfFIR(fs float64) ([]float64, error) {
	freqs := make([]float64, 0, len(shelfFreqs))
	gains := make([]float64, 0, len(shelfAttDB))
	nyq := fs / 2

	for i, f := range shelfFreqs {
		if f >= nyq {
			break
		}
		freqs = append(freqs, f)
		gains = append(gains, math.Pow(10, shelfAttDB[i]/20))
	}
	freqs = append(freqs, nyq)
	gains = append(gains, math.Pow(10, shelfAttDB[min(len(freqs)-1, len(shelfAttDB)-1)]/20))

	return Firwin2(ShelfTaps, freqs, gains, fs)
}

// Shelf returns the shelf curve realized as second-order sections.
func Shelf(fs float64) (Cascade, error) {
	taps, err := ShelfFIR(fs)
	if err != nil {
		return nil, fmt.Errorf("shelf design: %w", err)
	}
	return FIRToSOS(taps)
}

// Butterworth returns the order-7, 10 kHz output low-pass for sample rate fs.
func Butterworth(fs float64) (Cascade, error) {
	return ButterworthLP(ButterworthOrder, ButterworthCutoff/(fs/2))
}
