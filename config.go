package pitcher

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tphakala/go-pitcher/internal/engine"
	"github.com/tphakala/go-pitcher/internal/filter"
	"github.com/tphakala/go-pitcher/internal/quantize"
)

// Device selects the emulated sampler, which fixes its sample rate.
type Device int

const (
	// DeviceSP1200 runs at 26040 Hz.
	DeviceSP1200 Device = iota
	// DeviceSP12 runs at 27500 Hz.
	DeviceSP12
)

// SampleRate returns the device rate in Hz.
func (d Device) SampleRate() int {
	if d == DeviceSP12 {
		return RateSP12
	}
	return RateSP1200
}

func (d Device) String() string {
	switch d {
	case DeviceSP1200:
		return "sp1200"
	case DeviceSP12:
		return "sp12"
	default:
		return fmt.Sprintf("Device(%d)", int(d))
	}
}

// ParseDevice accepts "sp1200" and "sp12", with or without a hyphen.
func ParseDevice(s string) (Device, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "sp1200":
		return DeviceSP1200, nil
	case "sp12":
		return DeviceSP12, nil
	default:
		return 0, fmt.Errorf("%w: unknown device %q (valid: sp1200, sp12)", ErrInvalidConfig, s)
	}
}

// Curve selects the output equalization.
type Curve int

const (
	// CurveShelf is the 45-tap FIR fit of the device's output shelf.
	CurveShelf Curve = iota
	// CurveButterworth is an order-7 low-pass at 10 kHz.
	CurveButterworth
	// CurveVCF is the resonant ladder low-pass.
	CurveVCF
)

// Curves lists every output curve.
var Curves = []Curve{CurveShelf, CurveButterworth, CurveVCF}

func (c Curve) String() string {
	switch c {
	case CurveShelf:
		return "shelf"
	case CurveButterworth:
		return "butterworth"
	case CurveVCF:
		return "vcf"
	default:
		return fmt.Sprintf("Curve(%d)", int(c))
	}
}

// ParseCurve accepts the curve names and their short aliases lp1, lp2 and
// moog.
func ParseCurve(s string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shelf", "lp1":
		return CurveShelf, nil
	case "butterworth", "lp2":
		return CurveButterworth, nil
	case "vcf", "moog":
		return CurveVCF, nil
	default:
		return 0, fmt.Errorf("%w: unknown output filter curve %q (valid: shelf, butterworth, vcf)", ErrInvalidConfig, s)
	}
}

// PitchMethod selects how the pitch stage transposes.
type PitchMethod int

const (
	// PitchNative is the device's nearest-index resample: pitch and
	// duration change together.
	PitchNative PitchMethod = iota
	// PitchSpectral transposes with a phase vocoder and then stretches
	// duration by the device tuning step.
	PitchSpectral
)

func (m PitchMethod) String() string {
	switch m {
	case PitchNative:
		return "native"
	case PitchSpectral:
		return "spectral"
	default:
		return fmt.Sprintf("PitchMethod(%d)", int(m))
	}
}

// ParsePitchMethod accepts "native" (alias "manual") and "spectral" (alias
// "rubberband").
func ParsePitchMethod(s string) (PitchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "manual":
		return PitchNative, nil
	case "spectral", "rubberband":
		return PitchSpectral, nil
	default:
		return 0, fmt.Errorf("%w: unknown pitch method %q (valid: native, spectral)", ErrInvalidConfig, s)
	}
}

// ResampleMethod selects the input-to-device rate conversion.
type ResampleMethod int

const (
	// ResampleTwoStep resamples spectrally to twice the device rate and
	// decimates by two.
	ResampleTwoStep ResampleMethod = iota
	// ResampleDirect uses two polyphase passes, through twice the device
	// rate and then down to it.
	ResampleDirect
)

func (m ResampleMethod) String() string {
	switch m {
	case ResampleTwoStep:
		return "twostep"
	case ResampleDirect:
		return "direct"
	default:
		return fmt.Sprintf("ResampleMethod(%d)", int(m))
	}
}

// ParseResampleMethod accepts "twostep" (alias "scipy") and "direct" (alias
// "librosa").
func ParseResampleMethod(s string) (ResampleMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "twostep", "two-step", "scipy":
		return ResampleTwoStep, nil
	case "direct", "librosa":
		return ResampleDirect, nil
	default:
		return 0, fmt.Errorf("%w: unknown resample method %q (valid: twostep, direct)", ErrInvalidConfig, s)
	}
}

// TimeStretchMode selects the duration after pitching.
type TimeStretchMode int

const (
	// StretchNative keeps the duration change of the pitch shift, as the
	// device does.
	StretchNative TimeStretchMode = iota
	// StretchRestore stretches back to the pre-pitch duration.
	StretchRestore
	// StretchCustom restores the duration and then stretches by
	// Config.StretchFactor.
	StretchCustom
)

func (m TimeStretchMode) String() string {
	switch m {
	case StretchNative:
		return "native"
	case StretchRestore:
		return "restore"
	case StretchCustom:
		return "custom"
	default:
		return fmt.Sprintf("TimeStretchMode(%d)", int(m))
	}
}

// StretchModeFromFlags maps the command-line pair (time stretch enabled,
// custom factor) to a mode and factor. Enabled with factor 1 is the native
// mode; disabled or factor 0 restores the original length; any other factor
// is a custom stretch.
func StretchModeFromFlags(enabled bool, factor float64) (TimeStretchMode, float64) {
	switch {
	case enabled && factor == 1:
		return StretchNative, 1
	case !enabled || factor == 0:
		return StretchRestore, 1
	default:
		return StretchCustom, factor
	}
}

// Alignment places the quantizer levels relative to zero.
type Alignment = quantize.Alignment

// Quantizer alignments.
const (
	AlignMidtread = quantize.Midtread
	AlignMidrise  = quantize.Midrise
)

// Quality is the polyphase resampler preset used for the direct rate
// conversions.
type Quality = engine.Quality

// Resampler presets.
const (
	QualityQuick    = engine.QualityQuick
	QualityLow      = engine.QualityLow
	QualityMedium   = engine.QualityMedium
	QualityHigh     = engine.QualityHigh
	QualityVeryHigh = engine.QualityVeryHigh
)

// Config is the complete, immutable description of a run. Build one with
// DefaultConfig and adjust fields; New validates it.
type Config struct {
	// Device fixes the emulated sample rate.
	Device Device

	// Semitones is the pitch offset. Values below -8 are extrapolated from
	// the device table and reported with ErrNumericDegradation.
	Semitones int

	// InputFilter enables the elliptic anti-aliasing filter.
	InputFilter bool

	// Quantize enables ADC emulation at QuantizeBits with Alignment.
	Quantize     bool
	QuantizeBits int
	Alignment    Alignment

	PitchMethod    PitchMethod
	ResampleMethod ResampleMethod

	// TimeStretch and StretchFactor control the duration after pitching.
	// StretchFactor is used by StretchCustom only.
	TimeStretch   TimeStretchMode
	StretchFactor float64

	// OutputFilter enables the output equalization selected by Curve.
	OutputFilter bool
	Curve        Curve

	// VCF parameters, used when Curve is CurveVCF.
	VCFCutoff    float64
	VCFResonance float64
	VCFDrive     float64

	// Normalize scales each output channel to a peak of 1.
	Normalize bool

	// Mono averages stereo input to one channel before processing.
	Mono bool

	// Parallel runs stereo channels concurrently.
	Parallel bool

	// Quality is the polyphase preset for the direct resamples.
	Quality Quality

	// Logger receives stage logs. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the device's stock signal path: SP-1200, no pitch
// offset, every stage enabled with the shelf output curve, native duration.
func DefaultConfig() Config {
	return Config{
		Device:         DeviceSP1200,
		InputFilter:    true,
		Quantize:       true,
		QuantizeBits:   DefaultQuantizeBits,
		Alignment:      AlignMidtread,
		PitchMethod:    PitchNative,
		ResampleMethod: ResampleTwoStep,
		TimeStretch:    StretchNative,
		StretchFactor:  DefaultStretchFactor,
		OutputFilter:   true,
		Curve:          CurveShelf,
		VCFCutoff:      DefaultVCFCutoff,
		VCFResonance:   filter.DefaultLadderResonance,
		VCFDrive:       filter.DefaultLadderDrive,
		Parallel:       true,
		Quality:        QualityHigh,
	}
}

// Validate checks the configuration without designing any filter.
func (c *Config) Validate() error {
	if c.Device != DeviceSP1200 && c.Device != DeviceSP12 {
		return fmt.Errorf("%w: unknown device %d", ErrInvalidConfig, int(c.Device))
	}

	if c.Quantize && (c.QuantizeBits < quantize.MinBits || c.QuantizeBits > quantize.MaxBits) {
		return fmt.Errorf("%w: quantize bits must be %d-%d, got %d",
			ErrInvalidConfig, quantize.MinBits, quantize.MaxBits, c.QuantizeBits)
	}
	if c.Alignment != AlignMidtread && c.Alignment != AlignMidrise {
		return fmt.Errorf("%w: unknown quantizer alignment %d", ErrInvalidConfig, int(c.Alignment))
	}

	if c.PitchMethod != PitchNative && c.PitchMethod != PitchSpectral {
		return fmt.Errorf("%w: unknown pitch method %d", ErrInvalidConfig, int(c.PitchMethod))
	}
	if c.ResampleMethod != ResampleTwoStep && c.ResampleMethod != ResampleDirect {
		return fmt.Errorf("%w: unknown resample method %d", ErrInvalidConfig, int(c.ResampleMethod))
	}

	switch c.TimeStretch {
	case StretchNative, StretchRestore:
	case StretchCustom:
		if !(c.StretchFactor > 0) || math.IsInf(c.StretchFactor, 0) {
			return fmt.Errorf("%w: stretch factor must be positive and finite, got %g", ErrInvalidConfig, c.StretchFactor)
		}
	default:
		return fmt.Errorf("%w: unknown time stretch mode %d", ErrInvalidConfig, int(c.TimeStretch))
	}

	if c.Curve < CurveShelf || c.Curve > CurveVCF {
		return fmt.Errorf("%w: unknown output filter curve %d", ErrInvalidConfig, int(c.Curve))
	}
	if c.OutputFilter && c.Curve == CurveVCF && !(c.VCFCutoff > 0 && c.VCFCutoff < OutputRate/2) {
		return fmt.Errorf("%w: vcf cutoff must be in (0, %d) Hz, got %g", ErrInvalidConfig, OutputRate/2, c.VCFCutoff)
	}

	if c.Quality < QualityQuick || c.Quality > QualityVeryHigh {
		return fmt.Errorf("%w: unknown resampler quality %d", ErrInvalidConfig, int(c.Quality))
	}
	return nil
}
