package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	pitcher "github.com/tphakala/go-pitcher"
	"github.com/tphakala/go-pitcher/internal/audioio"
	"github.com/tphakala/go-pitcher/internal/quantize"
)

const envPrefix = "PITCHER_"

var (
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// options holds the parsed command line.
type options struct {
	st                int
	inputFilter       bool
	quantize          bool
	quantizeBits      int
	alignment         string
	timeStretch       bool
	customTimeStretch float64
	outputFilter      bool
	outputFilterType  string
	vcfCutoff         float64
	normalize         bool
	mono              bool
	pitchMethod       string
	resampleMethod    string
	device            string
	logLevel          string
	parallel          bool
	renderAll         bool
	bitDepth          int
	ffmpeg            string
	verbose           bool
	cpuprofile        string
	quality           string

	args []string
}

// parseFlags defines the flag set, applies PITCHER_* environment values
// and then parses args on top of them.
func parseFlags(args []string, getenv func(string) string, output io.Writer) (options, *flag.FlagSet, error) {
	def := pitcher.DefaultConfig()
	var o options

	fs := flag.NewFlagSet("pitcher", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&o.st, "st", def.Semitones, "Semitones to shift (negative is down; below -8 is extrapolated)")
	fs.BoolVar(&o.inputFilter, "input-filter", def.InputFilter, "Apply the input anti-aliasing filter")
	fs.BoolVar(&o.quantize, "quantize", def.Quantize, "Emulate the ADC quantizer")
	fs.IntVar(&o.quantizeBits, "quantize-bits", def.QuantizeBits, "Quantizer bit depth")
	fs.StringVar(&o.alignment, "alignment", def.Alignment.String(), "Quantizer levels: midtread or midrise")
	fs.BoolVar(&o.timeStretch, "time-stretch", true, "Keep the device's pitch-dependent duration (false restores the original length)")
	fs.Float64Var(&o.customTimeStretch, "custom-time-stretch", def.StretchFactor, "Stretch factor applied after restoring the length (1 keeps the device duration, 0 restores)")
	fs.BoolVar(&o.outputFilter, "output-filter", def.OutputFilter, "Apply the output equalization")
	fs.StringVar(&o.outputFilterType, "output-filter-type", def.Curve.String(), "Output curve: shelf (lp1), butterworth (lp2) or vcf (moog)")
	fs.Float64Var(&o.vcfCutoff, "vcf-cutoff", def.VCFCutoff, "VCF cutoff in Hz")
	fs.BoolVar(&o.normalize, "normalize", def.Normalize, "Normalize each output channel to full scale")
	fs.BoolVar(&o.mono, "mono", def.Mono, "Mix the input down to mono")
	fs.StringVar(&o.pitchMethod, "pitch-method", def.PitchMethod.String(), "Pitch method: native or spectral")
	fs.StringVar(&o.resampleMethod, "resample-method", def.ResampleMethod.String(), "Device resample method: twostep or direct")
	fs.StringVar(&o.device, "device", def.Device.String(), "Emulated device: sp1200 or sp12")
	fs.StringVar(&o.logLevel, "log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&o.parallel, "parallel", def.Parallel, "Process stereo channels concurrently")
	fs.BoolVar(&o.renderAll, "render-all", false, "Write one output per curve, named <output>_<curve>.<ext>")
	fs.IntVar(&o.bitDepth, "bit-depth", audioio.DefaultBitDepth, "Output PCM bit depth: 16, 24 or 32")
	fs.StringVar(&o.ffmpeg, "ffmpeg", defaultFFmpeg, "ffmpeg executable for mp3, ogg and flac")
	fs.BoolVar(&o.verbose, "v", false, "Verbose output")
	fs.StringVar(&o.quality, "quality", def.Quality.String(), "Polyphase resampler preset: quick, low, medium, high, veryhigh")
	fs.StringVar(&o.cpuprofile, "cpuprofile", "", "Write CPU profile to file (for PGO)")

	if err := applyEnv(fs, getenv); err != nil {
		return options{}, fs, err
	}
	if err := fs.Parse(args); err != nil {
		return options{}, fs, err
	}
	o.args = fs.Args()
	return o, fs, nil
}

// envName maps a flag name to its environment variable.
func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// applyEnv sets every flag whose PITCHER_* variable is present.
func applyEnv(fs *flag.FlagSet, getenv func(string) string) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		key := envName(f.Name)
		if value := getEnv(getenv, key, ""); value != "" {
			if setErr := fs.Set(f.Name, value); setErr != nil {
				err = fmt.Errorf("invalid %s=%q: %w", key, value, setErr)
			}
		}
	})
	return err
}

// config turns the options into a pipeline configuration.
func (o options) config(logger *slog.Logger) (pitcher.Config, error) {
	cfg := pitcher.DefaultConfig()
	cfg.Semitones = o.st
	cfg.InputFilter = o.inputFilter
	cfg.Quantize = o.quantize
	cfg.QuantizeBits = o.quantizeBits
	cfg.OutputFilter = o.outputFilter
	cfg.VCFCutoff = o.vcfCutoff
	cfg.Normalize = o.normalize
	cfg.Mono = o.mono
	cfg.Parallel = o.parallel
	cfg.Logger = logger
	cfg.TimeStretch, cfg.StretchFactor = pitcher.StretchModeFromFlags(o.timeStretch, o.customTimeStretch)

	var err error
	if cfg.Quality, err = parseQuality(o.quality); err != nil {
		return pitcher.Config{}, err
	}
	if cfg.Alignment, err = quantize.ParseAlignment(o.alignment); err != nil {
		return pitcher.Config{}, fmt.Errorf("%w: %w", pitcher.ErrInvalidConfig, err)
	}
	if cfg.Curve, err = pitcher.ParseCurve(o.outputFilterType); err != nil {
		return pitcher.Config{}, err
	}
	if cfg.PitchMethod, err = pitcher.ParsePitchMethod(o.pitchMethod); err != nil {
		return pitcher.Config{}, err
	}
	if cfg.ResampleMethod, err = pitcher.ParseResampleMethod(o.resampleMethod); err != nil {
		return pitcher.Config{}, err
	}
	if cfg.Device, err = pitcher.ParseDevice(o.device); err != nil {
		return pitcher.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return pitcher.Config{}, err
	}
	return cfg, nil
}

// parseQuality maps a preset name to the resampler quality.
func parseQuality(q string) (pitcher.Quality, error) {
	switch strings.ToLower(strings.TrimSpace(q)) {
	case "quick":
		return pitcher.QualityQuick, nil
	case "low":
		return pitcher.QualityLow, nil
	case "medium":
		return pitcher.QualityMedium, nil
	case "high":
		return pitcher.QualityHigh, nil
	case "veryhigh", "very-high":
		return pitcher.QualityVeryHigh, nil
	default:
		return 0, fmt.Errorf("%w: unknown quality %q (valid: quick, low, medium, high, veryhigh)", pitcher.ErrInvalidConfig, q)
	}
}

// parseLogLevel maps a level name to slog. Unknown names give info and false.
func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "critical":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// renderPath inserts the curve name before the extension:
// out/take.wav becomes out/take_vcf.wav.
func renderPath(output string, curve pitcher.Curve) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_" + curve.String() + ext
}

func printWarning(w io.Writer, msg string) {
	_, _ = yellow.Fprintln(w, "warning: "+msg)
}
