package pitcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DeviceSP1200, cfg.Device)
	assert.Equal(t, RateSP1200, cfg.Device.SampleRate())
	assert.Equal(t, 12, cfg.QuantizeBits)
	assert.Equal(t, AlignMidtread, cfg.Alignment)
	assert.Equal(t, CurveShelf, cfg.Curve)
	assert.Equal(t, StretchNative, cfg.TimeStretch)
	assert.InDelta(t, 10000, cfg.VCFCutoff, 0)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"sp12", func(c *Config) { c.Device = DeviceSP12 }, true},
		{"unknown device", func(c *Config) { c.Device = Device(7) }, false},
		{"zero bits", func(c *Config) { c.QuantizeBits = 0 }, false},
		{"too many bits", func(c *Config) { c.QuantizeBits = 25 }, false},
		{"bits ignored when not quantizing", func(c *Config) { c.Quantize = false; c.QuantizeBits = 0 }, true},
		{"bad alignment", func(c *Config) { c.Alignment = Alignment(5) }, false},
		{"bad pitch method", func(c *Config) { c.PitchMethod = PitchMethod(3) }, false},
		{"bad resample method", func(c *Config) { c.ResampleMethod = ResampleMethod(-1) }, false},
		{"bad stretch mode", func(c *Config) { c.TimeStretch = TimeStretchMode(9) }, false},
		{"custom stretch", func(c *Config) { c.TimeStretch = StretchCustom; c.StretchFactor = 0.5 }, true},
		{"custom stretch zero", func(c *Config) { c.TimeStretch = StretchCustom; c.StretchFactor = 0 }, false},
		{"custom stretch inf", func(c *Config) { c.TimeStretch = StretchCustom; c.StretchFactor = math.Inf(1) }, false},
		{"unknown curve", func(c *Config) { c.Curve = Curve(3) }, false},
		{"unknown curve with filter off", func(c *Config) { c.OutputFilter = false; c.Curve = Curve(3) }, false},
		{"vcf cutoff above nyquist", func(c *Config) { c.Curve = CurveVCF; c.VCFCutoff = 30000 }, false},
		{"vcf cutoff ignored for shelf", func(c *Config) { c.VCFCutoff = -1 }, true},
		{"bad quality", func(c *Config) { c.Quality = Quality(99) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestParseCurve(t *testing.T) {
	tests := []struct {
		in   string
		want Curve
	}{
		{"shelf", CurveShelf},
		{"lp1", CurveShelf},
		{"Butterworth", CurveButterworth},
		{"lp2", CurveButterworth},
		{"vcf", CurveVCF},
		{" MOOG ", CurveVCF},
	}
	for _, tt := range tests {
		got, err := ParseCurve(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCurve("lp3")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "lp3")
}

func TestParseMethods(t *testing.T) {
	pm, err := ParsePitchMethod("manual")
	require.NoError(t, err)
	assert.Equal(t, PitchNative, pm)
	pm, err = ParsePitchMethod("rubberband")
	require.NoError(t, err)
	assert.Equal(t, PitchSpectral, pm)
	_, err = ParsePitchMethod("granular")
	require.ErrorIs(t, err, ErrInvalidConfig)

	rm, err := ParseResampleMethod("scipy")
	require.NoError(t, err)
	assert.Equal(t, ResampleTwoStep, rm)
	rm, err = ParseResampleMethod("librosa")
	require.NoError(t, err)
	assert.Equal(t, ResampleDirect, rm)
	_, err = ParseResampleMethod("sinc")
	require.ErrorIs(t, err, ErrInvalidConfig)

	d, err := ParseDevice("SP-12")
	require.NoError(t, err)
	assert.Equal(t, DeviceSP12, d)
	assert.Equal(t, RateSP12, d.SampleRate())
	_, err = ParseDevice("mpc60")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStretchModeFromFlags(t *testing.T) {
	tests := []struct {
		enabled    bool
		factor     float64
		wantMode   TimeStretchMode
		wantFactor float64
	}{
		{true, 1, StretchNative, 1},
		{true, 0, StretchRestore, 1},
		{false, 1, StretchRestore, 1},
		{false, 1.5, StretchRestore, 1},
		{true, 1.5, StretchCustom, 1.5},
	}
	for _, tt := range tests {
		mode, factor := StretchModeFromFlags(tt.enabled, tt.factor)
		assert.Equal(t, tt.wantMode, mode, "enabled=%v factor=%g", tt.enabled, tt.factor)
		assert.InDelta(t, tt.wantFactor, factor, 0)
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "sp1200", DeviceSP1200.String())
	assert.Equal(t, "vcf", CurveVCF.String())
	assert.Equal(t, "Curve(9)", Curve(9).String())
	assert.Equal(t, "spectral", PitchSpectral.String())
	assert.Equal(t, "direct", ResampleDirect.String())
	assert.Equal(t, "custom", StretchCustom.String())
	assert.Equal(t, "output-resample", StageOutputResample.String())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}
