// Package audioio loads and writes the audio files around the pipeline.
//
// WAV is read and written natively with go-audio/wav. MP3, OGG and FLAC, and
// any input go-audio cannot decode, go through an external ffmpeg binary by
// way of an intermediate WAV file. Loads are converted to the requested rate
// with the polyphase resampler; writes land in a temporary file that is
// renamed into place only after it is complete.
package audioio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/go-pitcher/internal/engine"
)

// Errors reported by Load and Write.
var (
	// ErrUnsupportedFormat marks an output extension outside wav, mp3, ogg
	// and flac. Write still succeeds, as WAV with ".wav" appended, and
	// reports it in WriteResult.Warning.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrDecode is returned when an input cannot be decoded.
	ErrDecode = errors.New("cannot decode audio")

	// ErrChannelLayout is returned for missing channels or channels of
	// unequal length.
	ErrChannelLayout = errors.New("invalid channel layout")

	// ErrBitDepth is returned for a PCM width other than 16, 24 or 32.
	ErrBitDepth = errors.New("unsupported bit depth")
)

// Format is an output container.
type Format string

// Output containers.
const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatOGG  Format = "ogg"
	FormatFLAC Format = "flac"
)

// DefaultBitDepth is the PCM width of written files.
const DefaultBitDepth = bitsPerSample16

// FormatFromPath maps a file extension to a container. The second result is
// false when the extension is not supported.
func FormatFromPath(path string) (Format, bool) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); f {
	case FormatWAV, FormatMP3, FormatOGG, FormatFLAC:
		return f, true
	default:
		return "", false
	}
}

// Decoded is a loaded file.
type Decoded struct {
	// Channels holds one slice per channel, all of equal length.
	Channels [][]float64

	// SampleRate is the rate of Channels, the rate Load was asked for.
	SampleRate int

	// OriginalRate is the file's own sample rate.
	OriginalRate int
}

// WriteResult describes a completed write.
type WriteResult struct {
	// Path is where the file was written; it differs from the requested
	// path when ".wav" had to be appended.
	Path   string
	Format Format

	// Warning is non-nil when the write degraded, e.g. ErrUnsupportedFormat.
	Warning error
}

type options struct {
	ffmpeg  string
	quality engine.Quality
	logger  *slog.Logger
}

// Option configures Load and Write.
type Option func(*options)

// WithFFmpeg sets the ffmpeg executable. The default is "ffmpeg" from PATH.
func WithFFmpeg(path string) Option {
	return func(o *options) { o.ffmpeg = path }
}

// WithQuality sets the resampler quality used when loading.
func WithQuality(q engine.Quality) Option {
	return func(o *options) { o.quality = q }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		ffmpeg:  "ffmpeg",
		quality: engine.QualityHigh,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads path and returns its samples at targetRate, in [-1, 1]. With
// mono set, multichannel input is averaged down to one channel.
func Load(ctx context.Context, path string, targetRate int, mono bool, opts ...Option) (Decoded, error) {
	o := buildOptions(opts)
	if targetRate <= 0 {
		return Decoded{}, fmt.Errorf("%w: target rate %d", engine.ErrInvalidRate, targetRate)
	}

	if _, err := os.Stat(path); err != nil {
		return Decoded{}, fmt.Errorf("failed to open input file: %w", err)
	}
	o.logger.Info("loading audio", "path", path, "target_rate", targetRate, "mono", mono)

	channels, rate, err := readWAVFile(path)
	if err != nil {
		o.logger.Debug("native WAV decode failed, trying ffmpeg", "path", path, "error", err)
		channels, rate, err = decodeWithFFmpeg(ctx, o, path)
		if err != nil {
			return Decoded{}, err
		}
	}

	if mono && len(channels) > 1 {
		channels = [][]float64{downmix(channels)}
	}

	out := Decoded{Channels: channels, SampleRate: targetRate, OriginalRate: rate}
	if rate == targetRate {
		return out, nil
	}

	r, err := engine.NewResampler(rate, targetRate, o.quality)
	if err != nil {
		return Decoded{}, fmt.Errorf("resample %s: %w", path, err)
	}
	for i, ch := range channels {
		out.Channels[i] = r.Process(ch)
	}
	o.logger.Debug("resampled on load", "from", rate, "to", targetRate, "samples", len(out.Channels[0]))
	return out, nil
}

// Write stores channels at sampleRate in the container selected by the
// extension of path. An unknown extension writes WAV to path+".wav" and
// reports ErrUnsupportedFormat as a warning. On error nothing is left at the
// destination.
func Write(ctx context.Context, path string, channels [][]float64, sampleRate, bitDepth int, opts ...Option) (WriteResult, error) {
	o := buildOptions(opts)
	if err := checkLayout(channels); err != nil {
		return WriteResult{}, err
	}
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if bitDepth != bitsPerSample16 && bitDepth != bitsPerSample24 && bitDepth != bitsPerSample32 {
		return WriteResult{}, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	res := WriteResult{Path: path}
	format, ok := FormatFromPath(path)
	if !ok {
		res.Path = path + ".wav"
		format = FormatWAV
		res.Warning = fmt.Errorf("%w: %q, writing %s", ErrUnsupportedFormat, filepath.Ext(path), res.Path)
		o.logger.Warn("output format unsupported, falling back to WAV", "path", path, "written", res.Path)
	}
	res.Format = format

	o.logger.Info("writing audio", "path", res.Path, "format", format, "rate", sampleRate, "bit_depth", bitDepth)

	var err error
	if format == FormatWAV {
		err = writeWAVAtomic(res.Path, channels, sampleRate, bitDepth)
	} else {
		err = encodeWithFFmpeg(ctx, o, res.Path, format, channels, sampleRate, bitDepth)
	}
	if err != nil {
		return WriteResult{}, err
	}
	return res, nil
}

func checkLayout(channels [][]float64) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrChannelLayout)
	}
	for i, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrChannelLayout, i+1, len(ch), len(channels[0]))
		}
	}
	return nil
}

func downmix(channels [][]float64) []float64 {
	out := make([]float64, len(channels[0]))
	scale := 1 / float64(len(channels))
	for _, ch := range channels {
		for i, v := range ch {
			out[i] += v * scale
		}
	}
	return out
}
