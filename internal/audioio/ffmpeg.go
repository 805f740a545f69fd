package audioio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// codecArgs are the ffmpeg output options per container.
var codecArgs = map[Format][]string{
	FormatMP3:  {"-f", "mp3", "-codec:a", "libmp3lame", "-b:a", "320k"},
	FormatOGG:  {"-f", "ogg", "-codec:a", "libvorbis"},
	FormatFLAC: {"-f", "flac", "-codec:a", "flac", "-sample_fmt", "s16"},
}

// runFFmpeg runs ffmpeg non-interactively and folds its stderr into the error.
func runFFmpeg(ctx context.Context, o options, args ...string) error {
	full := append([]string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y"}, args...)
	cmd := exec.CommandContext(ctx, o.ffmpeg, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	o.logger.Debug("running ffmpeg", "args", strings.Join(full, " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// decodeWithFFmpeg transcodes path to a temporary 32-bit PCM WAV at the
// file's own rate and channel count, then reads that.
func decodeWithFFmpeg(ctx context.Context, o options, path string) ([][]float64, int, error) {
	dir, err := os.MkdirTemp("", "pitcher-decode-*")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	wavPath := filepath.Join(dir, "decoded.wav")
	if err := runFFmpeg(ctx, o, "-i", path, "-vn", "-codec:a", "pcm_s32le", wavPath); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return readWAVFile(wavPath)
}

// encodeWithFFmpeg writes a temporary WAV, encodes it to a temporary file
// beside path and renames the result into place.
func encodeWithFFmpeg(ctx context.Context, o options, path string, format Format, channels [][]float64, sampleRate, bitDepth int) error {
	dir, err := os.MkdirTemp("", "pitcher-encode-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	wavPath := filepath.Join(dir, "render.wav")
	if err := writeWAVAtomic(wavPath, channels, sampleRate, bitDepth); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	args := append([]string{"-i", wavPath}, codecArgs[format]...)
	if err := runFFmpeg(ctx, o, append(args, tmpPath)...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
