package audioio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
)

// fullScale returns the largest positive sample value at bitDepth.
func fullScale(bitDepth int) float64 {
	return float64(int64(1)<<(bitDepth-1)) - 1
}

// readWAVFile decodes an integer PCM WAV file into per-channel samples.
func readWAVFile(path string) ([][]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: invalid WAV file: %s", ErrDecode, path)
	}
	bitDepth := int(decoder.BitDepth)
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, 0, fmt.Errorf("%w: WAV format tag %d", ErrDecode, decoder.WavAudioFormat)
	}
	if bitDepth != bitsPerSample16 && bitDepth != bitsPerSample24 && bitDepth != bitsPerSample32 {
		return nil, 0, fmt.Errorf("%w: %d-bit WAV", ErrBitDepth, bitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, 0, fmt.Errorf("%w: %d channels", ErrChannelLayout, numChannels)
	}

	return deinterleave(buf.Data, numChannels, bitDepth), buf.Format.SampleRate, nil
}

// deinterleave splits interleaved integer samples and scales them to [-1, 1].
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	frames := len(data) / numChannels
	inv := 1 / fullScale(bitDepth)
	out := make([][]float64, numChannels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range numChannels {
			out[ch][i] = float64(data[i*numChannels+ch]) * inv
		}
	}
	return out
}

// interleave clamps samples to [-1, 1] and scales them to bitDepth integers.
func interleave(channels [][]float64, bitDepth int) []int {
	n := len(channels)
	scale := fullScale(bitDepth)
	out := make([]int, len(channels[0])*n)
	for ch, samples := range channels {
		for i, v := range samples {
			v = math.Max(-1, math.Min(1, v))
			out[i*n+ch] = int(math.Round(v * scale))
		}
	}
	return out
}

// writeWAVAtomic writes a PCM WAV next to path and renames it into place.
func writeWAVAtomic(path string, channels [][]float64, sampleRate, bitDepth int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encodeWAV(tmp, channels, sampleRate, bitDepth); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	committed = true
	return nil
}

func encodeWAV(f *os.File, channels [][]float64, sampleRate, bitDepth int) error {
	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		Data:           interleave(channels, bitDepth),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}
