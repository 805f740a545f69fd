// Command pitcher renders audio files through the SP-1200/SP-12 signal path.
//
// Usage:
//
//	pitcher -st -4 input.wav output.wav
//	pitcher -st 3 -output-filter-type vcf -vcf-cutoff 6000 drums.flac out.mp3
//	pitcher -st -12 -time-stretch=false loop.wav loop_octave_down.wav
//	pitcher -render-all break.wav break.wav     # break_shelf.wav, break_butterworth.wav, ...
//
// Every flag can also be set through the environment as PITCHER_<FLAG>, with
// dashes turned into underscores (PITCHER_ST=-4, PITCHER_OUTPUT_FILTER=false).
// Flags given on the command line win over the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"
	"time"

	pitcher "github.com/tphakala/go-pitcher"
	"github.com/tphakala/go-pitcher/internal/analysis"
	"github.com/tphakala/go-pitcher/internal/audioio"
	"github.com/tphakala/simd/cpu"
)

const (
	minRequiredArgs = 2

	defaultLogLevel = "info"
	defaultFFmpeg   = "ffmpeg"
)

// errUsage is returned when the positional arguments are missing.
var errUsage = errors.New("insufficient arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		stop()
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, red.Sprint("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, getenv, stderr)
	if err != nil {
		return err
	}

	if len(opts.args) < minRequiredArgs {
		fmt.Fprintf(stderr, "Usage: pitcher [options] input output\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  pitcher -st -4 input.wav output.wav          # Four semitones down, SP-1200 voicing\n")
		fmt.Fprintf(stderr, "  pitcher -device sp12 -st 2 in.wav out.flac   # SP-12 rate, two semitones up\n")
		fmt.Fprintf(stderr, "  pitcher -render-all in.wav out.wav           # One file per output curve\n")
		return errUsage
	}

	level, ok := parseLogLevel(opts.logLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if !ok {
		printWarning(stderr, fmt.Sprintf("invalid log level %q, using info (valid: debug, info, warn, error)", opts.logLevel))
	}

	cfg, err := opts.config(logger)
	if err != nil {
		return err
	}

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath, outputPath := opts.args[0], opts.args[1]
	ioOpts := []audioio.Option{
		audioio.WithFFmpeg(opts.ffmpeg),
		audioio.WithQuality(cfg.Quality),
		audioio.WithLogger(logger),
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "Input: %s\n", inputPath)
		fmt.Fprintf(stdout, "Output: %s\n", outputPath)
		fmt.Fprintf(stdout, "Device: %s (%d Hz), %+d semitones\n", cfg.Device, cfg.Device.SampleRate(), cfg.Semitones)
		fmt.Fprintf(stdout, "Pitch: %s, resample: %s, time stretch: %s\n", cfg.PitchMethod, cfg.ResampleMethod, cfg.TimeStretch)
		fmt.Fprintf(stdout, "SIMD: %s\n", cpu.Info())
	}

	start := time.Now()
	dec, err := audioio.Load(ctx, inputPath, pitcher.InputRate, cfg.Mono, ioOpts...)
	if err != nil {
		return err
	}
	in := pitcher.Audio{Channels: dec.Channels, SampleRate: dec.SampleRate}

	var renders []pitcher.Rendering
	if opts.renderAll {
		if renders, err = pitcher.RenderMany(ctx, cfg, in); err != nil {
			return err
		}
	} else {
		p, err := pitcher.New(cfg)
		if err != nil {
			return err
		}
		out, err := p.Process(ctx, in)
		if err != nil {
			return err
		}
		renders = []pitcher.Rendering{{Curve: cfg.Curve, Output: out}}
	}

	for _, r := range renders {
		path := outputPath
		if opts.renderAll {
			path = renderPath(outputPath, r.Curve)
		}
		for _, w := range r.Output.Warnings {
			printWarning(stderr, w.Error())
		}

		res, err := audioio.Write(ctx, path, r.Output.Channels, r.Output.SampleRate, opts.bitDepth, ioOpts...)
		if err != nil {
			return err
		}
		if res.Warning != nil {
			printWarning(stderr, res.Warning.Error())
		}
		printSummary(stdout, inputPath, dec, res, r, opts.verbose)
	}

	elapsed := time.Since(start)
	seconds := analysis.Duration(len(dec.Channels[0]), float64(dec.SampleRate))
	fmt.Fprintf(stdout, "  Duration: %.2fs, Speed: %.1fx realtime\n", elapsed.Seconds(), seconds/elapsed.Seconds())
	return nil
}

func printSummary(w io.Writer, inputPath string, dec audioio.Decoded, res audioio.WriteResult, r pitcher.Rendering, verbose bool) {
	out := r.Output
	fmt.Fprintf(w, "Rendered %s -> %s (%s)\n", filepath.Base(inputPath), filepath.Base(res.Path), res.Format)
	fmt.Fprintf(w, "  %d Hz -> %d Hz (%d channels)\n", dec.OriginalRate, out.SampleRate, len(out.Channels))
	fmt.Fprintf(w, "  %d samples -> %d samples, peak %.1f dBFS\n",
		len(dec.Channels[0]), len(out.Channels[0]), analysis.PeakDBFS(out.Channels[0]))

	if !verbose {
		return
	}
	fmt.Fprintf(w, "  Dominant frequency: %.1f Hz\n", analysis.DominantFrequency(out.Channels[0], float64(out.SampleRate)))
	for _, st := range out.Trace[0] {
		fmt.Fprintf(w, "    %-16s %8d samples @ %6.0f Hz  %v\n", st.Stage, st.Samples, st.Rate, st.Elapsed.Round(time.Microsecond))
	}
}
