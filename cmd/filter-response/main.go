// Command filter-response prints the magnitude response of the input
// anti-aliasing filter and of every output curve at a set of probe
// frequencies.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"

	"github.com/tphakala/go-pitcher/internal/analysis"
	"github.com/tphakala/go-pitcher/internal/filter"
)

const (
	inputRate  = 96000.0
	outputRate = 48000.0

	// probeSeconds of sine are pushed through the ladder; the second half is
	// measured once the filter has settled.
	probeSeconds  = 0.2
	probeAmp      = 0.1
	defaultCutoff = filter.DefaultLadderCutoff

	responsePoints = 4096
)

var probes = []float64{100, 1000, 4000, 6510, 8000, 10000, 11111, 13020, 15000, 17500, 20000}

func main() {
	cutoff := flag.Float64("vcf-cutoff", defaultCutoff, "VCF cutoff in Hz")
	resonance := flag.Float64("vcf-resonance", filter.DefaultLadderResonance, "VCF resonance, 0 to 4")
	flag.Parse()

	if err := report(os.Stdout, *cutoff, *resonance); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type curve struct {
	name    string
	rate    float64
	gain    func(f float64) float64
	cascade filter.Cascade
}

func report(w io.Writer, cutoff, resonance float64) error {
	curves, err := buildCurves(cutoff, resonance)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%10s", "Hz")
	for _, c := range curves {
		fmt.Fprintf(w, " %12s", c.name)
	}
	fmt.Fprintln(w)

	for _, f := range probes {
		fmt.Fprintf(w, "%10.0f", f)
		for _, c := range curves {
			if f >= c.rate/2 {
				fmt.Fprintf(w, " %12s", "-")
				continue
			}
			fmt.Fprintf(w, " %9.2f dB", filter.MagnitudeDB(c.gain(f)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	for _, c := range curves {
		if c.cascade == nil {
			continue
		}
		fmt.Fprintf(w, "%-12s -3 dB at %.0f Hz, %d sections\n", c.name, corner(c.cascade, c.rate), len(c.cascade))
	}
	return nil
}

// corner returns the first frequency where the response falls 3 dB below DC.
func corner(c filter.Cascade, rate float64) float64 {
	r := filter.FrequencyResponse(c, responsePoints)
	ref := filter.MagnitudeDB(r.Magnitude[0])
	for k, m := range r.Magnitude {
		if filter.MagnitudeDB(m) < ref-3 {
			return r.Frequencies[k] * rate
		}
	}
	return rate / 2
}

func buildCurves(cutoff, resonance float64) ([]curve, error) {
	input, err := filter.InputAntiAlias()
	if err != nil {
		return nil, fmt.Errorf("input filter: %w", err)
	}
	shelf, err := filter.Shelf(outputRate)
	if err != nil {
		return nil, fmt.Errorf("shelf: %w", err)
	}
	butter, err := filter.Butterworth(outputRate)
	if err != nil {
		return nil, fmt.Errorf("butterworth: %w", err)
	}
	ladder, err := filter.NewLadder(outputRate, cutoff, filter.WithResonance(resonance))
	if err != nil {
		return nil, fmt.Errorf("vcf: %w", err)
	}

	return []curve{
		{"input", inputRate, cascadeGain(input, inputRate), input},
		{"shelf", outputRate, cascadeGain(shelf, outputRate), shelf},
		{"butterworth", outputRate, cascadeGain(butter, outputRate), butter},
		{"vcf", outputRate, measuredGain(ladder, outputRate), nil},
	}, nil
}

func cascadeGain(c filter.Cascade, rate float64) func(float64) float64 {
	return func(f float64) float64 { return cmplx.Abs(c.At(f / rate)) }
}

// measuredGain drives the filter with a sine, since the ladder has no
// closed-form response.
func measuredGain(flt filter.Filter, rate float64) func(float64) float64 {
	return func(f float64) float64 {
		n := int(probeSeconds * rate)
		x := make([]float64, n)
		for i := range x {
			x[i] = probeAmp * math.Sin(2*math.Pi*f*float64(i)/rate)
		}
		y := flt.Apply(x)
		return analysis.Peak(y[n/2:]) / probeAmp
	}
}
