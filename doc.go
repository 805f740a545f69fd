// Package pitcher emulates the signal path of the E-mu SP-1200 and SP-12
// drum samplers in pure Go.
//
// An input recording at 96 kHz is filtered, reduced to the device rate,
// quantized like the 12-bit converter, pitched by the device's own tuning
// table, held and oversampled, brought to 48 kHz and voiced by one of the
// output curves. The result sounds as if it had been sampled and played
// back by the hardware.
//
// # Quick Start
//
//	cfg := pitcher.DefaultConfig()
//	cfg.Semitones = -4
//
//	p, err := pitcher.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := p.ProcessMono(ctx, samples) // samples at pitcher.InputRate
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range out.Warnings {
//	    log.Println("warning:", w)
//	}
//
// # Signal Path
//
//	[input filter] -> device resample -> [quantize] -> pitch -> [time stretch]
//	    -> zero-order hold x4 -> resample to 48 kHz -> [output filter] -> [normalize]
//
// Bracketed stages are switched by [Config]. Every failure is reported as a
// [*PipelineError] naming the [Stage]; conditions that do not stop a run are
// collected in [Output.Warnings].
//
// # Devices
//
//   - [DeviceSP1200]: 26040 Hz.
//   - [DeviceSP12]: 27500 Hz.
//
// # Pitch
//
// The native method picks samples by nearest index, so duration changes
// with pitch and the hardware's aliasing is kept. Offsets from -8 to -1
// semitones use the measured device table, positive offsets a constant step
// and offsets below -8 are extrapolated and flagged with
// [ErrNumericDegradation]. The spectral method transposes with a phase
// vocoder instead.
//
// # Output Curves
//
//   - [CurveShelf]: a 45-tap FIR fit of the measured output shelf.
//   - [CurveButterworth]: order-7 low-pass at 10 kHz.
//   - [CurveVCF]: a resonant four-pole transistor ladder.
//
// [RenderMany] renders one input with several curves while running the
// shared part of the path only once.
//
// # Thread Safety
//
// A [Processor] holds only designed coefficients and may be shared by
// goroutines. [Processor.ProcessStereo] runs both channels concurrently when
// [Config.Parallel] is set.
package pitcher
