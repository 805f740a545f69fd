package pitcher

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-pitcher/internal/audioio"
)

// Errors returned by the pipeline. Warnings are reported through
// Output.Warnings and never abort a run.
var (
	// ErrInvalidConfig indicates invalid configuration parameters. It is
	// returned by Validate and New before any sample is processed.
	ErrInvalidConfig = errors.New("invalid pitcher configuration")

	// ErrNumericDegradation is a warning: the semitone offset lies beyond
	// the tabulated tuning range and its ratio was extrapolated.
	ErrNumericDegradation = errors.New("tuning ratio extrapolated beyond the device table")

	// ErrChannelLengthMismatch is a warning: stereo channels came out of
	// their chains with different lengths and were trimmed to the shorter.
	ErrChannelLengthMismatch = errors.New("channel lengths differ")

	// ErrUnsupportedFormat is a warning from writing: the output extension
	// was not recognized and WAV was written instead.
	ErrUnsupportedFormat = audioio.ErrUnsupportedFormat

	// ErrEmptyInput is returned for buffers with no samples.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedInput is returned for buffers holding NaN or infinite
	// samples.
	ErrMalformedInput = errors.New("non-finite sample in input")

	// ErrChannelLayout is returned for a channel count other than one or two.
	ErrChannelLayout = audioio.ErrChannelLayout

	// ErrSampleRate is returned for input not at InputRate.
	ErrSampleRate = errors.New("input not at pipeline input rate")
)

// PipelineError reports the stage a run failed in.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pitcher: %s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
