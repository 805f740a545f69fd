// Package quantize maps samples onto the uniform level sets of a fixed-width
// converter.
package quantize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Bit depth limits.
const (
	MinBits = 1
	MaxBits = 24

	// DefaultBits is the SP-1200's converter width.
	DefaultBits = 12

	// DefaultAmplitude is the full-scale value U.
	DefaultAmplitude = 1.0
)

// ErrInvalidLevels is returned for an unusable bit depth or amplitude.
var ErrInvalidLevels = errors.New("invalid quantizer levels")

// Alignment selects where the level grid sits relative to zero.
type Alignment int

const (
	// Midtread places a level at zero: -U + i·Δ.
	Midtread Alignment = iota
	// Midrise straddles zero: -U + Δ/2 + i·Δ.
	Midrise
)

func (a Alignment) String() string {
	switch a {
	case Midtread:
		return "midtread"
	case Midrise:
		return "midrise"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment accepts "midtread" or "midrise" in any case.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "midtread":
		return Midtread, nil
	case "midrise":
		return Midrise, nil
	default:
		return 0, fmt.Errorf("%w: unknown alignment %q", ErrInvalidLevels, s)
	}
}

// LevelSet is an ascending grid of 2^bits values spaced Δ = 2U/2^bits.
type LevelSet struct {
	bits      int
	amplitude float64
	alignment Alignment
	delta     float64
	levels    []float64
}

// NewLevelSet builds the grid for bits in [MinBits, MaxBits] and a positive
// amplitude.
func NewLevelSet(bits int, amplitude float64, alignment Alignment) (*LevelSet, error) {
	if bits < MinBits || bits > MaxBits {
		return nil, fmt.Errorf("%w: %d bits outside [%d, %d]", ErrInvalidLevels, bits, MinBits, MaxBits)
	}
	if !(amplitude > 0) {
		return nil, fmt.Errorf("%w: amplitude %g", ErrInvalidLevels, amplitude)
	}
	if alignment != Midtread && alignment != Midrise {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevels, alignment)
	}

	n := 1 << bits
	delta := 2 * amplitude / float64(n)
	offset := -amplitude
	if alignment == Midrise {
		offset += delta / 2
	}

	levels := make([]float64, n)
	for i := range levels {
		levels[i] = offset + float64(i)*delta
	}

	return &LevelSet{
		bits:      bits,
		amplitude: amplitude,
		alignment: alignment,
		delta:     delta,
		levels:    levels,
	}, nil
}

// Bits returns the converter width.
func (s *LevelSet) Bits() int { return s.bits }

// Step returns the level spacing Δ.
func (s *LevelSet) Step() float64 { return s.delta }

// Alignment returns the grid alignment.
func (s *LevelSet) Alignment() Alignment { return s.alignment }

// Len returns the number of levels.
func (s *LevelSet) Len() int { return len(s.levels) }

// Level returns level i.
func (s *LevelSet) Level(i int) float64 { return s.levels[i] }

// Nearest returns the level closest to v. Exact midpoints go to the lower
// level; values outside the grid clamp to its ends.
func (s *LevelSet) Nearest(v float64) float64 {
	lv := s.levels
	// First level >= v.
	i := sort.SearchFloat64s(lv, v)
	switch {
	case i == 0:
		return lv[0]
	case i == len(lv):
		return lv[len(lv)-1]
	}
	lo, hi := lv[i-1], lv[i]
	if hi-v < v-lo {
		return hi
	}
	return lo
}

// Contains reports whether v is exactly one of the levels.
func (s *LevelSet) Contains(v float64) bool {
	i := sort.SearchFloat64s(s.levels, v)
	return i < len(s.levels) && s.levels[i] == v
}

// Quantize returns a new slice with every sample replaced by its nearest
// level. Values are not rescaled afterwards.
func Quantize(x []float64, s *LevelSet) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = s.Nearest(v)
	}
	return out
}
