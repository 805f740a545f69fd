// Package testutil provides shared assertions and signal generators for the
// pipeline tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances.
const (
	DefaultTolerance = 1e-10
	DBTolerance      = 0.01
)

// AssertSymmetric verifies s[i] == s[n-1-i].
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range n / 2 {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance, "not symmetric at %d/%d", i, j) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that every element is finite.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "non-finite sample", "s[%d] = %v", i, v)
		}
	}
	return true
}

// AssertAllInRange verifies that every element lies in [minVal, maxVal].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertRelativeError verifies |actual−expected|/|expected| ≤ tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	rel := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, rel, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		rel, tolerance, expected, actual)
}

// AssertLengthWithin verifies |len(s) − want| ≤ slack.
func AssertLengthWithin(t *testing.T, s []float64, want, slack int) bool {
	t.Helper()
	diff := len(s) - want
	if diff < 0 {
		diff = -diff
	}
	return assert.LessOrEqual(t, diff, slack, "length %d, want %d ± %d", len(s), want, slack)
}
