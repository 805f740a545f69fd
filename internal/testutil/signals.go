package testutil

import "math"

// Sine returns n samples of amp·sin(2π·freq·t) at the given rate.
func Sine(freq, rate, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

// Ramp returns n samples rising linearly from lo to hi inclusive.
func Ramp(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// RMS returns the root mean square of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// ToneRMS returns the RMS of s over [from, to), to skip filter transients.
func ToneRMS(s []float64, from, to int) float64 {
	return RMS(s[max(from, 0):min(to, len(s))])
}
