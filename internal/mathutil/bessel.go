// Package mathutil holds the special functions used by the filter designers:
// the modified Bessel function behind the Kaiser window and the Jacobi
// elliptic functions behind the elliptic (Cauer) prototype.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero.
//
// Polynomial approximation from Abramowitz & Stegun, accurate to about 1e-7
// relative error, which is well below what a Kaiser window needs.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	p := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * p / math.Sqrt(ax)
}

// KaiserBeta returns the Kaiser window β for a stopband attenuation in dB.
//
//   - att > 50:       β = 0.1102·(att − 8.7)
//   - 21 ≤ att ≤ 50:  β = 0.5842·(att − 21)^0.4 + 0.07886·(att − 21)
//   - att < 21:       β = 0 (rectangular window)
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		d := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff*math.Pow(d, kaiserBetaMediumPower) + kaiserBetaMediumLin*d
	default:
		return 0
	}
}

// EstimateFilterLength estimates the odd number of taps a Kaiser-windowed FIR
// needs to reach attenuation dB over a transition band of transitionBW
// (fraction of the sample rate):
//
//	N ≈ (att − 8) / (2.285 · 2π · Δf)
func EstimateFilterLength(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}

	n := (attenuation - kaiserLengthOffset) / (kaiserLengthMultiplier * 2 * math.Pi * transitionBW)

	taps := int(math.Ceil(n))
	if taps%2 == 0 {
		taps++
	}

	return min(max(taps, MinFilterLength), MaxFilterLength)
}
