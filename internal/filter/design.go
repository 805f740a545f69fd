package filter

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-pitcher/internal/mathutil"
)

// ErrInvalidDesign is returned when IIR design parameters are out of range.
var ErrInvalidDesign = errors.New("invalid filter design")

func checkDesign(order int, cutoff float64) error {
	if order < 1 {
		return fmt.Errorf("%w: order %d must be positive", ErrInvalidDesign, order)
	}
	if cutoff <= 0 || cutoff >= 1 || math.IsNaN(cutoff) {
		return fmt.Errorf("%w: cutoff %g must be in (0, 1) of Nyquist", ErrInvalidDesign, cutoff)
	}
	return nil
}

// ButterworthLP designs an order-n Butterworth low-pass with its -3 dB point
// at cutoff, expressed as a fraction of Nyquist.
func ButterworthLP(order int, cutoff float64) (Cascade, error) {
	if err := checkDesign(order, cutoff); err != nil {
		return nil, err
	}

	proto := zpk{gain: 1}
	for m := -order + 1; m < order; m += 2 {
		proto.poles = append(proto.poles, -cmplx.Exp(complex(0, math.Pi*float64(m)/float64(2*order))))
	}

	return proto.bilinear(cutoff).sections(), nil
}

// Chebyshev1LP designs an order-n Chebyshev type I low-pass with rippleDB of
// passband ripple and its passband edge at cutoff (fraction of Nyquist).
func Chebyshev1LP(order int, rippleDB, cutoff float64) (Cascade, error) {
	if err := checkDesign(order, cutoff); err != nil {
		return nil, err
	}
	if rippleDB <= 0 {
		return nil, fmt.Errorf("%w: ripple %g dB must be positive", ErrInvalidDesign, rippleDB)
	}

	eps := math.Sqrt(math.Expm1(math.Ln10 * rippleDB / 10))
	mu := math.Asinh(1/eps) / float64(order)

	proto := zpk{}
	prod := complex(1, 0)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		p := -cmplx.Sinh(complex(mu, theta))
		proto.poles = append(proto.poles, p)
		prod *= -p
	}
	proto.gain = real(prod)
	if order%2 == 0 {
		proto.gain /= math.Sqrt(1 + eps*eps)
	}

	return proto.bilinear(cutoff).sections(), nil
}

// EllipticLP designs an order-n elliptic (Cauer) low-pass with rippleDB of
// passband ripple, at least stopbandDB of stopband attenuation and its
// passband edge at cutoff (fraction of Nyquist). Even orders have a DC gain
// of −rippleDB, matching the usual equiripple convention.
func EllipticLP(order int, rippleDB, stopbandDB, cutoff float64) (Cascade, error) {
	if err := checkDesign(order, cutoff); err != nil {
		return nil, err
	}
	if rippleDB <= 0 || stopbandDB <= rippleDB {
		return nil, fmt.Errorf("%w: need 0 < ripple (%g dB) < stopband (%g dB)", ErrInvalidDesign, rippleDB, stopbandDB)
	}

	proto, err := ellipticPrototype(order, rippleDB, stopbandDB)
	if err != nil {
		return nil, err
	}
	return proto.bilinear(cutoff).sections(), nil
}

func ellipticPrototype(order int, rippleDB, stopbandDB float64) (zpk, error) {
	const tol = mathutil.EllipticTolerance

	epsSq := math.Expm1(math.Ln10 * rippleDB / 10)
	stopSq := math.Expm1(math.Ln10 * stopbandDB / 10)
	m1 := epsSq / stopSq

	if order == 1 {
		p := -math.Sqrt(1 / epsSq)
		return zpk{poles: []complex128{complex(p, 0)}, gain: -p}, nil
	}

	m := mathutil.EllipDeg(order, m1, tol)
	if !(m > 0 && m < 1) {
		return zpk{}, fmt.Errorf("%w: elliptic degree equation has no solution", ErrInvalidDesign)
	}

	kmod := math.Sqrt(m)
	capK, _ := mathutil.EllipK(kmod, tol)
	k1, _ := mathutil.EllipK(math.Sqrt(m1), tol)

	var sn, cn, dn []float64
	var zeros []complex128
	for j := 1 - order%2; j < order; j += 2 {
		s, c, d, ok := mathutil.JacobiSCD(float64(j)*capK/float64(order), kmod, tol)
		if !ok {
			return zpk{}, fmt.Errorf("%w: jacobi evaluation failed", ErrInvalidDesign)
		}
		sn, cn, dn = append(sn, s), append(cn, c), append(dn, d)
		if math.Abs(s) > 1e-16 {
			z := complex(0, 1/(kmod*s))
			zeros = append(zeros, z, cmplx.Conj(z))
		}
	}

	r := mathutil.ArcSC1(1/math.Sqrt(epsSq), m1)
	if !(r > 0) || math.IsInf(r, 0) {
		return zpk{}, fmt.Errorf("%w: inverse jacobi evaluation failed", ErrInvalidDesign)
	}
	v0 := capK * r / (float64(order) * k1)

	sv, cv, dv, ok := mathutil.JacobiSCD(v0, math.Sqrt(1-m), tol)
	if !ok {
		return zpk{}, fmt.Errorf("%w: jacobi evaluation failed", ErrInvalidDesign)
	}

	var poles []complex128
	for i := range sn {
		den := 1 - (dn[i]*sv)*(dn[i]*sv)
		p := -complex(cn[i]*dn[i]*sv*cv, sn[i]*dv) / complex(den, 0)
		poles = append(poles, p)
		if math.Abs(imag(p)) > 1e-16*cmplx.Abs(p) {
			poles = append(poles, cmplx.Conj(p))
		}
	}

	prodP, prodZ := complex(1, 0), complex(1, 0)
	for _, p := range poles {
		prodP *= -p
	}
	for _, z := range zeros {
		prodZ *= -z
	}

	gain := real(prodP / prodZ)
	if order%2 == 0 {
		gain /= math.Sqrt(1 + epsSq)
	}

	return zpk{zeros: zeros, poles: poles, gain: gain}, nil
}
