package mathutil

import (
	"math"
	"math/cmplx"
)

// Landen returns the descending Landen sequence of moduli for k, stopping once
// the modulus drops below tol.
func Landen(k, tol float64) []float64 {
	if k == 0 || k == 1 {
		return []float64{k}
	}

	var seq []float64
	for k > tol {
		t := k / (1 + math.Sqrt((1-k)*(1+k)))
		k = t * t
		seq = append(seq, k)
	}
	return seq
}

func landenK(seq []float64) float64 {
	prod := 1.0
	for _, v := range seq {
		prod *= 1 + v
	}
	return prod * math.Pi / 2
}

// EllipK returns the complete elliptic integral of the first kind K(k) and its
// complement K'(k) = K(√(1−k²)).
func EllipK(k, tol float64) (kk, kp float64) {
	kmax := math.Sqrt(1 - ellipticKMin*ellipticKMin)

	switch {
	case k == 1:
		kk = math.Inf(1)
	case k > kmax:
		c := math.Sqrt((1 - k) * (1 + k))
		l := -math.Log(c / 4)
		kk = l + (l-1)*c*c/4
	default:
		kk = landenK(Landen(k, tol))
	}

	switch {
	case k == 0:
		kp = math.Inf(1)
	case k < ellipticKMin:
		l := -math.Log(k / 4)
		kp = l + (l-1)*k*k/4
	default:
		kp = landenK(Landen(math.Sqrt((1-k)*(1+k)), tol))
	}

	return kk, kp
}

// SN evaluates the Jacobi sn function at u·K (u normalized to the quarter
// period) by ascending Landen transformation.
func SN(u, k, tol float64) float64 {
	seq := Landen(k, tol)
	w := math.Sin(u * math.Pi / 2)
	for i := len(seq) - 1; i >= 0; i-- {
		w = (1 + seq[i]) * w / (1 + seq[i]*w*w)
	}
	return w
}

// CD evaluates the Jacobi cd function at u·K for complex u.
func CD(u complex128, k, tol float64) complex128 {
	seq := Landen(k, tol)
	w := cmplx.Cos(u * math.Pi / 2)
	for i := len(seq) - 1; i >= 0; i-- {
		v := complex(seq[i], 0)
		w = (1 + v) * w / (1 + v*w*w)
	}
	return w
}

// JacobiSCD returns sn, cn and dn at the absolute argument u for modulus k.
func JacobiSCD(u, k, tol float64) (sn, cn, dn float64, ok bool) {
	if k < 0 || k >= 1 {
		return 0, 0, 0, false
	}

	kk, _ := EllipK(k, tol)
	if kk == 0 || math.IsNaN(kk) || math.IsInf(kk, 0) {
		return 0, 0, 0, false
	}

	un := u / kk
	sn = SN(un, k, tol)
	if math.IsNaN(sn) || math.IsInf(sn, 0) {
		return 0, 0, 0, false
	}

	dn2 := 1 - k*k*sn*sn
	if dn2 < -1e-12 {
		return 0, 0, 0, false
	}
	dn = math.Sqrt(math.Max(dn2, 0))
	cn = real(CD(complex(un, 0), k, tol)) * dn

	return sn, cn, dn, true
}

// ArcSC1 solves sc(u, √(1−m)) = w for real u, which is the imaginary part of
// the inverse sn at the purely imaginary argument i·w. NaN reports failure.
func ArcSC1(w, m float64) float64 {
	z := arcSN(complex(0, w), m)
	if math.Abs(real(z)) > arcJacobiImagCheck*math.Max(1, math.Abs(imag(z))) {
		return math.NaN()
	}
	return imag(z)
}

func complement(k complex128) complex128 {
	return cmplx.Sqrt((1 - k) * (1 + k))
}

func arcSN(w complex128, m float64) complex128 {
	if m < 0 || m > 1 {
		return cmplx.NaN()
	}

	k := complex(math.Sqrt(m), 0)
	if real(k) == 1 {
		return cmplx.Atanh(w)
	}

	ks := []complex128{k}
	for range arcJacobiMaxIter - 1 {
		last := ks[len(ks)-1]
		if cmplx.Abs(last) == 0 {
			break
		}
		c := complement(last)
		ks = append(ks, (1-c)/(1+c))
	}

	kk := math.Pi / 2
	for _, v := range ks[1:] {
		kk *= real(1 + v)
	}

	for i := range len(ks) - 1 {
		den := (1 + ks[i+1]) * (1 + complement(ks[i]*w))
		if den == 0 {
			return cmplx.NaN()
		}
		w = 2 * w / den
	}

	return complex(kk, 0) * (2 / math.Pi) * cmplx.Asin(w)
}

// EllipDeg solves the degree equation for an order-n elliptic filter: given
// the squared discrimination modulus m1 = ε²/(10^(As/10)−1) it returns the
// squared selectivity modulus m. NaN reports invalid input.
func EllipDeg(n int, m1, tol float64) float64 {
	if n <= 0 || m1 <= 0 || m1 >= 1 {
		return math.NaN()
	}

	k1, k1p := EllipK(math.Sqrt(m1), tol)
	if k1 <= 0 || k1p <= 0 || math.IsNaN(k1) || math.IsNaN(k1p) || math.IsInf(k1, 0) || math.IsInf(k1p, 0) {
		return math.NaN()
	}

	q1 := math.Exp(-math.Pi * k1p / k1)
	q := math.Pow(q1, 1/float64(n))

	var num float64
	for i := range ellipticNomeTerms {
		num += math.Pow(q, float64(i*(i+1)))
	}
	den := 1.0
	for i := 1; i < ellipticNomeTerms; i++ {
		den += 2 * math.Pow(q, float64(i*i))
	}

	return 16 * q * math.Pow(num/den, 4)
}
