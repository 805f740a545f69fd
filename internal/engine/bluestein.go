package engine

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
)

// dft is a complex discrete Fourier transform of a fixed length.
//
// Lengths whose prime factors are 2, 3 and 5 run on gonum's mixed-radix FFT
// directly. Anything else (52081 is prime) goes through Bluestein's chirp-z
// algorithm so that arbitrary lengths stay O(N log N).
type dft struct {
	n     int
	fft   *fourier.CmplxFFT
	chirp *bluestein
}

func newDFT(n int) *dft {
	if isSmooth(n) {
		return &dft{n: n, fft: fourier.NewCmplxFFT(n)}
	}
	return &dft{n: n, chirp: newBluestein(n)}
}

// forward returns the unnormalized forward transform of x.
func (d *dft) forward(x []complex128) []complex128 {
	if d.fft != nil {
		return d.fft.Coefficients(nil, x)
	}
	return d.chirp.transform(x)
}

// inverse returns the unnormalized inverse transform of c: conj(F(conj(c))).
func (d *dft) inverse(c []complex128) []complex128 {
	if d.fft != nil {
		return d.fft.Sequence(nil, c)
	}
	tmp := make([]complex128, len(c))
	for i, v := range c {
		tmp[i] = cmplx.Conj(v)
	}
	out := d.chirp.transform(tmp)
	for i, v := range out {
		out[i] = cmplx.Conj(v)
	}
	return out
}

// isSmooth reports whether n factors entirely into 2, 3 and 5.
func isSmooth(n int) bool {
	if n < 1 {
		return false
	}
	for _, p := range []int{2, 3, 5} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}

// bluestein evaluates a length-n DFT as a circular convolution of length m,
// a power of two not less than 2n-1:
//
//	X[k] = w[k] · Σ (x[j]·w[j]) · conj(w[k-j]),  w[j] = exp(-iπj²/n)
//
// The chirp kernel is transformed once and reused for every call.
type bluestein struct {
	n, m      int
	fft       *fourier.CmplxFFT
	chirp     []complex128 // w[j], j < n
	kernelFFT []complex128 // FFT of the zero-padded conj(w) kernel
	scale     float64      // 1/m, gonum's inverse does not normalize
}

func newBluestein(n int) *bluestein {
	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	chirp := make([]complex128, n)
	twoN := int64(2 * n)
	for j := range n {
		// j² mod 2n keeps the phase argument small for long transforms.
		jj := int64(j) * int64(j) % twoN
		chirp[j] = cmplx.Exp(complex(0, -math.Pi*float64(jj)/float64(n)))
	}

	kernel := make([]complex128, m)
	kernel[0] = cmplx.Conj(chirp[0])
	for j := 1; j < n; j++ {
		c := cmplx.Conj(chirp[j])
		kernel[j] = c
		kernel[m-j] = c
	}

	fft := fourier.NewCmplxFFT(m)
	return &bluestein{
		n:         n,
		m:         m,
		fft:       fft,
		chirp:     chirp,
		kernelFFT: fft.Coefficients(nil, kernel),
		scale:     1 / float64(m),
	}
}

func (b *bluestein) transform(x []complex128) []complex128 {
	block := make([]complex128, b.m)
	c128.Mul(block[:b.n], x[:b.n], b.chirp)

	spec := b.fft.Coefficients(nil, block)
	c128.Mul(spec, spec, b.kernelFFT)
	conv := b.fft.Sequence(nil, spec)

	out := make([]complex128, b.n)
	c128.Mul(out, conv[:b.n], b.chirp)
	s := complex(b.scale, 0)
	for i := range out {
		out[i] *= s
	}
	return out
}

// rfft returns the n/2+1 non-negative frequency bins of a real signal.
func rfft(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}
	buf := make([]complex128, n)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}
	full := newDFT(n).forward(buf)
	return full[:n/hermitianDivisor+1]
}

// irfft inverts rfft for an output of n samples, normalizing by 1/n. Bins
// beyond n/2 are ignored and missing bins are zero, as numpy.fft.irfft does.
func irfft(spec []complex128, n int) []float64 {
	if n == 0 {
		return nil
	}
	full := make([]complex128, n)
	half := n / hermitianDivisor
	for k := 0; k <= half && k < len(spec); k++ {
		full[k] = spec[k]
	}
	if n%2 == 0 && half < len(spec) {
		full[half] = complex(real(spec[half]), 0)
	}
	full[0] = complex(real(full[0]), 0)
	for k := 1; k < (n+1)/2; k++ {
		full[n-k] = cmplx.Conj(full[k])
	}

	seq := newDFT(n).inverse(full)
	out := make([]float64, n)
	scale := 1 / float64(n)
	for i, v := range seq {
		out[i] = real(v) * scale
	}
	return out
}
