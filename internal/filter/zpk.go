package filter

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"
)

// zpk is a transfer function in zeros, poles and gain form.
type zpk struct {
	zeros []complex128
	poles []complex128
	gain  float64
}

// bilinear maps an analog prototype normalized to 1 rad/s onto a digital
// low-pass with its edge at cutoff (fraction of Nyquist). The prototype edge
// is prewarped so it lands exactly on cutoff.
func (a zpk) bilinear(cutoff float64) zpk {
	t := math.Tan(math.Pi * cutoff / 2)
	tc := complex(t, 0)
	degree := len(a.poles) - len(a.zeros)

	d := zpk{
		zeros: make([]complex128, 0, len(a.poles)),
		poles: make([]complex128, 0, len(a.poles)),
	}

	num, den := complex(1, 0), complex(1, 0)
	for _, z := range a.zeros {
		d.zeros = append(d.zeros, (1+tc*z)/(1-tc*z))
		num *= 1 - tc*z
	}
	for range degree {
		d.zeros = append(d.zeros, -1)
	}
	for _, p := range a.poles {
		d.poles = append(d.poles, (1+tc*p)/(1-tc*p))
		den *= 1 - tc*p
	}

	d.gain = a.gain * math.Pow(t, float64(degree)) * real(num/den)
	return d
}

// sections pairs conjugate roots into biquads. The gain is folded into the
// first section, the way zpk2sos does it.
func (d zpk) sections() Cascade {
	poles := groupRoots(d.poles)
	zeros := groupRoots(d.zeros)

	// Poles with the largest imaginary part (closest to the band edge) go last.
	slices.SortStableFunc(poles, func(a, b []complex128) int {
		if len(a) != len(b) {
			return cmp.Compare(len(a), len(b))
		}
		return cmp.Compare(maxImag(a), maxImag(b))
	})

	var pairs, singles [][]complex128
	for _, g := range zeros {
		if len(g) == 2 {
			pairs = append(pairs, g)
		} else {
			singles = append(singles, g)
		}
	}

	take := func(first, second *[][]complex128) []complex128 {
		for _, q := range []*[][]complex128{first, second} {
			if len(*q) > 0 {
				g := (*q)[0]
				*q = (*q)[1:]
				return g
			}
		}
		return nil
	}

	out := make(Cascade, 0, len(poles))
	for _, pg := range poles {
		var zg []complex128
		if len(pg) == 2 {
			zg = take(&pairs, &singles)
		} else {
			zg = take(&singles, &pairs)
		}
		b1, b2 := quadFromRoots(zg)
		a1, a2 := quadFromRoots(pg)
		out = append(out, Section{B0: 1, B1: b1, B2: b2, A1: a1, A2: a2})
	}

	if len(out) > 0 {
		out[0].B0 *= d.gain
		out[0].B1 *= d.gain
		out[0].B2 *= d.gain
	}
	return out
}

// groupRoots groups roots into conjugate pairs, then pairs the remaining real
// roots in ascending order. An odd real root is left alone.
func groupRoots(roots []complex128) [][]complex128 {
	if len(roots) == 0 {
		return nil
	}

	sorted := slices.Clone(roots)
	slices.SortFunc(sorted, func(a, b complex128) int {
		if c := cmp.Compare(imag(b), imag(a)); c != 0 {
			return c
		}
		return cmp.Compare(real(a), real(b))
	})

	used := make([]bool, len(sorted))
	var groups [][]complex128
	var reals []float64

	for i, r := range sorted {
		if used[i] {
			continue
		}
		used[i] = true

		if math.Abs(imag(r)) <= realRootTolerance {
			reals = append(reals, real(r))
			continue
		}

		target := cmplx.Conj(r)
		best, bestDist := -1, math.MaxFloat64
		for j, c := range sorted {
			if used[j] {
				continue
			}
			if dist := cmplx.Abs(c - target); dist < bestDist {
				best, bestDist = j, dist
			}
		}

		if best >= 0 && bestDist <= conjugateMatchTol {
			used[best] = true
			groups = append(groups, []complex128{r, sorted[best]})
		} else {
			groups = append(groups, []complex128{r})
		}
	}

	slices.Sort(reals)
	for i := 0; i+1 < len(reals); i += 2 {
		groups = append(groups, []complex128{complex(reals[i], 0), complex(reals[i+1], 0)})
	}
	if len(reals)%2 == 1 {
		groups = append(groups, []complex128{complex(reals[len(reals)-1], 0)})
	}
	return groups
}

func maxImag(g []complex128) float64 {
	var m float64
	for _, r := range g {
		m = max(m, math.Abs(imag(r)))
	}
	return m
}

// quadFromRoots expands (1 − r₁z⁻¹)(1 − r₂z⁻¹) into its z⁻¹ and z⁻² terms.
func quadFromRoots(g []complex128) (float64, float64) {
	switch len(g) {
	case 0:
		return 0, 0
	case 1:
		return -real(g[0]), 0
	default:
		return -real(g[0] + g[1]), real(g[0] * g[1])
	}
}
