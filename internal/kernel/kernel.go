package kernel

import "math"

// Lanes is the number of coordinates processed together.
const Lanes = 4

var (
	axpyImpl        = axpyGeneric
	combineImpl     = combineGeneric
	scaledErrorImpl = scaledErrorGeneric
	isa             = "generic"
)

// ISA names the selected implementation.
func ISA() string {
	return isa
}

// Axpy computes dst = a*x + y. dst may alias x or y.
//
// SAFETY: all slices must have the same length, a multiple of Lanes.
func Axpy(dst []float64, a float64, x, y []float64) {
	axpyImpl(dst, a, x, y)
}

// Add computes dst = x + y.
func Add(dst, x, y []float64) {
	axpyImpl(dst, 1, x, y)
}

// Combine computes dst = base + h*sum(coeffs[j]*ks[j]). Zero coefficients are
// skipped. dst may alias base.
func Combine(dst, base []float64, h float64, coeffs []float64, ks [][]float64) {
	combineImpl(dst, base, h, coeffs, ks)
}

// ScaledError returns max_i |h*sum(coeffs[j]*ks[j][i])| / (|x[i]| + |h*k1[i]| + 1e-10),
// the embedded error estimate relative to the state magnitude.
func ScaledError(x, k1 []float64, h float64, coeffs []float64, ks [][]float64) float64 {
	return scaledErrorImpl(x, k1, h, coeffs, ks)
}

func axpyGeneric(dst []float64, a float64, x, y []float64) {
	for i := 0; i+Lanes <= len(dst); i += Lanes {
		xs := x[i : i+Lanes : i+Lanes]
		ys := y[i : i+Lanes : i+Lanes]
		d := dst[i : i+Lanes : i+Lanes]
		d0 := a*xs[0] + ys[0]
		d1 := a*xs[1] + ys[1]
		d2 := a*xs[2] + ys[2]
		d3 := a*xs[3] + ys[3]
		d[0], d[1], d[2], d[3] = d0, d1, d2, d3
	}
}

func combineGeneric(dst, base []float64, h float64, coeffs []float64, ks [][]float64) {
	for i := 0; i+Lanes <= len(dst); i += Lanes {
		var s0, s1, s2, s3 float64
		for j, c := range coeffs {
			if c == 0 {
				continue
			}
			k := ks[j][i : i+Lanes : i+Lanes]
			s0 += c * k[0]
			s1 += c * k[1]
			s2 += c * k[2]
			s3 += c * k[3]
		}
		b := base[i : i+Lanes : i+Lanes]
		d := dst[i : i+Lanes : i+Lanes]
		d[0] = h*s0 + b[0]
		d[1] = h*s1 + b[1]
		d[2] = h*s2 + b[2]
		d[3] = h*s3 + b[3]
	}
}

func scaledErrorGeneric(x, k1 []float64, h float64, coeffs []float64, ks [][]float64) float64 {
	worst := 0.0
	for i := 0; i+Lanes <= len(x); i += Lanes {
		var s [Lanes]float64
		for j, c := range coeffs {
			if c == 0 {
				continue
			}
			k := ks[j][i : i+Lanes : i+Lanes]
			s[0] += c * k[0]
			s[1] += c * k[1]
			s[2] += c * k[2]
			s[3] += c * k[3]
		}
		for l := 0; l < Lanes; l++ {
			scale := math.Abs(x[i+l]) + math.Abs(h*k1[i+l]) + 1e-10
			worst = math.Max(worst, math.Abs(h*s[l])/scale)
		}
	}
	return worst
}
