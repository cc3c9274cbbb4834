package kernel

import "math"

func axpyFMA(dst []float64, a float64, x, y []float64) {
	for i := 0; i+Lanes <= len(dst); i += Lanes {
		xs := x[i : i+Lanes : i+Lanes]
		ys := y[i : i+Lanes : i+Lanes]
		d := dst[i : i+Lanes : i+Lanes]
		d0 := math.FMA(a, xs[0], ys[0])
		d1 := math.FMA(a, xs[1], ys[1])
		d2 := math.FMA(a, xs[2], ys[2])
		d3 := math.FMA(a, xs[3], ys[3])
		d[0], d[1], d[2], d[3] = d0, d1, d2, d3
	}
}

func combineFMA(dst, base []float64, h float64, coeffs []float64, ks [][]float64) {
	for i := 0; i+Lanes <= len(dst); i += Lanes {
		var s0, s1, s2, s3 float64
		for j, c := range coeffs {
			if c == 0 {
				continue
			}
			k := ks[j][i : i+Lanes : i+Lanes]
			s0 = math.FMA(c, k[0], s0)
			s1 = math.FMA(c, k[1], s1)
			s2 = math.FMA(c, k[2], s2)
			s3 = math.FMA(c, k[3], s3)
		}
		b := base[i : i+Lanes : i+Lanes]
		d := dst[i : i+Lanes : i+Lanes]
		d[0] = math.FMA(h, s0, b[0])
		d[1] = math.FMA(h, s1, b[1])
		d[2] = math.FMA(h, s2, b[2])
		d[3] = math.FMA(h, s3, b[3])
	}
}
