package kernel

import "testing"

func BenchmarkAxpy(b *testing.B) {
	x := seq(64, 1, 0.5)
	y := seq(64, -1, 0.25)
	dst := make([]float64, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Axpy(dst, 0.01, x, y)
	}
}

func BenchmarkCombine6(b *testing.B) {
	base := seq(64, 1, 0.5)
	ks := make([][]float64, 6)
	for j := range ks {
		ks[j] = seq(64, float64(j), 0.1)
	}
	coeffs := []float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55}
	dst := make([]float64, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Combine(dst, base, 0.01, coeffs, ks)
	}
}
