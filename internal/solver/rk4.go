package solver

import "github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/kernel"

// StepRK4 advances up to count samples with the classical fourth-order
// Runge-Kutta method at the configured step and returns how many were
// written.
func (s *Solver) StepRK4(count int) int {
	if count <= 0 {
		return 0
	}
	out, n := s.reserve(count)

	d := s.dim
	h := s.h
	h2 := h / 2
	h3 := h / 3
	h6 := h / 6
	k := s.ks[0]
	tmp := s.ks[1]
	in := s.last
	t := s.t

	for i := 0; i < n; i++ {
		next := out[i*d : (i+1)*d : (i+1)*d]

		s.fn(t, in, k)
		kernel.Axpy(next, h6, k, in)
		kernel.Axpy(tmp, h2, k, in)

		s.fn(t+h2, tmp, k)
		kernel.Axpy(next, h3, k, next)
		kernel.Axpy(tmp, h2, k, in)

		s.fn(t+h2, tmp, k)
		kernel.Axpy(next, h3, k, next)
		kernel.Axpy(tmp, h, k, in)

		s.fn(t+h, tmp, k)
		kernel.Axpy(next, h6, k, next)

		t += h
		in = next
	}

	s.commit(n, in, t)
	return n
}
