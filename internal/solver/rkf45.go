package solver

import (
	"math"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/kernel"
)

// Fehlberg 4(5) coefficients
var (
	fehlbergC = [stageVectors]float64{0, 1.0 / 4.0, 3.0 / 8.0, 12.0 / 13.0, 1, 1.0 / 2.0}

	fehlbergA = [stageVectors][]float64{
		{},
		{1.0 / 4.0},
		{3.0 / 32.0, 9.0 / 32.0},
		{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
		{439.0 / 216.0, -8.0, 3680.0 / 513.0, -845.0 / 4104.0},
		{-8.0 / 27.0, 2.0, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
	}

	fehlbergB5 = []float64{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0}

	// fifth order minus fourth order weights
	fehlbergE = []float64{
		16.0/135.0 - 25.0/216.0,
		0,
		6656.0/12825.0 - 1408.0/2565.0,
		28561.0/56430.0 - 2197.0/4104.0,
		-9.0/50.0 + 1.0/5.0,
		2.0 / 55.0,
	}
)

const (
	safety    = 0.9
	maxGrow   = 5.0
	minShrink = 0.1
	maxShrink = 0.5
)

// StepRKF45 advances up to count samples with the embedded Runge-Kutta-
// Fehlberg 4(5) pair and returns how many were written. The fifth order
// solution is kept. A step whose error exceeds the tolerance is retried
// with a smaller step, except at the minimum step, where it is accepted.
func (s *Solver) StepRKF45(count int) int {
	if count <= 0 {
		return 0
	}
	out, n := s.reserve(count)

	d := s.dim
	ks := s.ks
	in := s.last
	t := s.t
	h := s.h

	for i := 0; i < n; i++ {
		next := out[i*d : (i+1)*d : (i+1)*d]

		s.fn(t, in, ks[0])
		for {
			// stage inputs are built in the output slot
			for st := 1; st < stageVectors; st++ {
				kernel.Combine(next, in, h, fehlbergA[st], ks[:st])
				s.fn(t+fehlbergC[st]*h, next, ks[st])
			}
			ratio := kernel.ScaledError(in, ks[0], h, fehlbergE, ks) / s.cfg.Tolerance
			if math.IsNaN(ratio) {
				ratio = math.Inf(1)
			}

			if ratio <= 1 || h <= s.cfg.MinStep {
				kernel.Combine(next, in, h, fehlbergB5, ks)
				t += h
				h = s.growStep(h, ratio)
				s.stats.Accepted++
				break
			}
			h = s.shrinkStep(h, ratio)
			s.stats.Rejected++
		}

		in = next
	}

	s.h = h
	s.commit(n, in, t)
	return n
}

// growStep scales an accepted step by a factor in [1, maxGrow].
func (s *Solver) growStep(h, ratio float64) float64 {
	factor := maxGrow
	if ratio > 0 {
		factor = math.Min(maxGrow, math.Max(1, safety*math.Pow(ratio, -0.2)))
	}
	if grown := h * factor; !math.IsInf(grown, 1) {
		h = grown
	}
	if s.cfg.MaxStep > 0 && h > s.cfg.MaxStep {
		h = s.cfg.MaxStep
	}
	return math.Max(h, s.cfg.MinStep)
}

// shrinkStep scales a rejected step by a factor in [minShrink, maxShrink],
// never going below the minimum step.
func (s *Solver) shrinkStep(h, ratio float64) float64 {
	factor := math.Min(maxShrink, math.Max(minShrink, safety*math.Pow(ratio, -0.25)))
	return math.Max(h*factor, s.cfg.MinStep)
}
