package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
)

// PlotTrajectory draws altitude against distance. Samples are binned on x
// into width columns, each showing the highest altitude reached within it.
func PlotTrajectory(points [][]float64, width, height int) string {
	profile, lo, hi := altitudeProfile(points, width)
	if len(profile) == 0 {
		return Subtle.Render("empty trajectory")
	}

	return asciigraph.Plot(profile,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("altitude over x ∈ [%.4g, %.4g], %d samples", lo, hi, len(points))),
	)
}

// altitudeProfile returns the max-y profile and the x range it covers.
// Non-finite samples are skipped.
func altitudeProfile(points [][]float64, width int) ([]float64, float64, float64) {
	if width < 1 {
		width = 1
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !glider.Finite(p) {
			continue
		}
		lo = math.Min(lo, p[glider.X])
		hi = math.Max(hi, p[glider.X])
	}
	if lo > hi {
		return nil, 0, 0
	}
	if lo == hi {
		width = 1
	}

	bins := make([]float64, width)
	filled := make([]bool, width)
	for _, p := range points {
		if !glider.Finite(p) {
			continue
		}
		i := 0
		if hi > lo {
			i = int((p[glider.X] - lo) / (hi - lo) * float64(width-1))
		}
		if !filled[i] || p[glider.Y] > bins[i] {
			bins[i] = p[glider.Y]
			filled[i] = true
		}
	}

	// Columns no sample landed in carry the previous altitude.
	for i := 1; i < width; i++ {
		if !filled[i] {
			bins[i] = bins[i-1]
		}
	}
	return bins, lo, hi
}
