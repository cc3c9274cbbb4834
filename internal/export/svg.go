package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
)

// DefaultMaxVertices bounds the path length of an exported trajectory.
const DefaultMaxVertices = 4096

type SVGOptions struct {
	Width       int
	Height      int
	Stroke      string
	MaxVertices int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 960, Height: 360, Stroke: "#00ccff", MaxVertices: DefaultMaxVertices}
}

// TrajectorySVG writes the flight path (y over x) of points as an SVG line
// drawing with the ground at y = 0. Long trajectories are thinned to at most
// MaxVertices vertices, always keeping the final sample.
func TrajectorySVG(w io.Writer, points [][]float64, opts SVGOptions) error {
	path := finitePoints(points)
	if len(path) < 2 {
		return ErrTooShort
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: invalid canvas %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxVertices < 2 {
		opts.MaxVertices = DefaultMaxVertices
	}

	minX, maxX := path[0][glider.X], path[0][glider.X]
	minY, maxY := 0.0, 0.0
	for _, p := range path {
		minX = math.Min(minX, p[glider.X])
		maxX = math.Max(maxX, p[glider.X])
		minY = math.Min(minY, p[glider.Y])
		maxY = math.Max(maxY, p[glider.Y])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	width, height := float64(opts.Width), float64(opts.Height)
	px := func(x float64) float64 { return (x - minX) / rangeX * width }
	py := func(y float64) float64 { return height - (y-minY)/rangeY*height }

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, py(0), opts.Width, py(0), opts.Stroke)

	stride := (len(path) + opts.MaxVertices - 2) / (opts.MaxVertices - 1)
	for i := 0; i < len(path); i += stride {
		if i > 0 {
			bw.WriteString(" L")
		}
		fmt.Fprintf(bw, "%.1f,%.1f", px(path[i][glider.X]), py(path[i][glider.Y]))
	}
	if (len(path)-1)%stride != 0 {
		last := path[len(path)-1]
		fmt.Fprintf(bw, " L%.1f,%.1f", px(last[glider.X]), py(last[glider.Y]))
	}

	bw.WriteString(`"/>
</svg>
`)
	return bw.Flush()
}

func finitePoints(points [][]float64) [][]float64 {
	out := make([][]float64, 0, len(points))
	for _, p := range points {
		if len(p) >= glider.Dim && glider.Finite(p) {
			out = append(out, p)
		}
	}
	return out
}
