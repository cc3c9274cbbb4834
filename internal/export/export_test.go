package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arc(n int) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		x := float64(i) / float64(n-1) * 10
		points[i] = []float64{x, 1 + x*(10-x)/25, 1, 0}
	}
	return points
}

func TestTrajectorySVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TrajectorySVG(&buf, arc(50), DefaultSVGOptions()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `stroke="#00ccff"`)
	assert.Equal(t, 49, strings.Count(out, " L"), "every sample is a vertex")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestTrajectorySVG_Thinned(t *testing.T) {
	opts := DefaultSVGOptions()
	opts.MaxVertices = 100

	var buf bytes.Buffer
	require.NoError(t, TrajectorySVG(&buf, arc(10_000), opts))

	vertices := strings.Count(buf.String(), " L") + 1
	assert.LessOrEqual(t, vertices, 101)
	assert.Greater(t, vertices, 50)
	assert.Contains(t, buf.String(), " L916.4,", "final sample is kept")
}

func TestTrajectorySVG_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, TrajectorySVG(&buf, arc(2)[:1], DefaultSVGOptions()), ErrTooShort)

	nan := [][]float64{{0, 1, 1, 0}, {math.NaN(), 1, 1, 0}}
	assert.ErrorIs(t, TrajectorySVG(&buf, nan, DefaultSVGOptions()), ErrTooShort)

	assert.Error(t, TrajectorySVG(&buf, arc(10), SVGOptions{}))
}

func TestTrajectoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TrajectoryCSV(&buf, [][]float64{{0, 1, 2, 3}, {0.5, 0.25, 2, -0.125}}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"index", "x", "y", "v", "theta"},
		{"0", "0", "1", "2", "3"},
		{"1", "0.5", "0.25", "2", "-0.125"},
	}, rows)
}
