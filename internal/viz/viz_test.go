package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/config"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/search"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAltitudeProfile(t *testing.T) {
	points := [][]float64{
		{0, 1, 1, 0},
		{0.4, 3, 1, 0},
		{1, 2, 1, 0},
		{2, 0.5, 1, 0},
		{math.NaN(), 100, 1, 0},
	}

	profile, lo, hi := altitudeProfile(points, 3)
	require.Len(t, profile, 3)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
	assert.Equal(t, []float64{3, 2, 0.5}, profile)
}

func TestAltitudeProfile_FillsGaps(t *testing.T) {
	profile, _, _ := altitudeProfile([][]float64{{0, 2, 1, 0}, {4, 1, 1, 0}}, 5)
	assert.Equal(t, []float64{2, 2, 2, 2, 1}, profile)
}

func TestAltitudeProfile_Degenerate(t *testing.T) {
	profile, _, _ := altitudeProfile(nil, 10)
	assert.Empty(t, profile)

	profile, _, _ = altitudeProfile([][]float64{{1, 2, 1, 0}, {1, 5, 1, 0}}, 10)
	assert.Equal(t, []float64{5}, profile)
}

func TestPlotTrajectory(t *testing.T) {
	points := make([][]float64, 200)
	for i := range points {
		x := float64(i) / 20
		points[i] = []float64{x, 1 - (x-5)*(x-5)/25, 1, 0}
	}

	out := PlotTrajectory(points, 40, 8)
	assert.Contains(t, out, "200 samples")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 8)

	assert.Contains(t, PlotTrajectory(nil, 40, 8), "empty trajectory")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 MiB", FormatBytes(1<<20))
	assert.Equal(t, "1.50 GiB", FormatBytes(1.5*(1<<30)))
}

func TestRenderSummary(t *testing.T) {
	sum := &search.Summary{
		Workers: []search.WorkerResult{
			{Index: 0, Trajectories: 3},
			{Index: 1, Trajectories: 5, Found: true, BestX: 7.25, BestV: 0.5, BestTheta: 0.1},
		},
		StartPoints: 8,
		Points:      1000,
		Bytes:       32000,
		Elapsed:     time.Second,
	}
	sum.Best = &sum.Workers[1]

	out := RenderSummary(sum)
	assert.Contains(t, out, "7.250000")
	assert.Contains(t, out, "31.25 KiB")

	sum.Best = nil
	assert.Contains(t, RenderSummary(sum), "no finite trajectory")
}

func TestRenderRuns(t *testing.T) {
	assert.Contains(t, RenderRuns(nil), "no runs")

	out := RenderRuns([]storage.RunMetadata{{
		ID:          "sweep_1",
		Config:      config.DefaultConfig(),
		StartPoints: 32768,
		Best:        &storage.WorkerMetadata{Found: true, BestX: 3.5},
	}})
	assert.Contains(t, out, "sweep_1")
	assert.Contains(t, out, "rkf45")
	assert.Contains(t, out, "3.500000")
}

func TestProgressModel(t *testing.T) {
	m := NewProgressModel("sweep", 4)
	require.NotNil(t, m.Init())

	next, cmd := m.Update(ProgressMsg(42))
	m = next.(ProgressModel)
	assert.Nil(t, cmd)
	assert.Equal(t, uint(42), m.Percent())
	assert.Contains(t, m.View(), "42%")

	next, _ = m.Update(ProgressMsg(10))
	m = next.(ProgressModel)
	assert.Equal(t, uint(42), m.Percent(), "progress never goes back")

	next, cmd = m.Update(DoneMsg{Summary: &search.Summary{}})
	m = next.(ProgressModel)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Done())
	assert.Equal(t, uint(100), m.Percent())
	assert.Contains(t, m.View(), "done")
}

func TestProgressModel_Failure(t *testing.T) {
	m := NewProgressModel("sweep", 1)
	next, _ := m.Update(DoneMsg{Err: errors.New("disk full")})
	m = next.(ProgressModel)
	assert.Contains(t, m.View(), "disk full")
	assert.NotEqual(t, uint(100), m.Percent())
}

func TestProgressModel_Cancel(t *testing.T) {
	m := NewProgressModel("sweep", 1)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(ProgressModel)
	require.NotNil(t, cmd)
	assert.True(t, m.Cancelled())
	assert.False(t, m.Done())
}
