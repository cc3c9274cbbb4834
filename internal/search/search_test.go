package search

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/config"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	replaced int
	points   []float64
	closed   bool
}

func (m *memorySink) Replace(blocks iter.Seq[[]float64]) error {
	m.replaced++
	m.points = m.points[:0]
	for b := range blocks {
		m.points = append(m.points, b...)
	}
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

type memorySinks struct {
	mu    sync.Mutex
	sinks map[TaskIndex]*memorySink
}

func (m *memorySinks) open(idx TaskIndex) (Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sinks == nil {
		m.sinks = make(map[TaskIndex]*memorySink)
	}
	s := &memorySink{}
	m.sinks[idx] = s
	return s, nil
}

func smallConfig(workers int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workers = workers
	cfg.CacheCapacity = 2
	cfg.Sweep.BatchSize = 3
	cfg.Sweep.Axes[2].Divisions = 2
	cfg.Sweep.Axes[3].Divisions = 5
	cfg.Stop.MaxPoints = 20_000
	return cfg
}

func TestRun_VisitsEveryStartPoint(t *testing.T) {
	cfg := smallConfig(3)
	var sinks memorySinks
	var progress []uint

	sum, err := Run(context.Background(), cfg, sinks.open, zerolog.Nop(), func(p uint) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(10), sum.StartPoints)
	require.Len(t, sum.Workers, 3)

	var trajectories, points, bytes uint64
	for i, w := range sum.Workers {
		assert.Equal(t, TaskIndex(i), w.Index)
		trajectories += w.Trajectories
		points += w.Points
		bytes += w.Bytes
	}
	assert.Equal(t, uint64(10), trajectories)
	assert.Equal(t, sum.Points, points)
	assert.Equal(t, sum.Bytes, bytes)
	assert.Equal(t, sum.Points*glider.Dim*8, sum.Bytes)

	require.NotEmpty(t, progress)
	assert.True(t, slices.IsSorted(progress))
	assert.Equal(t, uint(100), progress[len(progress)-1])

	require.NotNil(t, sum.Best)
	for _, w := range sum.Workers {
		if w.Found {
			assert.LessOrEqual(t, w.BestX, sum.Best.BestX)
		}
	}
}

func TestRun_SinkHoldsBestTrajectory(t *testing.T) {
	cfg := smallConfig(2)
	var sinks memorySinks

	sum, err := Run(context.Background(), cfg, sinks.open, zerolog.Nop(), nil)
	require.NoError(t, err)

	for _, w := range sum.Workers {
		s := sinks.sinks[w.Index]
		require.NotNil(t, s)
		assert.True(t, s.closed)
		if !w.Found {
			assert.Zero(t, s.replaced)
			continue
		}

		require.Len(t, s.points, int(w.BestPoints)*glider.Dim)
		first := s.points[:glider.Dim]
		last := s.points[len(s.points)-glider.Dim:]
		assert.Equal(t, w.BestV, first[glider.V])
		assert.Equal(t, w.BestTheta, first[glider.Theta])
		assert.Equal(t, w.BestX, last[glider.X])
		assert.True(t, cfg.Stop.Stop().Done(last, w.BestPoints))
	}
}

func TestRun_BestIndependentOfWorkerCount(t *testing.T) {
	one, err := Run(context.Background(), smallConfig(1), nil, zerolog.Nop(), nil)
	require.NoError(t, err)
	many, err := Run(context.Background(), smallConfig(4), nil, zerolog.Nop(), nil)
	require.NoError(t, err)

	require.NotNil(t, one.Best)
	require.NotNil(t, many.Best)
	assert.Equal(t, one.Best.BestX, many.Best.BestX)
	assert.Equal(t, one.Points, many.Points)
}

func TestRun_RK4(t *testing.T) {
	cfg := smallConfig(2)
	cfg.Method = config.MethodRK4
	cfg.Solver.Step = 0.001

	sum, err := Run(context.Background(), cfg, nil, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), sum.StartPoints)
	assert.NotNil(t, sum.Best)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, smallConfig(2), nil, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, sum)
	assert.Zero(t, sum.StartPoints)
	assert.Nil(t, sum.Best)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := smallConfig(1)
	cfg.Method = "euler"

	_, err := Run(context.Background(), cfg, nil, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = Run(context.Background(), nil, nil, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestRun_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := Run(context.Background(), smallConfig(2), func(TaskIndex) (Sink, error) {
		return nil, boom
	}, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestSummaryRates(t *testing.T) {
	s := &Summary{Points: 500, Bytes: 16000}
	assert.Zero(t, s.PointsPerSecond())

	s.Elapsed = 2e9
	assert.InDelta(t, 250, s.PointsPerSecond(), 1e-9)
	assert.InDelta(t, 8000, s.BytesPerSecond(), 1e-9)
}
