package search

import (
	"errors"
	"iter"
	"time"
)

var ErrNilConfig = errors.New("search: nil config")

// TaskIndex identifies a worker within a run.
type TaskIndex int

// Sink receives the best trajectory of one worker. Replace is called with
// the full trajectory every time the best improves.
type Sink interface {
	Replace(blocks iter.Seq[[]float64]) error
	Close() error
}

// SinkFactory opens the sink of a worker. A nil factory discards
// trajectories.
type SinkFactory func(worker TaskIndex) (Sink, error)

// WorkerResult is what one worker found.
type WorkerResult struct {
	Index        TaskIndex
	BestX        float64
	BestV        float64
	BestTheta    float64
	BestPoints   uint64
	Found        bool
	Trajectories uint64
	Points       uint64
	Bytes        uint64
	CachedBytes  uint64
}

// Summary aggregates a finished run.
type Summary struct {
	Workers     []WorkerResult
	Best        *WorkerResult
	StartPoints uint64
	Points      uint64
	Bytes       uint64
	CachedBytes uint64
	Elapsed     time.Duration
}

func (s *Summary) PointsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Points) / s.Elapsed.Seconds()
}

func (s *Summary) BytesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}
