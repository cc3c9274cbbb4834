package sweep

import (
	"errors"
	"fmt"
)

var (
	ErrNoAxes    = errors.New("sweep: at least one axis is required")
	ErrBatchSize = errors.New("sweep: batch size must be positive")
)

// Axis describes one coordinate of the sweep. Divisions <= 1 pins the axis at
// From. Otherwise the axis takes Divisions values starting at From in steps of
// (To-From)/Divisions, so To itself is never reached.
type Axis struct {
	From      float64 `yaml:"from" json:"from"`
	To        float64 `yaml:"to" json:"to"`
	Divisions uint32  `yaml:"divisions" json:"divisions"`
}

// ProgressFunc receives the completed percentage of a sweep.
type ProgressFunc func(percent uint)

type dimension struct {
	base      float64
	delta     float64
	divisions uint32
	offset    uint32
}

type Scheduler struct {
	dims         []dimension
	maxBatch     int
	total        uint64
	offset       uint64
	lastProgress uint
	progress     ProgressFunc
}

// New builds a scheduler over axes that returns at most maxBatch points per
// call to Next. progress may be nil.
func New(axes []Axis, maxBatch int, progress ProgressFunc) (*Scheduler, error) {
	if len(axes) == 0 {
		return nil, ErrNoAxes
	}
	if maxBatch <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBatchSize, maxBatch)
	}

	s := &Scheduler{
		dims:     make([]dimension, len(axes)),
		maxBatch: maxBatch,
		total:    1,
		progress: progress,
	}
	if progress == nil {
		s.lastProgress = 100
	}

	for i, a := range axes {
		d := &s.dims[i]
		d.base = a.From
		if a.Divisions > 1 {
			d.delta = (a.To - a.From) / float64(a.Divisions)
			d.divisions = a.Divisions
			s.total *= uint64(a.Divisions)
		} else {
			d.divisions = 1
		}
	}

	return s, nil
}

// NewBatch allocates a buffer large enough for one full batch.
func (s *Scheduler) NewBatch() []float64 {
	return make([]float64, s.maxBatch*len(s.dims))
}

// Next writes up to MaxBatch points into batch, Dims coordinates each, and
// returns how many were written. It returns 0 once the grid is exhausted.
func (s *Scheduler) Next(batch []float64) int {
	n := len(s.dims)
	limit := s.maxBatch
	if room := len(batch) / n; room < limit {
		limit = room
	}

	count := 0
	for count < limit && s.offset < s.total {
		p := batch[count*n : (count+1)*n : (count+1)*n]
		for i := range s.dims {
			d := &s.dims[i]
			p[i] = d.base + d.delta*float64(d.offset)
		}
		count++
		s.offset++
		if s.advance() {
			break
		}
	}

	s.report()
	return count
}

// advance increments the odometer and reports whether the carry rippled
// past the first axis.
func (s *Scheduler) advance() bool {
	for i := len(s.dims) - 1; i >= 0; i-- {
		d := &s.dims[i]
		d.offset++
		if d.offset < d.divisions {
			return false
		}
		d.offset = 0
	}
	return true
}

func (s *Scheduler) report() {
	p := s.Progress()
	if p <= s.lastProgress {
		return
	}
	s.lastProgress = p
	s.progress(p)
}

func (s *Scheduler) Dims() int      { return len(s.dims) }
func (s *Scheduler) MaxBatch() int  { return s.maxBatch }
func (s *Scheduler) Total() uint64  { return s.total }
func (s *Scheduler) Offset() uint64 { return s.offset }
func (s *Scheduler) Done() bool     { return s.offset >= s.total }

// Progress is the completed percentage, rounded down.
func (s *Scheduler) Progress() uint {
	return uint(s.offset * 100 / s.total)
}
