package solver

import (
	"fmt"
	"iter"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/arena"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/kernel"
)

// Derivative writes dx/dt at time t and state x into dx. It must not retain
// or modify x.
type Derivative func(t float64, x, dx []float64)

// stageVectors is the scratch size in points, enough for the six RKF45 slopes.
const stageVectors = 6

type region struct {
	block  []byte
	points []float64
	space  int
}

// Stats counts adaptive step decisions.
type Stats struct {
	Accepted uint64
	Rejected uint64
}

type Solver struct {
	fn       Derivative
	cache    *arena.Cache
	cfg      Config
	dim      int
	perBlock int
	count    uint64
	t        float64
	h        float64
	regions  []region
	last     []float64
	scratch  []float64
	ks       [][]float64
	stats    Stats
}

// New starts a trajectory at first. The point dimension is len(first) and
// must be a multiple of kernel.Lanes.
func New(fn Derivative, first []float64, cfg Config, cache *arena.Cache) (*Solver, error) {
	if fn == nil || cache == nil {
		return nil, ErrNilArgument
	}
	dim := len(first)
	if dim == 0 || dim%kernel.Lanes != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrPointSize, dim)
	}
	perBlock := arena.BlockSize / (dim * 8)
	if perBlock < 2 {
		return nil, fmt.Errorf("%w: %d coordinates do not fit a block", ErrPointSize, dim)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		fn:       fn,
		cache:    cache,
		cfg:      cfg,
		dim:      dim,
		perBlock: perBlock,
		count:    1,
		h:        cfg.Step,
		scratch:  kernel.AllocAligned(stageVectors * dim),
	}
	s.ks = make([][]float64, stageVectors)
	for i := range s.ks {
		s.ks[i] = s.scratch[i*dim : (i+1)*dim : (i+1)*dim]
	}

	head := s.grow()
	copy(head.points, first)
	head.space--
	s.last = head.points[:dim:dim]

	return s, nil
}

// Close returns every block to the cache. The solver must not be used
// afterwards.
func (s *Solver) Close() {
	for i := range s.regions {
		s.cache.Release(s.regions[i].block)
		s.regions[i] = region{}
	}
	s.regions = nil
	s.last = nil
	s.scratch = nil
	s.ks = nil
}

func (s *Solver) grow() *region {
	block := s.cache.Acquire()
	s.regions = append(s.regions, region{
		block:  block,
		points: arena.Floats(block)[: s.perBlock*s.dim : s.perBlock*s.dim],
		space:  s.perBlock,
	})
	return &s.regions[len(s.regions)-1]
}

// reserve appends a block when the tail is full and clips count to the free
// space of the tail. It returns the free part of the tail.
func (s *Solver) reserve(count int) ([]float64, int) {
	tail := &s.regions[len(s.regions)-1]
	if tail.space == 0 {
		tail = s.grow()
	}
	if count > tail.space {
		count = tail.space
	}
	used := (s.perBlock - tail.space) * s.dim
	return tail.points[used:], count
}

func (s *Solver) commit(n int, last []float64, t float64) {
	s.regions[len(s.regions)-1].space -= n
	s.count += uint64(n)
	s.last = last
	s.t = t
}

// LastPoint returns the most recent sample. The slice aliases solver memory.
func (s *Solver) LastPoint() []float64 {
	return s.last
}

func (s *Solver) Dim() int           { return s.dim }
func (s *Solver) Time() float64      { return s.t }
func (s *Solver) StepSize() float64  { return s.h }
func (s *Solver) PointCount() uint64 { return s.count }
func (s *Solver) Stats() Stats       { return s.stats }
func (s *Solver) Config() Config     { return s.cfg }

// Bytes is the storage taken by the samples written so far.
func (s *Solver) Bytes() uint64 {
	return s.count * uint64(s.dim) * 8
}

// Cursor is a position in the block chain.
type Cursor int

// Start begins an iteration at the first block.
const Start Cursor = -1

// Iterate returns the block after c together with its live samples, flattened
// dim coordinates per point. ok is false once the chain is exhausted.
// Iterate does not modify the solver, and passing Start again restarts.
func (s *Solver) Iterate(c Cursor) (next Cursor, points []float64, ok bool) {
	i := int(c) + 1
	if i < 0 || i >= len(s.regions) {
		return c, nil, false
	}
	r := &s.regions[i]
	live := s.perBlock - r.space
	return Cursor(i), r.points[: live*s.dim : live*s.dim], true
}

// Regions yields the live samples of every block in append order.
func (s *Solver) Regions() iter.Seq[[]float64] {
	return func(yield func([]float64) bool) {
		for c, pts, ok := s.Iterate(Start); ok; c, pts, ok = s.Iterate(c) {
			if !yield(pts) {
				return
			}
		}
	}
}

// Points yields every sample in order. Each slice aliases solver memory.
func (s *Solver) Points() iter.Seq[[]float64] {
	return func(yield func([]float64) bool) {
		for pts := range s.Regions() {
			for i := 0; i < len(pts); i += s.dim {
				if !yield(pts[i : i+s.dim : i+s.dim]) {
					return
				}
			}
		}
	}
}
