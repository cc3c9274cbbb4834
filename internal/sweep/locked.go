package sweep

import "sync"

// Locked shares a Scheduler between goroutines.
type Locked struct {
	mu sync.Mutex
	s  *Scheduler
}

func NewLocked(s *Scheduler) *Locked {
	return &Locked{s: s}
}

// Next calls Scheduler.Next under the lock. The progress callback runs while
// the lock is held.
func (l *Locked) Next(batch []float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Next(batch)
}

func (l *Locked) NewBatch() []float64 {
	return l.s.NewBatch()
}

// Scheduler returns the wrapped scheduler. Read its counters only after all
// workers have stopped calling Next.
func (l *Locked) Scheduler() *Scheduler {
	return l.s
}
