// Package solver integrates one trajectory and keeps its full history.
//
// A [Solver] stores samples in blocks borrowed from an [arena.Cache]. The
// blocks form an append-only chain that is handed back to the cache by
// [Solver.Close]. Two interchangeable steppers advance the trajectory:
//
//   - [Solver.StepRK4]: classical fixed-step fourth-order Runge-Kutta
//   - [Solver.StepRKF45]: adaptive Runge-Kutta-Fehlberg 4(5)
//
// A single step call never writes across a block boundary; it returns the
// number of samples actually written and the caller simply calls again.
//
// # Example
//
//	cache := arena.NewCache(16)
//	s, err := solver.New(fn, x0, solver.DefaultConfig(), cache)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for s.LastPoint()[1] >= 0 {
//		s.StepRKF45(8)
//	}
//
// # Thread Safety
//
// Solver instances are NOT thread-safe, and neither is the cache they share.
package solver
