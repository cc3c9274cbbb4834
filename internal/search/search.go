package search

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/arena"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/config"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/solver"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/sweep"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// runContext is the state shared by the workers of one run.
type runContext struct {
	cfg   *config.Config
	sched *sweep.Locked
	model glider.Model
	stop  glider.Stop
	log   zerolog.Logger

	startPoints atomic.Uint64
	points      atomic.Uint64
	bytes       atomic.Uint64
}

// Workers resolves the worker count of cfg.
func Workers(cfg *config.Config) int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.NumCPU()
}

// Run sweeps the start grid of cfg. progress, if not nil, receives the
// completed percentage and may be called from any worker.
func Run(ctx context.Context, cfg *config.Config, sinks SinkFactory, log zerolog.Logger, progress sweep.ProgressFunc) (*Summary, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched, err := sweep.New(cfg.Sweep.Axes, cfg.Sweep.BatchSize, progress)
	if err != nil {
		return nil, err
	}

	rc := &runContext{
		cfg:   cfg,
		sched: sweep.NewLocked(sched),
		model: glider.NewModel(cfg.Drag),
		stop:  cfg.Stop.Stop(),
		log:   log,
	}

	n := Workers(cfg)
	results := make([]WorkerResult, n)
	start := time.Now()
	log.Info().
		Int("workers", n).
		Str("method", cfg.Method).
		Uint64("start_points", sched.Total()).
		Msg("sweep started")

	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		idx := TaskIndex(i)
		results[idx].Index = idx
		g.Go(func() error {
			var sink Sink
			if sinks != nil {
				s, err := sinks(idx)
				if err != nil {
					return fmt.Errorf("search: worker %d: %w", idx, err)
				}
				sink = s
			}
			res, err := rc.work(gctx, idx, sink)
			results[idx] = res
			if sink != nil {
				if cerr := sink.Close(); err == nil {
					err = cerr
				}
			}
			return err
		})
	}
	err = g.Wait()

	sum := &Summary{
		Workers:     results,
		StartPoints: rc.startPoints.Load(),
		Points:      rc.points.Load(),
		Bytes:       rc.bytes.Load(),
		Elapsed:     time.Since(start),
	}
	for i := range results {
		r := &results[i]
		sum.CachedBytes += r.CachedBytes
		if r.Found && (sum.Best == nil || r.BestX > sum.Best.BestX) {
			sum.Best = r
		}
	}
	if err != nil {
		return sum, err
	}

	ev := log.Info().
		Uint64("start_points", sum.StartPoints).
		Uint64("points", sum.Points).
		Uint64("bytes", sum.Bytes).
		Uint64("cached_bytes", sum.CachedBytes).
		Dur("elapsed", sum.Elapsed)
	if sum.Best != nil {
		ev = ev.Int("best_worker", int(sum.Best.Index)).
			Float64("best_x", sum.Best.BestX).
			Float64("best_v", sum.Best.BestV).
			Float64("best_theta", sum.Best.BestTheta)
	}
	ev.Msg("sweep finished")
	return sum, nil
}

// work drains the scheduler. The context is only checked between start
// points; a trajectory in flight always runs to its stop condition.
func (rc *runContext) work(ctx context.Context, idx TaskIndex, sink Sink) (res WorkerResult, err error) {
	res.Index = idx
	cache := arena.NewCache(rc.cfg.CacheCapacity)
	defer func() {
		res.CachedBytes = cache.ResidentBytes()
		if cerr := cache.Close(); cerr != nil {
			rc.log.Warn().Err(cerr).Int("worker", int(idx)).Msg("unmapping cached blocks")
		}
	}()

	log := rc.log.With().Int("worker", int(idx)).Logger()
	log.Debug().Msg("worker started")

	dims := rc.sched.Scheduler().Dims()
	batch := rc.sched.NewBatch()
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n := rc.sched.Next(batch)
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if err := rc.trace(&res, cache, batch[i*dims:(i+1)*dims], sink, log); err != nil {
				return res, err
			}
		}
	}

	log.Debug().
		Uint64("trajectories", res.Trajectories).
		Bool("found", res.Found).
		Float64("best_x", res.BestX).
		Msg("worker finished")
	return res, nil
}

// trace integrates one start point and records it if it beats the worker's
// best.
func (rc *runContext) trace(res *WorkerResult, cache *arena.Cache, start []float64, sink Sink, log zerolog.Logger) error {
	s, err := solver.New(rc.model.Derivative, start, rc.cfg.Solver, cache)
	if err != nil {
		return err
	}
	defer s.Close()

	step := s.StepRKF45
	if rc.cfg.Method == config.MethodRK4 {
		step = s.StepRK4
	}
	for !rc.stop.Done(s.LastPoint(), s.PointCount()) {
		step(rc.cfg.StepBatch)
	}

	res.Trajectories++
	res.Points += s.PointCount()
	res.Bytes += s.Bytes()
	rc.startPoints.Add(1)
	rc.points.Add(s.PointCount())
	rc.bytes.Add(s.Bytes())

	x := s.LastPoint()[glider.X]
	if !glider.Finite(s.LastPoint()) || (res.Found && x < res.BestX) {
		return nil
	}
	res.Found = true
	res.BestX = x
	res.BestV = start[glider.V]
	res.BestTheta = start[glider.Theta]
	res.BestPoints = s.PointCount()
	log.Debug().
		Float64("x", x).
		Float64("v", res.BestV).
		Float64("theta", res.BestTheta).
		Uint64("points", res.BestPoints).
		Msg("new best")

	if sink != nil {
		if err := sink.Replace(s.Regions()); err != nil {
			return fmt.Errorf("search: worker %d: %w", res.Index, err)
		}
	}
	return nil
}
