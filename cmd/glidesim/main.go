package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/arena"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/config"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/export"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/kernel"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/search"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/solver"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/storage"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/viz"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	configFile string
	preset     string
	method     string
	workers    int
	batchSize  int
	stepBatch  int
	cacheCap   int
	pattern    string
	step       float64
	tolerance  float64
	maxPoints  uint64
	useTUI     bool
	noStore    bool

	configPreset string

	plotWorker int
	plotFile   string
	plotWidth  int
	plotHeight int

	exportFormat string
	exportOut    string

	benchSteps int
)

// main registers the glidesim commands and exits with status 1 when one
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "glidesim",
		Short:             "glide path sweep solver",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogger,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "sweep start points and keep the furthest glide",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&method, "method", config.MethodRKF45, "integration method (rk4, rkf45)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = one per CPU)")
	runCmd.Flags().IntVar(&batchSize, "batch", config.DefaultBatchSize, "start points drawn per scheduler call")
	runCmd.Flags().IntVar(&stepBatch, "step-batch", config.DefaultStepBatch, "steps between stop checks")
	runCmd.Flags().IntVar(&cacheCap, "cache", config.DefaultCacheCapacity, "blocks kept per worker cache")
	runCmd.Flags().StringVar(&pattern, "pattern", glider.NoStall.String(), "flight pattern (unconstrained, no-loop, no-stall)")
	runCmd.Flags().Float64Var(&step, "step", solver.DefaultStep, "initial step size")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", solver.DefaultTolerance, "rkf45 error tolerance")
	runCmd.Flags().Uint64Var(&maxPoints, "max-points", glider.DefaultMaxPoints, "sample limit per trajectory")
	runCmd.Flags().BoolVar(&useTUI, "tui", false, "show a progress view")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not write trajectories or metadata")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWorker, "worker", -1, "worker whose trajectory to plot (default: best)")
	plotCmd.Flags().StringVar(&plotFile, "file", "", "plot a raw point file instead of a run")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored trajectory as csv or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().IntVar(&plotWorker, "worker", -1, "worker whose trajectory to export (default: best)")
	exportCmd.Flags().StringVar(&plotFile, "file", "", "export a raw point file instead of a run")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv, svg)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a preset configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&configPreset, "preset", "default", "preset to write")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrators on the reference start point",
		Args:  cobra.NoArgs,
		RunE:  benchSolvers,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 1_000_000, "samples per measurement")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("glidesim")
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if logJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	logger = logger.Level(level).With().Timestamp().Logger()
	return nil
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = strings.ToLower(method)
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("batch") {
		cfg.Sweep.BatchSize = batchSize
	}
	if flags.Changed("step-batch") {
		cfg.StepBatch = stepBatch
	}
	if flags.Changed("cache") {
		cfg.CacheCapacity = cacheCap
	}
	if flags.Changed("pattern") {
		p, err := glider.ParsePattern(pattern)
		if err != nil {
			return nil, err
		}
		cfg.Stop.Pattern = p
	}
	if flags.Changed("step") {
		cfg.Solver.Step = step
		if cfg.Solver.MinStep > step {
			cfg.Solver.MinStep = step
		}
	}
	if flags.Changed("tolerance") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("max-points") {
		cfg.Stop.MaxPoints = maxPoints
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var run *storage.Run
	var sinks search.SinkFactory
	if !noStore {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		run, err = st.CreateRun("sweep")
		if err != nil {
			return err
		}
		sinks = func(idx search.TaskIndex) (search.Sink, error) {
			return run.OpenPoints(int(idx))
		}
		logger.Info().Str("run", run.ID).Str("dir", run.Dir()).Msg("storing trajectories")
	}

	started := time.Now()
	var sum *search.Summary
	if useTUI {
		sum, err = runWithProgressView(ctx, cfg, sinks)
	} else {
		sum, err = search.Run(ctx, cfg, sinks, logger, logProgress())
	}
	if err != nil {
		return err
	}

	if run != nil {
		if err := run.WriteMetadata(runMetadata(cfg, sum, started)); err != nil {
			return err
		}
	}

	fmt.Println(viz.RenderSummary(sum))
	if run != nil {
		fmt.Printf("run id: %s\n", run.ID)
	}
	return nil
}

// logProgress logs at most every two seconds, and always on completion.
func logProgress() func(uint) {
	sometimes := rate.Sometimes{First: 1, Interval: 2 * time.Second}
	return func(p uint) {
		if p >= 100 {
			logger.Info().Uint("percent", p).Msg("sweep progress")
			return
		}
		sometimes.Do(func() {
			logger.Info().Uint("percent", p).Msg("sweep progress")
		})
	}
}

func runWithProgressView(ctx context.Context, cfg *config.Config, sinks search.SinkFactory) (*search.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewProgressModel("glide sweep", search.Workers(cfg)))
	quiet := logger.Level(zerolog.WarnLevel)

	type result struct {
		sum *search.Summary
		err error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := search.Run(ctx, cfg, sinks, quiet, func(v uint) {
			p.Send(viz.ProgressMsg(v))
		})
		p.Send(viz.DoneMsg{Summary: sum, Err: err})
		done <- result{sum, err}
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return nil, err
	}
	if m, ok := final.(viz.ProgressModel); ok && m.Cancelled() {
		cancel()
	}
	r := <-done
	return r.sum, r.err
}

func runMetadata(cfg *config.Config, sum *search.Summary, started time.Time) *storage.RunMetadata {
	meta := &storage.RunMetadata{
		Timestamp:      started,
		Config:         cfg,
		StartPoints:    sum.StartPoints,
		Bytes:          sum.Bytes,
		CachedBytes:    sum.CachedBytes,
		ElapsedSeconds: sum.Elapsed.Seconds(),
		Workers:        make([]storage.WorkerMetadata, len(sum.Workers)),
	}
	for i, w := range sum.Workers {
		wm := storage.WorkerMetadata{
			Index:        int(w.Index),
			BestX:        w.BestX,
			BestV:        w.BestV,
			BestTheta:    w.BestTheta,
			Found:        w.Found,
			Trajectories: w.Trajectories,
			Bytes:        w.Bytes,
		}
		if w.Found {
			wm.PointsFile = filepath.Join("points", fmt.Sprintf("%02d", w.Index))
		}
		meta.Workers[i] = wm
		if sum.Best != nil && sum.Best.Index == w.Index {
			best := wm
			meta.Best = &best
		}
	}
	return meta
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderRuns(runs))
	return nil
}

// loadTrajectory reads --file, or the trajectory of --worker (default: the
// best worker) in the given run.
func loadTrajectory(args []string) (string, [][]float64, error) {
	path := plotFile
	if path == "" {
		if len(args) != 1 {
			return "", nil, fmt.Errorf("need a run id or --file")
		}
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return "", nil, err
		}
		worker := plotWorker
		if worker < 0 {
			if meta.Best == nil {
				return "", nil, fmt.Errorf("run %s found no trajectory", args[0])
			}
			worker = meta.Best.Index
		}
		path = st.PointsPath(args[0], worker)
	}

	points, err := storage.LoadPoints(path, glider.Dim)
	if err != nil {
		return "", nil, err
	}
	if len(points) == 0 {
		return "", nil, fmt.Errorf("%s holds no samples", path)
	}
	return path, points, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, points, err := loadTrajectory(args)
	if err != nil {
		return err
	}

	fmt.Println(viz.PlotTrajectory(points, plotWidth, plotHeight))
	first, last := points[0], points[len(points)-1]
	fmt.Printf("start: y=%.17g v=%.17g θ=%.17g\n", first[glider.Y], first[glider.V], first[glider.Theta])
	fmt.Printf("end:   x=%.6f y=%.6f after %d samples\n", last[glider.X], last[glider.Y], len(points))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	path, points, err := loadTrajectory(args)
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(exportFormat) {
	case "csv":
		err = export.TrajectoryCSV(out, points)
	case "svg":
		err = export.TrajectorySVG(out, points, export.DefaultSVGOptions())
	default:
		return fmt.Errorf("unknown export format: %s", exportFormat)
	}
	if err != nil {
		return err
	}
	if exportOut != "" {
		logger.Info().Str("source", path).Str("out", exportOut).Int("samples", len(points)).Msg("trajectory exported")
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tSTEP\tPATTERN\tSTART POINTS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		total := uint64(1)
		for _, a := range cfg.Sweep.Axes {
			if a.Divisions > 1 {
				total *= uint64(a.Divisions)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%d\n", name, cfg.Method, cfg.Solver.Step, cfg.Stop.Pattern, total)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(configPreset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", configPreset, config.ListPresets())
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info().Str("path", args[0]).Str("preset", configPreset).Msg("config written")
	return nil
}

// benchSolvers integrates an unbounded trajectory from the reference start
// point with each method and reports the sample rate.
func benchSolvers(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	axes := cfg.Sweep.Axes
	start := []float64{axes[glider.X].From, axes[glider.Y].From, axes[glider.V].From, axes[glider.Theta].From}
	model := glider.NewModel(cfg.Drag)
	cache := arena.NewCache(cfg.CacheCapacity)
	defer cache.Close()

	fmt.Printf("kernel: %s\n\n", kernel.ISA())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tSAMPLES\tTIME\tSAMPLES/SEC\tMIB/SEC")

	for _, m := range []string{config.MethodRK4, config.MethodRKF45} {
		s, err := solver.New(model.Derivative, start, cfg.Solver, cache)
		if err != nil {
			return err
		}
		stepFn := s.StepRKF45
		if m == config.MethodRK4 {
			stepFn = s.StepRK4
		}

		began := time.Now()
		for s.PointCount() < uint64(benchSteps) {
			stepFn(cfg.StepBatch)
		}
		elapsed := time.Since(began)

		rate := float64(s.PointCount()) / elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.1f\n", m, s.PointCount(), elapsed.Round(time.Microsecond),
			rate, float64(s.Bytes())/elapsed.Seconds()/(1<<20))
		s.Close()
	}

	return w.Flush()
}
