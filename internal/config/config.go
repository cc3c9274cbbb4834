package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/solver"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/sweep"
	"gopkg.in/yaml.v3"
)

const (
	MethodRK4   = "rk4"
	MethodRKF45 = "rkf45"
)

const (
	DefaultBatchSize     = 64
	DefaultStepBatch     = 8
	DefaultCacheCapacity = 1024
	DefaultDataDir       = ".glidesim"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Method        string        `yaml:"method" json:"method"`
	Solver        solver.Config `yaml:"solver" json:"solver"`
	Sweep         SweepConfig   `yaml:"sweep" json:"sweep"`
	Stop          StopConfig    `yaml:"stop" json:"stop"`
	Drag          float64       `yaml:"drag" json:"drag"`
	Workers       int           `yaml:"workers" json:"workers"`
	CacheCapacity int           `yaml:"cache_capacity" json:"cache_capacity"`
	StepBatch     int           `yaml:"step_batch" json:"step_batch"`
	DataDir       string        `yaml:"data_dir" json:"data_dir"`
}

// SweepConfig lists the axes in state order: x, y, v, θ.
type SweepConfig struct {
	Axes      []sweep.Axis `yaml:"axes" json:"axes"`
	BatchSize int          `yaml:"batch_size" json:"batch_size"`
}

type StopConfig struct {
	Pattern   glider.Pattern `yaml:"pattern" json:"pattern"`
	XFloor    float64        `yaml:"x_floor" json:"x_floor"`
	MaxPoints uint64         `yaml:"max_points" json:"max_points"`
}

func (s StopConfig) Stop() glider.Stop {
	return glider.Stop{Pattern: s.Pattern, XFloor: s.XFloor, MaxPoints: s.MaxPoints}
}

// DefaultAxes is the reference sweep: launch speed and angle over a 32x1024
// grid at a fixed small altitude.
func DefaultAxes() []sweep.Axis {
	return []sweep.Axis{
		{From: 0, To: 0, Divisions: 0},
		{From: 0.00082396828416, To: 0, Divisions: 0},
		{From: 0.03840047727997223, To: 0.03931339428700553, Divisions: 32},
		{From: 9.0 / 256, To: 17.0 / 256, Divisions: 1024},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Method: MethodRKF45,
		Solver: solver.DefaultConfig(),
		Sweep: SweepConfig{
			Axes:      DefaultAxes(),
			BatchSize: DefaultBatchSize,
		},
		Stop: StopConfig{
			Pattern:   glider.NoStall,
			XFloor:    glider.DefaultXFloor,
			MaxPoints: glider.DefaultMaxPoints,
		},
		Drag:          glider.DefaultDrag,
		CacheCapacity: DefaultCacheCapacity,
		StepBatch:     DefaultStepBatch,
		DataDir:       DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the solver and scheduler would otherwise reject
// mid-run.
func (c *Config) Validate() error {
	switch c.Method {
	case MethodRK4, MethodRKF45:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalid, c.Method)
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if len(c.Sweep.Axes) != glider.Dim {
		return fmt.Errorf("%w: sweep needs %d axes, got %d", ErrInvalid, glider.Dim, len(c.Sweep.Axes))
	}
	if c.Sweep.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", ErrInvalid)
	}
	if c.StepBatch <= 0 {
		return fmt.Errorf("%w: step batch must be positive", ErrInvalid)
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("%w: cache capacity must not be negative", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if c.Stop.MaxPoints < 2 {
		return fmt.Errorf("%w: max points must be at least 2", ErrInvalid)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Sweep.Axes = append([]sweep.Axis(nil), c.Sweep.Axes...)
	return &out
}
