package solver

import "fmt"

const (
	DefaultStep      = 0.01
	DefaultMinStep   = 1e-6
	DefaultTolerance = 1e-6
)

// Config holds the step settings of a solver. Step is the fixed RK4 step and
// the initial RKF45 step. MaxStep <= 0 leaves adaptive growth unbounded.
type Config struct {
	Step      float64 `yaml:"step" json:"step"`
	MinStep   float64 `yaml:"min_step" json:"min_step"`
	MaxStep   float64 `yaml:"max_step" json:"max_step"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

func DefaultConfig() Config {
	return Config{
		Step:      DefaultStep,
		MinStep:   DefaultMinStep,
		Tolerance: DefaultTolerance,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if !(c.Step > 0) {
		return fmt.Errorf("%w: step must be positive, got %g", ErrConfig, c.Step)
	}
	if !(c.MinStep > 0) || c.MinStep > c.Step {
		return fmt.Errorf("%w: min step %g outside (0, %g]", ErrConfig, c.MinStep, c.Step)
	}
	if c.MaxStep > 0 && c.MaxStep < c.Step {
		return fmt.Errorf("%w: max step %g below step %g", ErrConfig, c.MaxStep, c.Step)
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrConfig, c.Tolerance)
	}
	return nil
}
