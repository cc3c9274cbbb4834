package config

import (
	"sort"

	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/glider"
	"github.com/krzem5/4CBLA10-group51-flight-path-solver/internal/sweep"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"coarse": func() *Config {
		cfg := DefaultConfig()
		cfg.Sweep.Axes[2].Divisions = 4
		cfg.Sweep.Axes[3].Divisions = 32
		cfg.Stop.MaxPoints = 1_000_000
		return cfg
	},
	"rk4": func() *Config {
		cfg := DefaultConfig()
		cfg.Method = MethodRK4
		cfg.Solver.Step = 0.001
		cfg.Sweep.Axes[2].Divisions = 4
		cfg.Sweep.Axes[3].Divisions = 32
		return cfg
	},
	"loop": func() *Config {
		cfg := DefaultConfig()
		cfg.Stop.Pattern = glider.Unconstrained
		cfg.Sweep.Axes[2] = sweep.Axis{From: 1.0, To: 2.0, Divisions: 16}
		cfg.Sweep.Axes[3] = sweep.Axis{From: 0, To: 1.0, Divisions: 64}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
