// Package config holds run settings loadable from YAML, plus named
// presets for the bundled scenes. Missing fields inherit defaults, so
// partial files work.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultScene    = "GRANULAR"
	DefaultSeed     = 1
)

type Config struct {
	Scene    string       `yaml:"scene"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	Seed     int64        `yaml:"seed"`
	Solver   SolverConfig `yaml:"solver"`
}

type SolverConfig struct {
	// Mode is "iterative" or "matrix".
	Mode                    string  `yaml:"mode"`
	Iterations              int     `yaml:"iterations"`
	StabilizationIterations int     `yaml:"stabilization_iterations"`
	Stabilization           bool    `yaml:"stabilization"`
	Alpha                   float64 `yaml:"alpha"`
}

func DefaultConfig() *Config {
	p := pbd.DefaultParams()
	return &Config{
		Scene:    DefaultScene,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Seed:     DefaultSeed,
		Solver: SolverConfig{
			Mode:                    "iterative",
			Iterations:              p.SolverIterations,
			StabilizationIterations: p.StabilizationIterations,
			Stabilization:           p.Stabilization,
			Alpha:                   p.Alpha,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Params converts the solver section into construction-time settings.
// Out-of-range values fall back to the defaults rather than erroring.
func (c *Config) Params() pbd.Params {
	p := pbd.DefaultParams()
	if c.Solver.Iterations > 0 {
		p.SolverIterations = c.Solver.Iterations
	}
	if c.Solver.StabilizationIterations > 0 {
		p.StabilizationIterations = c.Solver.StabilizationIterations
	}
	p.Stabilization = c.Solver.Stabilization
	p.Iterative = c.Solver.Mode != "matrix"
	if c.Solver.Alpha > 0 && c.Solver.Alpha <= 1 {
		p.Alpha = c.Solver.Alpha
	}
	return p
}
