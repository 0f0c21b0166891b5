package config

import "strings"

func solver(mode string, iterations int, stabilization bool) SolverConfig {
	return SolverConfig{
		Mode:                    mode,
		Iterations:              iterations,
		StabilizationIterations: 2,
		Stabilization:           stabilization,
		Alpha:                   0.5,
	}
}

var Presets = map[string]map[string]*Config{
	"friction": {
		"slide": {
			Scene: "FRICTION", Dt: 1.0 / 60, Duration: 10.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"matrix": {
			Scene: "FRICTION", Dt: 1.0 / 60, Duration: 10.0, Seed: 1,
			Solver: solver("matrix", 5, true),
		},
	},
	"granular": {
		"pile": {
			Scene: "GRANULAR", Dt: 1.0 / 60, Duration: 15.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"nostab": {
			Scene: "GRANULAR", Dt: 1.0 / 60, Duration: 15.0, Seed: 1,
			Solver: solver("iterative", 5, false),
		},
	},
	"stacks": {
		"tower": {
			Scene: "STACKS", Dt: 1.0 / 60, Duration: 20.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"soft": {
			Scene: "STACKS", Dt: 1.0 / 60, Duration: 20.0, Seed: 1,
			Solver: solver("iterative", 2, true),
		},
	},
	"wall": {
		"impact": {
			Scene: "WALL", Dt: 1.0 / 60, Duration: 12.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
	},
	"pendulum": {
		"swing": {
			Scene: "PENDULUM", Dt: 1.0 / 60, Duration: 30.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"fine": {
			Scene: "PENDULUM", Dt: 1.0 / 120, Duration: 30.0, Seed: 1,
			Solver: solver("iterative", 10, true),
		},
	},
	"fluid": {
		"dam": {
			Scene: "FLUID", Dt: 1.0 / 60, Duration: 10.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"matrix": {
			Scene: "FLUID", Dt: 1.0 / 60, Duration: 10.0, Seed: 1,
			Solver: solver("matrix", 5, true),
		},
	},
	"fluid_solid": {
		"splash": {
			Scene: "FLUID_SOLID", Dt: 1.0 / 60, Duration: 12.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
	},
	"gas": {
		"bubble": {
			Scene: "GAS", Dt: 1.0 / 60, Duration: 15.0, Seed: 1,
			Solver: solver("iterative", 5, true),
		},
		"buoyant": {
			Scene: "GAS", Dt: 1.0 / 60, Duration: 15.0, Seed: 1,
			Solver: SolverConfig{
				Mode: "iterative", Iterations: 5,
				StabilizationIterations: 2, Stabilization: true,
				Alpha: 0.2,
			},
		},
	},
}

func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[strings.ToLower(scene)]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[strings.ToLower(scene)]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	return names
}
