// Package metrics measures simulation health once per step: kinetic
// energy, density error of the media, solid overlap, and blow-up
// detection. Observe returns the instantaneous sample so a run driver can
// record per-step series; Value reports the aggregate since Reset.
package metrics

import "github.com/HanMeh/ParticleSolver/internal/pbd"

type Metric interface {
	Name() string
	// Observe samples the simulation at time t and returns the sample.
	Observe(s *pbd.Simulation, t float64) float64
	// Value is the run aggregate: mean, max, or final, per metric.
	Value() float64
	Reset()
}
