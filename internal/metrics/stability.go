package metrics

import (
	"math"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// Stability samples 1 when every particle velocity is finite and below
// the threshold, 0 otherwise. Value reports the fraction of stable steps;
// a run that blows up scores near zero.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{name: "stability", threshold: threshold}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(sim *pbd.Simulation, t float64) float64 {
	s.samples++
	for _, p := range sim.Particles() {
		v := p.V.Len()
		if v > s.threshold || math.IsNaN(v) {
			s.violations++
			return 0
		}
	}
	return 1
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
