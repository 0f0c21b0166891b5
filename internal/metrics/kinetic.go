package metrics

import "github.com/HanMeh/ParticleSolver/internal/pbd"

// Kinetic samples the total kinetic energy of the particle system. Value
// reports the mean over the run.
type Kinetic struct {
	name    string
	total   float64
	samples int
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic_energy"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(s *pbd.Simulation, t float64) float64 {
	e := s.KineticEnergy()
	k.total += e
	k.samples++
	return e
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}
