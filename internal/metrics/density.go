package metrics

import (
	"math"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// DensityError samples how far the fluid and gas media sit from rest
// density: mean |rho/rho0 - 1| over every member of every density
// constraint. Value reports the mean over the run. Scenes without media
// sample as zero.
type DensityError struct {
	name    string
	total   float64
	samples int
}

func NewDensityError() *DensityError {
	return &DensityError{name: "density_error"}
}

func (d *DensityError) Name() string { return d.name }

func (d *DensityError) Observe(s *pbd.Simulation, t float64) float64 {
	ps := s.Particles()
	sum := 0.0
	n := 0
	for _, c := range s.Globals(pbd.GroupStandard) {
		switch f := c.(type) {
		case *pbd.TotalFluidConstraint:
			for _, i := range f.Indices {
				sum += math.Abs(f.DensityAt(ps, i)/f.Density - 1)
				n++
			}
		case *pbd.GasConstraint:
			for _, i := range f.Indices {
				sum += math.Abs(f.DensityAt(ps, i)/f.Density - 1)
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	err := sum / float64(n)
	d.total += err
	d.samples++
	return err
}

func (d *DensityError) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.total / float64(d.samples)
}

func (d *DensityError) Reset() {
	d.total = 0
	d.samples = 0
}
