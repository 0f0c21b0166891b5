package pbd

// GasConstraint is the density constraint tuned for compressible media:
// higher relaxation weakens cohesion so the gas expands to fill available
// space, and no tensile term is applied. Gravity scaling for GAS particles
// happens in the tick driver, not here.
type GasConstraint struct {
	densityField
}

func NewGasConstraint(density float64, indices []int) *GasConstraint {
	return &GasConstraint{newDensityField(density, indices, GasRelaxation, false)}
}

func (c *GasConstraint) Group() Group { return GroupStandard }
