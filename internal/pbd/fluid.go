package pbd

import "github.com/go-gl/mathgl/mgl64"

// Artificial pressure term from Macklin & Müller, "Position Based Fluids"
// (2013). It penalizes close neighbors, faking surface tension and keeping
// particles from clumping.
const (
	scorrK  = 0.1
	scorrDq = 0.2 * kernelH
)

// densityField is the shared core of the fluid and gas constraints: a
// joint constant-density constraint over an index set, solved per project
// call exactly as in the position based fluids paper.
type densityField struct {
	// Density is the rest density the field relaxes toward.
	Density float64
	// Indices lists the member particles; only members contribute to
	// density estimates.
	Indices []int
	// Relax softens the multiplier denominators.
	Relax float64

	scorr  bool
	lambda []float64
	delta  []mgl64.Vec2
}

func newDensityField(density float64, indices []int, relax float64, scorr bool) densityField {
	return densityField{
		Density: density,
		Indices: indices,
		Relax:   relax,
		scorr:   scorr,
		lambda:  make([]float64, len(indices)),
		delta:   make([]mgl64.Vec2, len(indices)),
	}
}

func (c *densityField) Project(ps []*Particle) {
	n := len(c.Indices)
	if n == 0 {
		return
	}

	// Multipliers first: one lambda per member from its density excess
	// and the squared constraint gradients of its neighborhood.
	ParallelFor(n, 64, func(start, end int) {
		for ii := start; ii < end; ii++ {
			i := c.Indices[ii]
			pi := ps[i]

			rho := 0.0
			sum := 0.0
			var gradI mgl64.Vec2
			for _, j := range c.Indices {
				pj := ps[j]
				d := pi.EP.Sub(pj.EP)
				r2 := d.Dot(d)
				if r2 >= kernelH2 {
					continue
				}
				rho += poly6(r2) / pj.IMass
				if i == j {
					continue
				}
				gw := spikyGrad(d).Mul(1 / c.Density)
				sum += gw.Dot(gw) * pj.TMass
				gradI = gradI.Add(gw)
			}

			cv := rho/c.Density - 1
			c.lambda[ii] = -cv / (sum + gradI.Dot(gradI)*pi.TMass + c.Relax)
		}
	})

	// Deltas from pairwise multiplier sums, buffered so every particle
	// sees the same neighborhood state.
	ParallelFor(n, 64, func(start, end int) {
		for ii := start; ii < end; ii++ {
			i := c.Indices[ii]
			pi := ps[i]

			var acc mgl64.Vec2
			for jj, j := range c.Indices {
				if i == j {
					continue
				}
				d := pi.EP.Sub(ps[j].EP)
				r2 := d.Dot(d)
				if r2 >= kernelH2 {
					continue
				}
				s := c.lambda[ii] + c.lambda[jj]
				if c.scorr {
					w := poly6(r2) / poly6(scorrDq*scorrDq)
					s -= scorrK * w * w * w * w
				}
				acc = acc.Add(spikyGrad(d).Mul(s))
			}
			c.delta[ii] = acc.Mul(1 / c.Density)
		}
	})

	for ii, i := range c.Indices {
		ps[i].EP = ps[i].EP.Add(c.delta[ii])
	}
}

// DensityAt estimates the smoothed density at member particle idx from the
// current predictions. Diagnostic; the solve recomputes densities itself.
func (c *densityField) DensityAt(ps []*Particle, idx int) float64 {
	pi := ps[idx]
	rho := 0.0
	for _, j := range c.Indices {
		d := pi.EP.Sub(ps[j].EP)
		if r2 := d.Dot(d); r2 < kernelH2 {
			rho += poly6(r2) / ps[j].IMass
		}
	}
	return rho
}

// Linearize emits one row per member: the density excess with gradients
// against every neighbor, relaxation on the diagonal. The tensile term is
// nonlinear and stays out of the rows.
func (c *densityField) Linearize(ps []*Particle, rows []Row) []Row {
	for _, i := range c.Indices {
		pi := ps[i]

		rho := 0.0
		var gradI mgl64.Vec2
		indices := make([]int, 1, 9)
		grads := make([]mgl64.Vec2, 1, 9)
		indices[0] = i

		for _, j := range c.Indices {
			pj := ps[j]
			d := pi.EP.Sub(pj.EP)
			r2 := d.Dot(d)
			if r2 >= kernelH2 {
				continue
			}
			rho += poly6(r2) / pj.IMass
			if i == j {
				continue
			}
			gw := spikyGrad(d).Mul(1 / c.Density)
			indices = append(indices, j)
			grads = append(grads, gw.Mul(-1))
			gradI = gradI.Add(gw)
		}
		grads[0] = gradI

		rows = append(rows, Row{
			Indices: indices,
			Grads:   grads,
			C:       rho/c.Density - 1,
			Relax:   c.Relax,
		})
	}
	return rows
}

// TotalFluidConstraint enforces constant density jointly over a set of
// FLUID particles, with the artificial pressure term enabled.
type TotalFluidConstraint struct {
	densityField
}

func NewTotalFluidConstraint(density float64, indices []int) *TotalFluidConstraint {
	return &TotalFluidConstraint{newDensityField(density, indices, FluidRelaxation, true)}
}

func (c *TotalFluidConstraint) Group() Group { return GroupStandard }
