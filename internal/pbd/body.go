package pbd

import "github.com/go-gl/mathgl/mgl64"

// SDFData is a signed distance sample for one body particle: how deep the
// particle sits below the body surface and the outward direction toward
// that surface, both in the body's rest frame.
type SDFData struct {
	Normal   mgl64.Vec2
	Distance float64
}

// Body groups SOLID particles into one rigid aggregate. Members are
// referenced by index into the simulation's particle store; indices stay
// valid because particles are never removed.
type Body struct {
	Particles []int
	IMass     float64
	COM       mgl64.Vec2
	// Rs are rest offsets from the center of mass, parallel to Particles.
	Rs []mgl64.Vec2
	// SDF is keyed by global particle index.
	SDF map[int]SDFData
	// Angle is the current best-fit rotation, maintained by the shape
	// constraint and read by rigid contacts to orient SDF normals.
	Angle float64
	Shape *TotalShapeConstraint
}

// UpdateCOM recomputes the mass-weighted center from predicted positions
// when guess is set, else from committed ones.
func (b *Body) UpdateCOM(ps []*Particle, guess bool) {
	var com mgl64.Vec2
	total := 0.0
	for _, i := range b.Particles {
		p := ps[i]
		m := 1.0 / p.IMass
		if guess {
			com = com.Add(p.EP.Mul(m))
		} else {
			com = com.Add(p.P.Mul(m))
		}
		total += m
	}
	if total > 0 {
		b.COM = com.Mul(1 / total)
	}
}

// ComputeRs records rest offsets from the current committed positions.
// Called once at construction; the offsets define the shape to match.
func (b *Body) ComputeRs(ps []*Particle) {
	b.Rs = b.Rs[:0]
	for _, i := range b.Particles {
		b.Rs = append(b.Rs, ps[i].P.Sub(b.COM))
	}
}
