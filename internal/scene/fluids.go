package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// fluid drops two dam-break blocks of different rest density side by side.
func fluid(s *pbd.Simulation, rng *rand.Rand) error {
	const scale, delta = 4.0, 0.7
	s.SetGravity(mgl64.Vec2{0, -9.8})
	s.SetBounds(mgl64.Vec2{-2 * scale, 2 * scale}, mgl64.Vec2{-2 * scale, 10 * scale})

	for d := 0; d < 2; d++ {
		start := -2*scale + 2*scale*float64(d)
		var verts []*pbd.Particle
		for x := start; x < start+2*scale; x += delta {
			for y := -2 * scale; y < scale; y += delta {
				pos := mgl64.Vec2{x, y}.Add(jitter(rng, .2))
				verts = append(verts, pbd.NewParticle(pos, 1, pbd.Fluid))
			}
		}
		if _, err := s.CreateFluid(verts, 1+1.5*float64(d)); err != nil {
			return err
		}
	}
	return nil
}

// fluidSolid floods the tank, then drops two 5×2 crates of different mass
// into it. The lighter crate rides higher.
func fluidSolid(s *pbd.Simulation, rng *rand.Rand) error {
	const scale, delta = 5.0, 0.7
	s.SetGravity(mgl64.Vec2{0, -9.8})
	s.SetBounds(mgl64.Vec2{-2 * scale, 2 * scale}, mgl64.Vec2{-2 * scale, 10 * scale})

	var verts []*pbd.Particle
	for x := -2 * scale; x < 2*scale; x += delta {
		for y := -2 * scale; y < 2*scale; y += delta {
			pos := mgl64.Vec2{x, y}.Add(jitter(rng, .2))
			verts = append(verts, pbd.NewParticle(pos, 1, pbd.Fluid))
		}
	}
	if _, err := s.CreateFluid(verts, 1.75); err != nil {
		return err
	}

	crates := []struct {
		dx, mass float64
	}{
		{-3, .5},
		{3, .2},
	}
	for _, crate := range crates {
		bverts := make([]*pbd.Particle, 0, 10)
		for x := 0; x < 5; x++ {
			xVal := pbd.ParticleDiam * float64(x-2)
			for y := 0; y < 2; y++ {
				yVal := float64(2+y+1) * pbd.ParticleDiam
				pos := mgl64.Vec2{xVal + crate.dx, 15 + yVal}
				bverts = append(bverts, pbd.NewParticle(pos, crate.mass, pbd.Solid))
			}
		}
		if _, err := s.CreateRigidBody(bverts, boxSDF(5)); err != nil {
			return err
		}
	}
	return nil
}

// gas fills the lower tank with two gas blocks, then pours heavier fluid
// on top. The gas bubbles up through it.
func gas(s *pbd.Simulation, rng *rand.Rand) error {
	const delta = 0.7
	s.SetGravity(mgl64.Vec2{0, -9.8})

	scale := 2.0
	s.SetBounds(mgl64.Vec2{-2 * scale, 2 * scale}, mgl64.Vec2{-2 * scale, 10 * scale})

	for d := 0; d < 2; d++ {
		start := -2*scale + 2*scale*float64(d)
		var verts []*pbd.Particle
		for x := start; x < start+2*scale; x += delta {
			for y := -2 * scale; y < 2*scale; y += delta {
				pos := mgl64.Vec2{x, y}.Add(jitter(rng, .2))
				verts = append(verts, pbd.NewParticle(pos, 1, pbd.Gas))
			}
		}
		if _, err := s.CreateGas(verts, .75+3*float64(d)); err != nil {
			return err
		}
	}

	// The fluid blocks start wider than the tank; boundary constraints
	// squeeze them in on the first ticks.
	scale = 3.0
	for d := 0; d < 2; d++ {
		start := -2*scale + 2*scale*float64(d)
		var verts []*pbd.Particle
		for x := start; x < start+2*scale; x += delta {
			for y := -2 * scale; y < 2*scale; y += delta {
				pos := mgl64.Vec2{x, y + 10}.Add(jitter(rng, .2))
				verts = append(verts, pbd.NewParticle(pos, 1, pbd.Fluid))
			}
		}
		if _, err := s.CreateFluid(verts, 4+.75*float64(d+1)); err != nil {
			return err
		}
	}
	return nil
}
