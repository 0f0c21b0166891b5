package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// friction drops a single 3×2 brick onto the floor with sideways velocity.
// Watch it slide, slow, and stop.
func friction(s *pbd.Simulation, _ *rand.Rand) error {
	s.SetBounds(mgl64.Vec2{-20, 20}, mgl64.Vec2{0, 1e6})

	verts := make([]*pbd.Particle, 0, 6)
	for x := 0; x < 3; x++ {
		xVal := pbd.ParticleDiam * float64(x-1)
		for y := 0; y < 2; y++ {
			yVal := float64(2+y+1) * pbd.ParticleDiam
			p := pbd.NewParticle(mgl64.Vec2{xVal, yVal}, 1, pbd.Solid)
			p.V = mgl64.Vec2{5, 0}
			p.SFriction = .1
			p.KFriction = .01
			verts = append(verts, p)
		}
	}
	_, err := s.CreateRigidBody(verts, boxSDF(3))
	return err
}

// granular pours a 21×40 block of loose grains and fires a heavy particle
// into its flank.
func granular(s *pbd.Simulation, _ *rand.Rand) error {
	const floor = -5.0
	s.SetBounds(mgl64.Vec2{-100, 100}, mgl64.Vec2{floor, 1000})
	s.SetGravity(mgl64.Vec2{0, -9.8})

	for i := -10; i <= 10; i++ {
		for j := 0; j < 40; j++ {
			pos := mgl64.Vec2{
				float64(i) * (pbd.ParticleDiam + pbd.Epsilon),
				float64(j)*pbd.ParticleDiam + pbd.ParticleRad + floor,
			}
			p := pbd.NewParticle(pos, 1, pbd.Solid)
			p.SFriction = .1
			p.KFriction = .02
			s.AddParticle(p)
		}
	}

	jerk := pbd.NewParticle(mgl64.Vec2{-5.51, 4}, 100, pbd.Solid)
	jerk.V = mgl64.Vec2{10, 0}
	s.AddParticle(jerk)
	return nil
}

// stacks builds five columns of eight falling 3×2 bricks, the classic
// stacking stress test.
func stacks(s *pbd.Simulation, _ *rand.Rand) error {
	s.SetBounds(mgl64.Vec2{-20, 20}, mgl64.Vec2{0, 1e6})

	for j := -2; j <= 2; j++ {
		for i := 7; i >= 0; i-- {
			verts := make([]*pbd.Particle, 0, 6)
			for x := 0; x < 3; x++ {
				xVal := float64(j*4) + pbd.ParticleDiam*float64(x-1)
				for y := 0; y < 2; y++ {
					yVal := float64((2*i+1)*2+y+1) * pbd.ParticleDiam
					verts = append(verts, pbd.NewParticle(mgl64.Vec2{xVal, yVal}, 1, pbd.Solid))
				}
			}
			if _, err := s.CreateRigidBody(verts, boxSDF(3)); err != nil {
				return err
			}
		}
	}
	return nil
}

// wall lays five staggered stacks of 6×2 bricks with high static friction,
// so the bond holds until something knocks it over.
func wall(s *pbd.Simulation, _ *rand.Rand) error {
	s.SetBounds(mgl64.Vec2{-20, 20}, mgl64.Vec2{0, 1e6})

	const w = 6
	for j := -2; j <= 2; j++ {
		for i := 4; i >= 0; i-- {
			// Alternate rows shift opposite ways to stagger the bond.
			shift := 3.0
			if i%2 != 0 {
				shift = -1.0
			}
			verts := make([]*pbd.Particle, 0, 2*w)
			for x := 0; x < w; x++ {
				xVal := float64(j)*(pbd.Epsilon+3) + pbd.ParticleDiam*float64(x) - shift*pbd.ParticleRad
				for y := 0; y < 2; y++ {
					yVal := (float64(i*2+y)+pbd.Epsilon)*pbd.ParticleDiam + pbd.ParticleRad
					p := pbd.NewParticle(mgl64.Vec2{xVal, yVal}, 1, pbd.Solid)
					p.SFriction = 1
					p.KFriction = .09
					verts = append(verts, p)
				}
			}
			if _, err := s.CreateRigidBody(verts, boxSDF(w)); err != nil {
				return err
			}
		}
	}
	return nil
}

// pendulum hangs a chain of three bricks from an immovable anchor, linked
// by distance constraints along both chain edges.
func pendulum(s *pbd.Simulation, _ *rand.Rand) error {
	s.SetBounds(mgl64.Vec2{-10, 10}, mgl64.Vec2{0, 1e6})

	const chain = 3
	anchor := pbd.NewParticle(mgl64.Vec2{0, float64(chain*3+6)*pbd.ParticleDiam + 2}, 0, pbd.Solid)
	s.AddParticle(anchor)

	// Pendulum bricks use uniform shallow samples; their contacts should
	// behave like loose particles, not like a stacked face.
	dirs := []mgl64.Vec2{norm(-1, -1), norm(-1, 1), norm(0, -1), norm(0, 1), norm(1, -1), norm(1, 1)}
	data := make([]pbd.SDFData, 0, len(dirs))
	for _, n := range dirs {
		data = append(data, pbd.SDFData{Normal: n, Distance: pbd.ParticleRad})
	}

	xs := []float64{-1, -1, 0, 0, 1, 1}
	for i := chain; i >= 0; i-- {
		verts := make([]*pbd.Particle, 0, 6)
		for j := 0; j < 6; j++ {
			y := float64((i+1)*3+(j%2))*pbd.ParticleDiam + 2
			verts = append(verts, pbd.NewParticle(mgl64.Vec2{xs[j] * pbd.ParticleDiam, y}, 1, pbd.Solid))
		}
		if _, err := s.CreateRigidBody(verts, data); err != nil {
			return err
		}

		if i < chain {
			basePrev := 1 + (chain-i-1)*6
			baseCur := basePrev + 6
			s.AddConstraint(pbd.NewDistanceConstraint(baseCur+1, basePrev, s.Particles()))
			s.AddConstraint(pbd.NewDistanceConstraint(baseCur+5, basePrev+4, s.Particles()))
		}
	}

	s.AddConstraint(pbd.NewDistanceConstraint(0, 4, s.Particles()))
	return nil
}
