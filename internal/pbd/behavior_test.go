package pbd_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

const dt = 1.0 / 60.0

func comOf(ps []*pbd.Particle) mgl64.Vec2 {
	var com mgl64.Vec2
	for _, p := range ps {
		com = com.Add(p.P)
	}
	return com.Mul(1 / float64(len(ps)))
}

var _ = Describe("colliding particles", func() {
	var sim *pbd.Simulation

	BeforeEach(func() {
		params := pbd.DefaultParams()
		params.Gravity = mgl64.Vec2{}
		sim = pbd.New(params)
		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.SetBounds(mgl64.Vec2{-10, 10}, mgl64.Vec2{-10, 10})
			a := pbd.NewParticle(mgl64.Vec2{-1, 0}, 1, pbd.Solid)
			a.V = mgl64.Vec2{1, 0}
			b := pbd.NewParticle(mgl64.Vec2{1, 0}, 1, pbd.Solid)
			b.V = mgl64.Vec2{-1, 0}
			s.AddParticle(a)
			s.AddParticle(b)
			return nil
		})).To(Succeed())
	})

	It("never interpenetrates and stops approaching", func() {
		for i := 0; i < 12; i++ {
			sim.Tick(0.1)
			a, b := sim.Particles()[0], sim.Particles()[1]
			Expect(b.P.Sub(a.P).Len()).To(BeNumerically(">=", pbd.ParticleDiam-pbd.Epsilon),
				"interpenetration on tick %d", i)
		}

		a, b := sim.Particles()[0], sim.Particles()[1]
		Expect(a.V.X()).To(BeNumerically("<=", 1e-9))
		Expect(b.V.X()).To(BeNumerically(">=", -1e-9))
		Expect(a.P.X()).To(BeNumerically("<", b.P.X()))
	})
})

var _ = Describe("a dropped rigid body", func() {
	var sim *pbd.Simulation

	BeforeEach(func() {
		sim = pbd.New(pbd.DefaultParams())
		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.SetBounds(mgl64.Vec2{-50, 50}, mgl64.Vec2{0, 1000})

			verts := make([]*pbd.Particle, 6)
			sdf := make([]pbd.SDFData, 6)
			for k := range verts {
				x := float64(k)*pbd.ParticleDiam - 2.5
				verts[k] = pbd.NewParticle(mgl64.Vec2{x, 5}, 1, pbd.Solid)
				switch k {
				case 0:
					sdf[k] = pbd.SDFData{Normal: mgl64.Vec2{-1, 0}, Distance: pbd.ParticleRad}
				case 5:
					sdf[k] = pbd.SDFData{Normal: mgl64.Vec2{1, 0}, Distance: pbd.ParticleRad}
				default:
					sdf[k] = pbd.SDFData{Normal: mgl64.Vec2{0, 1}, Distance: pbd.ParticleRad}
				}
			}
			_, err := s.CreateRigidBody(verts, sdf)
			return err
		})).To(Succeed())
	})

	It("comes to rest on the floor without distorting", func() {
		ps := sim.Particles()
		rest := make([]float64, 0, 15)
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				rest = append(rest, ps[i].P.Sub(ps[j].P).Len())
			}
		}

		for i := 0; i < 120; i++ {
			sim.Tick(dt)
		}

		com := comOf(ps)
		Expect(com.Y()).To(BeNumerically(">=", pbd.ParticleRad-1e-6))
		Expect(com.Y()).To(BeNumerically("<=", pbd.ParticleRad+0.1))

		k := 0
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				d := ps[i].P.Sub(ps[j].P).Len()
				Expect(math.Abs(d-rest[k]) / rest[k]).To(BeNumerically("<=", 0.02),
					"pair (%d,%d) distorted", i, j)
				k++
			}
		}

		Expect(sim.KineticEnergy()).To(BeNumerically("<", 0.01))
	})
})

var _ = Describe("a pendulum", func() {
	buildPendulum := func(bob mgl64.Vec2) *pbd.Simulation {
		sim := pbd.New(pbd.DefaultParams())
		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.AddParticle(pbd.NewParticle(mgl64.Vec2{0, 0}, 0, pbd.Solid))
			s.AddParticle(pbd.NewParticle(bob, 1, pbd.Solid))
			s.AddConstraint(pbd.NewDistanceConstraint(0, 1, s.Particles()))
			return nil
		})).To(Succeed())
		return sim
	}

	It("keeps total energy bounded from a horizontal release", func() {
		sim := buildPendulum(mgl64.Vec2{2, 0})
		bob := sim.Particles()[1]

		energy := func() float64 {
			return sim.KineticEnergy() + 9.8*(bob.P.Y()+2)
		}
		initial := energy()
		lowest := initial
		highest := initial
		for i := 0; i < 600; i++ {
			sim.Tick(dt)
			e := energy()
			lowest = math.Min(lowest, e)
			highest = math.Max(highest, e)
		}

		Expect(highest).To(BeNumerically("<=", 1.05*initial))
		Expect(lowest).To(BeNumerically(">=", 0.5*initial))
	})

	It("swings with the analytic small-amplitude period", func() {
		length, theta := 2.0, 0.15
		sim := buildPendulum(mgl64.Vec2{length * math.Sin(theta), -length * math.Cos(theta)})
		bob := sim.Particles()[1]

		var crossings []float64
		prev := bob.P.X()
		for i := 1; i <= 1800; i++ {
			sim.Tick(dt)
			if x := bob.P.X(); (prev > 0) != (x > 0) {
				crossings = append(crossings, float64(i)*dt)
			}
			prev = bob.P.X()
		}
		Expect(len(crossings)).To(BeNumerically(">=", 4))

		half := 0.0
		for i := 1; i < len(crossings); i++ {
			half += crossings[i] - crossings[i-1]
		}
		half /= float64(len(crossings) - 1)

		want := 2 * math.Pi * math.Sqrt(length/9.8)
		Expect(2 * half).To(BeNumerically("~", want, 0.15*want))
	})
})

var _ = Describe("a water column", func() {
	var (
		sim   *pbd.Simulation
		fluid *pbd.TotalFluidConstraint
	)

	BeforeEach(func() {
		sim = pbd.New(pbd.DefaultParams())
		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.SetBounds(mgl64.Vec2{-2, 2}, mgl64.Vec2{0, 1e6})

			const spacing = 0.65
			verts := make([]*pbd.Particle, 0, 200)
			for col := 0; col < 5; col++ {
				for row := 0; row < 40; row++ {
					pos := mgl64.Vec2{
						(float64(col) - 2) * spacing,
						0.5 + float64(row)*spacing,
					}
					verts = append(verts, pbd.NewParticle(pos, 1, pbd.Fluid))
				}
			}
			var err error
			fluid, err = s.CreateFluid(verts, 1.5)
			return err
		})).To(Succeed())
	})

	It("settles to rest density with a flat surface", func() {
		for i := 0; i < 300; i++ {
			sim.Tick(dt)
		}

		ps := sim.Particles()

		// Interior sample: away from the floor, the free surface, and
		// the side walls, where the kernel support is complete.
		sum, count := 0.0, 0
		for _, i := range fluid.Indices {
			p := ps[i]
			if p.P.Y() > 5 && p.P.Y() < 15 && math.Abs(p.P.X()) <= 0.5 {
				sum += fluid.DensityAt(ps, i)
				count++
			}
		}
		Expect(count).To(BeNumerically(">", 10))
		mean := sum / float64(count)
		Expect(mean).To(BeNumerically(">=", 1.5*0.9))
		Expect(mean).To(BeNumerically("<=", 1.5*1.1))

		// Free surface: highest particle per vertical strip.
		tops := make([]float64, 5)
		for _, i := range fluid.Indices {
			p := ps[i]
			bin := int((p.P.X() + 1.5) / 0.6)
			if bin < 0 {
				bin = 0
			}
			if bin > 4 {
				bin = 4
			}
			tops[bin] = math.Max(tops[bin], p.P.Y())
		}
		lo, hi := tops[0], tops[0]
		for _, y := range tops {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
		Expect(hi - lo).To(BeNumerically("<=", pbd.ParticleDiam))
	})
})

var _ = Describe("a box sliding on the floor", func() {
	var sim *pbd.Simulation

	BeforeEach(func() {
		sim = pbd.New(pbd.DefaultParams())
		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.SetBounds(mgl64.Vec2{-50, 50}, mgl64.Vec2{0, 1000})

			verts := make([]*pbd.Particle, 0, 6)
			sdf := make([]pbd.SDFData, 0, 6)
			for x := 0; x < 3; x++ {
				for y := 0; y < 2; y++ {
					p := pbd.NewParticle(mgl64.Vec2{
						float64(x-1) * pbd.ParticleDiam,
						0.5 + float64(y)*pbd.ParticleDiam,
					}, 1, pbd.Solid)
					p.V = mgl64.Vec2{0.1, 0}
					p.SFriction = 0.5
					p.KFriction = 0.4
					verts = append(verts, p)

					if x == 1 {
						sdf = append(sdf, pbd.SDFData{
							Normal:   mgl64.Vec2{0, float64(2*y - 1)},
							Distance: pbd.ParticleRad,
						})
					} else {
						sdf = append(sdf, pbd.SDFData{
							Normal:   mgl64.Vec2{float64(x - 1), float64(2*y - 1)}.Normalize(),
							Distance: pbd.ParticleRad * math.Sqrt2,
						})
					}
				}
			}
			_, err := s.CreateRigidBody(verts, sdf)
			return err
		})).To(Succeed())
	})

	It("stops within a second and stays put", func() {
		for i := 0; i < 60; i++ {
			sim.Tick(dt)
		}

		ps := sim.Particles()
		for i, p := range ps {
			Expect(math.Abs(p.V.X())).To(BeNumerically("<", 1e-6), "particle %d still sliding", i)
		}
		stopped := comOf(ps)
		Expect(stopped.X()).To(BeNumerically("<", 0.05), "box slid too far")

		for i := 0; i < 60; i++ {
			sim.Tick(dt)
		}
		Expect(math.Abs(comOf(ps).X() - stopped.X())).To(BeNumerically("<", 1e-6))
	})
})

var _ = Describe("gas under fluid", func() {
	var (
		sim      *pbd.Simulation
		gasIdx   []int
		fluidIdx []int
	)

	BeforeEach(func() {
		params := pbd.DefaultParams()
		params.Alpha = 0.5
		sim = pbd.New(params)
		rng := rand.New(rand.NewSource(11))
		jitter := func() float64 { return (rng.Float64() - 0.5) * 0.1 }

		Expect(sim.Init(func(s *pbd.Simulation) error {
			s.SetBounds(mgl64.Vec2{-4, 4}, mgl64.Vec2{0, 1e6})

			gas := make([]*pbd.Particle, 0, 48)
			for col := 0; col < 8; col++ {
				for row := 0; row < 6; row++ {
					pos := mgl64.Vec2{
						-2.8 + float64(col)*0.8 + jitter(),
						0.9 + float64(row)*0.8 + jitter(),
					}
					gas = append(gas, pbd.NewParticle(pos, 1, pbd.Gas))
				}
			}
			gc, err := s.CreateGas(gas, 0.75)
			if err != nil {
				return err
			}
			gasIdx = gc.Indices

			fluid := make([]*pbd.Particle, 0, 100)
			for col := 0; col < 10; col++ {
				for row := 0; row < 10; row++ {
					pos := mgl64.Vec2{
						-2.475 + float64(col)*0.55 + jitter(),
						5.6 + float64(row)*0.55 + jitter(),
					}
					fluid = append(fluid, pbd.NewParticle(pos, 1, pbd.Fluid))
				}
			}
			fc, err := s.CreateFluid(fluid, 3.0)
			if err != nil {
				return err
			}
			fluidIdx = fc.Indices
			return nil
		})).To(Succeed())
	})

	It("lets the lighter medium rise", func() {
		for i := 0; i < 300; i++ {
			sim.Tick(dt)
		}

		ps := sim.Particles()
		meanY := func(indices []int) float64 {
			sum := 0.0
			for _, i := range indices {
				sum += ps[i].P.Y()
			}
			return sum / float64(len(indices))
		}

		Expect(meanY(gasIdx)).To(BeNumerically(">", meanY(fluidIdx)))

		for i, p := range ps {
			Expect(p.P.Y()).To(BeNumerically(">=", -pbd.Epsilon), "particle %d under floor", i)
			Expect(math.Abs(p.P.X())).To(BeNumerically("<=", 4+pbd.Epsilon), "particle %d past wall", i)
		}
	})
})
