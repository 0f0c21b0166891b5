package pbd

import "github.com/go-gl/mathgl/mgl64"

// BuildFunc populates an empty simulation with particles, bodies, and
// constraints. Scene builders are BuildFuncs.
type BuildFunc func(*Simulation) error

// Simulation owns the particle store, the body store, and the registry of
// long-lived constraints, and advances them one position based dynamics
// step at a time. Particles are referenced by index everywhere; they are
// never removed, so indices stay valid for the simulation's lifetime.
type Simulation struct {
	params  Params
	gravity mgl64.Vec2

	// World bounds as (min, max) per axis.
	xBounds mgl64.Vec2
	yBounds mgl64.Vec2

	particles []*Particle
	bodies    []*Body
	globals   map[Group][]Constraint

	standard *Solver
	contact  *Solver

	width, height int
}

// New returns an empty simulation. Call Init with a scene builder before
// ticking.
func New(params Params) *Simulation {
	return &Simulation{
		params:   params,
		gravity:  params.Gravity,
		xBounds:  mgl64.Vec2{-1e6, 1e6},
		yBounds:  mgl64.Vec2{-1e6, 1e6},
		globals:  make(map[Group][]Constraint),
		standard: NewSolver(),
		contact:  NewContactSolver(),
	}
}

// Init clears all state, runs the builder, then primes the standard solver
// with the final particle set. A nil builder leaves the world empty.
func (s *Simulation) Init(build BuildFunc) error {
	s.particles = s.particles[:0]
	s.bodies = s.bodies[:0]
	s.globals = make(map[Group][]Constraint)
	s.gravity = s.params.Gravity
	s.xBounds = mgl64.Vec2{-1e6, 1e6}
	s.yBounds = mgl64.Vec2{-1e6, 1e6}

	if build != nil {
		if err := build(s); err != nil {
			return err
		}
	}

	s.standard.SetupM(s.particles)
	return nil
}

// Params returns the solver settings the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Particles exposes the particle store for scenes, tests, and rendering.
// Callers must not grow or shrink it.
func (s *Simulation) Particles() []*Particle { return s.particles }

// Bodies exposes the body store.
func (s *Simulation) Bodies() []*Body { return s.bodies }

// Globals returns the long-lived constraints registered under g.
func (s *Simulation) Globals(g Group) []Constraint { return s.globals[g] }

// NumParticles reports the particle count.
func (s *Simulation) NumParticles() int { return len(s.particles) }

// Gravity returns the active gravity field.
func (s *Simulation) Gravity() mgl64.Vec2 { return s.gravity }

// SetGravity overrides the gravity field, typically from a scene builder.
func (s *Simulation) SetGravity(g mgl64.Vec2) { s.gravity = g }

// XBounds returns the (min, max) world extent on x.
func (s *Simulation) XBounds() mgl64.Vec2 { return s.xBounds }

// YBounds returns the (min, max) world extent on y.
func (s *Simulation) YBounds() mgl64.Vec2 { return s.yBounds }

// SetBounds fixes the world box; particles are kept a radius inside it by
// ephemeral boundary constraints.
func (s *Simulation) SetBounds(x, y mgl64.Vec2) {
	s.xBounds = x
	s.yBounds = y
}

// AddParticle appends a free particle and returns its index.
func (s *Simulation) AddParticle(p *Particle) int {
	s.particles = append(s.particles, p)
	return len(s.particles) - 1
}

// AddConstraint registers a long-lived constraint under its own group.
func (s *Simulation) AddConstraint(c Constraint) {
	g := c.Group()
	s.globals[g] = append(s.globals[g], c)
}

// CreateRigidBody registers verts as one rigid body. sdf carries one
// signed distance sample per vert, consumed by rigid contacts when a
// particle sits interior to its body. The body's shape constraint is
// created and attached here.
func (s *Simulation) CreateRigidBody(verts []*Particle, sdf []SDFData) (*Body, error) {
	if len(verts) < 2 {
		return nil, ErrBodySize
	}
	if len(sdf) != len(verts) {
		return nil, ErrBodySDF
	}
	for _, p := range verts {
		if p.IMass == 0 {
			return nil, ErrBodyMass
		}
	}

	offset := len(s.particles)
	bodyIdx := len(s.bodies)
	b := &Body{SDF: make(map[int]SDFData, len(verts))}

	total := 0.0
	for k, p := range verts {
		p.Phase = Solid
		p.Body = bodyIdx
		total += 1.0 / p.IMass

		idx := offset + k
		b.Particles = append(b.Particles, idx)
		b.SDF[idx] = sdf[k]
		s.particles = append(s.particles, p)
	}

	b.IMass = 1.0 / total
	b.UpdateCOM(s.particles, false)
	b.ComputeRs(s.particles)
	b.Shape = NewTotalShapeConstraint(b)

	s.bodies = append(s.bodies, b)
	return b, nil
}

// CreateFluid tags verts as FLUID, appends them, and registers a joint
// density constraint over them.
func (s *Simulation) CreateFluid(verts []*Particle, density float64) (*TotalFluidConstraint, error) {
	indices, err := s.appendMedium(verts, Fluid)
	if err != nil {
		return nil, err
	}
	c := NewTotalFluidConstraint(density, indices)
	s.AddConstraint(c)
	return c, nil
}

// CreateGas tags verts as GAS, appends them, and registers the weaker gas
// density constraint over them.
func (s *Simulation) CreateGas(verts []*Particle, density float64) (*GasConstraint, error) {
	indices, err := s.appendMedium(verts, Gas)
	if err != nil {
		return nil, err
	}
	c := NewGasConstraint(density, indices)
	s.AddConstraint(c)
	return c, nil
}

func (s *Simulation) appendMedium(verts []*Particle, ph Phase) ([]int, error) {
	for _, p := range verts {
		if p.IMass == 0 {
			return nil, ErrFluidMass
		}
	}
	indices := make([]int, 0, len(verts))
	for _, p := range verts {
		p.Phase = ph
		indices = append(indices, len(s.particles))
		s.particles = append(s.particles, p)
	}
	return indices, nil
}

// Tick advances one step of length dt seconds. The ordering is fixed:
// predict, generate contacts, optional stabilization, solver iterations
// over shape then standard then contact, commit, discard ephemerals.
func (s *Simulation) Tick(dt float64) {
	cs := s.assemble()

	// Integrate external forces and predict. Gas particles feel scaled
	// gravity, which is what makes them rise through denser media.
	ParallelFor(len(s.particles), parallelMinChunk, func(start, end int) {
		for _, p := range s.particles[start:end] {
			if p.IMass == 0 {
				p.EP = p.P
				continue
			}
			g := s.gravity
			if p.Phase == Gas {
				g = g.Mul(s.params.Alpha)
			}
			p.V = p.V.Add(g.Mul(dt))
			p.Guess(dt)
			p.ScaleMass()
		}
	})

	s.contact.SetupM(s.particles)
	s.generateContacts(cs)

	if s.params.Stabilization {
		s.contact.SetupSizes(len(s.particles), cs[GroupStabilization])
		for i := 0; i < s.params.StabilizationIterations; i++ {
			if s.params.Iterative {
				for _, c := range cs[GroupStabilization] {
					c.Project(s.particles)
				}
			} else {
				if len(cs[GroupStabilization]) == 0 {
					break
				}
				s.contact.SolveAndUpdate(s.particles, cs[GroupStabilization], true)
			}
		}
	}

	if s.params.Iterative {
		for i := 0; i < s.params.SolverIterations; i++ {
			for g := GroupShape; g <= GroupContact; g++ {
				for _, c := range cs[g] {
					c.Project(s.particles)
				}
			}
		}
	} else {
		s.standard.SetupSizes(len(s.particles), cs[GroupStandard])
		s.contact.SetupSizes(len(s.particles), cs[GroupContact])
		for i := 0; i < s.params.SolverIterations; i++ {
			if len(cs[GroupContact]) > 0 {
				s.contact.SolveAndUpdate(s.particles, cs[GroupContact], false)
			}
			if len(cs[GroupStandard]) > 0 {
				s.standard.SolveAndUpdate(s.particles, cs[GroupStandard], false)
			}
			for _, c := range cs[GroupShape] {
				c.Project(s.particles)
			}
		}
	}

	inv := 1.0 / dt
	for _, p := range s.particles {
		if p.IMass == 0 {
			continue
		}
		p.V = p.EP.Sub(p.P).Mul(inv)
		p.ConfirmGuess()
	}
	// Contacts and stabilization twins die with cs.
}

// assemble builds the working group map for one tick: body shapes first,
// then every registered global constraint under its declared group.
func (s *Simulation) assemble() map[Group][]Constraint {
	cs := make(map[Group][]Constraint, int(numGroups))
	for _, b := range s.bodies {
		cs[GroupShape] = append(cs[GroupShape], b.Shape)
	}
	for g, list := range s.globals {
		cs[g] = append(cs[g], list...)
	}
	return cs
}

// generateContacts scans all pairs and world planes and appends ephemeral
// contact constraints. The scan is O(N²) and deliberately serial: contact
// order feeds Gauss-Seidel projection, which is order sensitive.
func (s *Simulation) generateContacts(cs map[Group][]Constraint) {
	for i, pi := range s.particles {
		for j := i + 1; j < len(s.particles); j++ {
			pj := s.particles[j]

			if pi.IMass == 0 && pj.IMass == 0 {
				continue
			}
			solidPair := pi.Phase == Solid && pj.Phase == Solid
			if solidPair && pi.Body == pj.Body && pi.Body != -1 {
				continue
			}

			dist := pi.EP.Sub(pj.EP).Len()
			if dist >= ParticleDiam-Epsilon {
				continue
			}

			switch {
			case solidPair:
				cs[GroupContact] = append(cs[GroupContact],
					NewRigidContactConstraint(i, j, s.bodies, false))
				cs[GroupStabilization] = append(cs[GroupStabilization],
					NewRigidContactConstraint(i, j, s.bodies, true))
			case pi.Phase == Solid || pj.Phase == Solid:
				cs[GroupContact] = append(cs[GroupContact], NewContactConstraint(i, j))
			}
		}

		ep := pi.EP
		if ep.X() < s.xBounds.X()+ParticleRad {
			s.appendBoundary(cs, i, s.xBounds.X(), true, true)
		} else if ep.X() > s.xBounds.Y()-ParticleRad {
			s.appendBoundary(cs, i, s.xBounds.Y(), true, false)
		}
		if ep.Y() < s.yBounds.X()+ParticleRad {
			s.appendBoundary(cs, i, s.yBounds.X(), false, true)
		} else if ep.Y() > s.yBounds.Y()-ParticleRad {
			s.appendBoundary(cs, i, s.yBounds.Y(), false, false)
		}
	}
}

func (s *Simulation) appendBoundary(cs map[Group][]Constraint, i int, plane float64, axisX, min bool) {
	cs[GroupContact] = append(cs[GroupContact],
		NewBoundaryConstraint(i, plane, axisX, min, false))
	cs[GroupStabilization] = append(cs[GroupStabilization],
		NewBoundaryConstraint(i, plane, axisX, min, true))
}

// KineticEnergy sums ½·m·|v|² over finite-mass particles.
func (s *Simulation) KineticEnergy() float64 {
	energy := 0.0
	for _, p := range s.particles {
		if p.IMass != 0 {
			energy += 0.5 * p.V.Dot(p.V) / p.IMass
		}
	}
	return energy
}

// MousePressed kicks every particle radially away from point with speed 7.
// Demo interaction, not physics.
func (s *Simulation) MousePressed(point mgl64.Vec2) {
	for _, p := range s.particles {
		dir := p.P.Sub(point)
		if l := dir.Len(); l > 1e-9 {
			p.V = p.V.Add(dir.Mul(7 / l))
		}
	}
}

// Resize records the host viewport in pixels. Informational; world bounds
// are scene state and do not change here.
func (s *Simulation) Resize(w, h int) {
	s.width, s.height = w, h
}

// Viewport returns the last size passed to Resize, zero if never set.
func (s *Simulation) Viewport() (int, int) { return s.width, s.height }
