package pbd

import "github.com/go-gl/mathgl/mgl64"

// Phase tags what medium a particle belongs to. It decides which contact
// constraint a colliding pair generates.
type Phase int

const (
	Solid Phase = iota
	Fluid
	Gas
)

func (ph Phase) String() string {
	switch ph {
	case Solid:
		return "solid"
	case Fluid:
		return "fluid"
	case Gas:
		return "gas"
	}
	return "unknown"
}

// Particle is the only simulated primitive. P is the committed position,
// EP the prediction the solver relaxes, V the velocity derived from their
// difference at commit time.
type Particle struct {
	P  mgl64.Vec2
	EP mgl64.Vec2
	V  mgl64.Vec2

	// IMass is the inverse mass; zero marks an immovable particle.
	IMass float64
	// TMass is the working inverse mass projections read. ScaleMass
	// refreshes it from IMass every step; constraints that need
	// temporary mass scaling may adjust it afterwards.
	TMass float64

	Phase Phase
	// Body is the owning rigid body index, -1 for free particles.
	Body int

	SFriction float64
	KFriction float64
}

// NewParticle places a particle at pos with the given mass and phase.
// A mass of zero (or less) makes the particle immovable.
func NewParticle(pos mgl64.Vec2, mass float64, phase Phase) *Particle {
	imass := 0.0
	if mass > 0 {
		imass = 1.0 / mass
	}
	return &Particle{
		P:     pos,
		EP:    pos,
		IMass: imass,
		TMass: imass,
		Phase: phase,
		Body:  -1,
	}
}

// Guess predicts the end-of-step position from the current velocity.
// Immovable particles stay put.
func (p *Particle) Guess(dt float64) {
	if p.IMass == 0 {
		p.EP = p.P
		return
	}
	p.EP = p.P.Add(p.V.Mul(dt))
}

// ScaleMass refreshes the working inverse mass for the coming projections.
// None of the built-in constraints scale it further.
func (p *Particle) ScaleMass() {
	p.TMass = p.IMass
}

// ConfirmGuess commits the solved prediction.
func (p *Particle) ConfirmGuess() {
	p.P = p.EP
}
