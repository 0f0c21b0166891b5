package pbd

import "github.com/go-gl/mathgl/mgl64"

// Particle geometry is global: every particle is a disc of the same radius.
const (
	ParticleRad  = 0.5
	ParticleDiam = 2 * ParticleRad

	// Epsilon pads overlap tests so grazing pairs do not flicker in and
	// out of contact between steps.
	Epsilon = 0.01
)

// Relaxation added to the density constraint denominator. Gas uses a much
// larger value, which weakens cohesion and lets the medium expand.
const (
	FluidRelaxation = 600.0
	GasRelaxation   = 3000.0
)

// Params are construction-time solver settings. They do not change over a
// simulation's lifetime.
type Params struct {
	// SolverIterations is the number of main projection sweeps per tick.
	SolverIterations int
	// StabilizationIterations is the number of pre-solver contact sweeps
	// used to remove penetration left over from the previous tick.
	StabilizationIterations int
	// Stabilization gates the pre-solver pass entirely.
	Stabilization bool
	// Iterative selects per-constraint projection; when false the
	// standard and contact groups are batch-solved (see Solver).
	Iterative bool
	// Alpha scales gravity for GAS particles to fake buoyancy. Must be
	// in (0, 1].
	Alpha float64
	// Gravity is the default field applied to every finite-mass
	// particle; scenes may override it per simulation.
	Gravity mgl64.Vec2
}

// DefaultParams mirrors the tunables the demos were built around.
func DefaultParams() Params {
	return Params{
		SolverIterations:        5,
		StabilizationIterations: 2,
		Stabilization:           true,
		Iterative:               true,
		Alpha:                   0.5,
		Gravity:                 mgl64.Vec2{0, -9.8},
	}
}
