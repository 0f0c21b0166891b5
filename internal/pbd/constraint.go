package pbd

import "github.com/go-gl/mathgl/mgl64"

// Group fixes solve order inside a tick. The main iterations sweep Shape,
// then Standard, then Contact; Stabilization runs only in the optional
// pre-solver pass.
type Group int

const (
	GroupShape Group = iota
	GroupStandard
	GroupContact
	GroupStabilization
	numGroups
)

func (g Group) String() string {
	switch g {
	case GroupShape:
		return "shape"
	case GroupStandard:
		return "standard"
	case GroupContact:
		return "contact"
	case GroupStabilization:
		return "stabilization"
	}
	return "unknown"
}

// Constraint relaxes predicted particle positions toward a satisfied
// configuration. Project must tolerate already-satisfied and degenerate
// input by doing nothing.
type Constraint interface {
	Project(ps []*Particle)
	Group() Group
}

// Row is one linearized constraint equation, C + J·Δep = 0, restricted to
// the listed particles. Grads holds the Jacobian entries parallel to
// Indices.
type Row struct {
	Indices []int
	Grads   []mgl64.Vec2
	C       float64
	// Relax is added to the row diagonal, softening the equation the way
	// the iterative density constraints do.
	Relax float64
	// Friction, when set, runs after the batch solve with the resolved
	// normal magnitude for this row.
	Friction func(ps []*Particle, depth float64)
}

// Linearizer is implemented by constraints that can emit matrix rows for
// the batch solver. Anything else falls back to Project.
type Linearizer interface {
	Constraint
	Linearize(ps []*Particle, rows []Row) []Row
}
