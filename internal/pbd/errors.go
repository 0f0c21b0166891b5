package pbd

import "errors"

// Construction errors. Tick itself never returns an error; numerical
// degeneracies inside projections resolve locally as no-ops.
var (
	// ErrBodySize indicates a rigid body with fewer than two particles.
	ErrBodySize = errors.New("pbd: rigid body needs at least two particles")

	// ErrBodyMass indicates an immovable particle inside a rigid body.
	ErrBodyMass = errors.New("pbd: rigid body cannot contain an infinite-mass particle")

	// ErrBodySDF indicates a missing or extra signed distance sample.
	ErrBodySDF = errors.New("pbd: rigid body needs one sdf sample per particle")

	// ErrFluidMass indicates an immovable particle inside a fluid or gas.
	ErrFluidMass = errors.New("pbd: fluid cannot contain an infinite-mass particle")
)
