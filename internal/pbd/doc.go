// Package pbd implements a unified position based dynamics core in 2D.
//
// Rigid bodies, granular piles, liquids, and gases are all the same thing
// here: constrained particles advanced by one projection loop. The package
// defines the building blocks and the step driver:
//
//   - [Particle]: position, predicted position, velocity, inverse mass
//   - [Body]: particle group held together by a [TotalShapeConstraint]
//   - [Constraint]: positional projection, ordered by [Group]
//   - [Solver]: optional Gauss-Seidel batch solver for linearizable groups
//   - [Simulation]: owns the stores and advances them with Tick
//
// # Example
//
//	sim := pbd.New(pbd.DefaultParams())
//	build, _ := scene.ByTag("GRANULAR", 42)
//	sim.Init(build)
//	for i := 0; i < 600; i++ {
//		sim.Tick(1.0 / 60.0)
//	}
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. All mutation happens inside
// Tick and the construction helpers; drive a Simulation from one goroutine
// and read it only between ticks.
package pbd
