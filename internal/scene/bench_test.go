package scene

import (
	"testing"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

func benchTick(b *testing.B, tag string, params pbd.Params) {
	build, err := ByTag(tag, 1)
	if err != nil {
		b.Fatal(err)
	}
	sim := pbd.New(params)
	if err := sim.Init(build); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Tick(1.0 / 60)
	}
}

func BenchmarkFriction(b *testing.B)   { benchTick(b, "FRICTION", pbd.DefaultParams()) }
func BenchmarkGranular(b *testing.B)   { benchTick(b, "GRANULAR", pbd.DefaultParams()) }
func BenchmarkStacks(b *testing.B)     { benchTick(b, "STACKS", pbd.DefaultParams()) }
func BenchmarkWall(b *testing.B)       { benchTick(b, "WALL", pbd.DefaultParams()) }
func BenchmarkPendulum(b *testing.B)   { benchTick(b, "PENDULUM", pbd.DefaultParams()) }
func BenchmarkFluid(b *testing.B)      { benchTick(b, "FLUID", pbd.DefaultParams()) }
func BenchmarkFluidSolid(b *testing.B) { benchTick(b, "FLUID_SOLID", pbd.DefaultParams()) }
func BenchmarkGas(b *testing.B)        { benchTick(b, "GAS", pbd.DefaultParams()) }

func matrixParams() pbd.Params {
	p := pbd.DefaultParams()
	p.Iterative = false
	return p
}

func BenchmarkFrictionMatrix(b *testing.B) { benchTick(b, "FRICTION", matrixParams()) }
func BenchmarkPendulumMatrix(b *testing.B) { benchTick(b, "PENDULUM", matrixParams()) }
