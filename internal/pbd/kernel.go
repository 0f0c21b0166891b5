package pbd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Smoothing kernels after Müller et al., the pairing position based fluids
// uses: poly6 for density estimates, spiky gradient for position deltas.
const (
	kernelH  = 2.0
	kernelH2 = kernelH * kernelH
)

func poly6(r2 float64) float64 {
	if r2 > kernelH2 {
		return 0
	}
	return 315.0 / (64.0 * math.Pi * math.Pow(kernelH2, 4.5)) * math.Pow(kernelH2-r2, 3)
}

// spikyGrad is the kernel gradient at separation d. It returns zero for
// coincident points; callers treat such pairs as no-ops.
func spikyGrad(d mgl64.Vec2) mgl64.Vec2 {
	r := d.Len()
	if r > kernelH || r < 1e-6 {
		return mgl64.Vec2{}
	}
	s := -45.0 / (math.Pi * math.Pow(kernelH, 6)) * (kernelH - r) * (kernelH - r)
	return d.Mul(s / r)
}
