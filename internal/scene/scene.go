// Package scene holds the demo worlds: each builder populates a fresh
// simulation with one canned setup, from a single sliding brick to a tank
// of gas bubbling through fluid. Builders are looked up by tag and seeded
// so jittered layouts reproduce exactly.
package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// ErrUnknownScene indicates a tag with no registered builder.
var ErrUnknownScene = errors.New("scene: unknown scene tag")

type builder func(s *pbd.Simulation, rng *rand.Rand) error

var registry = map[string]builder{
	"FRICTION":    friction,
	"GRANULAR":    granular,
	"STACKS":      stacks,
	"WALL":        wall,
	"PENDULUM":    pendulum,
	"FLUID":       fluid,
	"FLUID_SOLID": fluidSolid,
	"GAS":         gas,
}

// Tags lists every registered scene in stable order.
func Tags() []string {
	tags := make([]string, 0, len(registry))
	for t := range registry {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// ByTag resolves a tag (case-insensitive) into a seeded build function for
// [pbd.Simulation.Init].
func ByTag(tag string, seed int64) (pbd.BuildFunc, error) {
	b, ok := registry[strings.ToUpper(tag)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, tag)
	}
	return func(s *pbd.Simulation) error {
		return b(s, rand.New(rand.NewSource(seed)))
	}, nil
}

func norm(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}.Normalize()
}

// boxSDF builds the signed distance samples for a w-wide, 2-high brick
// laid out column-major: diagonal corner samples at the ends, face samples
// between them.
func boxSDF(w int) []pbd.SDFData {
	corner := pbd.ParticleRad * math.Sqrt2
	data := make([]pbd.SDFData, 0, 2*w)
	data = append(data,
		pbd.SDFData{Normal: norm(-1, -1), Distance: corner},
		pbd.SDFData{Normal: norm(-1, 1), Distance: corner},
	)
	for i := 0; i < w-2; i++ {
		data = append(data,
			pbd.SDFData{Normal: mgl64.Vec2{0, -1}, Distance: pbd.ParticleRad},
			pbd.SDFData{Normal: mgl64.Vec2{0, 1}, Distance: pbd.ParticleRad},
		)
	}
	data = append(data,
		pbd.SDFData{Normal: norm(1, -1), Distance: corner},
		pbd.SDFData{Normal: norm(1, 1), Distance: corner},
	)
	return data
}

func jitter(rng *rand.Rand, amp float64) mgl64.Vec2 {
	return mgl64.Vec2{amp * (rng.Float64() - .5), amp * (rng.Float64() - .5)}
}
