package pbd

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// testSquare builds a unit-square rigid body directly, bypassing the
// simulation store.
func testSquare() ([]*Particle, *Body) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{-1, -1}, 1, Solid),
		NewParticle(mgl64.Vec2{1, -1}, 1, Solid),
		NewParticle(mgl64.Vec2{1, 1}, 1, Solid),
		NewParticle(mgl64.Vec2{-1, 1}, 1, Solid),
	}
	b := &Body{Particles: []int{0, 1, 2, 3}, SDF: map[int]SDFData{}}
	for _, p := range ps {
		p.Body = 0
	}
	b.UpdateCOM(ps, false)
	b.ComputeRs(ps)
	b.Shape = NewTotalShapeConstraint(b)
	return ps, b
}

func pairDistances(ps []*Particle) []float64 {
	var out []float64
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			out = append(out, ps[i].EP.Sub(ps[j].EP).Len())
		}
	}
	return out
}

func TestShapeConstraintRestoresRigidity(t *testing.T) {
	ps, b := testSquare()
	want := pairDistances(ps)

	// Smear one corner and let the constraint pull the body back to a
	// rigid transform of its rest shape.
	ps[2].EP = ps[2].EP.Add(mgl64.Vec2{0.3, -0.2})
	b.Shape.Project(ps)

	got := pairDistances(ps)
	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-9 {
			t.Errorf("expected pair distance %f preserved, got %f", want[k], got[k])
		}
	}
}

func TestShapeConstraintExactUnderTranslation(t *testing.T) {
	ps, b := testSquare()

	shift := mgl64.Vec2{5, -3}
	for _, p := range ps {
		p.EP = p.EP.Add(shift)
	}
	before := make([]mgl64.Vec2, len(ps))
	for i, p := range ps {
		before[i] = p.EP
	}

	b.Shape.Project(ps)

	for i, p := range ps {
		if !vecNear(p.EP, before[i], 1e-12) {
			t.Errorf("expected translated member %d untouched at %v, got %v", i, before[i], p.EP)
		}
	}
	if math.Abs(b.Angle) > 1e-12 {
		t.Errorf("expected zero rotation under pure translation, got %f", b.Angle)
	}
}

func TestShapeConstraintRecoversRotation(t *testing.T) {
	ps, b := testSquare()

	theta := math.Pi / 6
	rot := mgl64.Rotate2D(theta)
	for _, p := range ps {
		p.EP = rot.Mul2x1(p.EP)
	}
	before := make([]mgl64.Vec2, len(ps))
	for i, p := range ps {
		before[i] = p.EP
	}

	b.Shape.Project(ps)

	if math.Abs(b.Angle-theta) > 1e-9 {
		t.Errorf("expected recovered angle %f, got %f", theta, b.Angle)
	}
	for i, p := range ps {
		if !vecNear(p.EP, before[i], 1e-9) {
			t.Errorf("expected rotated member %d untouched at %v, got %v", i, before[i], p.EP)
		}
	}
}

func TestShapeConstraintGroup(t *testing.T) {
	_, b := testSquare()
	if b.Shape.Group() != GroupShape {
		t.Errorf("expected group %v, got %v", GroupShape, b.Shape.Group())
	}
	if b.Shape.Body() != b {
		t.Error("expected constraint to report its owning body")
	}
}

func TestBodyUpdateCOM(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 2, Solid),
		NewParticle(mgl64.Vec2{3, 0}, 1, Solid),
	}
	b := &Body{Particles: []int{0, 1}}

	b.UpdateCOM(ps, false)
	if !vecNear(b.COM, mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("expected committed COM (1,0), got %v", b.COM)
	}

	ps[0].EP = mgl64.Vec2{0, 3}
	ps[1].EP = mgl64.Vec2{3, 3}
	b.UpdateCOM(ps, true)
	if !vecNear(b.COM, mgl64.Vec2{1, 3}, 1e-12) {
		t.Errorf("expected predicted COM (1,3), got %v", b.COM)
	}
}

func TestBodyComputeRs(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{-1, 0}, 1, Solid),
		NewParticle(mgl64.Vec2{1, 0}, 1, Solid),
	}
	b := &Body{Particles: []int{0, 1}}
	b.UpdateCOM(ps, false)
	b.ComputeRs(ps)

	if len(b.Rs) != 2 {
		t.Fatalf("expected 2 rest offsets, got %d", len(b.Rs))
	}
	if !vecNear(b.Rs[0], mgl64.Vec2{-1, 0}, 1e-12) || !vecNear(b.Rs[1], mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("expected rest offsets (-1,0) and (1,0), got %v and %v", b.Rs[0], b.Rs[1])
	}
}
