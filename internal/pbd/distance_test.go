package pbd

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDistanceConstraintCapturesRest(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 1, Solid),
		NewParticle(mgl64.Vec2{3, 4}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)
	if c.Rest != 5 {
		t.Errorf("expected rest length 5, got %f", c.Rest)
	}
}

func TestDistanceConstraintRestoresStretch(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 1, Solid),
		NewParticle(mgl64.Vec2{2, 0}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	ps[1].EP = mgl64.Vec2{3, 0}
	c.Project(ps)

	if !vecNear(ps[0].EP, mgl64.Vec2{0.5, 0}, 1e-12) {
		t.Errorf("expected first particle at (0.5,0), got %v", ps[0].EP)
	}
	if !vecNear(ps[1].EP, mgl64.Vec2{2.5, 0}, 1e-12) {
		t.Errorf("expected second particle at (2.5,0), got %v", ps[1].EP)
	}
}

func TestDistanceConstraintPushesCompression(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 1, Solid),
		NewParticle(mgl64.Vec2{2, 0}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	ps[1].EP = mgl64.Vec2{1, 0}
	c.Project(ps)

	if !vecNear(ps[0].EP, mgl64.Vec2{-0.5, 0}, 1e-12) {
		t.Errorf("expected first particle pushed to (-0.5,0), got %v", ps[0].EP)
	}
	if !vecNear(ps[1].EP, mgl64.Vec2{1.5, 0}, 1e-12) {
		t.Errorf("expected second particle pushed to (1.5,0), got %v", ps[1].EP)
	}
}

func TestDistanceConstraintMassWeighting(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 1, Solid),
		NewParticle(mgl64.Vec2{2, 0}, 3, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	ps[1].EP = mgl64.Vec2{3, 0}
	c.Project(ps)

	// The heavier particle moves a third as far as the light one.
	if !vecNear(ps[0].EP, mgl64.Vec2{0.75, 0}, 1e-12) {
		t.Errorf("expected light particle at (0.75,0), got %v", ps[0].EP)
	}
	if !vecNear(ps[1].EP, mgl64.Vec2{2.75, 0}, 1e-12) {
		t.Errorf("expected heavy particle at (2.75,0), got %v", ps[1].EP)
	}
}

func TestDistanceConstraintAnchorStaysPut(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{0, 0}, 0, Solid),
		NewParticle(mgl64.Vec2{2, 0}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	ps[1].EP = mgl64.Vec2{3, 0}
	c.Project(ps)

	if ps[0].EP != (mgl64.Vec2{0, 0}) {
		t.Errorf("expected anchor unmoved, got %v", ps[0].EP)
	}
	if !vecNear(ps[1].EP, mgl64.Vec2{2, 0}, 1e-12) {
		t.Errorf("expected free particle carrying the full correction, got %v", ps[1].EP)
	}
}

func TestDistanceConstraintIdempotentAtRest(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{1, 1}, 1, Solid),
		NewParticle(mgl64.Vec2{3, 1}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	c.Project(ps)
	if ps[0].EP != (mgl64.Vec2{1, 1}) || ps[1].EP != (mgl64.Vec2{3, 1}) {
		t.Errorf("expected satisfied constraint to leave predictions alone, got %v and %v",
			ps[0].EP, ps[1].EP)
	}
}

func TestDistanceConstraintDegeneratePair(t *testing.T) {
	ps := []*Particle{
		NewParticle(mgl64.Vec2{1, 1}, 1, Solid),
		NewParticle(mgl64.Vec2{3, 1}, 1, Solid),
	}
	c := NewDistanceConstraint(0, 1, ps)

	// Coincident predictions have no defined direction; the projection
	// must leave them alone rather than emit NaNs.
	ps[0].EP = mgl64.Vec2{2, 2}
	ps[1].EP = mgl64.Vec2{2, 2}
	c.Project(ps)

	if ps[0].EP != (mgl64.Vec2{2, 2}) || ps[1].EP != (mgl64.Vec2{2, 2}) {
		t.Errorf("expected degenerate pair untouched, got %v and %v", ps[0].EP, ps[1].EP)
	}
}
