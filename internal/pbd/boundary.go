package pbd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundaryConstraint keeps one particle at least a radius inside an
// axis-aligned world plane. Stabilization copies measure and repair the
// committed position as well as the prediction.
type BoundaryConstraint struct {
	Index int
	Plane float64
	// AxisX constrains x when set, else y.
	AxisX bool
	// Min marks the plane as a lower bound.
	Min bool
	// Stabilize routes the constraint into the pre-solver pass.
	Stabilize bool
}

func NewBoundaryConstraint(i int, plane float64, axisX, min, stabilize bool) *BoundaryConstraint {
	return &BoundaryConstraint{Index: i, Plane: plane, AxisX: axisX, Min: min, Stabilize: stabilize}
}

func (c *BoundaryConstraint) Group() Group {
	if c.Stabilize {
		return GroupStabilization
	}
	return GroupContact
}

// depth returns how far pos sits on the wrong side of the padded plane.
// Non-positive means satisfied.
func (c *BoundaryConstraint) depth(pos mgl64.Vec2) float64 {
	v := pos.Y()
	if c.AxisX {
		v = pos.X()
	}
	if c.Min {
		return c.Plane + ParticleRad - v
	}
	return v - (c.Plane - ParticleRad)
}

// correction is the displacement that moves a violating particle back
// onto the padded plane.
func (c *BoundaryConstraint) correction(depth float64) mgl64.Vec2 {
	if !c.Min {
		depth = -depth
	}
	if c.AxisX {
		return mgl64.Vec2{depth, 0}
	}
	return mgl64.Vec2{0, depth}
}

func (c *BoundaryConstraint) Project(ps []*Particle) {
	p := ps[c.Index]
	if p.TMass == 0 {
		return
	}
	pos := p.EP
	if c.Stabilize {
		pos = p.P
	}
	d := c.depth(pos)
	if d <= 0 {
		return
	}
	corr := c.correction(d)
	p.EP = p.EP.Add(corr)
	if c.Stabilize {
		p.P = p.P.Add(corr)
		return
	}
	c.friction(p, d)
}

// friction caps the tangential slide accumulated this step against the
// resolved normal depth, giving Coulomb behavior in position space.
func (c *BoundaryConstraint) friction(p *Particle, depth float64) {
	disp := p.EP.Sub(p.P)
	var tangent mgl64.Vec2
	if c.AxisX {
		tangent = mgl64.Vec2{0, disp.Y()}
	} else {
		tangent = mgl64.Vec2{disp.X(), 0}
	}
	lt := tangent.Len()
	if lt < 1e-9 {
		return
	}
	if lt < p.SFriction*depth {
		p.EP = p.EP.Sub(tangent)
		return
	}
	p.EP = p.EP.Sub(tangent.Mul(math.Min(p.KFriction*depth/lt, 1)))
}

func (c *BoundaryConstraint) Linearize(ps []*Particle, rows []Row) []Row {
	p := ps[c.Index]
	pos := p.EP
	if c.Stabilize {
		pos = p.P
	}
	grad := mgl64.Vec2{0, 1}
	if c.AxisX {
		grad = mgl64.Vec2{1, 0}
	}
	if !c.Min {
		grad = grad.Mul(-1)
	}
	row := Row{
		Indices: []int{c.Index},
		Grads:   []mgl64.Vec2{grad},
		C:       -c.depth(pos),
	}
	if !c.Stabilize {
		row.Friction = func(ps []*Particle, depth float64) {
			c.friction(ps[c.Index], depth)
		}
	}
	return append(rows, row)
}
