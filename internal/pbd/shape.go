package pbd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TotalShapeConstraint is 2D shape matching: per projection it finds the
// rotation and translation that best map the body's rest layout onto the
// predicted positions, then moves every member toward its transformed rest
// spot. Stiffness 1 makes the body fully rigid.
type TotalShapeConstraint struct {
	Stiffness float64
	body      *Body
}

func NewTotalShapeConstraint(b *Body) *TotalShapeConstraint {
	return &TotalShapeConstraint{Stiffness: 1.0, body: b}
}

func (c *TotalShapeConstraint) Group() Group { return GroupShape }

func (c *TotalShapeConstraint) Body() *Body { return c.body }

func (c *TotalShapeConstraint) Project(ps []*Particle) {
	b := c.body
	b.UpdateCOM(ps, true)

	// Best-fit rotation via the 2D reduction of Horn's method: accumulate
	// the covariance between predicted offsets and rest offsets, read the
	// angle off its skew and trace parts.
	var a00, a01, a10, a11 float64
	for k, i := range b.Particles {
		p := ps[i]
		m := 1.0 / p.IMass
		cur := p.EP.Sub(b.COM)
		rs := b.Rs[k]
		a00 += m * cur.X() * rs.X()
		a01 += m * cur.X() * rs.Y()
		a10 += m * cur.Y() * rs.X()
		a11 += m * cur.Y() * rs.Y()
	}
	b.Angle = math.Atan2(a10-a01, a00+a11)
	rot := mgl64.Rotate2D(b.Angle)

	for k, i := range b.Particles {
		p := ps[i]
		if p.TMass == 0 {
			continue
		}
		goal := b.COM.Add(rot.Mul2x1(b.Rs[k]))
		p.EP = p.EP.Add(goal.Sub(p.EP).Mul(c.Stiffness))
	}
}
