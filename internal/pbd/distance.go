package pbd

import "github.com/go-gl/mathgl/mgl64"

// DistanceConstraint keeps two particles at the separation they had when
// the constraint was created. Bilateral: it pulls as well as pushes.
type DistanceConstraint struct {
	I, J int
	Rest float64
}

// NewDistanceConstraint links particles i and j at their current distance.
func NewDistanceConstraint(i, j int, ps []*Particle) *DistanceConstraint {
	return &DistanceConstraint{I: i, J: j, Rest: ps[i].P.Sub(ps[j].P).Len()}
}

func (c *DistanceConstraint) Group() Group { return GroupStandard }

func (c *DistanceConstraint) Project(ps []*Particle) {
	pi, pj := ps[c.I], ps[c.J]
	d := pi.EP.Sub(pj.EP)
	dist := d.Len()
	wsum := pi.TMass + pj.TMass
	if dist < 1e-9 || wsum == 0 {
		return
	}
	corr := d.Mul((dist - c.Rest) / (dist * wsum))
	pi.EP = pi.EP.Sub(corr.Mul(pi.TMass))
	pj.EP = pj.EP.Add(corr.Mul(pj.TMass))
}

func (c *DistanceConstraint) Linearize(ps []*Particle, rows []Row) []Row {
	d := ps[c.I].EP.Sub(ps[c.J].EP)
	dist := d.Len()
	if dist < 1e-9 {
		return rows
	}
	n := d.Mul(1 / dist)
	return append(rows, Row{
		Indices: []int{c.I, c.J},
		Grads:   []mgl64.Vec2{n, n.Mul(-1)},
		C:       dist - c.Rest,
	})
}
