package pbd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ContactConstraint separates one overlapping pair without friction. It is
// generated whenever a SOLID particle meets a FLUID or GAS one.
type ContactConstraint struct {
	I, J int
}

func NewContactConstraint(i, j int) *ContactConstraint {
	return &ContactConstraint{I: i, J: j}
}

func (c *ContactConstraint) Group() Group { return GroupContact }

func (c *ContactConstraint) Project(ps []*Particle) {
	pi, pj := ps[c.I], ps[c.J]
	d := pj.EP.Sub(pi.EP)
	dist := d.Len()
	if dist >= ParticleDiam || dist < 1e-9 {
		return
	}
	wsum := pi.TMass + pj.TMass
	if wsum == 0 {
		return
	}
	corr := d.Mul((ParticleDiam - dist) / dist)
	pi.EP = pi.EP.Sub(corr.Mul(pi.TMass / wsum))
	pj.EP = pj.EP.Add(corr.Mul(pj.TMass / wsum))
}

func (c *ContactConstraint) Linearize(ps []*Particle, rows []Row) []Row {
	d := ps[c.J].EP.Sub(ps[c.I].EP)
	dist := d.Len()
	if dist < 1e-9 {
		return rows
	}
	n := d.Mul(1 / dist)
	return append(rows, Row{
		Indices: []int{c.I, c.J},
		Grads:   []mgl64.Vec2{n.Mul(-1), n},
		C:       dist - ParticleDiam,
	})
}

// RigidContactConstraint separates two SOLID particles with friction and an
// SDF-aware normal: a particle buried inside its body would otherwise push
// along a meaningless center difference, so the shallower particle's
// surface normal is used instead, rotated into world frame by its body's
// current orientation.
type RigidContactConstraint struct {
	I, J int
	// Stabilize routes the constraint into the pre-solver pass, where it
	// repairs committed positions too.
	Stabilize bool
	bodies    []*Body
}

func NewRigidContactConstraint(i, j int, bodies []*Body, stabilize bool) *RigidContactConstraint {
	return &RigidContactConstraint{I: i, J: j, Stabilize: stabilize, bodies: bodies}
}

func (c *RigidContactConstraint) Group() Group {
	if c.Stabilize {
		return GroupStabilization
	}
	return GroupContact
}

// sdfAt returns the world-frame surface normal and depth recorded for the
// particle, when it belongs to a body that has one.
func (c *RigidContactConstraint) sdfAt(ps []*Particle, idx int) (mgl64.Vec2, float64, bool) {
	b := ps[idx].Body
	if b < 0 || b >= len(c.bodies) {
		return mgl64.Vec2{}, 0, false
	}
	data, ok := c.bodies[b].SDF[idx]
	if !ok {
		return mgl64.Vec2{}, 0, false
	}
	world := mgl64.Rotate2D(c.bodies[b].Angle).Mul2x1(data.Normal)
	return world, data.Distance, ok
}

// normal picks the contact direction from i toward j. Pair separation is
// the default; when either particle sits deeper than a radius below its
// body surface, the shallower particle's SDF normal takes over.
func (c *RigidContactConstraint) normal(ps []*Particle, d mgl64.Vec2, dist float64) mgl64.Vec2 {
	ni, di, oki := c.sdfAt(ps, c.I)
	nj, dj, okj := c.sdfAt(ps, c.J)

	interior := (oki && di > ParticleRad) || (okj && dj > ParticleRad)
	if interior {
		n := ni
		if !oki || (okj && dj < di) {
			n = nj
		}
		// Keep the normal pointing from i toward j.
		if n.Dot(d) < 0 {
			n = n.Mul(-1)
		}
		return n
	}
	return d.Mul(1 / dist)
}

func (c *RigidContactConstraint) Project(ps []*Particle) {
	pi, pj := ps[c.I], ps[c.J]
	posI, posJ := pi.EP, pj.EP
	if c.Stabilize {
		posI, posJ = pi.P, pj.P
	}
	d := posJ.Sub(posI)
	dist := d.Len()
	if dist >= ParticleDiam || dist < 1e-9 {
		return
	}
	wsum := pi.TMass + pj.TMass
	if wsum == 0 {
		return
	}

	n := c.normal(ps, d, dist)
	depth := ParticleDiam - dist
	corrI := n.Mul(-depth * pi.TMass / wsum)
	corrJ := n.Mul(depth * pj.TMass / wsum)

	pi.EP = pi.EP.Add(corrI)
	pj.EP = pj.EP.Add(corrJ)
	if c.Stabilize {
		pi.P = pi.P.Add(corrI)
		pj.P = pj.P.Add(corrJ)
		return
	}
	c.friction(pi, pj, n, depth)
}

// friction caps the pair's relative tangential displacement this step:
// below the static threshold it is removed outright, above it the kinetic
// coefficient shrinks it. Coefficients mix by taking the maximum.
func (c *RigidContactConstraint) friction(pi, pj *Particle, n mgl64.Vec2, depth float64) {
	rel := pi.EP.Sub(pi.P).Sub(pj.EP.Sub(pj.P))
	tangent := rel.Sub(n.Mul(rel.Dot(n)))
	lt := tangent.Len()
	if lt < 1e-9 {
		return
	}

	wsum := pi.TMass + pj.TMass
	sf := math.Max(pi.SFriction, pj.SFriction)
	kf := math.Max(pi.KFriction, pj.KFriction)

	corr := tangent
	if lt >= sf*depth {
		corr = tangent.Mul(math.Min(kf*depth/lt, 1))
	}
	pi.EP = pi.EP.Sub(corr.Mul(pi.TMass / wsum))
	pj.EP = pj.EP.Add(corr.Mul(pj.TMass / wsum))
}

func (c *RigidContactConstraint) Linearize(ps []*Particle, rows []Row) []Row {
	pi, pj := ps[c.I], ps[c.J]
	posI, posJ := pi.EP, pj.EP
	if c.Stabilize {
		posI, posJ = pi.P, pj.P
	}
	d := posJ.Sub(posI)
	dist := d.Len()
	if dist < 1e-9 {
		return rows
	}
	n := c.normal(ps, d, dist)
	row := Row{
		Indices: []int{c.I, c.J},
		Grads:   []mgl64.Vec2{n.Mul(-1), n},
		C:       dist - ParticleDiam,
	}
	if !c.Stabilize {
		row.Friction = func(ps []*Particle, depth float64) {
			c.friction(ps[c.I], ps[c.J], n, depth)
		}
	}
	return append(rows, row)
}
