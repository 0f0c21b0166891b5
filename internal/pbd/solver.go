package pbd

import "github.com/go-gl/mathgl/mgl64"

// Gauss-Seidel sweeps per SolveAndUpdate call. A handful is enough; the
// outer solver iterations do the rest of the convergence work.
const gsSweeps = 4

// Solver batch-solves one constraint group: it assembles the linearized
// system J M⁻¹ Jᵀ λ = −C from the group's rows and relaxes it with
// projected Gauss-Seidel sweeps, accumulating position deltas as it goes.
// The contact flavor clamps multipliers at zero so unilateral constraints
// only ever push.
type Solver struct {
	contact bool

	invMass []float64
	rows    []Row
	lambda  []float64
	diag    []float64
	delta   []mgl64.Vec2
}

// NewSolver returns a bilateral solver for STANDARD constraints.
func NewSolver() *Solver { return &Solver{} }

// NewContactSolver returns a unilateral solver with λ ≥ 0.
func NewContactSolver() *Solver { return &Solver{contact: true} }

// SetupM snapshots the inverse mass matrix diagonal. Call it whenever the
// particle set or its working masses may have changed.
func (sv *Solver) SetupM(ps []*Particle) {
	sv.invMass = sv.invMass[:0]
	for _, p := range ps {
		sv.invMass = append(sv.invMass, p.TMass)
	}
}

// SetupSizes pre-sizes the scratch buffers for n particles and the given
// constraint list.
func (sv *Solver) SetupSizes(n int, cs []Constraint) {
	sv.delta = growVecs(sv.delta, n)
	if cap(sv.rows) < len(cs) {
		sv.rows = make([]Row, 0, len(cs))
	}
}

// SolveAndUpdate collects rows from every linearizable constraint in cs,
// sweeps the resulting system, then applies the accumulated deltas to the
// predictions. Constraints that cannot linearize are projected directly.
// When stabilize is set, deltas land on committed positions too, and so
// the call may only be used for the stabilization group.
func (sv *Solver) SolveAndUpdate(ps []*Particle, cs []Constraint, stabilize bool) {
	sv.rows = sv.rows[:0]
	for _, c := range cs {
		if lz, ok := c.(Linearizer); ok {
			sv.rows = lz.Linearize(ps, sv.rows)
		} else {
			c.Project(ps)
		}
	}
	if len(sv.rows) == 0 {
		return
	}

	if len(sv.invMass) < len(ps) {
		sv.SetupM(ps)
	}
	sv.delta = growVecs(sv.delta, len(ps))
	sv.lambda = growFloats(sv.lambda, len(sv.rows))
	sv.diag = growFloats(sv.diag, len(sv.rows))

	for r := range sv.rows {
		row := &sv.rows[r]
		d := row.Relax
		for k, idx := range row.Indices {
			g := row.Grads[k]
			d += sv.invMass[idx] * g.Dot(g)
		}
		sv.diag[r] = d
	}

	for sweep := 0; sweep < gsSweeps; sweep++ {
		for r := range sv.rows {
			row := &sv.rows[r]
			if sv.diag[r] < 1e-12 {
				continue
			}

			// Residual against the deltas applied so far.
			cr := row.C
			for k, idx := range row.Indices {
				cr += row.Grads[k].Dot(sv.delta[idx])
			}

			dl := -cr / sv.diag[r]
			if sv.contact && sv.lambda[r]+dl < 0 {
				dl = -sv.lambda[r]
			}
			if dl == 0 {
				continue
			}
			sv.lambda[r] += dl

			for k, idx := range row.Indices {
				w := sv.invMass[idx]
				if w == 0 {
					continue
				}
				sv.delta[idx] = sv.delta[idx].Add(row.Grads[k].Mul(w * dl))
			}
		}
	}

	for i, d := range sv.delta {
		if d.X() == 0 && d.Y() == 0 {
			continue
		}
		ps[i].EP = ps[i].EP.Add(d)
		if stabilize {
			ps[i].P = ps[i].P.Add(d)
		}
	}

	for r := range sv.rows {
		row := &sv.rows[r]
		if row.Friction != nil && sv.lambda[r] > 0 {
			row.Friction(ps, sv.lambda[r])
		}
	}
}

func growVecs(v []mgl64.Vec2, n int) []mgl64.Vec2 {
	if cap(v) < n {
		return make([]mgl64.Vec2, n)
	}
	v = v[:n]
	for i := range v {
		v[i] = mgl64.Vec2{}
	}
	return v
}

func growFloats(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	for i := range v {
		v[i] = 0
	}
	return v
}
