package metrics

import "github.com/HanMeh/ParticleSolver/internal/pbd"

// Penetration samples the deepest overlap among solid particles of
// different bodies, and of any particle past the world bounds. Fluid and
// gas neighbors pack tighter than a diameter at rest and are skipped.
// Value reports the maximum over the run.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(s *pbd.Simulation, t float64) float64 {
	ps := s.Particles()
	xb, yb := s.XBounds(), s.YBounds()
	worst := 0.0

	for i, pi := range ps {
		if pi.Phase == pbd.Solid {
			for j := i + 1; j < len(ps); j++ {
				pj := ps[j]
				if pj.Phase != pbd.Solid {
					continue
				}
				if pi.IMass == 0 && pj.IMass == 0 {
					continue
				}
				if pi.Body == pj.Body && pi.Body != -1 {
					continue
				}
				if d := pbd.ParticleDiam - pi.P.Sub(pj.P).Len(); d > worst {
					worst = d
				}
			}
		}

		if pi.IMass == 0 {
			continue
		}
		if d := xb.X() + pbd.ParticleRad - pi.P.X(); d > worst {
			worst = d
		}
		if d := pi.P.X() - (xb.Y() - pbd.ParticleRad); d > worst {
			worst = d
		}
		if d := yb.X() + pbd.ParticleRad - pi.P.Y(); d > worst {
			worst = d
		}
		if d := pi.P.Y() - (yb.Y() - pbd.ParticleRad); d > worst {
			worst = d
		}
	}

	if worst > p.max {
		p.max = worst
	}
	return worst
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }
