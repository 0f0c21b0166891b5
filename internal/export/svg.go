// Package export renders simulation snapshots as SVG and metric series as
// SVG line charts. A Frame is the intermediate form: world window, wall
// flags, colored discs, and rod links, consumed here and by the live view.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
)

// Treat bounds beyond this as open sides; the window follows the
// particles there instead.
const openBound = 1e5

const background = "#0a0a0a"

var (
	immovableColor = "#d64545"
	freeSolidColor = "#c0c0c0"
	wallColor      = "#555555"
	linkColor      = "#707070"

	bodyPalette  = []string{"#fa8072", "#f4a460", "#e9967a", "#cd853f", "#deb887"}
	fluidPalette = []string{"#4169e1", "#1e90ff", "#00bfff", "#5f9ea0"}
	gasPalette   = []string{"#98fb98", "#7fffd4", "#baf2ba"}
)

// Disc is one particle ready to draw, in world coordinates.
type Disc struct {
	X, Y  float64
	R     float64
	Color string
}

// Walls flags which window edges are real boundaries rather than open
// sides.
type Walls struct {
	Left, Right, Bottom, Top bool
}

// Frame is a drawable snapshot of a simulation.
type Frame struct {
	MinX, MinY, MaxX, MaxY float64
	Walls                  Walls
	Discs                  []Disc
	// Links are index pairs into Discs, drawn as rods.
	Links [][2]int
}

// FrameOf snapshots the committed particle state. Immovable particles
// draw red, body particles by body, media blocks by their constraint.
func FrameOf(s *pbd.Simulation) Frame {
	f := Frame{}
	f.MinX, f.MinY, f.MaxX, f.MaxY, f.Walls = worldWindow(s)

	media := mediumColors(s)
	ps := s.Particles()
	f.Discs = make([]Disc, 0, len(ps))
	for i, p := range ps {
		f.Discs = append(f.Discs, Disc{
			X:     p.P.X(),
			Y:     p.P.Y(),
			R:     pbd.ParticleRad,
			Color: discColor(p, media, i),
		})
	}

	for _, c := range s.Globals(pbd.GroupStandard) {
		if d, ok := c.(*pbd.DistanceConstraint); ok {
			f.Links = append(f.Links, [2]int{d.I, d.J})
		}
	}

	return f
}

func worldWindow(s *pbd.Simulation) (minX, minY, maxX, maxY float64, walls Walls) {
	xb, yb := s.XBounds(), s.YBounds()
	minX, maxX = xb.X(), xb.Y()
	minY, maxY = yb.X(), yb.Y()
	walls = Walls{
		Left:   minX > -openBound,
		Right:  maxX < openBound,
		Bottom: minY > -openBound,
		Top:    maxY < openBound,
	}

	pminX, pminY := math.Inf(1), math.Inf(1)
	pmaxX, pmaxY := math.Inf(-1), math.Inf(-1)
	for _, p := range s.Particles() {
		pminX = math.Min(pminX, p.P.X())
		pmaxX = math.Max(pmaxX, p.P.X())
		pminY = math.Min(pminY, p.P.Y())
		pmaxY = math.Max(pmaxY, p.P.Y())
	}
	if len(s.Particles()) == 0 {
		pminX, pminY, pmaxX, pmaxY = -1, -1, 1, 1
	}

	if !walls.Left {
		minX = pminX - 2
	}
	if !walls.Right {
		maxX = pmaxX + 2
	}
	if !walls.Bottom {
		minY = pminY - 2
	}
	if !walls.Top {
		maxY = pmaxY + 2
	}

	if maxX-minX < 1 {
		maxX = minX + 1
	}
	if maxY-minY < 1 {
		maxY = minY + 1
	}
	return
}

func mediumColors(s *pbd.Simulation) map[int]string {
	colors := make(map[int]string)
	fluids, gases := 0, 0
	for _, c := range s.Globals(pbd.GroupStandard) {
		switch f := c.(type) {
		case *pbd.TotalFluidConstraint:
			col := fluidPalette[fluids%len(fluidPalette)]
			fluids++
			for _, i := range f.Indices {
				colors[i] = col
			}
		case *pbd.GasConstraint:
			col := gasPalette[gases%len(gasPalette)]
			gases++
			for _, i := range f.Indices {
				colors[i] = col
			}
		}
	}
	return colors
}

func discColor(p *pbd.Particle, media map[int]string, idx int) string {
	if p.IMass == 0 {
		return immovableColor
	}
	if p.Phase == pbd.Solid {
		if p.Body >= 0 {
			return bodyPalette[p.Body%len(bodyPalette)]
		}
		return freeSolidColor
	}
	if c, ok := media[idx]; ok {
		return c
	}
	return freeSolidColor
}

// SVG renders the frame at scale pixels per world unit, y up.
func (f Frame) SVG(scale float64) string {
	width := (f.MaxX - f.MinX) * scale
	height := (f.MaxY - f.MinY) * scale

	toX := func(x float64) float64 { return (x - f.MinX) * scale }
	toY := func(y float64) float64 { return height - (y-f.MinY)*scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	wall := func(x1, y1, x2, y2 float64) {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, toX(x1), toY(y1), toX(x2), toY(y2), wallColor))
	}
	if f.Walls.Left {
		wall(f.MinX, f.MinY, f.MinX, f.MaxY)
	}
	if f.Walls.Right {
		wall(f.MaxX, f.MinY, f.MaxX, f.MaxY)
	}
	if f.Walls.Bottom {
		wall(f.MinX, f.MinY, f.MaxX, f.MinY)
	}
	if f.Walls.Top {
		wall(f.MinX, f.MaxY, f.MaxX, f.MaxY)
	}

	for _, l := range f.Links {
		a, b := f.Discs[l[0]], f.Discs[l[1]]
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>
`, toX(a.X), toY(a.Y), toX(b.X), toY(b.Y), linkColor))
	}

	for _, d := range f.Discs {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, toX(d.X), toY(d.Y), d.R*scale, d.Color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG renders the frame to a file.
func WriteSVG(path string, f Frame, scale float64) error {
	return os.WriteFile(path, []byte(f.SVG(scale)), 0644)
}

// SeriesSVG renders one metric series as a line chart.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	t0 := times[0]
	rangeT := times[len(times)-1] - t0
	if rangeT == 0 {
		rangeT = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range values {
		x := (times[i] - t0) / rangeT * float64(width)
		y := float64(height) - (v-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
