package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/HanMeh/ParticleSolver/internal/export"
	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/scene"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	statsWidth    = 45
	svgScale      = 12.0

	historyCapacity = 600

	// Canvas placement inside its style block, used to map clicks back
	// into the world.
	canvasPadX = 2
	canvasPadY = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the interactive viewer: it owns one simulation, ticks it at
// 60Hz, and draws it to a braille canvas with a stats panel alongside.
type Model struct {
	sim    *pbd.Simulation
	params pbd.Params
	tag    string
	seed   int64
	dt     float64

	t       float64
	steps   int
	running bool
	err     error
	saved   string

	canvas        *Canvas
	cw, ch        int
	energyHistory []float64

	// Last draw transform, for mapping terminal cells to world points.
	tfScale      float64
	tfMinX       float64
	tfMinY       float64
	tfOffX       float64
	tfOffY       float64
	tfSubpixelsH int
}

// NewModel builds the tagged scene and returns a viewer ready to run
// under a bubbletea program with mouse cell motion enabled.
func NewModel(tag string, seed int64, params pbd.Params, dt float64) (Model, error) {
	m := Model{
		tag:           strings.ToUpper(tag),
		seed:          seed,
		params:        params,
		dt:            dt,
		running:       true,
		cw:            defaultWidth,
		ch:            defaultHeight,
		canvas:        NewCanvas(defaultWidth, defaultHeight),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	m.draw()
	return m, nil
}

func (m *Model) rebuild() error {
	build, err := scene.ByTag(m.tag, m.seed)
	if err != nil {
		return err
	}
	sim := pbd.New(m.params)
	if err := sim.Init(build); err != nil {
		return err
	}
	m.sim = sim
	m.t = 0
	m.steps = 0
	m.err = nil
	m.saved = ""
	m.energyHistory = m.energyHistory[:0]
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.rebuild()
		case "tab":
			m.cycleScene(1)
		case "shift+tab":
			m.cycleScene(-1)
		case "m":
			m.params.Iterative = !m.params.Iterative
			m.err = m.rebuild()
		case "k":
			m.kickCenter()
		case "g":
			m.saveSVG()
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if pt, ok := m.worldAt(msg.X, msg.Y); ok {
				m.sim.MousePressed(pt)
			}
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	m.draw()
	return m, nil
}

func (m *Model) step() {
	m.sim.Tick(m.dt)
	m.t += m.dt
	m.steps++

	m.energyHistory = append(m.energyHistory, m.sim.KineticEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) cycleScene(dir int) {
	tags := scene.Tags()
	for i, t := range tags {
		if t == m.tag {
			m.tag = tags[(i+dir+len(tags))%len(tags)]
			break
		}
	}
	m.err = m.rebuild()
}

func (m *Model) kickCenter() {
	f := export.FrameOf(m.sim)
	m.sim.MousePressed(mgl64.Vec2{(f.MinX + f.MaxX) / 2, (f.MinY + f.MaxY) / 2})
}

func (m *Model) saveSVG() {
	name := fmt.Sprintf("%s_%05d.svg", strings.ToLower(m.tag), m.steps)
	if err := export.WriteSVG(name, export.FrameOf(m.sim), svgScale); err != nil {
		m.err = err
		return
	}
	m.saved = name
}

func (m *Model) resize(w, h int) {
	m.sim.Resize(w, h)

	cw := w - statsWidth - 2*canvasPadX - 2
	ch := h - 2*canvasPadY - 1
	if cw < 40 {
		cw = 40
	}
	if ch < 16 {
		ch = 16
	}
	if cw != m.cw || ch != m.ch {
		m.cw, m.ch = cw, ch
		m.canvas = NewCanvas(cw, ch)
	}
}

// draw renders the frame and records the transform used, so mouse clicks
// can be mapped back through it.
func (m *Model) draw() {
	m.canvas.Clear()
	f := export.FrameOf(m.sim)

	cw, ch := m.cw*2, m.ch*4
	sx := float64(cw-2) / (f.MaxX - f.MinX)
	sy := float64(ch-2) / (f.MaxY - f.MinY)
	s := math.Min(sx, sy)
	offX := (float64(cw) - (f.MaxX-f.MinX)*s) / 2
	offY := (float64(ch) - (f.MaxY-f.MinY)*s) / 2

	m.tfScale, m.tfMinX, m.tfMinY = s, f.MinX, f.MinY
	m.tfOffX, m.tfOffY, m.tfSubpixelsH = offX, offY, ch

	toX := func(x float64) int { return int(offX + (x-f.MinX)*s) }
	toY := func(y float64) int { return int(float64(ch) - offY - (y-f.MinY)*s) }

	if f.Walls.Left {
		m.canvas.DrawLine(toX(f.MinX), toY(f.MinY), toX(f.MinX), toY(f.MaxY))
	}
	if f.Walls.Right {
		m.canvas.DrawLine(toX(f.MaxX), toY(f.MinY), toX(f.MaxX), toY(f.MaxY))
	}
	if f.Walls.Bottom {
		m.canvas.DrawLine(toX(f.MinX), toY(f.MinY), toX(f.MaxX), toY(f.MinY))
	}
	if f.Walls.Top {
		m.canvas.DrawLine(toX(f.MinX), toY(f.MaxY), toX(f.MaxX), toY(f.MaxY))
	}

	for _, l := range f.Links {
		a, b := f.Discs[l[0]], f.Discs[l[1]]
		m.canvas.DrawLine(toX(a.X), toY(a.Y), toX(b.X), toY(b.Y))
	}

	for _, d := range f.Discs {
		m.canvas.FillCircle(toX(d.X), toY(d.Y), int(d.R*s))
	}
}

// worldAt maps a terminal cell to a world point via the last transform.
func (m *Model) worldAt(cellX, cellY int) (mgl64.Vec2, bool) {
	if m.tfScale == 0 {
		return mgl64.Vec2{}, false
	}
	col := cellX - canvasPadX
	row := cellY - canvasPadY
	if col < 0 || col >= m.cw || row < 0 || row >= m.ch {
		return mgl64.Vec2{}, false
	}
	px := float64(col * 2)
	py := float64(row * 4)
	x := m.tfMinX + (px-m.tfOffX)/m.tfScale
	y := m.tfMinY + (float64(m.tfSubpixelsH)-m.tfOffY-py)/m.tfScale
	return mgl64.Vec2{x, y}, true
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(m.tag) + "\n")
	s.WriteString(status + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	} else {
		s.WriteString("\n")
	}

	mode := "matrix"
	if m.params.Iterative {
		mode = "iterative"
	}
	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.sim.NumParticles())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", len(m.sim.Bodies()))) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(mode) + "\n")
	s.WriteString(labelStyle.Render("Iterations") + valueStyle.Render(fmt.Sprintf("%d", m.params.SolverIterations)) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", m.seed)) + "\n")

	if m.saved != "" {
		s.WriteString("\n" + valueStyle.Render("saved "+m.saved) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset TAB:Scene M:Mode\nG:SVG K:Kick Q:Quit Click:Kick"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
