// Package run drives a simulation headlessly: fixed-size ticks from zero
// to a duration, metrics observed after every tick, results collected as
// per-step series plus final aggregates. The interactive viewer ticks the
// simulation itself; everything else goes through a Runner.
package run

import (
	"context"
	"fmt"

	"github.com/HanMeh/ParticleSolver/internal/metrics"
	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/scene"
)

// Config describes one run.
type Config struct {
	Scene    string
	Dt       float64
	Duration float64
	Seed     int64
	Params   pbd.Params
}

// Result holds everything a run produced. Series is keyed by metric name
// and parallel to Times; index 0 is the pre-tick sample at t=0.
type Result struct {
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
}

// Runner ticks one simulation to completion.
type Runner struct {
	sim     *pbd.Simulation
	metrics []metrics.Metric
}

func New(sim *pbd.Simulation) *Runner {
	return &Runner{
		sim:     sim,
		metrics: make([]metrics.Metric, 0),
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

// Simulation returns the underlying simulation, mainly so callers can
// render its final state.
func (r *Runner) Simulation() *pbd.Simulation { return r.sim }

// Run ticks from 0 to cfg.Duration. A canceled context returns the partial
// result along with ctx.Err.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.Times = append(result.Times, t)
	r.observe(result, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finalize(result)
			return result, ctx.Err()
		default:
		}

		r.sim.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		result.Times = append(result.Times, t)
		r.observe(result, t)
	}

	r.finalize(result)
	return result, nil
}

// RunWithCallback ticks until cfg.Duration, handing the simulation to fn
// before every tick, starting with the untouched initial state. Returning
// false stops the run early without error. No metrics are observed.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, fn func(s *pbd.Simulation, t float64) bool) error {
	if err := validate(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !fn(r.sim, t) {
			return nil
		}

		r.sim.Tick(cfg.Dt)
		t += cfg.Dt
	}

	return nil
}

func (r *Runner) observe(res *Result, t float64) {
	for _, m := range r.metrics {
		res.Series[m.Name()] = append(res.Series[m.Name()], m.Observe(r.sim, t))
	}
}

func (r *Runner) finalize(res *Result) {
	for _, m := range r.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

func validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// NewSimulation resolves cfg.Scene and builds it, seeded, into a fresh
// simulation.
func NewSimulation(cfg Config) (*pbd.Simulation, error) {
	build, err := scene.ByTag(cfg.Scene, cfg.Seed)
	if err != nil {
		return nil, err
	}
	s := pbd.New(cfg.Params)
	if err := s.Init(build); err != nil {
		return nil, fmt.Errorf("building scene %s: %w", cfg.Scene, err)
	}
	return s, nil
}

// DefaultMetrics is the standard instrumentation attached to headless
// runs. The stability threshold is far above any demo velocity; tripping
// it means the solve diverged.
func DefaultMetrics() []metrics.Metric {
	return []metrics.Metric{
		metrics.NewKinetic(),
		metrics.NewDensityError(),
		metrics.NewPenetration(),
		metrics.NewStability(500.0),
	}
}

// Headless builds cfg.Scene and runs it to completion with the default
// metric set, plus body zero's height when the scene has bodies.
func Headless(ctx context.Context, cfg Config) (*Result, error) {
	s, err := NewSimulation(cfg)
	if err != nil {
		return nil, err
	}

	r := New(s)
	for _, m := range DefaultMetrics() {
		r.AddMetric(m)
	}
	if len(s.Bodies()) > 0 {
		r.AddMetric(metrics.NewCOMHeight(0))
	}

	return r.Run(ctx, cfg)
}
