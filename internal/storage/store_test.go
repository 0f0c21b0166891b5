package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/run"
)

func testSim(t *testing.T) *pbd.Simulation {
	t.Helper()
	s := pbd.New(pbd.DefaultParams())
	err := s.Init(func(s *pbd.Simulation) error {
		s.SetBounds(mgl64.Vec2{-10, 10}, mgl64.Vec2{0, 20})
		p := pbd.NewParticle(mgl64.Vec2{1, 2}, 1.0, pbd.Solid)
		p.V = mgl64.Vec2{3, 4}
		s.AddParticle(p)
		return nil
	})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return s
}

func testResult() *run.Result {
	return &run.Result{
		Times: []float64{0, 0.01},
		Series: map[string][]float64{
			"kinetic_energy": {12.5, 12.4},
			"penetration":    {0, 0.001},
		},
		Metrics: map[string]float64{
			"kinetic_energy": 12.45,
			"penetration":    0.001,
		},
		StepsTaken: 1,
	}
}

func testConfig() run.Config {
	return run.Config{
		Scene:    "friction",
		Dt:       0.01,
		Duration: 1.0,
		Seed:     42,
		Params:   pbd.DefaultParams(),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sim := testSim(t)
	runID, err := st.Save(testConfig(), sim, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scene != "FRICTION" {
		t.Errorf("expected scene 'FRICTION', got '%s'", meta.Scene)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Mode != "iterative" {
		t.Errorf("expected mode 'iterative', got '%s'", meta.Mode)
	}
	if meta.Particles != 1 {
		t.Errorf("expected 1 particle, got %d", meta.Particles)
	}
	if meta.Bounds.YMin != 0 || meta.Bounds.YMax != 20 {
		t.Errorf("expected y bounds [0, 20], got [%f, %f]", meta.Bounds.YMin, meta.Bounds.YMax)
	}
	if meta.Metrics["kinetic_energy"] != 12.45 {
		t.Errorf("expected kinetic_energy 12.45, got %f", meta.Metrics["kinetic_energy"])
	}

	series, times, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != 2 {
		t.Errorf("expected 2 times, got %d", len(times))
	}
	if len(series["kinetic_energy"]) != 2 {
		t.Errorf("expected 2 samples, got %d", len(series["kinetic_energy"]))
	}
	if series["kinetic_energy"][0] != 12.5 {
		t.Errorf("expected first sample 12.5, got %f", series["kinetic_energy"][0])
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(particles) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(particles))
	}
	if particles[0].X != 1 || particles[0].Y != 2 {
		t.Errorf("expected position (1, 2), got (%f, %f)", particles[0].X, particles[0].Y)
	}
	if particles[0].Phase != "solid" {
		t.Errorf("expected phase 'solid', got '%s'", particles[0].Phase)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testConfig(), testSim(t), testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testSim(t), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "series.csv", "particles.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	data := NewExportData(testConfig(), testSim(t), testResult())

	var buf bytes.Buffer
	if err := data.WriteJSON(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Scene != "friction" {
		t.Errorf("expected scene 'friction', got '%s'", decoded.Scene)
	}
	if decoded.Steps != 1 {
		t.Errorf("expected 1 step, got %d", decoded.Steps)
	}
	if len(decoded.Particles) != 1 {
		t.Errorf("expected 1 particle, got %d", len(decoded.Particles))
	}
	if decoded.Particles[0].VX != 3 {
		t.Errorf("expected vx 3, got %f", decoded.Particles[0].VX)
	}
}
