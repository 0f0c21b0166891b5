package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/run"
)

// ParticleRecord is one particle's final state, flattened for CSV and
// JSON.
type ParticleRecord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	IMass float64 `json:"imass"`
	Phase string  `json:"phase"`
	Body  int     `json:"body"`
}

// Snapshot flattens the simulation's committed particle state.
func Snapshot(s *pbd.Simulation) []ParticleRecord {
	ps := s.Particles()
	records := make([]ParticleRecord, 0, len(ps))
	for _, p := range ps {
		records = append(records, ParticleRecord{
			X:     p.P.X(),
			Y:     p.P.Y(),
			VX:    p.V.X(),
			VY:    p.V.Y(),
			IMass: p.IMass,
			Phase: p.Phase.String(),
			Body:  p.Body,
		})
	}
	return records
}

// ExportData is the full dump of one run for downstream tooling.
type ExportData struct {
	Scene     string               `json:"scene"`
	Mode      string               `json:"mode"`
	Dt        float64              `json:"dt"`
	Duration  float64              `json:"duration"`
	Seed      int64                `json:"seed"`
	Steps     int                  `json:"steps"`
	Times     []float64            `json:"times"`
	Series    map[string][]float64 `json:"series"`
	Metrics   map[string]float64   `json:"metrics"`
	Particles []ParticleRecord     `json:"particles"`
}

func NewExportData(cfg run.Config, sim *pbd.Simulation, result *run.Result) ExportData {
	return ExportData{
		Scene:     cfg.Scene,
		Mode:      Mode(cfg.Params),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Seed:      cfg.Seed,
		Steps:     result.StepsTaken,
		Times:     result.Times,
		Series:    result.Series,
		Metrics:   result.Metrics,
		Particles: Snapshot(sim),
	}
}

func (d ExportData) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ExportJSON writes the dump to path, or to stdout when path is "-".
func ExportJSON(path string, d ExportData) error {
	if path == "-" {
		return d.WriteJSON(os.Stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return d.WriteJSON(file)
}
