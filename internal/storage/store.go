// Package storage persists finished runs on disk, one directory per run:
// metadata.json with the run settings and final metrics, series.csv with
// the per-step metric samples, particles.csv with the final particle
// state.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/run"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Bounds is the world box a run used, kept so saved runs can be re-drawn
// without rebuilding the scene.
type Bounds struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Mode       string             `json:"mode"`
	Iterations int                `json:"iterations"`
	Alpha      float64            `json:"alpha"`
	Particles  int                `json:"particles"`
	Bounds     Bounds             `json:"bounds"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Mode names the solver strategy for metadata and listings.
func Mode(p pbd.Params) string {
	if p.Iterative {
		return "iterative"
	}
	return "matrix"
}

// Save writes one run directory and returns its id. The simulation is
// read for its final particle state and bounds only.
func (s *Store) Save(cfg run.Config, sim *pbd.Simulation, result *run.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", strings.ToLower(cfg.Scene), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	xb, yb := sim.XBounds(), sim.YBounds()
	meta := RunMetadata{
		ID:         runID,
		Scene:      strings.ToUpper(cfg.Scene),
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Mode:       Mode(cfg.Params),
		Iterations: cfg.Params.SolverIterations,
		Alpha:      cfg.Params.Alpha,
		Particles:  sim.NumParticles(),
		Bounds:     Bounds{XMin: xb.X(), XMax: xb.Y(), YMin: yb.X(), YMax: yb.Y()},
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, "series.csv"), result); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, "particles.csv"), Snapshot(sim)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, result *run.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
		for _, name := range names {
			col := result.Series[name]
			if i < len(col) {
				row = append(row, strconv.FormatFloat(col[i], 'f', 6, 64))
			} else {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func writeParticles(path string, records []ParticleRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"x", "y", "vx", "vy", "imass", "phase", "body"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatFloat(r.X, 'f', 6, 64),
			strconv.FormatFloat(r.Y, 'f', 6, 64),
			strconv.FormatFloat(r.VX, 'f', 6, 64),
			strconv.FormatFloat(r.VY, 'f', 6, 64),
			strconv.FormatFloat(r.IMass, 'f', 6, 64),
			r.Phase,
			strconv.Itoa(r.Body),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads series.csv back as named columns plus the time axis.
func (s *Store) LoadSeries(runID string) (map[string][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "series.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	series := make(map[string][]float64, len(header)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(header) {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return series, times, nil
}

// LoadParticles reads particles.csv back.
func (s *Store) LoadParticles(runID string) ([]ParticleRecord, error) {
	csvPath := filepath.Join(s.baseDir, runID, "particles.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 7

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]ParticleRecord, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		body, err := strconv.Atoi(rec[6])
		if err != nil {
			continue
		}
		out = append(out, ParticleRecord{
			X:     parseFloat(rec[0]),
			Y:     parseFloat(rec[1]),
			VX:    parseFloat(rec[2]),
			VY:    parseFloat(rec[3]),
			IMass: parseFloat(rec[4]),
			Phase: rec[5],
			Body:  body,
		})
	}

	return out, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
