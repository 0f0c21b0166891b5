package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/HanMeh/ParticleSolver/internal/analysis"
	"github.com/HanMeh/ParticleSolver/internal/config"
	"github.com/HanMeh/ParticleSolver/internal/export"
	"github.com/HanMeh/ParticleSolver/internal/metrics"
	"github.com/HanMeh/ParticleSolver/internal/pbd"
	"github.com/HanMeh/ParticleSolver/internal/run"
	"github.com/HanMeh/ParticleSolver/internal/scene"
	"github.com/HanMeh/ParticleSolver/internal/storage"
	"github.com/HanMeh/ParticleSolver/internal/viz"
)

var (
	dataDir  string
	dt       float64
	duration float64
	seed     int64
	// Solver settings
	mode          string
	iterations    int
	stabIters     int
	stabilization bool
	alpha         float64
	// Config file and preset
	configFile string
	preset     string
	// Output selection
	metricName string
	svgOut     string
	jsonOut    string
	outPath    string
	frames     int
	svgScale   float64
	// Benchmark duration, separate so its default doesn't leak into run
	benchTime float64
	// SSH serving
	serveHost    string
	servePort    string
	serveHostKey string
)

var sceneDescriptions = map[string]string{
	"FRICTION":    "a rigid box slides along the floor and stops",
	"GRANULAR":    "a tall grid of loose particles collapses into a pile",
	"STACKS":      "columns of rigid boxes stacked eight high",
	"WALL":        "a staggered brick wall of rigid bodies",
	"PENDULUM":    "three rigid links swing from a fixed anchor",
	"FLUID":       "two fluids of different density settle and layer",
	"FLUID_SOLID": "rigid boxes dropped into a tank of fluid",
	"GAS":         "light gas bubbles up through heavier fluid",
}

// main registers commands and flags and executes the root command; with no
// subcommand it launches the live view on the default scene. It exits the
// process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "particlesolver",
		Short: "2d unified particle simulation sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return launchLive(config.DefaultScene)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlesolver", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and record metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	addSolverFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also dump run data as json to this path (- for stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	addSolverFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "serve the live view over ssh",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveSSH,
	}
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "listen host")
	serveCmd.Flags().StringVar(&servePort, "port", "2222", "listen port")
	serveCmd.Flags().StringVar(&serveHostKey, "host-key", ".ssh/particlesolver_ed25519", "host key path")
	serveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	serveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	addSolverFlags(serveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the metric as an svg line chart")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded metric",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "", "metric to analyze")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "run a scene and write svg frames",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotScene,
	}
	snapshotCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	snapshotCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	snapshotCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	snapshotCmd.Flags().StringVar(&outPath, "out", "", "output svg path")
	snapshotCmd.Flags().IntVar(&frames, "frames", 1, "number of frames to write")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 12.0, "svg pixels per world unit")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded series to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark solver modes on a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Float64Var(&benchTime, "time", 2.0, "duration per case")
	benchCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENE\tPRESETS\tDESCRIPTION")
			for _, tag := range scene.Tags() {
				names := strings.Join(config.ListPresets(tag), ",")
				if names == "" {
					names = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", tag, names, sceneDescriptions[tag])
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := strings.ToUpper(args[0])
			names := config.ListPresets(tag)
			if len(names) == 0 {
				fmt.Printf("no presets for scene: %s\n", tag)
				return nil
			}
			fmt.Printf("presets for %s:\n", tag)
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, analyzeCmd,
		snapshotCmd, exportCSVCmd, exportJSONCmd, benchCmd, scenesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolverFlags(cmd *cobra.Command) {
	d := pbd.DefaultParams()
	cmd.Flags().StringVar(&mode, "mode", "iterative", "solver mode (iterative or matrix)")
	cmd.Flags().IntVar(&iterations, "iterations", d.SolverIterations, "solver iterations")
	cmd.Flags().IntVar(&stabIters, "stab-iterations", d.StabilizationIterations, "stabilization iterations")
	cmd.Flags().BoolVar(&stabilization, "stabilization", d.Stabilization, "pre-solver stabilization pass")
	cmd.Flags().Float64Var(&alpha, "alpha", d.Alpha, "gas gravity scale in (0,1]")
}

// solverParams assembles pbd.Params from the flag variables, going through
// config so out-of-range values fall back the same way config files do.
func solverParams() pbd.Params {
	cfg := config.Config{
		Dt:       dt,
		Duration: duration,
		Seed:     seed,
		Solver: config.SolverConfig{
			Mode:                    mode,
			Iterations:              iterations,
			StabilizationIterations: stabIters,
			Stabilization:           stabilization,
			Alpha:                   alpha,
		},
	}
	return cfg.Params()
}

func resolveScene(args []string) (string, error) {
	if len(args) > 0 {
		return strings.ToUpper(args[0]), nil
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.Scene != "" {
			return strings.ToUpper(fileCfg.Scene), nil
		}
	}
	return config.DefaultScene, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	tag, err := resolveScene(args)
	if err != nil {
		return err
	}

	// Apply preset values
	if preset != "" {
		p := config.GetPreset(tag, preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(tag))
		}
		dt = p.Dt
		duration = p.Duration
		if p.Seed != 0 {
			seed = p.Seed
		}
		mode = p.Solver.Mode
		iterations = p.Solver.Iterations
		stabIters = p.Solver.StabilizationIterations
		stabilization = p.Solver.Stabilization
		alpha = p.Solver.Alpha
	}

	// Apply config file values (CLI flags override config)
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("dt") {
			dt = fileCfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = fileCfg.Duration
		}
		if !cmd.Flags().Changed("mode") {
			mode = fileCfg.Solver.Mode
		}
		if !cmd.Flags().Changed("iterations") {
			iterations = fileCfg.Solver.Iterations
		}
		if !cmd.Flags().Changed("stab-iterations") {
			stabIters = fileCfg.Solver.StabilizationIterations
		}
		if !cmd.Flags().Changed("stabilization") {
			stabilization = fileCfg.Solver.Stabilization
		}
		if !cmd.Flags().Changed("alpha") {
			alpha = fileCfg.Solver.Alpha
		}
		if fileCfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = fileCfg.Seed
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	cfg := run.Config{Scene: tag, Dt: dt, Duration: duration, Seed: seed, Params: solverParams()}
	sim, err := run.NewSimulation(cfg)
	if err != nil {
		return err
	}

	r := run.New(sim)
	for _, m := range run.DefaultMetrics() {
		r.AddMetric(m)
	}
	if len(sim.Bodies()) > 0 {
		r.AddMetric(metrics.NewCOMHeight(0))
	}

	fmt.Printf("running %s (%d particles)...\n", tag, sim.NumParticles())
	start := time.Now()

	result, err := r.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, sim, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, storage.NewExportData(cfg, sim, result)); err != nil {
			return err
		}
		if jsonOut != "-" {
			fmt.Printf("wrote %s\n", jsonOut)
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	tag := config.DefaultScene
	if len(args) > 0 {
		tag = strings.ToUpper(args[0])
	}

	if preset != "" {
		p := config.GetPreset(tag, preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(tag))
		}
		dt = p.Dt
		if p.Seed != 0 {
			seed = p.Seed
		}
		mode = p.Solver.Mode
		iterations = p.Solver.Iterations
		stabIters = p.Solver.StabilizationIterations
		stabilization = p.Solver.Stabilization
		alpha = p.Solver.Alpha
	}

	return launchLive(tag)
}

func launchLive(tag string) error {
	m, err := viz.NewModel(tag, seed, solverParams(), dt)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func serveSSH(cmd *cobra.Command, args []string) error {
	tag := config.DefaultScene
	if len(args) > 0 {
		tag = strings.ToUpper(args[0])
	}

	// Reject a bad tag before binding the port.
	if _, err := scene.ByTag(tag, seed); err != nil {
		return err
	}
	params := solverParams()

	teaHandler := func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		m, err := viz.NewModel(tag, seed, params, dt)
		if err != nil {
			wish.Fatalln(sess, "scene setup failed:", err)
			return nil, nil
		}
		return m, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(serveHost, servePort)),
		wish.WithHostKeyPath(serveHostKey),
		wish.WithMiddleware(
			bm.Middleware(teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		return err
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting ssh server", "host", serveHost, "port", servePort, "scene", tag)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("server error", "err", err)
			done <- os.Interrupt
		}
	}()

	<-done
	log.Info("stopping ssh server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tMODE\tPARTICLES")

	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			r.ID,
			r.Scene,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Duration,
			r.Dt,
			r.Mode,
			r.Particles,
		)
	}

	return w.Flush()
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(times))

	all := seriesNames(series)
	names := all
	if metricName != "" {
		if _, ok := series[metricName]; !ok {
			return fmt.Errorf("metric %s not recorded (have: %v)", metricName, all)
		}
		names = []string{metricName}
	}

	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		name := metricName
		if name == "" {
			name = "kinetic_energy"
		}
		data, ok := series[name]
		if !ok {
			return fmt.Errorf("metric %s not recorded (have: %v)", name, all)
		}
		doc := export.SeriesSVG(times, data, 640, 240, "#4a90d9")
		if doc == "" {
			return fmt.Errorf("not enough samples for an svg chart")
		}
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, _, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	name := metricName
	if name == "" {
		name = "kinetic_energy"
		if _, ok := series["com_height"]; ok {
			name = "com_height"
		}
	}
	data, ok := series[name]
	if !ok {
		return fmt.Errorf("metric %s not recorded (have: %v)", name, seriesNames(series))
	}
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, metric: %s\n\n", meta.Scene, name)

	// The spectrum display needs a power-of-two window with the mean
	// removed, otherwise the dc bin dwarfs every real peak.
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	mean := 0.0
	for _, v := range data[:n] {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range data[:n] {
		centered[i] = v - mean
	}

	ps := analysis.PowerSpectrum(centered)
	plotData := ps[:len(ps)/4]
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, found := analysis.DominantPeriod(data, meta.Dt)
	if !found {
		fmt.Println("no dominant period (signal flat or too short)")
		return nil
	}
	fmt.Printf("dominant period: %.3f s\n", period)
	fmt.Printf("dominant frequency: %.3f hz\n", 1.0/period)

	return nil
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	tag := strings.ToUpper(args[0])

	cfg := run.Config{Scene: tag, Dt: dt, Duration: duration, Seed: seed, Params: solverParams()}
	sim, err := run.NewSimulation(cfg)
	if err != nil {
		return err
	}
	r := run.New(sim)

	base := outPath
	if base == "" {
		base = strings.ToLower(tag) + ".svg"
	}

	if frames <= 1 {
		discard := func(*pbd.Simulation, float64) bool { return true }
		if err := r.RunWithCallback(context.Background(), cfg, discard); err != nil {
			return err
		}
		if err := export.WriteSVG(base, export.FrameOf(r.Simulation()), svgScale); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", base)
		return nil
	}

	stem := strings.TrimSuffix(base, ".svg")
	steps := int(duration / dt)
	every := steps / (frames - 1)
	if every < 1 {
		every = 1
	}

	step := 0
	var writeErr error
	err = r.RunWithCallback(context.Background(), cfg, func(s *pbd.Simulation, t float64) bool {
		if step%every == 0 {
			path := fmt.Sprintf("%s_%05d.svg", stem, step)
			if writeErr = export.WriteSVG(path, export.FrameOf(s), svgScale); writeErr != nil {
				return false
			}
			fmt.Printf("wrote %s\n", path)
		}
		step++
		return true
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	// The callback fires before each tick, so the settled final state
	// still needs its own frame.
	path := fmt.Sprintf("%s_%05d.svg", stem, steps)
	if err := export.WriteSVG(path, export.FrameOf(r.Simulation()), svgScale); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, times, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	names := seriesNames(series)

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i := range times {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series[name][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, times, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	d := storage.ExportData{
		Scene:     meta.Scene,
		Mode:      meta.Mode,
		Dt:        meta.Dt,
		Duration:  meta.Duration,
		Seed:      meta.Seed,
		Steps:     meta.Steps,
		Times:     times,
		Series:    series,
		Metrics:   meta.Metrics,
		Particles: particles,
	}
	return d.WriteJSON(os.Stdout)
}

func benchScene(cmd *cobra.Command, args []string) error {
	tag := strings.ToUpper(args[0])

	probe, err := run.NewSimulation(run.Config{
		Scene: tag, Dt: dt, Duration: benchTime, Seed: seed, Params: pbd.DefaultParams(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d particles)\n\n", tag, probe.NumParticles())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tITERS\tSTEPS\tTIME\tSTEPS/SEC")

	modes := []string{"iterative", "matrix"}
	iterCounts := []int{2, 5, 10}

	for _, m := range modes {
		for _, iters := range iterCounts {
			params := pbd.DefaultParams()
			params.Iterative = m == "iterative"
			params.SolverIterations = iters

			cfg := run.Config{Scene: tag, Dt: dt, Duration: benchTime, Seed: seed, Params: params}

			start := time.Now()
			result, err := run.Headless(context.Background(), cfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
				m, iters, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
