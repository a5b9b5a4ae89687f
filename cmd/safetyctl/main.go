package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/safetyctl/internal/config"
	"github.com/san-kum/safetyctl/internal/export"
	"github.com/san-kum/safetyctl/internal/generators"
	"github.com/san-kum/safetyctl/internal/metrics"
	"github.com/san-kum/safetyctl/internal/safety"
	"github.com/san-kum/safetyctl/internal/scenario"
	"github.com/san-kum/safetyctl/internal/storage"
	"github.com/san-kum/safetyctl/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	maxPower   float64
	dt         float64
	frameRate  int
	noSave     bool
	svgWidth   int
	svgHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "safetyctl",
		Short:        "power-limiting safety controller test harness",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".safetyctl", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every control cycle")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step a scenario with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "cycles per second")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot scaling factor and power of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], cmd.OutOrStdout())
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export factor and power of a run as SVG to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCYCLES\tMAX POWER\tPHASES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\n", name, p.TotalCycles(), p.MaxPower, len(p.Phases))
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "replay a scenario over a range of power bounds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "lowest power bound (W)")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20, "highest power bound (W)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of bounds")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per CPU)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "check the power bound under random perturbations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.2, "twist perturbation amplitude (m/s); wrenches use 100x")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per CPU)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&maxPower, "max-power", config.DefaultMaxPower, "maximum injected power (W)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "control period (s)")
}

// newLogger logs at info level when the scenario asks for per-cycle
// diagnostics, from --verbose or the config file.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// loadScenario resolves the preset or config file and applies flag
// overrides. Flags win over the file, the file wins over the preset.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("max-power") {
		cfg.MaxPower = maxPower
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fc := cfg.ForceControl; fc != nil && fc.FilterTimeConstant > 0 {
		if floor := generators.MinFilterTimeConstant(cfg.Dt); fc.FilterTimeConstant < floor {
			logger.Warn("force control filter time constant is short for the control period",
				zap.Float64("time_constant", fc.FilterTimeConstant),
				zap.Float64("recommended_min", floor),
			)
		}
	}

	runner, err := scenario.New(cfg)
	if err != nil {
		return err
	}
	runner.SetSink(safety.NewZapSink(logger))
	for _, m := range metrics.Defaults() {
		runner.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scenario",
		zap.String("scenario", cfg.Name),
		zap.Int("cycles", cfg.TotalCycles()),
		zap.Strings("constraints", runner.Controller().ConstraintNames()),
	)
	start := time.Now()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.RenderSummary(cfg.Name, result.Metrics))
	if err := runner.Controller().Report(out); err != nil {
		return err
	}
	fmt.Fprintf(out, "completed %d cycles in %v\n", len(result.Samples), elapsed)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, runner.Controller().ConstraintNames(), result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "run id: %s\n", runID)

	if result.Metrics["power_violations"] > 0 {
		logger.Warn("power bound exceeded", zap.Float64("cycles", result.Metrics["power_violations"]))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	// cycle logging would corrupt the terminal UI
	cfg.Verbose = false

	runner, err := scenario.New(cfg)
	if err != nil {
		return err
	}
	return viz.RunLive(runner, frameRate)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tCYCLES\tMAX POWER\tMEAN FACTOR\tVIOLATIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4f\t%.0f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cycles,
			run.MaxPower,
			run.Metrics["mean_factor"],
			run.Metrics["power_violations"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "cycles: %d\n\n", len(samples))
	return viz.PlotRun(out, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return export.WriteSVG(cmd.OutOrStdout(), export.RunSeries(samples, float64(meta.MaxPower)), svgWidth, svgHeight)
}
