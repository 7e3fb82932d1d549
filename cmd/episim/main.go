package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/export"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/scenario"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	gamma      float64
	beta0      float64
	horizon    float64
	resolution float64
	integrator string
	configFile string
	preset     string
	chartPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "epidemic scenario simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run one scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	runCmd.Flags().Float64Var(&beta0, "beta0", config.DefaultBeta0, "baseline transmission rate")
	runCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulated days")
	runCmd.Flags().Float64Var(&resolution, "resolution", config.DefaultResolution, "sampling interval (days)")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run static, scheduled and adaptive side by side",
		RunE:  compareScenarios,
	}
	compareCmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	compareCmd.Flags().Float64Var(&beta0, "beta0", config.DefaultBeta0, "baseline transmission rate")
	compareCmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulated days")
	compareCmd.Flags().StringVar(&chartPath, "chart", "", "write comparison PNG to path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render a stored run to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&chartPath, "out", "", "output path (default <run_id>.png)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVGRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario and replay it in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, compareCmd, listCmd, plotCmd, chartCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = kind

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Scenario = kind
		cfg = loaded
	}

	if cmd.Flags().Changed("gamma") {
		cfg.Gamma = gamma
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Resolution = resolution
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("beta0") {
		cfg.Static.Beta0 = beta0
		cfg.Scheduled.Beta0 = beta0
		cfg.Adaptive.Beta0 = beta0
	}

	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s scenario...\n", cfg.Scenario)
	start := time.Now()

	result, err := scenario.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Gamma, cfg.Horizon, cfg.Resolution, cfg.Integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", result.Trajectory.Len())
	fmt.Printf("rate changes: %d\n", len(result.Events)-1)

	printSummary(&result.Trajectory)

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func printSummary(tr *epi.Trajectory) {
	summary := metrics.Extract(*tr)

	fmt.Println("\nsummary:")
	fmt.Printf("  peak prevalence: %.4f at day %.1f\n", summary.PeakPrevalence, summary.PeakTime)
	fmt.Printf("  attack rate: %.4f\n", summary.AttackRate)
	if summary.Resolved {
		fmt.Printf("  duration: %.1f days\n", summary.Duration)
	} else {
		fmt.Println("  outbreak not resolved within horizon")
	}
}

func compareScenarios(cmd *cobra.Command, args []string) error {
	cmp := scenario.NewComparison()
	kinds := []string{config.ScenarioStatic, config.ScenarioScheduled, config.ScenarioAdaptive}
	for _, kind := range kinds {
		cfg, err := buildConfig(cmd, kind)
		if err != nil {
			return err
		}
		cmp.Add(kind, cfg)
	}

	fmt.Println("running scenarios...")
	start := time.Now()

	results, err := cmp.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPEAK\tPEAK DAY\tATTACK RATE\tDURATION\tRATE CHANGES")
	for _, kind := range kinds {
		result := results[kind]
		summary := metrics.Extract(result.Trajectory)

		duration := "unresolved"
		if summary.Resolved {
			duration = fmt.Sprintf("%.1f", summary.Duration)
		}

		fmt.Fprintf(w, "%s\t%.4f\t%.1f\t%.4f\t%s\t%d\n",
			kind,
			summary.PeakPrevalence,
			summary.PeakTime,
			summary.AttackRate,
			duration,
			len(result.Events)-1,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if chartPath != "" {
		if err := export.PlotComparison(chartPath, "infected prevalence by scenario", results); err != nil {
			return err
		}
		fmt.Printf("\nchart written to %s\n", chartPath)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tHORIZON\tGAMMA\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fd\t%.3f\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			run.Gamma,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", tr.Len())

	series := []struct {
		caption string
		data    []float64
	}{
		{"susceptible fraction", tr.Compartment(epi.S)},
		{"infected fraction", tr.Compartment(epi.I)},
		{"recovered fraction", tr.Compartment(epi.R)},
		{"transmission rate", tr.Betas},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	printSummary(tr)

	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := chartPath
	if out == "" {
		out = runID + ".png"
	}

	title := fmt.Sprintf("%s scenario (%s)", meta.Scenario, meta.Integrator)
	if err := export.PlotCompartments(out, title, tr); err != nil {
		return err
	}

	fmt.Printf("chart written to %s\n", out)
	return nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := loadResult(st, runID, meta)
	if err != nil {
		return err
	}

	return export.ExportJSONStdout(meta.Scenario, meta.Integrator, meta.Gamma, meta.Horizon, result)
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "susceptible", "infected", "recovered", "beta"}); err != nil {
		return err
	}
	for i := range tr.Times {
		row := []string{strconv.FormatFloat(tr.Times[i], 'f', 6, 64)}
		for _, val := range tr.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(tr.Betas[i], 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportSVGRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	svg := export.CurvesToSVG(export.CompartmentCurves(tr), 800, 400)
	fmt.Println(svg)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := scenario.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	return tui.Run(cfg.Scenario, result)
}

func loadResult(st *storage.Store, runID string, meta *storage.RunMetadata) (*epi.Result, error) {
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, err
	}
	events, err := st.LoadEvents(runID)
	if err != nil {
		return nil, err
	}
	return &epi.Result{
		Trajectory: *tr,
		Events:     events,
		Metrics:    meta.Metrics,
	}, nil
}
