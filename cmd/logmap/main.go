package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hailcloud-um/logistic-map/internal/bifurcation"
	"github.com/hailcloud-um/logistic-map/internal/config"
	"github.com/hailcloud-um/logistic-map/internal/engine"
	"github.com/hailcloud-um/logistic-map/internal/predict"
	"github.com/hailcloud-um/logistic-map/internal/stats"
	"github.com/hailcloud-um/logistic-map/internal/store"
	"github.com/hailcloud-um/logistic-map/internal/tui"
	"github.com/hailcloud-um/logistic-map/internal/viz"
)

var (
	dataDir    string
	configFile string
	seed       int64

	// simulate
	rTrue     float64
	x0True    float64
	rModel    float64
	x0Model   float64
	steps     int
	threshold float64
	ensemble  bool
	members   int
	initSD    float64
	paramSD   float64
	statName  string
	saveRun   bool
	regime    string

	// bifurcation
	rMin    float64
	rMax    float64
	rCount  int
	xMin    float64
	xMax    float64
	xBins   int
	discard int
	record  int

	// scan / table
	scanR      float64
	modelBias  float64
	icBias     float64
	trials     int
	iterations int
	metricName string
	tableOut   string
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	rootCmd := &cobra.Command{
		Use:   "logmap",
		Short: "logistic map chaos and predictability lab",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".logmap", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run one truth-vs-model forecast scenario",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&rTrue, "r", 3.75, "true map parameter")
	simulateCmd.Flags().Float64Var(&x0True, "x0", 0.25, "true initial state")
	simulateCmd.Flags().Float64Var(&rModel, "model-r", 3.75, "model map parameter")
	simulateCmd.Flags().Float64Var(&x0Model, "model-x0", 0.25001, "model initial state")
	simulateCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "iterations to run")
	simulateCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "error threshold")
	simulateCmd.Flags().BoolVar(&ensemble, "ensemble", false, "run a perturbed ensemble forecast")
	simulateCmd.Flags().IntVar(&members, "members", config.DefaultEnsembleSize, "ensemble members")
	simulateCmd.Flags().Float64Var(&initSD, "init-sd", config.DefaultInitSD, "initial-state perturbation stddev")
	simulateCmd.Flags().Float64Var(&paramSD, "param-sd", config.DefaultParamSD, "parameter perturbation stddev")
	simulateCmd.Flags().StringVar(&statName, "statistic", "mean", "forecast statistic: mean, median or mode")
	simulateCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")
	simulateCmd.Flags().StringVar(&regime, "regime", "", "start from a named regime (chaotic, periodic, single-valued)")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "sweep the parameter axis and draw the attractor density",
		RunE:  runBifurcation,
	}
	bifurcationCmd.Flags().Float64Var(&rMin, "r-min", config.DefaultBifRMin, "lower parameter bound")
	bifurcationCmd.Flags().Float64Var(&rMax, "r-max", config.DefaultBifRMax, "upper parameter bound")
	bifurcationCmd.Flags().IntVar(&rCount, "r-count", 90, "parameter grid size")
	bifurcationCmd.Flags().Float64Var(&xMin, "x-min", 0.0, "lower state bound")
	bifurcationCmd.Flags().Float64Var(&xMax, "x-max", 1.0, "upper state bound")
	bifurcationCmd.Flags().IntVar(&xBins, "x-bins", 30, "state histogram bins")
	bifurcationCmd.Flags().IntVar(&discard, "discard", config.DefaultBifDiscard, "transient iterations to discard")
	bifurcationCmd.Flags().IntVar(&record, "record", config.DefaultBifRecord, "iterations to record")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "estimate the predictability limit of one scenario",
		RunE:  runScan,
	}
	scanCmd.Flags().Float64Var(&scanR, "r", 3.7, "map parameter")
	scanCmd.Flags().Float64Var(&modelBias, "model-bias", 0, "additive parameter bias")
	scanCmd.Flags().Float64Var(&icBias, "ic-bias", 1e-10, "initial-condition bias stddev")
	scanCmd.Flags().IntVar(&trials, "trials", config.DefaultScanTrials, "trials per scenario")
	scanCmd.Flags().IntVar(&iterations, "iterations", config.DefaultScanIterations, "iterations per trial")
	scanCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultScanThreshold, "error threshold")
	scanCmd.Flags().StringVar(&metricName, "metric", "median", "aggregation metric: mean, median or mode")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "regenerate the predictability-limit lookup table",
		RunE:  runTable,
	}
	tableCmd.Flags().StringVar(&tableOut, "out", "precalc.yaml", "output file")
	tableCmd.Flags().IntVar(&trials, "trials", config.DefaultScanTrials, "trials per scenario")
	tableCmd.Flags().IntVar(&iterations, "iterations", config.DefaultScanIterations, "iterations per trial")
	tableCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultScanThreshold, "error threshold")

	lookupCmd := &cobra.Command{
		Use:   "lookup",
		Short: "query the precomputed predictability-limit surface",
		RunE:  runLookup,
	}
	lookupCmd.Flags().Float64Var(&scanR, "r", 3.7, "map parameter (snapped to nearest tabulated value)")
	lookupCmd.Flags().StringVar(&metricName, "metric", "median", "surface: mean, median or mode")

	regimesCmd := &cobra.Command{
		Use:   "regimes",
		Short: "list the named dynamical regimes",
		RunE:  runRegimes,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "replot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "explore the map interactively",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&rTrue, "r", 3.75, "starting map parameter")
	liveCmd.Flags().Float64Var(&x0True, "x0", 0.25, "starting state")
	liveCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "iterations to show")
	liveCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "error threshold")

	rootCmd.AddCommand(simulateCmd, bifurcationCmd, scanCmd, tableCmd, lookupCmd, regimesCmd, listCmd, plotCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyConfig folds a yaml config under any flags the user did not set.
func applyConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile == "" {
		return nil, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
		seed = cfg.Seed
	}
	return cfg, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if regime != "" {
		def, ok := config.Regimes[config.Regime(regime)]
		if !ok {
			return fmt.Errorf("unknown regime: %s (available: %v)", regime, config.RegimeNames())
		}
		if !cmd.Flags().Changed("r") {
			rTrue = def.ParamValue
			rModel = def.ParamValue
		}
		if !cmd.Flags().Changed("x0") {
			x0True = def.InitValue
			x0Model = def.InitValue + 1e-5
		}
	}

	cfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	if cfg != nil {
		sim := cfg.Simulation
		if !cmd.Flags().Changed("r") {
			rTrue = sim.RTrue
		}
		if !cmd.Flags().Changed("x0") {
			x0True = sim.X0True
		}
		if !cmd.Flags().Changed("model-r") {
			rModel = sim.RModel
		}
		if !cmd.Flags().Changed("model-x0") {
			x0Model = sim.X0Model
		}
		if !cmd.Flags().Changed("steps") {
			steps = sim.Steps
		}
		if !cmd.Flags().Changed("threshold") {
			threshold = sim.Threshold
		}
		if !cmd.Flags().Changed("ensemble") {
			ensemble = sim.Ensemble
		}
		if !cmd.Flags().Changed("members") {
			members = sim.EnsembleSize
		}
		if !cmd.Flags().Changed("init-sd") {
			initSD = sim.InitSD
		}
		if !cmd.Flags().Changed("param-sd") {
			paramSD = sim.ParamSD
		}
		if !cmd.Flags().Changed("statistic") && sim.Statistic != "" {
			statName = sim.Statistic
		}
	}

	statistic, err := stats.ParseStatistic(statName)
	if err != nil {
		return err
	}

	req := engine.Request{
		RTrue: rTrue, X0True: x0True,
		RModel: rModel, X0Model: x0Model,
		Steps: steps, Threshold: threshold,
		Ensemble: ensemble, EnsembleSize: members,
		InitPerturbSD: initSD, ParamPerturbSD: paramSD,
		Statistic: statistic,
	}

	bundle, err := engine.RunSimulation(req, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(req, bundle))
	fmt.Println(viz.TrajectoryChart(bundle.Truth, bundle.Selected))
	if bundle.Ensemble != nil {
		fmt.Println(viz.SpreadChart(bundle))
	}
	fmt.Println(viz.ErrorChart(bundle.AbsError, threshold))

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(req, seed, bundle)
		if err != nil {
			return err
		}
		zap.L().Info("run saved", zap.String("run_id", runID))
		fmt.Printf("saved as %s\n", runID)
	}
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	if cfg != nil {
		bif := cfg.Bifurcation
		if !cmd.Flags().Changed("r-min") {
			rMin = bif.RMin
		}
		if !cmd.Flags().Changed("r-max") {
			rMax = bif.RMax
		}
		if !cmd.Flags().Changed("x-min") {
			xMin = bif.XMin
		}
		if !cmd.Flags().Changed("x-max") {
			xMax = bif.XMax
		}
		if !cmd.Flags().Changed("discard") {
			discard = bif.Discard
		}
		if !cmd.Flags().Changed("record") {
			record = bif.Record
		}
	}

	sweep := bifurcation.SweepConfig{
		RMin: rMin, RMax: rMax, RCount: rCount,
		XWindow: bifurcation.Window{Min: xMin, Max: xMax},
		Discard: discard, Record: record,
	}
	grid := bifurcation.SweepDensity(sweep, xBins)
	zap.L().Info("bifurcation sweep finished",
		zap.Int("parameter_values", rCount),
		zap.Int("points", grid.Total()),
		zap.Duration("elapsed", grid.Cloud.Elapsed))

	fmt.Println(viz.DensityMap(grid))
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if cfg, err := applyConfig(cmd); err != nil {
		return err
	} else if cfg != nil {
		sc := cfg.Scan
		if !cmd.Flags().Changed("r") {
			scanR = sc.R
		}
		if !cmd.Flags().Changed("model-bias") {
			modelBias = sc.ModelBias
		}
		if !cmd.Flags().Changed("ic-bias") {
			icBias = sc.ICBias
		}
		if !cmd.Flags().Changed("trials") {
			trials = sc.Trials
		}
		if !cmd.Flags().Changed("iterations") {
			iterations = sc.Iterations
		}
		if !cmd.Flags().Changed("threshold") {
			threshold = sc.Threshold
		}
		if !cmd.Flags().Changed("metric") && sc.Metric != "" {
			metricName = sc.Metric
		}
	}

	metric, err := predict.ParseScanMetric(metricName)
	if err != nil {
		return err
	}

	scanCfg := predict.ScanConfig{
		R:          scanR,
		ModelBias:  modelBias,
		ICBias:     icBias,
		Trials:     trials,
		Iterations: iterations,
		Threshold:  threshold,
		Metric:     metric,
	}
	start := time.Now()
	limit := predict.ScanLimit(scanCfg, rand.New(rand.NewSource(seed)))
	zap.L().Info("scan finished",
		zap.Float64("r", scanR),
		zap.Int("limit", limit),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Println(viz.ScanSummary(scanCfg, limit))
	return nil
}

func runTable(cmd *cobra.Command, args []string) error {
	gen := predict.DefaultGenerateConfig()
	gen.Trials = trials
	gen.Iterations = iterations
	gen.Threshold = threshold

	zap.L().Info("regenerating predictability table",
		zap.Int("cells", len(gen.RValues)*len(gen.ModelBiasValues)*len(gen.ICBiasValues)*3),
		zap.Int64("seed", seed))
	table := predict.Generate(gen, seed, zap.L())
	if err := table.Save(tableOut); err != nil {
		return err
	}
	fmt.Printf("table written to %s\n", tableOut)
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	table, err := predict.LoadTable()
	if err != nil {
		return err
	}

	rIdx := table.NearestRIndex(scanR)
	fmt.Printf("predictability limits for r=%.4g (%s surface)\n\n", table.RValues[rIdx], metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "ic bias")
	for _, bias := range table.ModelBiasValues {
		fmt.Fprintf(w, "\tΔr=%.3g", bias)
	}
	fmt.Fprintln(w)
	for k, ic := range table.ICBiasValues {
		fmt.Fprintf(w, "%.0e", ic)
		for j := range table.ModelBiasValues {
			row, err := table.Row(metricName, rIdx, j)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\t%d", row[k])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runRegimes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGIME\tR RANGE\tDEFAULT R\tDEFAULT X0")
	for _, name := range config.RegimeNames() {
		def := config.Regimes[name]
		fmt.Fprintf(w, "%s\t[%.2f, %.2f]\t%.2f\t%.2f\n",
			name, def.ParamLimits[0], def.ParamLimits[1], def.ParamValue, def.InitValue)
	}
	return w.Flush()
}

func runList(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tR\tX0\tSTEPS\tMODE\tCROSSING")
	for _, run := range runs {
		mode := "deterministic"
		if run.Ensemble {
			mode = fmt.Sprintf("ensemble(%d, %s)", run.EnsembleSize, run.Statistic)
		}
		crossing := fmt.Sprintf("%d", run.CrossingIndex)
		if run.CrossingIndex >= run.Steps {
			crossing = "never"
		}
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\t%d\t%s\t%s\n",
			run.ID, run.Timestamp.Format(time.RFC3339), run.RTrue, run.X0True,
			run.Steps, mode, crossing)
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runID := args[0]

	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}
	cols, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	selected, ok := cols["selected"]
	if !ok {
		return fmt.Errorf("run %s: no selected series", runID)
	}
	fmt.Printf("%s  r=%.4g x0=%.4g  %s forecast\n\n",
		runID, meta.RTrue, meta.X0True, strings.ToLower(meta.Statistic))
	fmt.Println(viz.TrajectoryChart(cols["truth"], selected))
	fmt.Println(viz.ErrorChart(cols["abs_error"], meta.Threshold))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	req := engine.Request{
		RTrue: rTrue, X0True: x0True,
		RModel: rTrue, X0Model: x0True + 1e-5,
		Steps: steps, Threshold: threshold,
		EnsembleSize:  config.DefaultEnsembleSize,
		InitPerturbSD: config.DefaultInitSD,
		Statistic:     stats.Mean,
	}
	p := tea.NewProgram(tui.NewModel(req, seed))
	_, err := p.Run()
	return err
}
