package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rltcp/cc/trace"
	"github.com/inference-sim/rltcp/report"
)

var (
	configPath string // Optional YAML run config
	logLevel   string // Log verbosity level

	// CLI flags; each overrides the config file only when set explicitly
	seed          int64   // Seed for the simulator and per-flow model initialisation
	iterations    int     // Number of episodes (<= 0 runs until interrupted)
	learningRate  float64 // SGD step size of the value model
	explorer      string  // Exploration override for learned agents
	exploreRate   float64 // Exploration rate for epsilon-greedy
	maxEnvStep    int     // Per-episode step bound (0 = unbounded)
	simKind       string  // Simulator: synthetic or http
	simAddr       string  // Simulator bridge address
	simTime       float64 // Episode length in simulated seconds
	stepTime      float64 // Seconds between observations
	flows         int     // Concurrent flows in the synthetic simulator
	flowClasses   []int   // Per-flow classes in the synthetic simulator
	traceEvery    int     // Record every N-th step
	traceCapacity int     // Keep at most N samples per series (0 = unbounded)
	reportDir     string  // Directory for plot files
	reportFormat  string  // Plot file format
	noReport      bool    // Skip plot rendering
	storeKind     string  // Transition store backend
	storePath     string  // SQLite database path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rltcp",
	Short: "Per-flow reinforcement-learning TCP congestion control against a network simulator",
}

// runCmd executes the control loop using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the congestion-control learning loop",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultRunConfig()
		if configPath != "" {
			loaded, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load run config: %v", err)
			}
			cfg = *loaded
		}
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		runID := uuid.NewString()
		logrus.Infof("Starting run %s: seed=%d, iterations=%d, simulator=%s, explorer=%s",
			runID, cfg.Seed, cfg.Iterations, cfg.Simulator.Kind, cfg.Exploration.Explorer)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, recorder, err := executeRun(ctx, &cfg, runID)
		report.PrintSummary(os.Stdout, result, trace.Summarize(recorder))
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		if result.Interrupted {
			logrus.Info("Ctrl-C -> Exit")
		}
		logrus.Info("Run complete.")
	},
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("lr") {
		cfg.Model.LearningRate = learningRate
	}
	if flags.Changed("explorer") {
		cfg.Exploration.Explorer = explorer
	}
	if flags.Changed("exr") {
		cfg.Exploration.Rate = exploreRate
	}
	if flags.Changed("max-env-step") {
		cfg.MaxEnvStep = maxEnvStep
	}
	if flags.Changed("env") {
		cfg.Simulator.Kind = simKind
	}
	if flags.Changed("sim-addr") {
		cfg.Simulator.Address = simAddr
	}
	if flags.Changed("sim-time") {
		cfg.Simulator.SimTime = simTime
	}
	if flags.Changed("step-time") {
		cfg.Simulator.StepTime = stepTime
	}
	if flags.Changed("flows") {
		cfg.Simulator.Flows = flows
	}
	if flags.Changed("flow-class") {
		cfg.Simulator.FlowClasses = flowClasses
	}
	if flags.Changed("trace-every") {
		cfg.Trace.Every = traceEvery
	}
	if flags.Changed("trace-capacity") {
		cfg.Trace.Capacity = traceCapacity
	}
	if flags.Changed("report-dir") {
		cfg.Report.Dir = reportDir
	}
	if flags.Changed("report-format") {
		cfg.Report.Format = reportFormat
	}
	if flags.Changed("no-report") {
		cfg.Report.Enabled = !noReport
	}
	if flags.Changed("store") {
		cfg.Store.Kind = storeKind
	}
	if flags.Changed("store-path") {
		cfg.Store.Path = storePath
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds every run flag to its package variable, with defaults from DefaultRunConfig
func registerRunFlags(cmd *cobra.Command) {
	defaults := DefaultRunConfig()
	flags := cmd.Flags()

	flags.StringVar(&configPath, "config", "", "YAML run config; explicit flags override its values")
	flags.StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.Int64Var(&seed, "seed", defaults.Seed, "Seed for the simulator and model initialisation")
	flags.IntVar(&iterations, "iterations", defaults.Iterations, "Number of episodes (<= 0 runs until interrupted)")

	// Learning configs
	flags.Float64Var(&learningRate, "lr", defaults.Model.LearningRate, "Learning rate of the value model")
	flags.StringVar(&explorer, "explorer", defaults.Exploration.Explorer, "Exploration override for learned agents (greedy, epsilon-greedy)")
	flags.Float64Var(&exploreRate, "exr", defaults.Exploration.Rate, "Exploration rate, used by epsilon-greedy")
	flags.IntVar(&maxEnvStep, "max-env-step", defaults.MaxEnvStep, "Max steps per episode (0 = unbounded)")

	// Simulator configs
	flags.StringVar(&simKind, "env", defaults.Simulator.Kind, "Simulator (synthetic, http)")
	flags.StringVar(&simAddr, "sim-addr", defaults.Simulator.Address, "Simulator bridge address for --env http")
	flags.Float64Var(&simTime, "sim-time", defaults.Simulator.SimTime, "Episode length in simulated seconds")
	flags.Float64Var(&stepTime, "step-time", defaults.Simulator.StepTime, "Seconds between observations")
	flags.IntVar(&flows, "flows", defaults.Simulator.Flows, "Concurrent flows (synthetic simulator)")
	flags.IntSliceVar(&flowClasses, "flow-class", defaults.Simulator.FlowClasses, "Per-flow classes, 0 = event-based/NewReno (synthetic simulator)")

	// Trace, report and store configs
	flags.IntVar(&traceEvery, "trace-every", defaults.Trace.Every, "Record telemetry every N steps")
	flags.IntVar(&traceCapacity, "trace-capacity", defaults.Trace.Capacity, "Max samples kept per series (0 = unbounded)")
	flags.StringVar(&reportDir, "report-dir", defaults.Report.Dir, "Directory for plot files")
	flags.StringVar(&reportFormat, "report-format", defaults.Report.Format, "Plot file format (pdf, png, svg)")
	flags.BoolVar(&noReport, "no-report", false, "Skip plot rendering")
	flags.StringVar(&storeKind, "store", defaults.Store.Kind, "Transition store (none, memory, sqlite)")
	flags.StringVar(&storePath, "store-path", defaults.Store.Path, "SQLite database path for --store sqlite")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
