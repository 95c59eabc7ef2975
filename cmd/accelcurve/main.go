// Package main provides the CLI entrypoint for accelcurve.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/config"
	"github.com/verte-zerg/accelcurve/internal/driver"
	"github.com/verte-zerg/accelcurve/internal/logging"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/motion"
	"github.com/verte-zerg/accelcurve/internal/store"
	"github.com/verte-zerg/accelcurve/internal/tui"
)

const (
	defaultSpeedMax   = 100.0
	defaultSamples    = 201
	defaultLogLevel   = "warn"
	defaultPlotHeight = 0
)

var (
	logLevel    string
	profilePath string
	fromProfile string
	dbPath      string
	outputPath  string

	curveMode     string
	curveSens     float64
	curveSensY    float64
	curveRotation float64
	curveMinTime  float64
	curveCombine  bool
	curveArgs     map[string]string

	calcSpeedMax   float64
	calcSamples    int
	calcDense      bool
	calcPlotHeight int

	tunerSeed      int64
	tunerRate      float64
	tunerMaxCounts float64

	logger = logging.Discard()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "accelcurve",
		Short:             "Pointer acceleration curve tuner",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadFileConfig,
		RunE:              runTunerCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (error, warn, info, debug)")
	pf.StringVar(&profilePath, "profile", config.DefaultProfilePath(), "profile TOML file")
	pf.StringVar(&fromProfile, "from", "", "use a stored profile instead of the profile file")
	pf.StringVar(&dbPath, "db", config.DefaultDBPath(), "profile database")
	pf.StringVar(&outputPath, "output", config.DefaultDriverPath(), "driver settings file written by apply")

	pf.StringVar(&curveMode, "mode", "", "curve mode ("+modeNames()+")")
	pf.Float64Var(&curveSens, "sens", 1, "sensitivity for both axes")
	pf.Float64Var(&curveSensY, "sens-y", 1, "sensitivity for the y axis")
	pf.Float64Var(&curveRotation, "rotation", 0, "rotation in degrees")
	pf.Float64Var(&curveMinTime, "min-time", accel.DefaultMinimumTime, "minimum report interval")
	pf.BoolVar(&curveCombine, "combine", true, "combine axes into one speed")
	pf.StringToStringVar(&curveArgs, "arg", nil, "mode parameter key=value ("+strings.Join(argKeys(), ", ")+")")

	pf.Float64Var(&calcSpeedMax, "speed-max", defaultSpeedMax, "highest sampled input speed")
	pf.IntVar(&calcSamples, "samples", defaultSamples, "number of samples")
	pf.BoolVar(&calcDense, "dense", false, "sample more densely near zero")
	pf.IntVar(&calcPlotHeight, "plot-height", defaultPlotHeight, "plot rows (0 fits the terminal)")

	rootCmd.Flags().Int64Var(&tunerSeed, "seed", 0, "motion preview seed (0 picks one)")
	rootCmd.Flags().Float64Var(&tunerRate, "rate", 1000, "motion preview report rate in Hz")
	rootCmd.Flags().Float64Var(&tunerMaxCounts, "max-counts", 40, "motion preview peak counts per report")

	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadFileConfig fills flags the user did not set from the config file and
// builds the logger.
func loadFileConfig(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.LogLevel)
	applyStringConfig(cmd, "profile", &profilePath, fileCfg.Calc.Profile)
	applyFloatConfig(cmd, "speed-max", &calcSpeedMax, fileCfg.Calc.SpeedMax)
	applyIntConfig(cmd, "samples", &calcSamples, fileCfg.Calc.Samples)
	applyBoolConfig(cmd, "dense", &calcDense, fileCfg.Calc.Dense)
	applyIntConfig(cmd, "plot-height", &calcPlotHeight, fileCfg.Calc.PlotHeight)
	applyStringConfig(cmd, "output", &outputPath, fileCfg.Driver.Output)
	applyInt64Config(cmd, "seed", &tunerSeed, fileCfg.Tuner.Seed)
	applyFloatConfig(cmd, "rate", &tunerRate, fileCfg.Tuner.RateHz)
	applyFloatConfig(cmd, "max-counts", &tunerMaxCounts, fileCfg.Tuner.MaxCounts)

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = logging.New(os.Stderr, level)
	slog.SetDefault(logger)

	if calcSamples <= 0 || calcSamples > accel.MaxSamples {
		return fmt.Errorf("--samples must be between 1 and %d", accel.MaxSamples)
	}
	if calcSpeedMax <= 0 {
		return fmt.Errorf("--speed-max must be > 0")
	}
	if calcPlotHeight < 0 {
		return fmt.Errorf("--plot-height must be >= 0")
	}
	return nil
}

func runTunerCmd(cmd *cobra.Command, _ []string) error {
	name, settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	var history tui.Recorder
	st, err := openStore()
	if err != nil {
		logger.Warn("apply history disabled", "error", err)
	} else {
		defer closeStore(st)
		history = st
	}

	target := config.ExpandHome(outputPath)
	opts := motion.Options{RateHz: tunerRate, MaxCounts: tunerMaxCounts, Jitter: motion.DefaultOptions().Jitter}
	gen := motion.New(opts)
	if tunerSeed != 0 {
		gen = motion.NewSeeded(tunerSeed, opts)
	}

	m := tui.NewModel(tui.Options{
		Name:       name,
		Settings:   settings,
		Domain:     speedRange(),
		Sink:       driver.NewFileSink(target, logger),
		Target:     target,
		History:    history,
		Motion:     gen,
		Logger:     logger,
		PlotHeight: calcPlotHeight,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	created, err := config.EnsureConfigFile(path)
	if err != nil {
		return err
	}
	if created {
		logger.Info("created config", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.ExpandHome(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func modeNames() string {
	modes := model.Modes()
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
