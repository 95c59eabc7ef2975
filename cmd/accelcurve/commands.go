package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/chart"
	"github.com/verte-zerg/accelcurve/internal/config"
	"github.com/verte-zerg/accelcurve/internal/driver"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/motion"
	"github.com/verte-zerg/accelcurve/internal/profile"
)

const (
	defaultSimSwipes = 20
	defaultSimSeed   = 1
	simMinReports    = 40
	simMaxReports    = 160
)

var (
	plotView   string
	plotWidth  int
	plotColor  bool
	exportFmt  string
	exportPath string
	simSeed    int64
	simSwipes  int
	simRate    float64
	simCounts  float64
	simJitter  float64
	applyQuiet bool
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the curve",
		Args:  cobra.NoArgs,
		RunE:  runPlotCmd,
	}
	cmd.Flags().StringVar(&plotView, "view", "multiplier", "what to plot (multiplier, velocity, both)")
	cmd.Flags().IntVar(&plotWidth, "width", 0, "plot width in cells (0 fits the terminal)")
	cmd.Flags().BoolVar(&plotColor, "color", false, "force colored output")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	views, err := parseViews(plotView)
	if err != nil {
		return err
	}
	data, err := calculate(cmd)
	if err != nil {
		return err
	}
	opts := chart.Options{Width: plotWidth, Height: calcPlotHeight, ForceColor: plotColor}
	out := cmd.OutOrStdout()
	for i, view := range views {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if err := chart.RenderCurve(out, data, view, opts); err != nil {
			return fmt.Errorf("failed to render plot: %w", err)
		}
	}
	return nil
}

func parseViews(name string) ([]chart.View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "multiplier", "":
		return []chart.View{chart.ViewMultiplier}, nil
	case "velocity":
		return []chart.View{chart.ViewVelocity}, nil
	case "both":
		return []chart.View{chart.ViewMultiplier, chart.ViewVelocity}, nil
	default:
		return nil, fmt.Errorf("--view must be multiplier, velocity or both")
	}
}

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the sampled curve",
		Args:  cobra.NoArgs,
		RunE:  runTableCmd,
	}
}

func runTableCmd(cmd *cobra.Command, _ []string) error {
	data, err := calculate(cmd)
	if err != nil {
		return err
	}
	if err := chart.RenderTable(cmd.OutOrStdout(), data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func calculate(cmd *cobra.Command) (model.AccelData, error) {
	_, settings, err := resolveSettings(cmd)
	if err != nil {
		return model.AccelData{}, err
	}
	data, err := accel.Calculate(settings, speedRange())
	if err != nil {
		return model.AccelData{}, fmt.Errorf("failed to calculate curve: %w", err)
	}
	logger.Debug("curve calculated", "mode", settings.Mode.String(), "samples", len(data.Samples))
	return data, nil
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate and write settings for the driver",
		Args:  cobra.NoArgs,
		RunE:  runApplyCmd,
	}
	cmd.Flags().BoolVar(&applyQuiet, "quiet", false, "do not print the written path")
	return cmd
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	name, settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	sink := driver.NewFileSink(config.ExpandHome(outputPath), logger)
	target := sink.Path()
	ctx := commandContext(cmd)
	body, err := sink.Apply(ctx, name, settings)
	if err != nil {
		return fmt.Errorf("failed to apply: %w", err)
	}

	st, err := openStore()
	if err != nil {
		logger.Warn("apply not recorded", "error", err)
	} else {
		defer closeStore(st)
		if _, err := st.RecordApply(ctx, model.ApplyRecord{Profile: name, Target: target, Body: string(body)}); err != nil {
			logger.Warn("apply not recorded", "error", err)
		}
	}

	if applyQuiet {
		return nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s) to %s\n", name, settings.Mode, target); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the resolved profile",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFmt, "format", "toml", "output format (toml, yaml)")
	cmd.Flags().StringVar(&exportPath, "write", "", "write the profile to this TOML file instead of stdout")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	name, settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := accel.Validate(settings); err != nil {
		return err
	}
	file := profile.FromSettings(name, settings)
	if exportPath == "" {
		return writeProfile(cmd.OutOrStdout(), file, exportFmt)
	}
	if cmd.Flags().Changed("format") && !strings.EqualFold(strings.TrimSpace(exportFmt), "toml") {
		return fmt.Errorf("--write only supports toml")
	}
	path := config.ExpandHome(exportPath)
	if err := profile.Save(path, file); err != nil {
		return err
	}
	logger.Info("profile written", "path", path, "mode", settings.Mode.String())
	return nil
}

func writeProfile(w io.Writer, file profile.File, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "toml", "":
		return file.Encode(w)
	case "yaml", "yml":
		return file.EncodeYAML(w)
	default:
		return fmt.Errorf("--format must be toml or yaml")
	}
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay synthetic motion through the curve",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	def := motion.DefaultOptions()
	cmd.Flags().Int64Var(&simSeed, "seed", defaultSimSeed, "random seed")
	cmd.Flags().IntVar(&simSwipes, "swipes", defaultSimSwipes, "number of swipes")
	cmd.Flags().Float64Var(&simRate, "rate", def.RateHz, "report rate in Hz")
	cmd.Flags().Float64Var(&simCounts, "max-counts", def.MaxCounts, "peak counts per report")
	cmd.Flags().Float64Var(&simJitter, "jitter", def.Jitter, "relative interval jitter")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	if simSwipes <= 0 {
		return fmt.Errorf("--swipes must be > 0")
	}
	name, settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	mod, err := accel.NewModifier(settings)
	if err != nil {
		return err
	}
	gen := motion.NewSeeded(simSeed, motion.Options{RateHz: simRate, MaxCounts: simCounts, Jitter: simJitter})
	st := motion.Replay(mod, gen.Session(simSwipes, simMinReports, simMaxReports))

	rows := [][]string{
		{"profile", name},
		{"mode", settings.Mode.String()},
		{"reports", fmt.Sprintf("%d", st.Reports)},
		{"duration", fmt.Sprintf("%.1f ms", st.Duration)},
		{"input distance", fmt.Sprintf("%.1f", st.InDistance)},
		{"output distance", fmt.Sprintf("%.1f", st.OutDistance)},
		{"output / input", fmt.Sprintf("%.4f", st.Ratio())},
		{"peak speed", fmt.Sprintf("%.3f", st.PeakSpeed)},
		{"multiplier range", fmt.Sprintf("%.4f .. %.4f", st.MinMultiplier, st.MaxMultiplier)},
		{"net output", fmt.Sprintf("(%.1f, %.1f)", st.Output.X, st.Output.Y)},
	}
	for _, line := range chart.FormatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
