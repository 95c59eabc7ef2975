package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// View selects which derived series RenderCurve draws.
type View int

const (
	// ViewMultiplier plots multiplier and gain on one chart.
	ViewMultiplier View = iota
	// ViewVelocity plots output speed against input speed.
	ViewVelocity
)

// Summary describes the sample set in one line.
func Summary(data model.AccelData) string {
	if len(data.Samples) == 0 {
		return fmt.Sprintf("mode %s: no samples", data.Mode)
	}
	axes := "combined"
	if !data.Combined {
		axes = "per axis"
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range data.Samples {
		lo = math.Min(lo, s.Multiplier)
		hi = math.Max(hi, s.Multiplier)
	}
	first := data.Samples[0]
	last := data.Samples[len(data.Samples)-1]
	return fmt.Sprintf("mode %s (%s)  speed %s..%s  multiplier %s..%s  samples %d",
		data.Mode, axes,
		formatValue(first.Speed), formatValue(last.Speed),
		formatValue(lo), formatValue(hi),
		len(data.Samples))
}

// RenderCurve writes a summary line followed by a plot of data.
func RenderCurve(w io.Writer, data model.AccelData, view View, opts Options) error {
	if _, err := fmt.Fprintln(w, Summary(data)); err != nil {
		return err
	}
	n := len(data.Samples)
	speeds := make([]float64, n)
	mult := make([]float64, n)
	vel := make([]float64, n)
	gain := make([]float64, n)
	for i, s := range data.Samples {
		speeds[i] = s.Speed
		mult[i] = s.Multiplier
		vel[i] = s.Velocity
		gain[i] = s.Gain
	}
	xLabel, yLabel := data.Labels()
	if opts.XLabel == "" {
		opts.XLabel = xLabel
	}
	var series []Series
	switch view {
	case ViewVelocity:
		if opts.YLabel == "" {
			opts.YLabel = "output speed"
		}
		series = []Series{{Name: "velocity", X: speeds, Y: vel}}
	default:
		if opts.YLabel == "" {
			opts.YLabel = yLabel
		}
		series = []Series{
			{Name: "multiplier", X: speeds, Y: mult},
			{Name: "gain", X: speeds, Y: gain},
		}
	}
	return Plot(w, series, opts)
}

// RenderTable writes the samples as aligned columns.
func RenderTable(w io.Writer, data model.AccelData) error {
	xLabel, _ := data.Labels()
	headers := []string{xLabel, "multiplier", "velocity", "gain"}
	rows := make([][]string, 0, len(data.Samples))
	for _, s := range data.Samples {
		rows = append(rows, []string{
			fmt.Sprintf("%.3f", s.Speed),
			fmt.Sprintf("%.5f", s.Multiplier),
			fmt.Sprintf("%.3f", s.Velocity),
			fmt.Sprintf("%.5f", s.Gain),
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true})
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
