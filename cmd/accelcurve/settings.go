package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/accelcurve/internal/config"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/profile"
)

var argSetters = map[string]func(*model.DriverSettings, float64){
	"acceleration":     func(s *model.DriverSettings, v float64) { s.Args.Acceleration = v },
	"exponent-classic": func(s *model.DriverSettings, v float64) { s.Args.ExponentClassic = v },
	"offset":           func(s *model.DriverSettings, v float64) { s.Args.Offset = v },
	"scale":            func(s *model.DriverSettings, v float64) { s.Args.Scale = v },
	"exponent-power":   func(s *model.DriverSettings, v float64) { s.Args.ExponentPower = v },
	"limit":            func(s *model.DriverSettings, v float64) { s.Args.Limit = v },
	"decay-rate":       func(s *model.DriverSettings, v float64) { s.Args.DecayRate = v },
	"growth-rate":      func(s *model.DriverSettings, v float64) { s.Args.GrowthRate = v },
	"motivity":         func(s *model.DriverSettings, v float64) { s.Args.Motivity = v },
	"midpoint":         func(s *model.DriverSettings, v float64) { s.Args.Midpoint = v },
	"smooth":           func(s *model.DriverSettings, v float64) { s.Args.Smooth = v },
	"cap-x":            func(s *model.DriverSettings, v float64) { s.Args.Cap.X = v },
	"cap-y":            func(s *model.DriverSettings, v float64) { s.Args.Cap.Y = v },
	"max-time":         func(s *model.DriverSettings, v float64) { s.MaximumTime = v },
	"lp-norm":          func(s *model.DriverSettings, v float64) { s.LpNorm = v },
	"snap":             func(s *model.DriverSettings, v float64) { s.Snap = v * math.Pi / 180 },
	"directional-x":    func(s *model.DriverSettings, v float64) { s.Directional.X = v },
	"directional-y":    func(s *model.DriverSettings, v float64) { s.Directional.Y = v },
	"speed-cap":        func(s *model.DriverSettings, v float64) { s.SpeedCap = v },
	"domain-x":         func(s *model.DriverSettings, v float64) { s.Domain.X = v },
	"domain-y":         func(s *model.DriverSettings, v float64) { s.Domain.Y = v },
	"range-x":          func(s *model.DriverSettings, v float64) { s.Range.X = v },
	"range-y":          func(s *model.DriverSettings, v float64) { s.Range.Y = v },
	"dpi":              func(s *model.DriverSettings, v float64) { s.DPI = v },
	"gain":             func(s *model.DriverSettings, v float64) { s.Args.Gain = v != 0 },
}

func argKeys() []string {
	keys := make([]string, 0, len(argSetters)+1)
	for k := range argSetters {
		keys = append(keys, k)
	}
	keys = append(keys, "cap-mode")
	sort.Strings(keys)
	return keys
}

// applyArgs sets mode parameters from --arg key=value pairs. Keys are
// applied in sorted order so the result does not depend on map iteration.
func applyArgs(s *model.DriverSettings, args map[string]string) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		raw := strings.TrimSpace(args[key])
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "cap-mode" {
			capMode, err := model.ParseCapMode(raw)
			if err != nil {
				return fmt.Errorf("--arg %s: %w", key, err)
			}
			s.Args.CapMode = capMode
			continue
		}
		set, ok := argSetters[name]
		if !ok {
			return fmt.Errorf("--arg: unknown key %q (available: %s)", key, strings.Join(argKeys(), ", "))
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("--arg %s: invalid number %q", key, raw)
		}
		set(s, v)
	}
	return nil
}

// resolveSettings loads the base profile and applies changed curve flags on
// top of it. A stored profile named by --from wins over the profile file.
func resolveSettings(cmd *cobra.Command) (string, model.DriverSettings, error) {
	file, err := loadBaseProfile(commandContext(cmd))
	if err != nil {
		return "", model.DriverSettings{}, err
	}
	name := file.Name
	if name == "" {
		name = "default"
	}
	s, err := file.Settings()
	if err != nil {
		return "", model.DriverSettings{}, fmt.Errorf("failed to read profile: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := model.ParseMode(curveMode)
		if err != nil {
			return "", model.DriverSettings{}, fmt.Errorf("--mode: %w", err)
		}
		s.Mode = mode
	}
	if flags.Changed("sens") {
		s.Sensitivity = model.Vec2{X: curveSens, Y: curveSens}
	}
	if flags.Changed("sens-y") {
		s.Sensitivity.Y = curveSensY
	}
	if flags.Changed("rotation") {
		s.Rotation = curveRotation * math.Pi / 180
	}
	if flags.Changed("min-time") {
		s.MinimumTime = curveMinTime
	}
	if flags.Changed("combine") {
		s.CombineMagnitudes = curveCombine
	}
	if err := applyArgs(&s, curveArgs); err != nil {
		return "", model.DriverSettings{}, err
	}
	return name, s, nil
}

func loadBaseProfile(ctx context.Context) (profile.File, error) {
	if fromProfile != "" {
		st, err := openStore()
		if err != nil {
			return profile.File{}, err
		}
		defer closeStore(st)
		rec, err := st.LoadProfile(ctx, fromProfile)
		if err != nil {
			return profile.File{}, fmt.Errorf("failed to load stored profile: %w", err)
		}
		file, err := profile.DecodeString(rec.Body)
		if err != nil {
			return profile.File{}, err
		}
		file.Name = rec.Name
		return file, nil
	}

	path := config.ExpandHome(profilePath)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("profile file not found, using defaults", "path", path)
			return profile.Default(), nil
		}
		return profile.File{}, fmt.Errorf("failed to stat profile: %w", err)
	}
	file, err := profile.Load(path)
	if err != nil {
		return profile.File{}, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	return file, nil
}

func speedRange() model.SpeedRange {
	spacing := model.SpacingLinear
	if calcDense {
		spacing = model.SpacingDense
	}
	return model.SpeedRange{Min: 0, Max: calcSpeedMax, Count: calcSamples, Spacing: spacing}
}
