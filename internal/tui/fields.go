package tui

import (
	"math"
	"strconv"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// field is one editable number of a settings snapshot.
type field struct {
	label string
	get   func(model.DriverSettings) float64
	set   func(*model.DriverSettings, float64)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180 }

var commonFields = []field{
	{
		label: "sens x",
		get:   func(s model.DriverSettings) float64 { return s.Sensitivity.X },
		set:   func(s *model.DriverSettings, v float64) { s.Sensitivity.X = v },
	},
	{
		label: "sens y",
		get:   func(s model.DriverSettings) float64 { return s.Sensitivity.Y },
		set:   func(s *model.DriverSettings, v float64) { s.Sensitivity.Y = v },
	},
	{
		label: "rotation°",
		get:   func(s model.DriverSettings) float64 { return degrees(s.Rotation) },
		set:   func(s *model.DriverSettings, v float64) { s.Rotation = radians(v) },
	},
	{
		label: "min time",
		get:   func(s model.DriverSettings) float64 { return s.MinimumTime },
		set:   func(s *model.DriverSettings, v float64) { s.MinimumTime = v },
	},
}

var (
	accelField = field{
		label: "accel",
		get:   func(s model.DriverSettings) float64 { return s.Args.Acceleration },
		set:   func(s *model.DriverSettings, v float64) { s.Args.Acceleration = v },
	}
	offsetField = field{
		label: "offset",
		get:   func(s model.DriverSettings) float64 { return s.Args.Offset },
		set:   func(s *model.DriverSettings, v float64) { s.Args.Offset = v },
	}
	capInField = field{
		label: "cap in",
		get:   func(s model.DriverSettings) float64 { return s.Args.Cap.X },
		set:   func(s *model.DriverSettings, v float64) { s.Args.Cap.X = v },
	}
	capOutField = field{
		label: "cap out",
		get:   func(s model.DriverSettings) float64 { return s.Args.Cap.Y },
		set:   func(s *model.DriverSettings, v float64) { s.Args.Cap.Y = v },
	}
)

// argFields lists the parameters mode reads. Lookup points are edited in
// the profile file.
func argFields(mode model.Mode) []field {
	switch mode {
	case model.ModeLinear:
		return []field{accelField}
	case model.ModeClassic:
		return []field{
			accelField,
			{
				label: "exponent",
				get:   func(s model.DriverSettings) float64 { return s.Args.ExponentClassic },
				set:   func(s *model.DriverSettings, v float64) { s.Args.ExponentClassic = v },
			},
			offsetField, capInField, capOutField,
		}
	case model.ModePower:
		return []field{
			{
				label: "scale",
				get:   func(s model.DriverSettings) float64 { return s.Args.Scale },
				set:   func(s *model.DriverSettings, v float64) { s.Args.Scale = v },
			},
			{
				label: "exponent",
				get:   func(s model.DriverSettings) float64 { return s.Args.ExponentPower },
				set:   func(s *model.DriverSettings, v float64) { s.Args.ExponentPower = v },
			},
			offsetField, capOutField,
		}
	case model.ModeNatural:
		return []field{
			{
				label: "decay",
				get:   func(s model.DriverSettings) float64 { return s.Args.DecayRate },
				set:   func(s *model.DriverSettings, v float64) { s.Args.DecayRate = v },
			},
			{
				label: "limit",
				get:   func(s model.DriverSettings) float64 { return s.Args.Limit },
				set:   func(s *model.DriverSettings, v float64) { s.Args.Limit = v },
			},
			offsetField,
		}
	case model.ModeJump:
		return []field{
			{label: "input", get: capInField.get, set: capInField.set},
			{label: "output", get: capOutField.get, set: capOutField.set},
			{
				label: "smooth",
				get:   func(s model.DriverSettings) float64 { return s.Args.Smooth },
				set:   func(s *model.DriverSettings, v float64) { s.Args.Smooth = v },
			},
		}
	case model.ModeMotivity:
		return []field{
			{
				label: "growth",
				get:   func(s model.DriverSettings) float64 { return s.Args.GrowthRate },
				set:   func(s *model.DriverSettings, v float64) { s.Args.GrowthRate = v },
			},
			{
				label: "motivity",
				get:   func(s model.DriverSettings) float64 { return s.Args.Motivity },
				set:   func(s *model.DriverSettings, v float64) { s.Args.Motivity = v },
			},
			{
				label: "midpoint",
				get:   func(s model.DriverSettings) float64 { return s.Args.Midpoint },
				set:   func(s *model.DriverSettings, v float64) { s.Args.Midpoint = v },
			},
		}
	default:
		return nil
	}
}

// fieldsFor returns every editable field for the snapshot's mode.
func fieldsFor(mode model.Mode) []field {
	args := argFields(mode)
	out := make([]field, 0, len(commonFields)+len(args))
	out = append(out, commonFields...)
	return append(out, args...)
}

func formatField(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
