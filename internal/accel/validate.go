package accel

import (
	"fmt"
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

type checker struct {
	messages []string
}

func (c *checker) failf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func (c *checker) finite(name string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.failf("%s must be a finite number", name)
		return false
	}
	return true
}

func (c *checker) positive(name string, v float64) {
	if c.finite(name, v) && v <= 0 {
		c.failf("%s must be > 0 (got %g)", name, v)
	}
}

func (c *checker) nonNegative(name string, v float64) {
	if c.finite(name, v) && v < 0 {
		c.failf("%s must be >= 0 (got %g)", name, v)
	}
}

func (c *checker) greater(name string, v, bound float64) {
	if c.finite(name, v) && v <= bound {
		c.failf("%s must be > %g (got %g)", name, bound, v)
	}
}

// Validate checks a snapshot against the domain of its mode. All violated
// constraints are reported together in a *ValidationError. An unknown mode
// yields ErrUnsupportedMode instead.
func Validate(s model.DriverSettings) error {
	if _, err := NewCurve(s.Mode, s.Args); err != nil {
		return err
	}

	c := &checker{}
	c.positive("sensitivity x", s.Sensitivity.X)
	c.positive("sensitivity y", s.Sensitivity.Y)
	c.finite("rotation", s.Rotation)
	c.positive("minimum time", s.MinimumTime)
	if c.finite("maximum time", s.MaximumTime) && s.MaximumTime != 0 && s.MaximumTime < s.MinimumTime {
		c.failf("maximum time must be 0 or >= minimum time (got %g)", s.MaximumTime)
	}
	if c.finite("snap", s.Snap) && (s.Snap < 0 || s.Snap > math.Pi/4) {
		c.failf("snap must be between 0 and 45 degrees")
	}
	if c.finite("lp norm", s.LpNorm) && s.LpNorm != 0 && s.LpNorm < 1 {
		c.failf("lp norm must be 0 (euclidean) or >= 1 (got %g)", s.LpNorm)
	}
	c.nonNegative("directional multiplier x", s.Directional.X)
	c.nonNegative("directional multiplier y", s.Directional.Y)
	c.nonNegative("speed cap", s.SpeedCap)
	c.nonNegative("domain x", s.Domain.X)
	c.nonNegative("domain y", s.Domain.Y)
	c.nonNegative("range x", s.Range.X)
	c.nonNegative("range y", s.Range.Y)
	c.nonNegative("dpi", s.DPI)

	validateArgs(c, s.Mode, s.Args)

	if len(c.messages) > 0 {
		return &ValidationError{Messages: c.messages}
	}
	return nil
}

func validateArgs(c *checker, mode model.Mode, a model.AccelArgs) {
	switch mode {
	case model.ModeLinear:
		c.nonNegative("acceleration", a.Acceleration)
	case model.ModeClassic:
		c.nonNegative("acceleration", a.Acceleration)
		c.positive("exponent", a.ExponentClassic)
		c.nonNegative("offset", a.Offset)
		switch a.CapMode {
		case model.CapOutput:
			if c.finite("cap output", a.Cap.Y) && a.Cap.Y != 0 && a.Cap.Y < 1 {
				c.failf("cap output must be 0 (disabled) or >= 1 (got %g)", a.Cap.Y)
			}
		case model.CapInput:
			c.nonNegative("cap input", a.Cap.X)
		case model.CapInOut:
			c.greater("cap input", a.Cap.X, a.Offset)
			c.greater("cap output", a.Cap.Y, 1)
		default:
			c.failf("unknown cap mode %v", a.CapMode)
		}
	case model.ModePower:
		c.positive("scale", a.Scale)
		c.positive("exponent", a.ExponentPower)
		c.nonNegative("offset", a.Offset)
		c.nonNegative("cap output", a.Cap.Y)
	case model.ModeNatural:
		c.greater("limit", a.Limit, 1)
		c.positive("decay rate", a.DecayRate)
		c.nonNegative("offset", a.Offset)
	case model.ModeJump:
		c.positive("jump input", a.Cap.X)
		c.positive("jump output", a.Cap.Y)
		if c.finite("smooth", a.Smooth) && (a.Smooth < 0 || a.Smooth > 1) {
			c.failf("smooth must be between 0 and 1 (got %g)", a.Smooth)
		}
	case model.ModeMotivity:
		c.greater("motivity", a.Motivity, 1)
		c.positive("growth rate", a.GrowthRate)
		c.positive("midpoint", a.Midpoint)
	case model.ModeLookup:
		validatePoints(c, a.Points)
	}
}

func validatePoints(c *checker, points []model.Point) {
	if len(points) < 2 {
		c.failf("lookup table needs at least 2 points (got %d)", len(points))
	}
	if len(points) > MaxLookupPoints {
		c.failf("lookup table holds at most %d points (got %d)", MaxLookupPoints, len(points))
	}
	for i, p := range points {
		c.nonNegative(fmt.Sprintf("point %d speed", i+1), p.Speed)
		c.positive(fmt.Sprintf("point %d multiplier", i+1), p.Multiplier)
		if i > 0 && p.Speed <= points[i-1].Speed {
			c.failf("point %d speed must be greater than point %d speed", i+1, i)
		}
	}
}
