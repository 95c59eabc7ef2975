package accel

import "github.com/verte-zerg/accelcurve/internal/model"

const (
	// DefaultMinimumTime is the interval floor used by the driver.
	DefaultMinimumTime = 0.4
	// MaxLookupPoints bounds the lookup table size.
	MaxLookupPoints = 257
	// MaxSamples bounds the number of speeds a single calculation samples.
	MaxSamples = 1 << 16
	// normalDPI is the resolution DPI normalization scales input to.
	normalDPI = 1000
	// gainSteps is the even number of Simpson intervals used to integrate
	// a gain curve.
	gainSteps = 64
	// maxNormExponent switches the Lp norm to the max norm.
	maxNormExponent = 64
)

// DefaultArgs returns the parameter set a fresh profile starts from.
func DefaultArgs() model.AccelArgs {
	return model.AccelArgs{
		Acceleration:    0.005,
		ExponentClassic: 2,
		Offset:          0,
		Scale:           1,
		ExponentPower:   0.05,
		Limit:           1.5,
		DecayRate:       0.1,
		GrowthRate:      1,
		Motivity:        1.5,
		Midpoint:        5,
		Smooth:          0.5,
		Cap:             model.Vec2{X: 15, Y: 1.5},
		CapMode:         model.CapOutput,
	}
}

// DefaultSettings returns settings that leave movement untouched.
func DefaultSettings() model.DriverSettings {
	return model.DriverSettings{
		Sensitivity:       model.Vec2{X: 1, Y: 1},
		CombineMagnitudes: true,
		Mode:              model.ModeNoAccel,
		Args:              DefaultArgs(),
		MinimumTime:       DefaultMinimumTime,
		LpNorm:            2,
		Directional:       model.Vec2{X: 1, Y: 1},
		Domain:            model.Vec2{X: 1, Y: 1},
		Range:             model.Vec2{X: 1, Y: 1},
	}
}

// DefaultSpeedRange is the display domain used when none is configured.
func DefaultSpeedRange() model.SpeedRange {
	return model.SpeedRange{Min: 0, Max: 100, Count: 201}
}
