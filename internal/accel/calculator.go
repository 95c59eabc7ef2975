package accel

import (
	"fmt"
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// Calculate validates settings and samples the active curve over domain.
// The whole sample set is built before returning; on error no samples are
// returned.
func Calculate(settings model.DriverSettings, domain model.SpeedRange) (model.AccelData, error) {
	if domain.Count <= 0 || domain.Count > MaxSamples {
		return model.AccelData{}, fmt.Errorf("%w: sample count must be between 1 and %d (got %d)", ErrInvalidParameter, MaxSamples, domain.Count)
	}
	if math.IsNaN(domain.Min) || math.IsInf(domain.Min, 0) || math.IsNaN(domain.Max) || math.IsInf(domain.Max, 0) {
		return model.AccelData{}, fmt.Errorf("%w: speed range must be finite", ErrInvalidParameter)
	}
	if domain.Min < 0 || domain.Max < domain.Min {
		return model.AccelData{}, fmt.Errorf("%w: speed range must satisfy 0 <= min <= max (got %g..%g)", ErrInvalidParameter, domain.Min, domain.Max)
	}
	return CalculateAt(settings, domain.Speeds())
}

// CalculateAt validates settings and evaluates the active curve at each of
// the given speeds, which must be non-negative and ascending. In combined
// mode the samples describe horizontal input.
func CalculateAt(settings model.DriverSettings, speeds []float64) (model.AccelData, error) {
	if len(speeds) > MaxSamples {
		return model.AccelData{}, fmt.Errorf("%w: at most %d sample speeds (got %d)", ErrInvalidParameter, MaxSamples, len(speeds))
	}
	if err := Validate(settings); err != nil {
		return model.AccelData{}, err
	}
	sh, err := newShape(settings)
	if err != nil {
		return model.AccelData{}, err
	}
	for i, s := range speeds {
		if s < 0 || math.IsNaN(s) || (i > 0 && s < speeds[i-1]) {
			return model.AccelData{}, fmt.Errorf("%w: sample speeds must be non-negative and ascending", ErrInvalidParameter)
		}
	}

	samples := make([]model.Sample, len(speeds))
	for i, s := range speeds {
		m := sh.horizontal(s)
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return model.AccelData{}, fmt.Errorf("%w: %v curve at speed %g", ErrNumericInstability, settings.Mode, s)
		}
		samples[i] = model.Sample{Speed: s, Multiplier: m, Velocity: s * m}
	}
	fillGain(samples)

	return model.AccelData{
		Combined: settings.CombineMagnitudes,
		Mode:     settings.Mode,
		Samples:  samples,
	}, nil
}

// fillGain sets each sample's gain to the slope of velocity from the
// previous sample. The first sample, and repeated speeds, reuse the
// multiplier.
func fillGain(samples []model.Sample) {
	for i := range samples {
		if i == 0 {
			samples[i].Gain = samples[i].Multiplier
			continue
		}
		prev := samples[i-1]
		ds := samples[i].Speed - prev.Speed
		if ds <= 0 {
			samples[i].Gain = prev.Gain
			continue
		}
		samples[i].Gain = (samples[i].Velocity - prev.Velocity) / ds
	}
}

// Modifier applies a validated snapshot to individual motion reports, the
// same way the driver does. It is immutable and safe for concurrent use.
type Modifier struct {
	settings model.DriverSettings
	shape    shape
	rot      rotation
	norm     float64
}

// NewModifier validates settings and prepares the report pipeline.
func NewModifier(settings model.DriverSettings) (*Modifier, error) {
	if err := Validate(settings); err != nil {
		return nil, err
	}
	sh, err := newShape(settings)
	if err != nil {
		return nil, err
	}
	norm := 1.0
	if settings.DPI > 0 {
		norm = normalDPI / settings.DPI
	}
	return &Modifier{
		settings: settings,
		shape:    sh,
		rot:      newRotation(settings.Rotation),
		norm:     norm,
	}, nil
}

// Modify returns the output delta for a raw report that arrived interval
// time units after the previous one.
func (m *Modifier) Modify(raw model.Vec2, interval float64) model.Vec2 {
	v, k := m.evaluate(raw, interval)
	v.X *= k.X
	v.Y *= k.Y

	d := m.settings.Directional
	if v.X < 0 && d.X > 0 {
		v.X *= d.X
	}
	if v.Y < 0 && d.Y > 0 {
		v.Y *= d.Y
	}
	return v
}

// Multiplier returns the per-axis multiplier Modify would apply to raw.
func (m *Modifier) Multiplier(raw model.Vec2, interval float64) model.Vec2 {
	_, k := m.evaluate(raw, interval)
	return k
}

// Speed returns the curve input speed for raw before the speed cap. In
// combined mode both components hold the same value.
func (m *Modifier) Speed(raw model.Vec2, interval float64) model.Vec2 {
	_, speed := m.transform(raw, interval)
	return speed
}

// transform gates the interval and returns the transformed vector with its
// speed. The order is rotate, snap, sensitivity, dpi.
func (m *Modifier) transform(raw model.Vec2, interval float64) (v, speed model.Vec2) {
	s := m.settings
	t := ClampInterval(interval, s.MinimumTime, s.MaximumTime)
	v = scale(Snap(m.rot.apply(raw), s.Snap), s.Sensitivity)
	if m.norm != 1 {
		v = model.Vec2{X: v.X * m.norm, Y: v.Y * m.norm}
	}
	return v, m.shape.speed(v, t)
}

// evaluate looks up the per-axis multipliers for the transformed vector.
func (m *Modifier) evaluate(raw model.Vec2, interval float64) (v, k model.Vec2) {
	v, speed := m.transform(raw, interval)
	return v, m.shape.multipliers(v, speed)
}
