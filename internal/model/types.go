// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Vec2 is a pair of per-axis values.
type Vec2 struct {
	X float64
	Y float64
}

// Mode selects the acceleration curve family.
type Mode int

const (
	ModeNoAccel Mode = iota
	ModeLinear
	ModeClassic
	ModePower
	ModeNatural
	ModeJump
	ModeMotivity
	ModeLookup
)

var modeNames = []string{
	ModeNoAccel:  "noaccel",
	ModeLinear:   "linear",
	ModeClassic:  "classic",
	ModePower:    "power",
	ModeNatural:  "natural",
	ModeJump:     "jump",
	ModeMotivity: "motivity",
	ModeLookup:   "lut",
}

// Modes lists every known mode in display order.
func Modes() []Mode {
	out := make([]Mode, len(modeNames))
	for i := range modeNames {
		out[i] = Mode(i)
	}
	return out
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode resolves a mode name. "lookup" is accepted as an alias of "lut".
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "lookup" {
		return ModeLookup, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (available: %s)", name, strings.Join(modeNames, ", "))
}

// CapMode selects how the classic curve is capped.
type CapMode int

const (
	CapOutput CapMode = iota
	CapInput
	CapInOut
)

var capModeNames = []string{
	CapOutput: "output",
	CapInput:  "input",
	CapInOut:  "in_out",
}

func (c CapMode) String() string {
	if c < 0 || int(c) >= len(capModeNames) {
		return fmt.Sprintf("capmode(%d)", int(c))
	}
	return capModeNames[c]
}

// ParseCapMode resolves a cap mode name.
func ParseCapMode(name string) (CapMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range capModeNames {
		if n == name {
			return CapMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cap mode %q (available: %s)", name, strings.Join(capModeNames, ", "))
}

// Point is a lookup table anchor.
type Point struct {
	Speed      float64
	Multiplier float64
}

// AccelArgs holds the numeric parameters of every mode. Fields unused by
// the active mode are ignored.
type AccelArgs struct {
	Acceleration    float64
	ExponentClassic float64
	Offset          float64
	Scale           float64
	ExponentPower   float64
	Limit           float64
	DecayRate       float64
	GrowthRate      float64
	Motivity        float64
	Midpoint        float64
	Smooth          float64
	Cap             Vec2
	CapMode         CapMode
	Points          []Point
	// Gain makes the curve define the slope of output speed instead of
	// the multiplier.
	Gain bool
}

// DriverSettings is an immutable snapshot of everything the driver needs
// to evaluate a curve. Build a new value for every change.
type DriverSettings struct {
	Rotation          float64 // radians
	Sensitivity       Vec2
	CombineMagnitudes bool
	Mode              Mode
	Args              AccelArgs
	MinimumTime       float64
	MaximumTime       float64 // 0 disables the ceiling
	LpNorm            float64 // 0 selects the Euclidean norm
	Snap              float64 // radians, 0 disables
	Directional       Vec2    // multipliers for negative output, 0 leaves an axis unscaled
	SpeedCap          float64 // highest curve input speed, 0 disables
	Domain            Vec2    // combined mode: per-axis input speed stretch, 0 means 1
	Range             Vec2    // combined mode: horizontal and vertical accel weight, 0 means 1
	DPI               float64 // normalizes input to 1000 dpi, 0 disables
}

// Sample is one point of a calculated curve.
type Sample struct {
	Speed      float64
	Multiplier float64
	Velocity   float64
	Gain       float64
}

// AccelData is a sampled curve ready for rendering.
type AccelData struct {
	Combined bool
	Mode     Mode
	Samples  []Sample
}

// Labels returns axis labels for the data.
func (d AccelData) Labels() (x, y string) {
	if d.Combined {
		return "input speed", "multiplier (combined)"
	}
	return "input speed (per axis)", "multiplier (x = y)"
}

// Spacing selects how sample speeds are distributed over a range.
type Spacing int

const (
	SpacingLinear Spacing = iota
	SpacingDense
)

// SpeedRange describes the sampled speed domain.
type SpeedRange struct {
	Min     float64
	Max     float64
	Count   int
	Spacing Spacing
}

// Speeds expands the range into an ordered slice of sample speeds.
func (r SpeedRange) Speeds() []float64 {
	if r.Count <= 0 {
		return nil
	}
	if r.Count == 1 {
		return []float64{r.Min}
	}
	out := make([]float64, r.Count)
	span := r.Max - r.Min
	last := float64(r.Count - 1)
	for i := range out {
		t := float64(i) / last
		if r.Spacing == SpacingDense {
			t *= t
		}
		out[i] = r.Min + span*t
	}
	out[len(out)-1] = r.Max
	return out
}

// MotionReport is a single relative movement report.
type MotionReport struct {
	Delta    Vec2
	Interval float64
}

// ProfileRecord is a stored named profile.
type ProfileRecord struct {
	Name      string
	Mode      string
	Body      string
	UpdatedAt time.Time
}

// ApplyRecord logs a snapshot handed to the driver writer.
type ApplyRecord struct {
	ID        int64
	AppliedAt time.Time
	Profile   string
	Target    string
	Body      string
}
