// Package profile converts driver settings to and from profile files.
package profile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/model"
)

// File is the on-disk profile layout. Angles are stored in degrees.
type File struct {
	Name              string  `toml:"name" yaml:"name"`
	CombineMagnitudes bool    `toml:"combine-magnitudes" yaml:"combine-magnitudes"`
	Rotation          float64 `toml:"rotation" yaml:"rotation"`
	Snap              float64 `toml:"snap" yaml:"snap"`
	Sensitivity       Vec2    `toml:"sensitivity" yaml:"sensitivity"`
	MinimumTime       float64 `toml:"minimum-time" yaml:"minimum-time"`
	MaximumTime       float64 `toml:"maximum-time" yaml:"maximum-time"`
	LpNorm            float64 `toml:"lp-norm" yaml:"lp-norm"`
	Directional       Vec2    `toml:"directional" yaml:"directional"`
	SpeedCap          float64 `toml:"speed-cap" yaml:"speed-cap"`
	Domain            Vec2    `toml:"domain" yaml:"domain"`
	Range             Vec2    `toml:"range" yaml:"range"`
	DPI               float64 `toml:"dpi" yaml:"dpi"`
	Args              Args    `toml:"args" yaml:"args"`
}

// Vec2 is a per-axis pair.
type Vec2 struct {
	X float64 `toml:"x" yaml:"x"`
	Y float64 `toml:"y" yaml:"y"`
}

// Args holds mode parameters.
type Args struct {
	Mode            string  `toml:"mode" yaml:"mode"`
	Gain            bool    `toml:"gain" yaml:"gain"`
	Acceleration    float64 `toml:"acceleration" yaml:"acceleration"`
	ExponentClassic float64 `toml:"exponent-classic" yaml:"exponent-classic"`
	Offset          float64 `toml:"offset" yaml:"offset"`
	Scale           float64 `toml:"scale" yaml:"scale"`
	ExponentPower   float64 `toml:"exponent-power" yaml:"exponent-power"`
	Limit           float64 `toml:"limit" yaml:"limit"`
	DecayRate       float64 `toml:"decay-rate" yaml:"decay-rate"`
	GrowthRate      float64 `toml:"growth-rate" yaml:"growth-rate"`
	Motivity        float64 `toml:"motivity" yaml:"motivity"`
	Midpoint        float64 `toml:"midpoint" yaml:"midpoint"`
	Smooth          float64 `toml:"smooth" yaml:"smooth"`
	Cap             Vec2    `toml:"cap" yaml:"cap"`
	CapMode         string  `toml:"cap-mode" yaml:"cap-mode"`
	Points          []Point `toml:"points,omitempty" yaml:"points,omitempty"`
}

// Point is a lookup table anchor.
type Point struct {
	Speed      float64 `toml:"speed" yaml:"speed"`
	Multiplier float64 `toml:"multiplier" yaml:"multiplier"`
}

// Default returns the profile a fresh install starts from.
func Default() File {
	return FromSettings("default", accel.DefaultSettings())
}

// FromSettings converts a snapshot into its file layout.
func FromSettings(name string, s model.DriverSettings) File {
	a := s.Args
	f := File{
		Name:              name,
		CombineMagnitudes: s.CombineMagnitudes,
		Rotation:          toDegrees(s.Rotation),
		Snap:              toDegrees(s.Snap),
		Sensitivity:       Vec2{X: s.Sensitivity.X, Y: s.Sensitivity.Y},
		MinimumTime:       s.MinimumTime,
		MaximumTime:       s.MaximumTime,
		LpNorm:            s.LpNorm,
		Directional:       Vec2{X: s.Directional.X, Y: s.Directional.Y},
		SpeedCap:          s.SpeedCap,
		Domain:            Vec2{X: s.Domain.X, Y: s.Domain.Y},
		Range:             Vec2{X: s.Range.X, Y: s.Range.Y},
		DPI:               s.DPI,
		Args: Args{
			Mode:            s.Mode.String(),
			Gain:            a.Gain,
			Acceleration:    a.Acceleration,
			ExponentClassic: a.ExponentClassic,
			Offset:          a.Offset,
			Scale:           a.Scale,
			ExponentPower:   a.ExponentPower,
			Limit:           a.Limit,
			DecayRate:       a.DecayRate,
			GrowthRate:      a.GrowthRate,
			Motivity:        a.Motivity,
			Midpoint:        a.Midpoint,
			Smooth:          a.Smooth,
			Cap:             Vec2{X: a.Cap.X, Y: a.Cap.Y},
			CapMode:         a.CapMode.String(),
		},
	}
	for _, p := range a.Points {
		f.Args.Points = append(f.Args.Points, Point{Speed: p.Speed, Multiplier: p.Multiplier})
	}
	return f
}

// Settings converts the file layout into a snapshot. It resolves names but
// does not validate values; see accel.Validate.
func (f File) Settings() (model.DriverSettings, error) {
	mode, err := model.ParseMode(f.Args.Mode)
	if err != nil {
		return model.DriverSettings{}, fmt.Errorf("%w: %v", accel.ErrUnsupportedMode, err)
	}
	capMode := model.CapOutput
	if f.Args.CapMode != "" {
		capMode, err = model.ParseCapMode(f.Args.CapMode)
		if err != nil {
			return model.DriverSettings{}, fmt.Errorf("%w: %v", accel.ErrInvalidParameter, err)
		}
	}
	a := f.Args
	s := model.DriverSettings{
		Rotation:          toRadians(f.Rotation),
		Snap:              toRadians(f.Snap),
		Sensitivity:       model.Vec2{X: f.Sensitivity.X, Y: f.Sensitivity.Y},
		CombineMagnitudes: f.CombineMagnitudes,
		Mode:              mode,
		MinimumTime:       f.MinimumTime,
		MaximumTime:       f.MaximumTime,
		LpNorm:            f.LpNorm,
		Directional:       model.Vec2{X: f.Directional.X, Y: f.Directional.Y},
		SpeedCap:          f.SpeedCap,
		Domain:            model.Vec2{X: f.Domain.X, Y: f.Domain.Y},
		Range:             model.Vec2{X: f.Range.X, Y: f.Range.Y},
		DPI:               f.DPI,
		Args: model.AccelArgs{
			Acceleration:    a.Acceleration,
			ExponentClassic: a.ExponentClassic,
			Offset:          a.Offset,
			Scale:           a.Scale,
			ExponentPower:   a.ExponentPower,
			Limit:           a.Limit,
			DecayRate:       a.DecayRate,
			GrowthRate:      a.GrowthRate,
			Motivity:        a.Motivity,
			Midpoint:        a.Midpoint,
			Smooth:          a.Smooth,
			Cap:             model.Vec2{X: a.Cap.X, Y: a.Cap.Y},
			CapMode:         capMode,
			Gain:            a.Gain,
		},
	}
	for _, p := range a.Points {
		s.Args.Points = append(s.Args.Points, model.Point{Speed: p.Speed, Multiplier: p.Multiplier})
	}
	return s, nil
}

// Decode reads a TOML profile. Keys missing from the input keep their
// default values; unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	f := Default()
	f.Args.Points = nil
	meta, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("%w: unknown profile key %q", accel.ErrInvalidParameter, undecoded[0].String())
	}
	return f, nil
}

// DecodeString is Decode for an in-memory profile body.
func DecodeString(body string) (File, error) {
	return Decode(bytes.NewBufferString(body))
}

// Load reads a TOML profile from path.
func Load(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only profile.
			_ = cerr
		}
	}()
	return Decode(file)
}

// Encode writes f as TOML.
func (f File) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return nil
}

// EncodeYAML writes f as YAML.
func (f File) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush profile: %w", err)
	}
	return nil
}

// String returns the TOML body of f.
func (f File) String() string {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Save writes f to path through a temp file and rename.
func Save(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "profile-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp profile: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := f.Encode(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close profile: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
