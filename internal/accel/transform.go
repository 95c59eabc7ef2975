package accel

import (
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// rotation caches the sine and cosine of an angle.
type rotation struct {
	cos float64
	sin float64
}

func newRotation(radians float64) rotation {
	if radians == 0 {
		return rotation{cos: 1}
	}
	return rotation{cos: math.Cos(radians), sin: math.Sin(radians)}
}

func (r rotation) apply(v model.Vec2) model.Vec2 {
	return model.Vec2{
		X: v.X*r.cos - v.Y*r.sin,
		Y: v.X*r.sin + v.Y*r.cos,
	}
}

func scale(v, sens model.Vec2) model.Vec2 {
	return model.Vec2{X: v.X * sens.X, Y: v.Y * sens.Y}
}

// Transform rotates raw by rotation radians and then scales each axis by
// sensitivity. The order matters whenever the two sensitivities differ.
func Transform(raw model.Vec2, rotation float64, sensitivity model.Vec2) model.Vec2 {
	return scale(newRotation(rotation).apply(raw), sensitivity)
}

// Snap moves v onto the nearest axis when its direction lies within angle
// radians of that axis. Magnitude is preserved.
func Snap(v model.Vec2, angle float64) model.Vec2 {
	if angle <= 0 || (v.X == 0 && v.Y == 0) {
		return v
	}
	theta := math.Atan2(math.Abs(v.Y), math.Abs(v.X))
	switch {
	case theta <= angle:
		return model.Vec2{X: math.Copysign(math.Hypot(v.X, v.Y), v.X)}
	case math.Pi/2-theta <= angle:
		return model.Vec2{Y: math.Copysign(math.Hypot(v.X, v.Y), v.Y)}
	}
	return v
}
