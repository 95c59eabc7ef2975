package accel

import (
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// Magnitude returns the Lp norm of v. p == 0 and p == 2 select the
// Euclidean norm; p >= 64 selects the max norm.
func Magnitude(v model.Vec2, p float64) float64 {
	x, y := math.Abs(v.X), math.Abs(v.Y)
	switch {
	case p == 0 || p == 2:
		return math.Hypot(x, y)
	case p == 1:
		return x + y
	case p >= maxNormExponent:
		return math.Max(x, y)
	}
	return math.Pow(math.Pow(x, p)+math.Pow(y, p), 1/p)
}

// SpeedOf turns an axis-transformed delta into speeds. With combine set
// both components carry the shared magnitude; otherwise each axis is
// measured on its own. interval must already be gated.
func SpeedOf(delta model.Vec2, interval float64, combine bool, lpNorm float64) model.Vec2 {
	if combine {
		s := Magnitude(delta, lpNorm) / interval
		return model.Vec2{X: s, Y: s}
	}
	return model.Vec2{
		X: math.Abs(delta.X) / interval,
		Y: math.Abs(delta.Y) / interval,
	}
}
