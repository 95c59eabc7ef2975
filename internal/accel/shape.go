package accel

import (
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// shape is a curve together with the settings that bend its input and
// output: the speed cap and, in combined mode, the domain and range
// weights.
type shape struct {
	curve    Curve
	combine  bool
	lpNorm   float64
	speedCap float64
	domain   model.Vec2
	rng      model.Vec2
}

func newShape(s model.DriverSettings) (shape, error) {
	curve, err := NewCurve(s.Mode, s.Args)
	if err != nil {
		return shape{}, err
	}
	return shape{
		curve:    curve,
		combine:  s.CombineMagnitudes,
		lpNorm:   s.LpNorm,
		speedCap: s.SpeedCap,
		domain:   orOne(s.Domain),
		rng:      orOne(s.Range),
	}, nil
}

func orOne(v model.Vec2) model.Vec2 {
	if v.X == 0 {
		v.X = 1
	}
	if v.Y == 0 {
		v.Y = 1
	}
	return v
}

func (sh shape) capped(speed float64) float64 {
	if sh.speedCap > 0 && speed > sh.speedCap {
		speed = sh.speedCap
	}
	return sh.curve.Evaluate(speed)
}

// weighted scales the acceleration part of m by w.
func weighted(m, w float64) float64 {
	if w == 1 {
		return m
	}
	return 1 + (m-1)*w
}

// weight interpolates the range weights by the direction of v, from x for
// horizontal motion to y for vertical motion.
func (sh shape) weight(v model.Vec2) float64 {
	if sh.rng.X == sh.rng.Y || (v.X == 0 && v.Y == 0) {
		return sh.rng.X
	}
	theta := math.Atan2(math.Abs(v.Y), math.Abs(v.X))
	return sh.rng.X + (sh.rng.Y-sh.rng.X)*theta*2/math.Pi
}

// speed measures v over a gated interval.
func (sh shape) speed(v model.Vec2, interval float64) model.Vec2 {
	if sh.combine {
		v = model.Vec2{X: v.X * sh.domain.X, Y: v.Y * sh.domain.Y}
	}
	return SpeedOf(v, interval, sh.combine, sh.lpNorm)
}

// multipliers returns the per-axis multipliers for v moving at speed.
func (sh shape) multipliers(v, speed model.Vec2) model.Vec2 {
	if sh.combine {
		c := weighted(sh.capped(speed.X), sh.weight(v))
		return model.Vec2{X: c, Y: c}
	}
	return model.Vec2{X: sh.capped(speed.X), Y: sh.capped(speed.Y)}
}

// horizontal returns the multiplier for purely horizontal input at speed,
// which is what the sampled curve shows.
func (sh shape) horizontal(speed float64) float64 {
	if !sh.combine {
		return sh.capped(speed)
	}
	return weighted(sh.capped(speed*sh.domain.X), sh.rng.X)
}
