package motion

import (
	"math"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// Modifier transforms raw reports into output motion.
type Modifier interface {
	Modify(raw model.Vec2, interval float64) model.Vec2
	Multiplier(raw model.Vec2, interval float64) model.Vec2
	Speed(raw model.Vec2, interval float64) model.Vec2
}

// Stats summarizes a replayed report stream.
type Stats struct {
	Reports       int
	Duration      float64
	InDistance    float64
	OutDistance   float64
	PeakSpeed     float64
	MinMultiplier float64
	MaxMultiplier float64
	Output        model.Vec2
}

// Ratio is output distance over input distance.
func (s Stats) Ratio() float64 {
	if s.InDistance == 0 {
		return 0
	}
	return s.OutDistance / s.InDistance
}

// Replay pushes reports through m in order and accumulates the result.
// Multiplier bounds ignore reports with no motion.
func Replay(m Modifier, reports []model.MotionReport) Stats {
	st := Stats{MinMultiplier: math.Inf(1), MaxMultiplier: math.Inf(-1)}
	for _, r := range reports {
		st.Reports++
		st.Duration += r.Interval
		out := m.Modify(r.Delta, r.Interval)
		st.Output.X += out.X
		st.Output.Y += out.Y
		st.InDistance += math.Hypot(r.Delta.X, r.Delta.Y)
		st.OutDistance += math.Hypot(out.X, out.Y)

		if r.Delta == (model.Vec2{}) {
			continue
		}
		speed := m.Speed(r.Delta, r.Interval)
		st.PeakSpeed = math.Max(st.PeakSpeed, math.Max(speed.X, speed.Y))
		k := m.Multiplier(r.Delta, r.Interval)
		st.MinMultiplier = math.Min(st.MinMultiplier, math.Min(k.X, k.Y))
		st.MaxMultiplier = math.Max(st.MaxMultiplier, math.Max(k.X, k.Y))
	}
	if math.IsInf(st.MinMultiplier, 1) {
		st.MinMultiplier, st.MaxMultiplier = 0, 0
	}
	return st
}
