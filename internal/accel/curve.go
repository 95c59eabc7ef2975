// Package accel implements the acceleration curve engine: the curve
// families, the axis transform, the combine policy, the minimum time gate
// and the calculator that samples curves and modifies reports.
package accel

import (
	"fmt"
	"math"
	"sort"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// Curve maps an input speed to an output multiplier. A Curve holds no
// mutable state and is safe for concurrent use.
type Curve struct {
	mode model.Mode
	eval func(speed float64) float64
}

// Mode returns the curve family.
func (c Curve) Mode() model.Mode {
	return c.mode
}

// Evaluate returns the multiplier for speed. Negative speeds are treated
// as zero.
func (c Curve) Evaluate(speed float64) float64 {
	if speed < 0 || math.IsNaN(speed) {
		speed = 0
	}
	return c.eval(speed)
}

// NewCurve builds the curve for mode. It does not validate args; use
// Validate for that.
func NewCurve(mode model.Mode, args model.AccelArgs) (Curve, error) {
	var eval func(float64) float64
	switch mode {
	case model.ModeNoAccel:
		eval = noAccel
	case model.ModeLinear:
		eval = linear(args)
	case model.ModeClassic:
		eval = classic(args)
	case model.ModePower:
		eval = power(args)
	case model.ModeNatural:
		eval = natural(args)
	case model.ModeJump:
		eval = jump(args)
	case model.ModeMotivity:
		eval = motivity(args)
	case model.ModeLookup:
		eval = lookup(args.Points)
	default:
		return Curve{}, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
	if args.Gain && mode != model.ModeNoAccel {
		eval = fromGain(eval)
	}
	return Curve{mode: mode, eval: eval}, nil
}

// fromGain turns a gain curve into a multiplier curve. The multiplier at s
// is the mean gain over [0, s], so output speed s*m(s) has slope g(s).
func fromGain(g func(float64) float64) func(float64) float64 {
	return func(s float64) float64 {
		if s == 0 {
			return g(0)
		}
		h := s / gainSteps
		sum := g(0) + g(s)
		for i := 1; i < gainSteps; i++ {
			w := 2.0
			if i%2 == 1 {
				w = 4
			}
			sum += w * g(float64(i)*h)
		}
		return sum * h / 3 / s
	}
}

// BaseMultiplier returns the multiplier a mode yields at speed zero.
func BaseMultiplier(mode model.Mode, args model.AccelArgs) (float64, error) {
	c, err := NewCurve(mode, args)
	if err != nil {
		return 0, err
	}
	return c.Evaluate(0), nil
}

func noAccel(float64) float64 {
	return 1
}

func linear(args model.AccelArgs) func(float64) float64 {
	a := args.Acceleration
	return func(s float64) float64 {
		return 1 + a*s
	}
}

func classic(args model.AccelArgs) func(float64) float64 {
	a := args.Acceleration
	exp := args.ExponentClassic
	offset := args.Offset
	inCap := math.Inf(1)
	outCap := math.Inf(1)

	switch args.CapMode {
	case model.CapOutput:
		if args.Cap.Y > 0 {
			outCap = args.Cap.Y
		}
	case model.CapInput:
		if args.Cap.X > 0 {
			inCap = args.Cap.X
		}
	case model.CapInOut:
		// Pass through (Cap.X, Cap.Y) and hold Cap.Y beyond it.
		inCap = args.Cap.X
		a = (args.Cap.Y - 1) / math.Pow(args.Cap.X-offset, exp)
	}

	return func(s float64) float64 {
		if s > inCap {
			s = inCap
		}
		if s <= offset {
			return 1
		}
		m := 1 + a*math.Pow(s-offset, exp)
		if m > outCap {
			return outCap
		}
		return m
	}
}

func power(args model.AccelArgs) func(float64) float64 {
	scale := args.Scale
	exp := args.ExponentPower
	offset := args.Offset
	outCap := math.Inf(1)
	if args.Cap.Y > 0 {
		outCap = args.Cap.Y
	}
	return func(s float64) float64 {
		if s == 0 {
			return offset
		}
		m := offset + math.Pow(scale*s, exp)
		if m > outCap {
			return outCap
		}
		return m
	}
}

func natural(args model.AccelArgs) func(float64) float64 {
	limit := args.Limit
	decay := args.DecayRate
	offset := args.Offset
	return func(s float64) float64 {
		if s <= offset {
			return 1
		}
		return limit - (limit-1)*math.Exp(-decay*(s-offset))
	}
}

func jump(args model.AccelArgs) func(float64) float64 {
	threshold := args.Cap.X
	target := args.Cap.Y
	lo := threshold * (1 - args.Smooth)
	hi := threshold * (1 + args.Smooth)
	return func(s float64) float64 {
		switch {
		case s < lo:
			return 1
		case s >= hi:
			return target
		}
		// Smooth == 0 collapses the window and is handled above.
		u := (s - lo) / (hi - lo)
		return 1 + (target-1)*smoothstep(u)
	}
}

func smoothstep(u float64) float64 {
	return u * u * (3 - 2*u)
}

func motivity(args model.AccelArgs) func(float64) float64 {
	logMotivity := math.Log(args.Motivity)
	logMidpoint := math.Log(args.Midpoint)
	growth := args.GrowthRate
	base := 1 / args.Motivity
	return func(s float64) float64 {
		if s == 0 {
			return base
		}
		return math.Exp(2*logMotivity/(1+math.Exp(growth*(logMidpoint-math.Log(s)))) - logMotivity)
	}
}

func lookup(points []model.Point) func(float64) float64 {
	pts := make([]model.Point, len(points))
	copy(pts, points)
	return func(s float64) float64 {
		n := len(pts)
		if n == 0 {
			return 1
		}
		if s <= pts[0].Speed {
			return pts[0].Multiplier
		}
		if s >= pts[n-1].Speed {
			return pts[n-1].Multiplier
		}
		i := sort.Search(n, func(i int) bool { return pts[i].Speed > s })
		a, b := pts[i-1], pts[i]
		t := (s - a.Speed) / (b.Speed - a.Speed)
		return a.Multiplier + (b.Multiplier-a.Multiplier)*t
	}
}
