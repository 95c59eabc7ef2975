package accel

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/accelcurve/internal/model"
)

const eps = 1e-12

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func mustCurve(t *testing.T, mode model.Mode, args model.AccelArgs) Curve {
	t.Helper()
	c, err := NewCurve(mode, args)
	if err != nil {
		t.Fatalf("NewCurve(%v): %v", mode, err)
	}
	return c
}

func TestBaseMultiplierAtZero(t *testing.T) {
	args := DefaultArgs()
	args.Offset = 0
	args.Points = []model.Point{{Speed: 0, Multiplier: 0.8}, {Speed: 10, Multiplier: 2}}
	cases := []struct {
		mode model.Mode
		want float64
	}{
		{model.ModeNoAccel, 1},
		{model.ModeLinear, 1},
		{model.ModeClassic, 1},
		{model.ModePower, 0},
		{model.ModeNatural, 1},
		{model.ModeJump, 1},
		{model.ModeMotivity, 1 / args.Motivity},
		{model.ModeLookup, 0.8},
	}
	for _, tc := range cases {
		got, err := BaseMultiplier(tc.mode, args)
		if err != nil {
			t.Fatalf("%v: %v", tc.mode, err)
		}
		if !approx(got, tc.want) {
			t.Fatalf("%v: expected base %v, got %v", tc.mode, tc.want, got)
		}
	}
}

func TestClassicSubLinearExponentAtZero(t *testing.T) {
	args := DefaultArgs()
	args.ExponentClassic = 0.5
	args.Cap = model.Vec2{}
	c := mustCurve(t, model.ModeClassic, args)
	if got := c.Evaluate(0); got != 1 {
		t.Fatalf("expected 1 at speed 0, got %v", got)
	}
	if got := c.Evaluate(4); !approx(got, 1+args.Acceleration*2) {
		t.Fatalf("unexpected classic value %v", got)
	}
}

func TestMonotonicLinearAndClassic(t *testing.T) {
	args := DefaultArgs()
	args.Acceleration = 0.02
	args.Cap = model.Vec2{}
	for _, mode := range []model.Mode{model.ModeLinear, model.ModeClassic} {
		c := mustCurve(t, mode, args)
		prev := c.Evaluate(0)
		for s := 0.5; s <= 200; s += 0.5 {
			v := c.Evaluate(s)
			if v < prev {
				t.Fatalf("%v decreased at speed %v: %v < %v", mode, s, v, prev)
			}
			prev = v
		}
	}
}

func TestClassicCaps(t *testing.T) {
	args := DefaultArgs()
	args.Acceleration = 0.01
	args.ExponentClassic = 2

	args.CapMode = model.CapOutput
	args.Cap = model.Vec2{Y: 2}
	out := mustCurve(t, model.ModeClassic, args)
	if got := out.Evaluate(100); got != 2 {
		t.Fatalf("output cap: expected 2, got %v", got)
	}

	args.CapMode = model.CapInput
	args.Cap = model.Vec2{X: 5}
	in := mustCurve(t, model.ModeClassic, args)
	if got, want := in.Evaluate(50), in.Evaluate(5); got != want {
		t.Fatalf("input cap: expected %v, got %v", want, got)
	}

	args.CapMode = model.CapInOut
	args.Cap = model.Vec2{X: 20, Y: 3}
	both := mustCurve(t, model.ModeClassic, args)
	if got := both.Evaluate(20); !approx(got, 3) {
		t.Fatalf("in/out cap: expected 3 at cap input, got %v", got)
	}
	if got := both.Evaluate(80); !approx(got, 3) {
		t.Fatalf("in/out cap: expected 3 beyond cap input, got %v", got)
	}
}

func TestNaturalApproachesLimit(t *testing.T) {
	args := DefaultArgs()
	args.Limit = 2
	args.DecayRate = 0.5
	c := mustCurve(t, model.ModeNatural, args)
	if got := c.Evaluate(1000); !approx(got, 2) {
		t.Fatalf("expected limit 2, got %v", got)
	}
	if got := c.Evaluate(1); got <= 1 || got >= 2 {
		t.Fatalf("expected value inside (1, 2), got %v", got)
	}
}

func TestJumpBlend(t *testing.T) {
	args := DefaultArgs()
	args.Cap = model.Vec2{X: 10, Y: 2}
	args.Smooth = 0.2
	c := mustCurve(t, model.ModeJump, args)
	if got := c.Evaluate(7.9); got != 1 {
		t.Fatalf("expected 1 below window, got %v", got)
	}
	if got := c.Evaluate(12); got != 2 {
		t.Fatalf("expected 2 above window, got %v", got)
	}
	if got := c.Evaluate(10); !approx(got, 1.5) {
		t.Fatalf("expected midpoint 1.5 at threshold, got %v", got)
	}
	prev := 1.0
	for s := 8.0; s <= 12; s += 0.05 {
		v := c.Evaluate(s)
		if v < prev {
			t.Fatalf("jump blend decreased at %v", s)
		}
		prev = v
	}

	args.Smooth = 0
	hard := mustCurve(t, model.ModeJump, args)
	if hard.Evaluate(9.999) != 1 || hard.Evaluate(10) != 2 {
		t.Fatalf("expected hard step at threshold")
	}
}

func TestMotivityMidpoint(t *testing.T) {
	args := DefaultArgs()
	args.Motivity = 2
	args.Midpoint = 8
	c := mustCurve(t, model.ModeMotivity, args)
	if got := c.Evaluate(8); !approx(got, 1) {
		t.Fatalf("expected 1 at midpoint, got %v", got)
	}
	if got := c.Evaluate(1e9); math.Abs(got-2) > 1e-6 {
		t.Fatalf("expected motivity 2 at high speed, got %v", got)
	}
}

func TestPowerCurve(t *testing.T) {
	args := DefaultArgs()
	args.Scale = 0.5
	args.ExponentPower = 0.5
	args.Offset = 0.25
	args.Cap = model.Vec2{}
	c := mustCurve(t, model.ModePower, args)
	if got := c.Evaluate(8); !approx(got, 2.25) {
		t.Fatalf("expected 2.25, got %v", got)
	}
	args.Cap = model.Vec2{Y: 1.5}
	capped := mustCurve(t, model.ModePower, args)
	if got := capped.Evaluate(8); got != 1.5 {
		t.Fatalf("expected capped 1.5, got %v", got)
	}
}

func TestLookupInterpolation(t *testing.T) {
	args := model.AccelArgs{Points: []model.Point{{Speed: 0, Multiplier: 1}, {Speed: 10, Multiplier: 2}}}
	c := mustCurve(t, model.ModeLookup, args)
	if got := c.Evaluate(5); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := c.Evaluate(20); got != 2 {
		t.Fatalf("expected clamped 2, got %v", got)
	}

	args.Points = []model.Point{{Speed: 2, Multiplier: 1.2}, {Speed: 4, Multiplier: 1.6}, {Speed: 8, Multiplier: 1.4}}
	c = mustCurve(t, model.ModeLookup, args)
	if got := c.Evaluate(1); got != 1.2 {
		t.Fatalf("expected clamp to first anchor, got %v", got)
	}
	if got := c.Evaluate(6); !approx(got, 1.5) {
		t.Fatalf("expected 1.5 between later anchors, got %v", got)
	}
}

func TestLookupCopiesPoints(t *testing.T) {
	points := []model.Point{{Speed: 0, Multiplier: 1}, {Speed: 10, Multiplier: 2}}
	c := mustCurve(t, model.ModeLookup, model.AccelArgs{Points: points})
	points[1].Multiplier = 5
	if got := c.Evaluate(10); got != 2 {
		t.Fatalf("curve changed after caller mutated points: %v", got)
	}
}

func TestUnsupportedMode(t *testing.T) {
	_, err := NewCurve(model.Mode(99), DefaultArgs())
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}

func TestNegativeSpeedTreatedAsZero(t *testing.T) {
	args := DefaultArgs()
	args.Acceleration = 0.1
	c := mustCurve(t, model.ModeLinear, args)
	if got := c.Evaluate(-5); got != 1 {
		t.Fatalf("expected base multiplier for negative speed, got %v", got)
	}
}

func TestGainCurves(t *testing.T) {
	args := DefaultArgs()
	args.Acceleration = 0.01
	args.Gain = true
	// Gain 1 + 0.01 s averages to 1 + 0.005 s.
	lin := mustCurve(t, model.ModeLinear, args)
	if got := lin.Evaluate(20); !approx(got, 1.1) {
		t.Fatalf("linear gain: expected 1.1, got %v", got)
	}
	if got := lin.Evaluate(0); got != 1 {
		t.Fatalf("linear gain: expected 1 at zero, got %v", got)
	}

	args.Acceleration = 0.003
	args.ExponentClassic = 2
	args.Offset = 0
	args.Cap = model.Vec2{}
	// Gain 1 + 0.003 s^2 averages to 1 + 0.001 s^2.
	classicGain := mustCurve(t, model.ModeClassic, args)
	if got := classicGain.Evaluate(10); !approx(got, 1.1) {
		t.Fatalf("classic gain: expected 1.1, got %v", got)
	}

	noAccelGain := mustCurve(t, model.ModeNoAccel, args)
	if got := noAccelGain.Evaluate(50); got != 1 {
		t.Fatalf("noaccel gain: expected 1, got %v", got)
	}
}
