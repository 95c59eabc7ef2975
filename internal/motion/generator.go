// Package motion builds synthetic pointer motion for previews and replay.
package motion

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/accelcurve/internal/model"
)

// Options shapes generated motion.
type Options struct {
	// RateHz is the report rate; intervals are reported in milliseconds.
	RateHz float64
	// MaxCounts is the peak per-report displacement of a swipe.
	MaxCounts float64
	// Jitter is the relative interval noise, 0 for a perfectly steady rate.
	Jitter float64
}

// DefaultOptions approximates a 1000 Hz mouse.
func DefaultOptions() Options {
	return Options{RateHz: 1000, MaxCounts: 40, Jitter: 0.05}
}

type heading struct {
	angle  float64
	weight float64
}

// Horizontal swipes dominate real desk use.
var headings = []heading{
	{angle: 0, weight: 4},
	{angle: math.Pi, weight: 4},
	{angle: math.Pi / 2, weight: 2},
	{angle: -math.Pi / 2, weight: 2},
	{angle: math.Pi / 4, weight: 1},
	{angle: 3 * math.Pi / 4, weight: 1},
	{angle: -math.Pi / 4, weight: 1},
	{angle: -3 * math.Pi / 4, weight: 1},
}

// Generator produces motion reports.
type Generator struct {
	rnd  *rand.Rand
	opts Options
}

// New returns a Generator seeded with the current time.
func New(opts Options) *Generator {
	return NewSeeded(time.Now().UnixNano(), opts)
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(seed int64, opts Options) *Generator {
	def := DefaultOptions()
	if opts.RateHz <= 0 {
		opts.RateHz = def.RateHz
	}
	if opts.MaxCounts <= 0 {
		opts.MaxCounts = def.MaxCounts
	}
	if opts.Jitter < 0 {
		opts.Jitter = 0
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), opts: opts}
}

// Swipe returns n reports of one stroke: speed ramps up and back down along
// a heading picked with a bias toward the horizontal axis. Deltas are whole
// counts, as a sensor reports them.
func (g *Generator) Swipe(n int) []model.MotionReport {
	if n <= 0 {
		return nil
	}
	angle := g.pickHeading() + (g.rnd.Float64()-0.5)*0.2
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	base := 1000 / g.opts.RateHz

	reports := make([]model.MotionReport, 0, n)
	var carryX, carryY float64
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) / float64(n)
		// sin^2 bell, zero at both ends of the stroke.
		profile := math.Sin(math.Pi * t)
		counts := g.opts.MaxCounts * profile * profile
		x := counts*dirX + carryX
		y := counts*dirY + carryY
		rx, ry := math.Round(x), math.Round(y)
		carryX, carryY = x-rx, y-ry
		interval := base * (1 + g.opts.Jitter*(2*g.rnd.Float64()-1))
		reports = append(reports, model.MotionReport{
			Delta:    model.Vec2{X: rx, Y: ry},
			Interval: interval,
		})
	}
	return reports
}

// Session returns count swipes of random length between minLen and maxLen.
func (g *Generator) Session(count, minLen, maxLen int) []model.MotionReport {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	var out []model.MotionReport
	for i := 0; i < count; i++ {
		n := minLen + g.rnd.Intn(maxLen-minLen+1)
		out = append(out, g.Swipe(n)...)
	}
	return out
}

func (g *Generator) pickHeading() float64 {
	total := 0.0
	for _, h := range headings {
		total += h.weight
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for _, h := range headings {
		acc += h.weight
		if r <= acc {
			return h.angle
		}
	}
	return headings[len(headings)-1].angle
}
