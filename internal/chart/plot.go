package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named curve over a shared x axis.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Options controls plot layout.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	// Width is the plot area in cells; 0 fits the terminal.
	Width int
	// Height is the plot area in rows; 0 uses DefaultHeight.
	Height int
	// ForceColor enables ANSI colors even when w is not a terminal.
	ForceColor bool
	// Marker draws a vertical guide at this x value when it is in range.
	Marker *float64
}

const (
	DefaultHeight  = 12
	minWidth       = 10
	fallbackWidth  = 80
	axisSeparator  = " ┤"
	colorReset     = "\x1b[0m"
	markerRune     = '│'
	emptyBrailleCP = 0x2800
)

var palette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// ErrNoData is returned when no series has a drawable point.
var ErrNoData = errors.New("no data to plot")

type bounds struct {
	xMin, xMax float64
	yMin, yMax float64
}

// Plot renders series as an overlaid braille plot with value labels on both
// axes. All series share one y scale.
func Plot(w io.Writer, series []Series, opts Options) error {
	series = drawable(series)
	if len(series) == 0 {
		return ErrNoData
	}
	b := dataBounds(series)
	yLabels := axisLabels(b, opts.heightOrDefault())
	labelWidth := 0
	for _, l := range yLabels {
		if lw := runewidth.StringWidth(l); lw > labelWidth {
			labelWidth = lw
		}
	}
	width := opts.Width
	if width <= 0 {
		width = WidthFor(terminalWidth(w), labelWidth)
	}
	if width < minWidth {
		width = minWidth
	}
	height := opts.heightOrDefault()

	c := newCanvas(width, height, len(series))
	for si, s := range series {
		d := dashes[si%len(dashes)]
		prevX, prevY := -1, -1
		for i := range s.X {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				prevX = -1
				continue
			}
			px := scaleTo(s.X[i], b.xMin, b.xMax, c.dotsX())
			py := c.dotsY() - 1 - scaleTo(s.Y[i], b.yMin, b.yMax, c.dotsY())
			if prevX >= 0 {
				c.line(si, prevX, prevY, px, py, d)
			} else {
				c.set(si, px, py)
			}
			prevX, prevY = px, py
		}
	}

	markerCol := -1
	if opts.Marker != nil && *opts.Marker >= b.xMin && *opts.Marker <= b.xMax {
		markerCol = scaleTo(*opts.Marker, b.xMin, b.xMax, c.dotsX()) / 2
	}

	useColor := colorEnabled(w, opts.ForceColor)
	var out strings.Builder
	if opts.Title != "" {
		out.WriteString(opts.Title)
		out.WriteByte('\n')
	}
	if opts.YLabel != "" {
		out.WriteString(opts.YLabel)
		out.WriteByte('\n')
	}
	for row := 0; row < height; row++ {
		out.WriteString(padLeft(yLabels[row], labelWidth))
		out.WriteString(axisSeparator)
		for col := 0; col < width; col++ {
			ch, layer := c.cell(col, row)
			if layer < 0 && col == markerCol {
				out.WriteRune(markerRune)
				continue
			}
			if ch == emptyBrailleCP {
				out.WriteRune(' ')
				continue
			}
			if useColor && layer >= 0 {
				out.WriteString(palette[layer%len(palette)])
				out.WriteRune(ch)
				out.WriteString(colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(strings.Repeat(" ", labelWidth+1))
	out.WriteString("└")
	out.WriteString(strings.Repeat("─", width))
	out.WriteByte('\n')
	out.WriteString(xAxisLine(b, labelWidth+2, width, opts.XLabel))
	out.WriteByte('\n')
	out.WriteString(legend(series, useColor))
	out.WriteByte('\n')

	_, err := io.WriteString(w, out.String())
	return err
}

func (o Options) heightOrDefault() int {
	if o.Height <= 0 {
		return DefaultHeight
	}
	return o.Height
}

// WidthFor returns the plot area width that fits totalWidth columns next to
// a y axis whose labels are labelWidth wide.
func WidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minWidth
	}
	width := totalWidth - labelWidth - runewidth.StringWidth(axisSeparator)
	if width < minWidth {
		width = minWidth
	}
	return width
}

func drawable(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		n := len(s.X)
		if len(s.Y) < n {
			n = len(s.Y)
		}
		if n == 0 {
			continue
		}
		out = append(out, Series{Name: s.Name, X: s.X[:n], Y: s.Y[:n]})
	}
	return out
}

func dataBounds(series []Series) bounds {
	b := bounds{
		xMin: math.Inf(1), xMax: math.Inf(-1),
		yMin: math.Inf(1), yMax: math.Inf(-1),
	}
	for _, s := range series {
		for i := range s.X {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			b.xMin = math.Min(b.xMin, s.X[i])
			b.xMax = math.Max(b.xMax, s.X[i])
			b.yMin = math.Min(b.yMin, s.Y[i])
			b.yMax = math.Max(b.yMax, s.Y[i])
		}
	}
	if math.IsInf(b.xMin, 1) {
		return bounds{xMax: 1, yMax: 1}
	}
	if b.xMax-b.xMin < 1e-9 {
		b.xMax = b.xMin + 1
	}
	// A flat curve is drawn through the middle of the plot.
	if b.yMax-b.yMin < 1e-9 {
		b.yMin -= 0.5
		b.yMax += 0.5
	}
	return b
}

// scaleTo maps v in [lo, hi] onto [0, n-1].
func scaleTo(v, lo, hi float64, n int) int {
	if n <= 1 {
		return 0
	}
	pos := int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
	if pos < 0 {
		return 0
	}
	if pos >= n {
		return n - 1
	}
	return pos
}

func axisLabels(b bounds, height int) []string {
	labels := make([]string, height)
	labels[0] = formatValue(b.yMax)
	if height > 2 {
		labels[height/2] = formatValue(b.yMax - (b.yMax-b.yMin)*float64(height/2)/float64(height-1))
	}
	if height > 1 {
		labels[height-1] = formatValue(b.yMin)
	}
	return labels
}

func xAxisLine(b bounds, indent, width int, label string) string {
	left := formatValue(b.xMin)
	right := formatValue(b.xMax)
	mid := label
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < runewidth.StringWidth(mid)+2 {
		mid = ""
	}
	var line strings.Builder
	line.WriteString(strings.Repeat(" ", indent))
	line.WriteString(left)
	if gap > 0 {
		pad := gap - runewidth.StringWidth(mid)
		line.WriteString(strings.Repeat(" ", pad/2))
		line.WriteString(mid)
		line.WriteString(strings.Repeat(" ", pad-pad/2))
	} else {
		line.WriteByte(' ')
	}
	line.WriteString(right)
	return line.String()
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(emptyBrailleCP+int(dotBits[0][0])), s.Name, dashes[i%len(dashes)].name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func padLeft(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		file = os.Stdout
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
