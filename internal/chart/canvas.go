// Package chart renders acceleration curves as braille plots and tables.
package chart

// dotBits maps a dot position inside a braille cell (column, row) to its bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// dash describes a repeating on/off pattern along the x axis, in dots.
type dash struct {
	name   string
	period int
	on     int
}

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

func (d dash) visible(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

// canvas is a grid of braille cells with one mask layer per series.
type canvas struct {
	cols   int
	rows   int
	layers [][]uint8
}

func newCanvas(cols, rows, layers int) *canvas {
	c := &canvas{cols: cols, rows: rows, layers: make([][]uint8, layers)}
	for i := range c.layers {
		c.layers[i] = make([]uint8, cols*rows)
	}
	return c
}

func (c *canvas) dotsX() int { return c.cols * 2 }
func (c *canvas) dotsY() int { return c.rows * 4 }

func (c *canvas) set(layer, x, y int) {
	if x < 0 || y < 0 || x >= c.dotsX() || y >= c.dotsY() {
		return
	}
	c.layers[layer][(y/4)*c.cols+x/2] |= dotBits[x%2][y%4]
}

// line draws a Bresenham segment from (x0, y0) to (x1, y1).
func (c *canvas) line(layer, x0, y0, x1, y1 int, d dash) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if d.visible(x0) {
			c.set(layer, x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// cell merges all layers at a cell. The returned layer index is the first
// layer with any dot set, or -1 for an empty cell.
func (c *canvas) cell(col, row int) (rune, int) {
	var mask uint8
	first := -1
	idx := row*c.cols + col
	for i, layer := range c.layers {
		if layer[idx] == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		mask |= layer[idx]
	}
	return rune(0x2800 + int(mask)), first
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
