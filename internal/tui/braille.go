package tui

import (
	"math"
	"strings"
)

// canvas is a braille drawing surface: every terminal cell holds a 2x4 grid
// of micro-pixels, with a text layer drawn on top.
type canvas struct {
	w, h int       // in cells
	mask [][]uint8 // per-cell braille dots
	text [][]rune  // per-cell text, 0 when unset
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, mask: make([][]uint8, h), text: make([][]rune, h)}
	for y := range c.mask {
		c.mask[y] = make([]uint8, w)
		c.text[y] = make([]rune, w)
	}
	return c
}

// dots maps a micro-pixel (column, row) inside a cell to its braille bit.
var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set lights micro-pixel (mx, my); out-of-range pixels are ignored.
func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.mask[cy][cx] |= dots[mx%2][my%4]
}

// line draws from (x0, y0) to (x1, y1) in micro-pixels, clipped to the
// canvas first so far off-screen segments cost nothing.
func (c *canvas) line(x0, y0, x1, y1 float64) {
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, float64(2*c.w-1), float64(4*c.h-1))
	if !ok {
		return
	}
	c.bresenham(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
}

func (c *canvas) bresenham(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

// clip is Liang-Barsky against [0, xmax] x [0, ymax].
func clip(x0, y0, x1, y1, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{{-dx, x0}, {dx, xmax - x0}, {-dy, y0}, {dy, ymax - y0}}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// label writes s centred on cell (cx, cy), clipped to the canvas.
func (c *canvas) label(cx, cy int, s string) {
	if cy < 0 || cy >= c.h {
		return
	}
	r := []rune(s)
	x := cx - len(r)/2
	for k, ch := range r {
		if x+k >= 0 && x+k < c.w {
			c.text[cy][x+k] = ch
		}
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	row := make([]rune, c.w)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			switch {
			case c.text[y][x] != 0:
				row[x] = c.text[y][x]
			case c.mask[y][x] != 0:
				row[x] = rune(0x2800 + int(c.mask[y][x]))
			default:
				row[x] = ' '
			}
		}
		out[y] = string(row)
	}
	return out
}

func (c *canvas) String() string { return strings.Join(c.lines(), "\n") }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
