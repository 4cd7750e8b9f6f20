// Package render turns topology graphs and metric series into fixed-size
// character grids. Rendering is deterministic for identical input and
// never fails: writes outside the grid are silently dropped.
package render

import "strings"

// Canvas is a width x height character grid, space-filled by default.
type Canvas struct {
	width  int
	height int
	cells  [][]rune
}

func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]rune, height)
	for y := range cells {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Canvas{width: width, height: height, cells: cells}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// At returns the cell at (x, y), or space when out of bounds.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x]
}

// Set writes a cell, dropping out-of-bounds writes.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

// SetIfEmpty writes a cell only when it still holds a space. Line strokes
// use this so node glyphs and labels keep priority.
func (c *Canvas) SetIfEmpty(x, y int, r rune) {
	if c.At(x, y) == ' ' {
		c.Set(x, y, r)
	}
}

// Text writes a string starting at (x, y), clipped to bounds.
func (c *Canvas) Text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r)
	}
}

// TextCentered writes a string centered on (x, y).
func (c *Canvas) TextCentered(x, y int, s string) {
	c.Text(x-len([]rune(s))/2, y, s)
}

// Line draws an integer Bresenham line between two cells using glyph,
// never overwriting occupied cells.
func (c *Canvas) Line(x0, y0, x1, y1 int, glyph rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.SetIfEmpty(x0, y0, glyph)
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

// Lines returns the grid as strings, one per row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		out[y] = string(row)
	}
	return out
}

func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
