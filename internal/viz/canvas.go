package viz

import "strings"

const brailleBlank = 0x2800

// dotBits maps a sub-cell (row, column) to its braille dot bit. Each
// terminal cell holds 2 columns by 4 rows of dots.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot buffer. Coordinates passed to Set and DrawLine are
// in dots, so a Canvas of Width x Height cells spans 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// DotWidth and DotHeight give the addressable area in dots.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// Set lights one dot. Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

// IsSet reports whether a dot is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine draws a Bresenham line between two dots, inclusive.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
