package viz

import (
	"math"
	"strings"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank = 0x2800

	// dimmest regular particle that still lights a dot
	minAlpha = 0.25
)

// Cell is the colour state of one terminal cell. Family wins over regular
// dots sharing the cell.
type Cell struct {
	Family    bool
	Color     palette.RGB
	Intensity float64
}

// Canvas is a braille canvas addressed in dots: one logical unit is one
// dot, so the surface is (Width*2) x (Height*4) units.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Cells         [][]Cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Cells:  make([][]Cell, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Cells[i] = make([]Cell, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return false
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	return true
}

func (c *Canvas) cell(x, y int) *Cell {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return nil
	}
	return &c.Cells[y/4][x/2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Cells[i][j] = Cell{}
		}
	}
}

// Bounds is the logical surface covered by the canvas.
func (c *Canvas) Bounds(edge float64) geom.Bounds {
	return geom.NewBounds(float64(c.Width*2), float64(c.Height*4), edge)
}

func (c *Canvas) DrawRegular(p geom.LogicalPoint, radius, alpha float64) {
	if alpha < minAlpha {
		return
	}
	x, y := int(p.X), int(p.Y)
	if !c.Set(x, y) {
		return
	}
	cell := c.cell(x, y)
	if !cell.Family && alpha > cell.Intensity {
		cell.Intensity = alpha
		cell.Color = palette.White
	}
}

// DrawFamily fills a disc of the core radius and tints every cell the
// glow reaches.
func (c *Canvas) DrawFamily(p geom.LogicalPoint, radius float64, col palette.RGB, glowRadius, glowIntensity float64) {
	r := math.Max(radius, 0.5)
	c.disc(p, r, func(x, y int) {
		c.Set(x, y)
	})
	c.disc(p, glowRadius, func(x, y int) {
		if cell := c.cell(x, y); cell != nil {
			cell.Family = true
			cell.Color = col
			cell.Intensity = math.Max(cell.Intensity, glowIntensity)
		}
	})
}

func (c *Canvas) disc(p geom.LogicalPoint, r float64, fn func(x, y int)) {
	x0, x1 := int(math.Floor(p.X-r)), int(math.Ceil(p.X+r))
	y0, y1 := int(math.Floor(p.Y-r)), int(math.Ceil(p.Y+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-p.X, float64(y)+0.5-p.Y
			if dx*dx+dy*dy <= r*r {
				fn(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
