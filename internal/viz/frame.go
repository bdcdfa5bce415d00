package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	pal "github.com/san-kum/stardust/internal/palette"
)

// cellColor is the foreground of a lit cell.
func cellColor(c Cell) pal.RGB {
	i := math.Min(1, math.Max(0, c.Intensity))
	if c.Family {
		return c.Color.Scale(0.6 + 0.4*i)
	}
	return pal.White.Scale(0.5 + 0.5*i)
}

func bgAt(bg *image.RGBA, col, row int) pal.RGB {
	if bg == nil || !(image.Point{X: col, Y: row}).In(bg.Bounds()) {
		return pal.Black
	}
	c := bg.RGBAAt(col, row)
	return pal.RGB{R: c.R, G: c.G, B: c.B}
}

// Compose renders the canvas over a background sampled one pixel per
// cell. Runs of cells sharing colours are styled together.
func Compose(c *Canvas, bg *image.RGBA) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		var run strings.Builder
		var runFg, runBg string

		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Background(lipgloss.Color(runBg))
			if runFg != "" {
				style = style.Foreground(lipgloss.Color(runFg))
			}
			b.WriteString(style.Render(run.String()))
			run.Reset()
		}

		for col := 0; col < c.Width; col++ {
			back := bgAt(bg, col, row).Hex()
			fore := ""
			if c.Grid[row][col] != blank {
				fore = cellColor(c.Cells[row][col]).Hex()
			}
			if fore != runFg || back != runBg {
				flush()
				runFg, runBg = fore, back
			}
			run.WriteRune(c.Grid[row][col])
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

const (
	dotPx  = 2
	cellPx = 4 * dotPx
)

// Capture rasterises the canvas at dotPx pixels per dot into a paletted
// frame for GIF recording.
func Capture(c *Canvas, bg *image.RGBA) *image.Paletted {
	w, h := c.Width*2*dotPx, c.Height*cellPx
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			back := bgAt(bg, col, row).RGBA()
			cell := image.Rect(col*2*dotPx, row*cellPx, (col+1)*2*dotPx, (row+1)*cellPx)
			draw.Draw(img, cell, &image.Uniform{C: back}, image.Point{}, draw.Src)

			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			fore := &image.Uniform{C: cellColor(c.Cells[row][col]).RGBA()}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x, y := cell.Min.X+dx*dotPx, cell.Min.Y+dy*dotPx
					draw.Draw(img, image.Rect(x, y, x+dotPx, y+dotPx), fore, image.Point{}, draw.Src)
				}
			}
		}
	}

	out := image.NewPaletted(img.Bounds(), append(color.Palette{}, palette.Plan9...))
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	return out
}
