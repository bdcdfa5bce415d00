package dither

import (
	"image"

	"github.com/san-kum/stardust/internal/palette"
)

// Generator caches the last bitmap and regenerates it wholesale only when
// the requested size changes. Returned images must not be modified.
type Generator struct {
	Top, Bottom palette.RGB
	Levels      int

	width, height int
	current       *image.RGBA
}

func NewGenerator(top, bottom palette.RGB, levels int) *Generator {
	return &Generator{Top: top, Bottom: bottom, Levels: levels}
}

// Regenerate returns the bitmap for width x height. The bool reports
// whether a new bitmap was synthesised.
func (g *Generator) Regenerate(width, height int) (*image.RGBA, bool, error) {
	if g.current != nil && width == g.width && height == g.height {
		return g.current, false, nil
	}
	img, err := Generate(width, height, g.Top, g.Bottom, g.Levels)
	if err != nil {
		return nil, false, err
	}
	g.width, g.height, g.current = width, height, img
	return img, true, nil
}

func (g *Generator) Current() *image.RGBA { return g.current }
