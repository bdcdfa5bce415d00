package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
)

// screenSink draws particles as vector circles on a physical-resolution
// screen.
type screenSink struct {
	dst   *ebiten.Image
	scale geom.Scale
}

func (s screenSink) DrawRegular(p geom.LogicalPoint, radius, alpha float64) {
	pp := s.scale.ToPhysical(p)
	r := float32(s.scale.Length(radius))
	vector.FillCircle(s.dst, float32(pp.X), float32(pp.Y), r, palette.White.NRGBA(alpha), false)
}

// DrawFamily layers two translucent halo rings under an opaque core.
func (s screenSink) DrawFamily(p geom.LogicalPoint, radius float64, c palette.RGB, glowRadius, glowIntensity float64) {
	pp := s.scale.ToPhysical(p)
	x, y := float32(pp.X), float32(pp.Y)
	core := float32(s.scale.Length(radius))
	glow := float32(s.scale.Length(glowRadius))

	vector.FillCircle(s.dst, x, y, glow, c.NRGBA(glowIntensity*0.25), true)
	vector.FillCircle(s.dst, x, y, (glow+core)/2, c.NRGBA(glowIntensity*0.5), true)
	vector.FillCircle(s.dst, x, y, core, c.Lighten(20).NRGBA(1), true)
}
