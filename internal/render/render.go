// Package render turns particle state into draw calls on an opaque sink.
// Hosts (ebiten window, terminal, SVG export) implement Sink; nothing here
// knows about pixels.
package render

import (
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/particle"
)

type Sink interface {
	// DrawRegular draws a plain white dot with opacity alpha in [0, 1].
	DrawRegular(p geom.LogicalPoint, radius, alpha float64)
	// DrawFamily draws a coloured core of radius plus a bloom halo out to
	// glowRadius, with halo opacity glowIntensity.
	DrawFamily(p geom.LogicalPoint, radius float64, c palette.RGB, glowRadius, glowIntensity float64)
}

// Source is anything holding a particle field, usually *sim.Simulation.
type Source interface {
	Particles() []particle.Particle
}

type Options struct {
	RegularSize float64
	BloomOffset float64
}

// Glow is the per-frame appearance of a family particle.
type Glow struct {
	Radius     float64
	GlowRadius float64
	Intensity  float64
	Color      palette.RGB
}

// FamilyGlow derives the pulsing size, halo and colour of f.
func FamilyGlow(f *particle.Family, bloomOffset float64) Glow {
	pulse := f.Pulse.Sin()
	intensity := f.BaseGlow + pulse*f.PulseAmplitude
	size := f.Size * (1 + 0.15*pulse)
	return Glow{
		Radius:     size,
		GlowRadius: size + bloomOffset*intensity,
		Intensity:  intensity,
		Color:      f.Color.Scale(0.85 + 0.15*f.ColorPulse.Sin()),
	}
}

// Frame draws every regular particle, then every family particle, so the
// family always sits on top.
func Frame(src Source, sink Sink, o Options) {
	ps := src.Particles()
	for i := range ps {
		if ps[i].IsFamily() {
			continue
		}
		sink.DrawRegular(ps[i].Pos, o.RegularSize, ps[i].Brightness)
	}
	for i := range ps {
		if !ps[i].IsFamily() {
			continue
		}
		g := FamilyGlow(ps[i].Family, o.BloomOffset)
		sink.DrawFamily(ps[i].Pos, g.Radius, g.Color, g.GlowRadius, g.Intensity)
	}
}
