package render

import (
	"math"
	"testing"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/particle"
)

type call struct {
	family bool
	pos    geom.LogicalPoint
	radius float64
	alpha  float64
	color  palette.RGB
	glow   float64
}

type recorder struct {
	calls []call
}

func (r *recorder) DrawRegular(p geom.LogicalPoint, radius, alpha float64) {
	r.calls = append(r.calls, call{pos: p, radius: radius, alpha: alpha})
}

func (r *recorder) DrawFamily(p geom.LogicalPoint, radius float64, c palette.RGB, glowRadius, glowIntensity float64) {
	r.calls = append(r.calls, call{family: true, pos: p, radius: radius, color: c, glow: glowRadius, alpha: glowIntensity})
}

type field []particle.Particle

func (f field) Particles() []particle.Particle { return f }

func family(name string, c palette.RGB, at geom.LogicalPoint) particle.Particle {
	return particle.Particle{
		Kind:       particle.KindFamily,
		Pos:        at,
		Brightness: 1,
		Family: &particle.Family{
			Name:           name,
			Color:          c,
			Size:           3,
			Base:           at,
			BaseGlow:       0.5,
			PulseAmplitude: 0.4,
		},
	}
}

func TestFrameDrawsFamilyLast(t *testing.T) {
	f := field{
		family("Daisy", palette.RGB{R: 78, G: 237, B: 229}, geom.LogicalPoint{X: 1, Y: 1}),
		particle.NewRegular(geom.LogicalPoint{X: 2, Y: 2}, 0.4),
		family("Lewis", palette.RGB{R: 250, G: 151, B: 75}, geom.LogicalPoint{X: 3, Y: 3}),
		particle.NewRegular(geom.LogicalPoint{X: 4, Y: 4}, 0.9),
	}

	rec := &recorder{}
	Frame(f, rec, Options{RegularSize: 1, BloomOffset: 6})

	if len(rec.calls) != 4 {
		t.Fatalf("expected 4 draw calls, got %d", len(rec.calls))
	}
	wantFamily := []bool{false, false, true, true}
	for i, c := range rec.calls {
		if c.family != wantFamily[i] {
			t.Errorf("call %d: expected family=%v", i, wantFamily[i])
		}
	}
	if rec.calls[0].alpha != 0.4 || rec.calls[1].alpha != 0.9 {
		t.Errorf("regular alpha should follow brightness, got %f and %f", rec.calls[0].alpha, rec.calls[1].alpha)
	}
	if rec.calls[0].radius != 1 {
		t.Errorf("expected regular radius 1, got %f", rec.calls[0].radius)
	}
}

func TestFamilyGlow(t *testing.T) {
	tests := []struct {
		name       string
		pulsePhase float64
		colorPhase float64
		wantRadius float64
		wantGlow   float64
	}{
		{"rest", 0, 0, 3, 0.5},
		{"peak", math.Pi / 2, math.Pi / 2, 3 * 1.15, 0.9},
		{"trough", -math.Pi / 2, -math.Pi / 2, 3 * 0.85, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := palette.RGB{R: 200, G: 100, B: 50}
			p := family("x", base, geom.LogicalPoint{})
			p.Family.Pulse.Phase = tt.pulsePhase
			p.Family.ColorPulse.Phase = tt.colorPhase

			g := FamilyGlow(p.Family, 6)
			if math.Abs(g.Radius-tt.wantRadius) > 1e-9 {
				t.Errorf("radius: expected %f, got %f", tt.wantRadius, g.Radius)
			}
			if math.Abs(g.Intensity-tt.wantGlow) > 1e-9 {
				t.Errorf("intensity: expected %f, got %f", tt.wantGlow, g.Intensity)
			}
			if math.Abs(g.GlowRadius-(g.Radius+6*g.Intensity)) > 1e-9 {
				t.Errorf("glow radius should be size plus bloom, got %f", g.GlowRadius)
			}
			if want := base.Scale(0.85 + 0.15*math.Sin(tt.colorPhase)); g.Color != want {
				t.Errorf("color: expected %v, got %v", want, g.Color)
			}
		})
	}
}

func TestFrameEmpty(t *testing.T) {
	rec := &recorder{}
	Frame(field{}, rec, Options{RegularSize: 1})
	if len(rec.calls) != 0 {
		t.Errorf("expected no draws, got %d", len(rec.calls))
	}
}
