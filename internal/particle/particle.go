package particle

import (
	"math"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
)

type Kind uint8

const (
	KindRegular Kind = iota
	KindFamily
)

func (k Kind) String() string {
	if k == KindFamily {
		return "family"
	}
	return "regular"
}

type State uint8

const (
	Free State = iota
	Attracted
	Flicked
)

func (s State) String() string {
	switch s {
	case Attracted:
		return "attracted"
	case Flicked:
		return "flicked"
	default:
		return "free"
	}
}

// Rand is the random source particles draw their constants from.
type Rand interface {
	Float64() float64
}

// Particle is one point of the field. Family is non-nil exactly when
// Kind is KindFamily; Brightness is only meaningful for regular particles.
// Vel is zero whenever State is not Flicked.
type Particle struct {
	Kind       Kind
	State      State
	Pos        geom.LogicalPoint
	Vel        geom.Vec
	Brightness float64
	Family     *Family
}

// Member names a family particle and its colour spec.
type Member struct {
	Name  string
	Color string
}

// Oscillator is a phase advanced by a fixed speed every tick.
type Oscillator struct {
	Phase, Speed float64
}

func (o *Oscillator) Advance() { o.Phase += o.Speed }

func (o Oscillator) Sin() float64 { return math.Sin(o.Phase) }

// Family holds the extra state of a glowing family particle. Base is the
// centre its free orbit drifts around.
type Family struct {
	Name  string
	Color palette.RGB
	Size  float64

	Base        geom.LogicalPoint
	OrbitRadius float64
	Orbit       Oscillator

	BaseGlow       float64
	PulseAmplitude float64
	Pulse          Oscillator
	ColorPulse     Oscillator
}

// OrbitOffset is the current displacement from Base. The y frequency is
// 1.3x the x frequency so the path never closes into a circle.
func (f *Family) OrbitOffset() geom.Vec {
	return geom.Vec{
		X: math.Cos(f.Orbit.Phase) * f.OrbitRadius,
		Y: math.Sin(f.Orbit.Phase*1.3) * f.OrbitRadius,
	}
}

func NewRegular(pos geom.LogicalPoint, brightness float64) Particle {
	return Particle{Kind: KindRegular, Pos: pos, Brightness: brightness}
}

// NewFamily builds a family particle with randomised drift and glow
// constants. An unparsable colour falls back to white.
func NewFamily(pos geom.LogicalPoint, m Member, size float64, r Rand) Particle {
	f := &Family{
		Name:           m.Name,
		Color:          palette.Parse(m.Color),
		Size:           size,
		Base:           pos,
		OrbitRadius:    2 + r.Float64()*3,
		Orbit:          Oscillator{Phase: r.Float64() * 2 * math.Pi, Speed: (r.Float64() - 0.5) * 0.0002},
		BaseGlow:       0.3 + r.Float64()*0.4,
		PulseAmplitude: 0.3 + r.Float64()*0.4,
		Pulse:          Oscillator{Phase: r.Float64() * 2 * math.Pi, Speed: 0.01 + r.Float64()*0.02},
		ColorPulse:     Oscillator{Phase: r.Float64() * 2 * math.Pi, Speed: 0.005 + r.Float64()*0.01},
	}
	return Particle{Kind: KindFamily, Pos: pos, Brightness: 1, Family: f}
}

func (p *Particle) IsFamily() bool { return p.Kind == KindFamily && p.Family != nil }

// Reset places the particle at pos, free and at rest.
func (p *Particle) Reset(pos geom.LogicalPoint) {
	p.Pos = pos
	p.State = Free
	p.Vel = geom.Vec{}
	if p.IsFamily() {
		p.Family.Base = pos
	}
}

// Settle returns a flicked particle to free with zero velocity.
func (p *Particle) Settle() {
	p.State = Free
	p.Vel = geom.Vec{}
}

// Radius is the rendering radius before any pulse.
func (p *Particle) Radius(regular float64) float64 {
	if p.IsFamily() {
		return p.Family.Size
	}
	return regular
}
