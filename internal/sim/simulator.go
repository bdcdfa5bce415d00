package sim

import (
	"math"
	"time"

	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
	"github.com/san-kum/stardust/internal/particle"
)

// Simulation owns the particle field and the shared pointer state. It is
// not safe for concurrent use: input events and ticks must come from the
// same goroutine.
type Simulation struct {
	cfg       *config.Config
	bounds    geom.Bounds
	rng       Rand
	particles []particle.Particle
	pointer   input.PointerState
	observers []Observer

	tick          int
	started       time.Time
	pendingFlicks int
}

// New scatters cfg.Particles.Count particles over bounds. Family particles
// come first, one per configured member.
func New(cfg *config.Config, bounds geom.Bounds, rng Rand) *Simulation {
	members := cfg.Members()
	count := cfg.Particles.Count
	if count < len(members) {
		count = len(members)
	}

	s := &Simulation{
		cfg:       cfg,
		bounds:    bounds,
		rng:       rng,
		particles: make([]particle.Particle, 0, count),
		observers: make([]Observer, 0),
	}

	for _, m := range members {
		s.particles = append(s.particles, particle.NewFamily(bounds.Random(rng), m, cfg.Particles.FamilySize, rng))
	}
	for i := len(members); i < count; i++ {
		s.particles = append(s.particles, particle.NewRegular(bounds.Random(rng), rng.Float64()))
	}
	return s
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Particles exposes the live particle slice. It is mutated in place by
// Step, HandleEvent and Resize.
func (s *Simulation) Particles() []particle.Particle { return s.particles }

func (s *Simulation) Pointer() input.PointerState { return s.pointer }
func (s *Simulation) Bounds() geom.Bounds         { return s.bounds }
func (s *Simulation) Config() *config.Config      { return s.cfg }
func (s *Simulation) Tick() int                   { return s.tick }

func (s *Simulation) Counts() Counts {
	var c Counts
	for i := range s.particles {
		switch s.particles[i].State {
		case particle.Attracted:
			c.Attracted++
		case particle.Flicked:
			c.Flicked++
		default:
			c.Free++
		}
	}
	return c
}

// HandleEvent reduces one input event into the pointer state and runs the
// flick impulse when the pointer moved during an interaction.
func (s *Simulation) HandleEvent(ev input.Event) input.Outcome {
	out := input.Apply(&s.pointer, ev, s.bounds, s.cfg.Interaction.TouchBuffer)
	if out.Flick {
		s.Flick()
	}
	if out.Ended && s.cfg.Interaction.ReleaseOnEnd {
		s.Release()
	}
	return out
}

// Step advances every particle by one tick, then runs the attraction
// query if an interaction is active.
func (s *Simulation) Step(now time.Time) TickStats {
	if s.started.IsZero() {
		s.started = now
	}
	s.tick++

	target := s.pointer.Position
	for i := range s.particles {
		s.update(&s.particles[i], target)
	}

	stats := TickStats{
		Tick:        s.tick,
		Elapsed:     now.Sub(s.started),
		Radius:      s.cfg.Interaction.BaseRadius,
		Interacting: s.pointer.Interacting(),
		Flicks:      s.pendingFlicks,
	}
	s.pendingFlicks = 0

	if stats.Interacting {
		stats.Radius = s.DynamicRadius(now)
		stats.Captured = s.Attract(now)
	}

	c := s.Counts()
	stats.Free, stats.Attracted, stats.Flicked = c.Free, c.Attracted, c.Flicked

	for _, obs := range s.observers {
		obs.OnTick(stats)
	}
	return stats
}

// Resize scatters every particle across the new bounds and resets it to
// free at rest. Pointer state is left alone.
func (s *Simulation) Resize(b geom.Bounds) {
	s.bounds = b
	for i := range s.particles {
		s.particles[i].Reset(b.Random(s.rng))
	}
}

// Release frees every attracted particle.
func (s *Simulation) Release() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].State == particle.Attracted {
			s.particles[i].Settle()
			n++
		}
	}
	return n
}

// DynamicRadius grows linearly from the base radius at the start of an
// interaction to half the smaller surface dimension after MaxDuration,
// and stays there.
func (s *Simulation) DynamicRadius(now time.Time) float64 {
	base := s.cfg.Interaction.BaseRadius
	maxRadius := math.Max(base, s.bounds.MinDim()/2)
	if !s.pointer.Interacting() {
		return base
	}

	limit := s.cfg.Interaction.MaxDuration
	if limit <= 0 {
		return maxRadius
	}
	elapsed := s.pointer.Elapsed(now)
	if elapsed > limit {
		elapsed = limit
	}
	progress := float64(elapsed) / float64(limit)
	return base + (maxRadius-base)*progress
}

// Attract captures free particles within the dynamic radius of the
// pointer, in slice order, until the per-tick cap is reached.
func (s *Simulation) Attract(now time.Time) int {
	if !s.pointer.Interacting() {
		return 0
	}
	limit := s.cfg.AttractionCap()
	if limit <= 0 {
		return 0
	}

	r := s.DynamicRadius(now)
	rSq := r * r
	ptr := s.pointer.Position
	left, right := ptr.X-r, ptr.X+r
	top, bottom := ptr.Y-r, ptr.Y+r

	captured := 0
	for i := 0; i < len(s.particles) && captured < limit; i++ {
		p := &s.particles[i]
		if p.State != particle.Free {
			continue
		}
		if p.Pos.X < left || p.Pos.X > right || p.Pos.Y < top || p.Pos.Y > bottom {
			continue
		}
		if p.Pos.DistSq(ptr) <= rSq {
			p.State = particle.Attracted
			captured++
		}
	}
	return captured
}

// Flick launches attracted particles near the pointer along the pointer's
// direction of travel, scaled by FlickSpeed, with a small angular jitter.
func (s *Simulation) Flick() int {
	in := s.cfg.Interaction
	ptr := s.pointer.Position
	v := s.pointer.Velocity()
	speed := v.Len() * in.FlickSpeed
	heading := v.Angle()
	jitter := s.cfg.FlickJitter()
	captureSq := in.FlickDistance * in.FlickDistance

	n := 0
	for i := range s.particles {
		p := &s.particles[i]
		if p.State != particle.Attracted {
			continue
		}
		if p.Pos.DistSq(ptr) > captureSq {
			continue
		}
		angle := heading + (s.rng.Float64()-0.5)*2*jitter
		p.Vel = geom.FromPolar(angle, speed)
		p.State = particle.Flicked
		n++
	}
	s.pendingFlicks += n
	return n
}

func (s *Simulation) update(p *particle.Particle, target geom.LogicalPoint) {
	switch p.State {
	case particle.Attracted:
		step := target.Sub(p.Pos).Scale(s.cfg.Interaction.AttractionSpeed)
		p.Pos = s.bounds.Clamp(p.Pos.Add(step))
		if p.IsFamily() {
			p.Family.Base = p.Pos
		}
	case particle.Flicked:
		s.integrate(p)
		if p.IsFamily() {
			p.Family.Base = p.Pos
		}
	default:
		if p.IsFamily() {
			s.orbit(p)
		} else {
			s.drift(p)
		}
	}

	if !p.IsFamily() {
		s.twinkle(p)
	}
}

// integrate moves a flicked particle, bouncing elastically off the
// buffered edges, applies drag and settles it once it has slowed down.
func (s *Simulation) integrate(p *particle.Particle) {
	in := s.cfg.Interaction
	b := s.bounds
	next := p.Pos.Add(p.Vel)

	// Landing exactly on an edge counts as a hit.
	if next.X <= b.MinX() {
		next.X = b.MinX()
		p.Vel.X = -p.Vel.X
	} else if next.X >= b.MaxX() {
		next.X = b.MaxX()
		p.Vel.X = -p.Vel.X
	}
	if next.Y <= b.MinY() {
		next.Y = b.MinY()
		p.Vel.Y = -p.Vel.Y
	} else if next.Y >= b.MaxY() {
		next.Y = b.MaxY()
		p.Vel.Y = -p.Vel.Y
	}

	p.Pos = next
	p.Vel = p.Vel.Scale(in.DragFactor)

	if p.Vel.LenSq() < in.VelocityThreshold*in.VelocityThreshold {
		p.Settle()
	}
}

func (s *Simulation) drift(p *particle.Particle) {
	d := s.cfg.Particles.DriftSpeed
	jitter := geom.Vec{X: (s.rng.Float64() - 0.5) * d, Y: (s.rng.Float64() - 0.5) * d}
	p.Pos = s.bounds.Clamp(p.Pos.Add(jitter))
}

// orbit drifts a free family particle around its base point and advances
// its glow oscillators. Hitting an edge drags the base along.
func (s *Simulation) orbit(p *particle.Particle) {
	f := p.Family
	f.Orbit.Advance()
	f.Pulse.Advance()
	f.ColorPulse.Advance()

	off := f.OrbitOffset()
	p.Pos = s.bounds.ClampInset(f.Base.Add(off), f.OrbitRadius)
	f.Base = p.Pos.Add(off.Scale(-1))
}

func (s *Simulation) twinkle(p *particle.Particle) {
	b := p.Brightness + (s.rng.Float64()-0.5)*s.cfg.Particles.TwinkleStep
	p.Brightness = math.Max(0, math.Min(1, b))
}
