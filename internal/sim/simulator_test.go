package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
	"github.com/san-kum/stardust/internal/particle"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// constRand returns the same value forever; 0.5 cancels every jitter term.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func testConfig(count int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Particles.Count = count
	cfg.Family = nil
	return cfg
}

func newTestSim(count int) *Simulation {
	return New(testConfig(count), geom.NewBounds(800, 600, 1), constRand(0.5))
}

func press(s *Simulation, x, y float64, at time.Time) {
	s.HandleEvent(input.Event{Kind: input.Down, Source: input.Mouse, Pos: geom.LogicalPoint{X: x, Y: y}, At: at})
}

func move(s *Simulation, x, y float64) {
	s.HandleEvent(input.Event{Kind: input.Move, Source: input.Mouse, Pos: geom.LogicalPoint{X: x, Y: y}})
}

func release(s *Simulation) {
	s.HandleEvent(input.Event{Kind: input.Up, Source: input.Mouse})
}

func checkInvariants(t *testing.T, s *Simulation) {
	t.Helper()
	b := s.Bounds()
	for i, p := range s.Particles() {
		if p.Pos.X < b.MinX() || p.Pos.X > b.MaxX() || p.Pos.Y < b.MinY() || p.Pos.Y > b.MaxY() {
			t.Fatalf("tick %d: particle %d escaped bounds at %+v", s.Tick(), i, p.Pos)
		}
		if p.State != particle.Flicked && !p.Vel.IsZero() {
			t.Fatalf("tick %d: particle %d in state %s has velocity %+v", s.Tick(), i, p.State, p.Vel)
		}
	}
}

func TestNewPopulation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Count = 100
	s := New(cfg, geom.NewBounds(400, 300, 1), rand.New(rand.NewSource(1)))

	family := 0
	for i, p := range s.Particles() {
		if p.IsFamily() {
			family++
			if i >= len(cfg.Family) {
				t.Errorf("family particle at index %d, expected them first", i)
			}
		}
		if p.State != particle.Free {
			t.Errorf("particle %d starts %s", i, p.State)
		}
	}
	if family != 4 {
		t.Errorf("expected 4 family particles, got %d", family)
	}
	if len(s.Particles()) != 100 {
		t.Errorf("expected 100 particles, got %d", len(s.Particles()))
	}
	checkInvariants(t, s)
}

func TestInvariantsUnderInteraction(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Count = 3000
	cfg.Interaction.AttractionPercent = 0.01
	s := New(cfg, geom.NewBounds(320, 240, 1), rand.New(rand.NewSource(7)))

	press(s, 160, 120, t0)
	for tick := 0; tick < 600; tick++ {
		now := t0.Add(time.Duration(tick) * time.Second / 60)
		angle := float64(tick) * 0.2
		move(s, 160+math.Cos(angle)*80, 120+math.Sin(angle)*80)
		if tick%150 == 149 {
			release(s)
			press(s, 160, 120, now)
		}
		s.Step(now)
		checkInvariants(t, s)
	}
}

func TestFlickedDragIsExact(t *testing.T) {
	s := newTestSim(1)
	p := &s.Particles()[0]
	p.Pos = geom.LogicalPoint{X: 400, Y: 300}
	p.State = particle.Flicked
	p.Vel = geom.Vec{X: 3, Y: -4}

	s.Step(t0)

	d := s.Config().Interaction.DragFactor
	want := geom.Vec{X: 3 * d, Y: -4 * d}
	if p.Vel != want {
		t.Errorf("expected velocity %+v, got %+v", want, p.Vel)
	}
	if p.Pos != (geom.LogicalPoint{X: 403, Y: 296}) {
		t.Errorf("expected position (403, 296), got %+v", p.Pos)
	}
}

func TestFlickedSettlesOnMagnitude(t *testing.T) {
	tests := []struct {
		name      string
		vel       geom.Vec
		wantTicks int
	}{
		{"drops below on first tick", geom.Vec{X: 0.102}, 1},
		{"drops below on second tick", geom.Vec{X: 0.103}, 2},
		{"both axes small but magnitude above", geom.Vec{X: 0.08, Y: 0.08}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(1)
			p := &s.Particles()[0]
			p.Pos = geom.LogicalPoint{X: 400, Y: 300}
			p.State = particle.Flicked
			p.Vel = tt.vel

			thresholdSq := 0.1 * 0.1
			for tick := 1; tick <= 50; tick++ {
				before := p.Vel
				s.Step(t0)
				dragged := before.Scale(0.98)
				if dragged.LenSq() < thresholdSq {
					if p.State != particle.Free || !p.Vel.IsZero() {
						t.Fatalf("tick %d: expected free at rest, got %s %+v", tick, p.State, p.Vel)
					}
					if tick != tt.wantTicks {
						t.Errorf("settled after %d ticks, expected %d", tick, tt.wantTicks)
					}
					return
				}
				if p.State != particle.Flicked {
					t.Fatalf("tick %d: settled early with |v|²=%g", tick, dragged.LenSq())
				}
			}
			t.Fatal("particle never settled")
		})
	}
}

func TestFlickedBounce(t *testing.T) {
	d := config.DefaultDragFactor
	tests := []struct {
		name    string
		pos     geom.LogicalPoint
		vel     geom.Vec
		wantPos geom.LogicalPoint
		wantVel geom.Vec
	}{
		{"left", geom.LogicalPoint{X: 2, Y: 300}, geom.Vec{X: -5}, geom.LogicalPoint{X: 1, Y: 300}, geom.Vec{X: 5 * d}},
		{"right", geom.LogicalPoint{X: 797, Y: 300}, geom.Vec{X: 5}, geom.LogicalPoint{X: 799, Y: 300}, geom.Vec{X: -5 * d}},
		{"top", geom.LogicalPoint{X: 400, Y: 3}, geom.Vec{Y: -10}, geom.LogicalPoint{X: 400, Y: 1}, geom.Vec{Y: 10 * d}},
		{"bottom", geom.LogicalPoint{X: 400, Y: 595}, geom.Vec{X: 1, Y: 10}, geom.LogicalPoint{X: 401, Y: 599}, geom.Vec{X: d, Y: -10 * d}},
		{"lands on right edge", geom.LogicalPoint{X: 795, Y: 300}, geom.Vec{X: 4}, geom.LogicalPoint{X: 799, Y: 300}, geom.Vec{X: -4 * d}},
		{"lands on top edge", geom.LogicalPoint{X: 400, Y: 3}, geom.Vec{Y: -2}, geom.LogicalPoint{X: 400, Y: 1}, geom.Vec{Y: 2 * d}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(1)
			p := &s.Particles()[0]
			p.Pos, p.Vel, p.State = tt.pos, tt.vel, particle.Flicked

			s.Step(t0)

			if p.Pos != tt.wantPos {
				t.Errorf("expected position %+v, got %+v", tt.wantPos, p.Pos)
			}
			if p.Vel != tt.wantVel {
				t.Errorf("expected velocity %+v, got %+v", tt.wantVel, p.Vel)
			}
		})
	}
}

func TestDynamicRadius(t *testing.T) {
	s := newTestSim(10)

	if r := s.DynamicRadius(t0); r != 15 {
		t.Errorf("idle radius should be base, got %f", r)
	}

	press(s, 400, 300, t0)

	if r := s.DynamicRadius(t0); r != 15 {
		t.Errorf("expected base radius at start, got %f", r)
	}
	if r := s.DynamicRadius(t0.Add(10 * time.Second)); r != 300 {
		t.Errorf("expected 300 at 10s on 800x600, got %f", r)
	}
	if r := s.DynamicRadius(t0.Add(25 * time.Second)); r != 300 {
		t.Errorf("expected radius to hold at 300, got %f", r)
	}
	if r := s.DynamicRadius(t0.Add(5 * time.Second)); math.Abs(r-157.5) > 1e-9 {
		t.Errorf("expected 157.5 halfway, got %f", r)
	}

	prev := 0.0
	for ms := 0; ms <= 12000; ms += 250 {
		r := s.DynamicRadius(t0.Add(time.Duration(ms) * time.Millisecond))
		if r < prev {
			t.Fatalf("radius decreased at %dms: %f < %f", ms, r, prev)
		}
		prev = r
	}
}

func TestDynamicRadiusNeverBelowBase(t *testing.T) {
	cfg := testConfig(1)
	cfg.Interaction.BaseRadius = 40
	s := New(cfg, geom.NewBounds(60, 50, 1), constRand(0.5))
	press(s, 30, 25, t0)

	for _, d := range []time.Duration{0, 5 * time.Second, 10 * time.Second} {
		if r := s.DynamicRadius(t0.Add(d)); r != 40 {
			t.Errorf("at %v expected 40, got %f", d, r)
		}
	}
}

func TestAttractCap(t *testing.T) {
	s := newTestSim(5000)
	for i := range s.Particles() {
		s.Particles()[i].Pos = geom.LogicalPoint{X: 400, Y: 300}
	}
	press(s, 400, 300, t0)

	if n := s.Attract(t0); n != 5 {
		t.Errorf("expected 5 attracted, got %d", n)
	}
	c := s.Counts()
	if c.Attracted != 5 || c.Free != 4995 {
		t.Errorf("unexpected counts %+v", c)
	}
	for i := 0; i < 5; i++ {
		if s.Particles()[i].State != particle.Attracted {
			t.Errorf("expected slice order tie-break, particle %d is %s", i, s.Particles()[i].State)
		}
	}
}

func TestAttractZeroCapIsNoop(t *testing.T) {
	s := newTestSim(999)
	for i := range s.Particles() {
		s.Particles()[i].Pos = geom.LogicalPoint{X: 400, Y: 300}
	}
	press(s, 400, 300, t0)

	if n := s.Attract(t0); n != 0 {
		t.Errorf("expected no-op, attracted %d", n)
	}
}

func TestAttractRespectsRadius(t *testing.T) {
	s := newTestSim(5000)
	ps := s.Particles()
	for i := range ps {
		ps[i].Pos = geom.LogicalPoint{X: 700, Y: 500}
	}
	ps[10].Pos = geom.LogicalPoint{X: 410, Y: 300}
	ps[20].Pos = geom.LogicalPoint{X: 411, Y: 311}
	ps[30].Pos = geom.LogicalPoint{X: 400, Y: 314}
	ps[40].State = particle.Flicked
	ps[40].Vel = geom.Vec{X: 1}
	ps[40].Pos = geom.LogicalPoint{X: 400, Y: 300}

	press(s, 400, 300, t0)

	if n := s.Attract(t0); n != 2 {
		t.Fatalf("expected 2 attracted, got %d", n)
	}
	if ps[10].State != particle.Attracted || ps[30].State != particle.Attracted {
		t.Error("particles inside the radius should be attracted")
	}
	if ps[20].State != particle.Free {
		t.Error("corner of the bounding box is outside the circle")
	}
	if ps[40].State != particle.Flicked {
		t.Error("only free particles may be attracted")
	}
}

func TestAttractRequiresInteraction(t *testing.T) {
	s := newTestSim(1000)
	for i := range s.Particles() {
		s.Particles()[i].Pos = geom.LogicalPoint{X: 400, Y: 300}
	}
	s.Step(t0)
	if c := s.Counts(); c.Attracted != 0 {
		t.Errorf("nothing should be attracted while idle, got %d", c.Attracted)
	}
}

func TestAttractedEasesTowardPointer(t *testing.T) {
	s := newTestSim(1)
	p := &s.Particles()[0]
	p.Pos = geom.LogicalPoint{X: 300, Y: 300}
	p.State = particle.Attracted
	s.pointer.Position = geom.LogicalPoint{X: 400, Y: 200}

	s.Step(t0)
	if p.Pos != (geom.LogicalPoint{X: 310, Y: 290}) {
		t.Errorf("expected 10%% step to (310, 290), got %+v", p.Pos)
	}
	s.Step(t0)
	if p.Pos != (geom.LogicalPoint{X: 319, Y: 281}) {
		t.Errorf("expected (319, 281), got %+v", p.Pos)
	}
}

func TestFlickScenario(t *testing.T) {
	s := newTestSim(3)
	press(s, 100, 100, t0)

	ps := s.Particles()
	ps[0].Pos, ps[0].State = geom.LogicalPoint{X: 110, Y: 100}, particle.Attracted
	ps[1].Pos, ps[1].State = geom.LogicalPoint{X: 116, Y: 100}, particle.Attracted
	ps[2].Pos = geom.LogicalPoint{X: 110, Y: 101}

	move(s, 110, 100)

	if ps[0].State != particle.Flicked {
		t.Fatalf("expected flicked, got %s", ps[0].State)
	}
	if ps[0].Vel.Angle() != 0 {
		t.Errorf("expected angle 0, got %f", ps[0].Vel.Angle())
	}
	if math.Abs(ps[0].Vel.Len()-50) > 1e-12 {
		t.Errorf("expected magnitude 50, got %f", ps[0].Vel.Len())
	}
	if ps[1].State != particle.Attracted || !ps[1].Vel.IsZero() {
		t.Error("particle outside the capture distance must stay attracted")
	}
	if ps[2].State != particle.Free {
		t.Error("free particles are never flicked")
	}
}

func TestFlickJitterBounds(t *testing.T) {
	for _, r := range []float64{0, 0.999999} {
		s := New(testConfig(1), geom.NewBounds(800, 600, 1), constRand(r))
		press(s, 100, 100, t0)
		s.Particles()[0].Pos = geom.LogicalPoint{X: 110, Y: 100}
		s.Particles()[0].State = particle.Attracted
		move(s, 110, 100)

		angle := s.Particles()[0].Vel.Angle()
		if math.Abs(angle) > 10*math.Pi/180+1e-9 {
			t.Errorf("r=%f: angle %f outside ±10°", r, angle)
		}
	}
}

func TestStickyAttraction(t *testing.T) {
	s := newTestSim(1)
	p := &s.Particles()[0]
	press(s, 400, 300, t0)
	p.Pos, p.State = geom.LogicalPoint{X: 300, Y: 300}, particle.Attracted

	release(s)
	if p.State != particle.Attracted {
		t.Fatal("ending an interaction must not release attracted particles")
	}
	s.Step(t0)
	if p.Pos.X != 310 {
		t.Errorf("attracted particle should keep easing, got %+v", p.Pos)
	}
	if _, ok := s.Pointer().StartedAt(); ok {
		t.Error("interaction timer should be cleared")
	}
}

func TestReleaseOnEnd(t *testing.T) {
	cfg := testConfig(2)
	cfg.Interaction.ReleaseOnEnd = true
	s := New(cfg, geom.NewBounds(800, 600, 1), constRand(0.5))
	press(s, 400, 300, t0)
	s.Particles()[0].State = particle.Attracted
	s.Particles()[1].State = particle.Flicked
	s.Particles()[1].Vel = geom.Vec{X: 5}

	release(s)

	if s.Particles()[0].State != particle.Free {
		t.Error("attracted particle should be released")
	}
	if s.Particles()[1].State != particle.Flicked {
		t.Error("flicked particles finish on their own")
	}
}

func TestResize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Count = 500
	s := New(cfg, geom.NewBounds(800, 600, 1), rand.New(rand.NewSource(3)))
	ps := s.Particles()
	ps[10].State, ps[10].Vel = particle.Flicked, geom.Vec{X: 9}
	ps[11].State = particle.Attracted

	nb := geom.NewBounds(200, 100, 1)
	s.Resize(nb)

	if s.Bounds() != nb {
		t.Errorf("bounds not updated")
	}
	for i, p := range s.Particles() {
		if p.State != particle.Free || !p.Vel.IsZero() {
			t.Fatalf("particle %d not reset: %s %+v", i, p.State, p.Vel)
		}
		if p.IsFamily() && p.Family.Base != p.Pos {
			t.Errorf("family %d base not reset", i)
		}
	}
	checkInvariants(t, s)
}

func TestFamilyOrbitStaysInBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Count = 4
	s := New(cfg, geom.NewBounds(20, 20, 1), rand.New(rand.NewSource(11)))
	for i := range s.Particles() {
		s.Particles()[i].Family.Orbit.Speed = 0.3
	}
	for tick := 0; tick < 500; tick++ {
		s.Step(t0)
		checkInvariants(t, s)
	}
	for _, p := range s.Particles() {
		if p.Brightness != 1 {
			t.Error("family particles never twinkle")
		}
	}
}

func TestTwinkleClamped(t *testing.T) {
	s := New(testConfig(2), geom.NewBounds(800, 600, 1), constRand(0.99))
	s.Particles()[0].Brightness = 0.99
	for i := 0; i < 10; i++ {
		s.Step(t0)
	}
	if b := s.Particles()[0].Brightness; b != 1 {
		t.Errorf("expected brightness clamped to 1, got %f", b)
	}
}

type countingObserver struct {
	ticks   int
	flicks  int
	last TickStats
}

func (c *countingObserver) OnTick(s TickStats) {
	c.ticks++
	c.flicks += s.Flicks
	c.last = s
}

func TestObserverSeesStats(t *testing.T) {
	s := newTestSim(3)
	obs := &countingObserver{}
	s.AddObserver(obs)

	press(s, 100, 100, t0)
	s.Particles()[0].Pos, s.Particles()[0].State = geom.LogicalPoint{X: 110, Y: 100}, particle.Attracted
	move(s, 110, 100)
	stats := s.Step(t0.Add(time.Second))

	if obs.ticks != 1 || obs.flicks != 1 {
		t.Errorf("expected 1 tick with 1 flick, got %d ticks %d flicks", obs.ticks, obs.flicks)
	}
	if stats.Flicked != 1 || !stats.Interacting {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.Radius <= 15 {
		t.Errorf("radius should have grown after 1s, got %f", stats.Radius)
	}

	stats = s.Step(t0.Add(2 * time.Second))
	if stats.Flicks != 0 {
		t.Error("flick count should reset between ticks")
	}
	if stats.Elapsed != time.Second {
		t.Errorf("expected 1s elapsed since first tick, got %v", stats.Elapsed)
	}
}

type scriptedDriver struct{}

func (scriptedDriver) Events(tick int, at time.Time, b geom.Bounds) []input.Event {
	if tick == 0 {
		return []input.Event{{Kind: input.Down, Source: input.Mouse, Pos: geom.LogicalPoint{X: b.Width / 2, Y: b.Height / 2}}}
	}
	return nil
}

func TestRun(t *testing.T) {
	s := New(testConfig(2000), geom.NewBounds(800, 600, 1), rand.New(rand.NewSource(5)))
	result, err := Run(context.Background(), s, scriptedDriver{}, RunConfig{Ticks: 120, TPS: 60, Start: t0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 120 || len(result.Stats) != 120 {
		t.Errorf("expected 120 steps, got %d", result.StepsTaken)
	}
	if last := result.Stats[119]; last.Elapsed != 119*(time.Second/60) {
		t.Errorf("unexpected virtual clock %v", last.Elapsed)
	}
	if result.Final.Attracted == 0 {
		t.Error("holding the pointer for 2s should attract something")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	s := newTestSim(10)
	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero ticks", RunConfig{Ticks: 0, TPS: 60}},
		{"negative tps", RunConfig{Ticks: 10, TPS: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), s, nil, tt.cfg); !errors.Is(err, ErrInvalidRun) {
				t.Errorf("expected ErrInvalidRun, got %v", err)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := Run(ctx, newTestSim(10), nil, RunConfig{Ticks: 10, TPS: 60})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Error("expected an empty partial result")
	}
}

func TestEnsemble(t *testing.T) {
	cfg := testConfig(500)
	e := NewEnsemble(cfg, geom.NewBounds(400, 300, 1), 4, 100, func() Driver { return scriptedDriver{} })
	results, err := e.Run(context.Background(), RunConfig{Ticks: 30, TPS: 60})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 30 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
	}
}
