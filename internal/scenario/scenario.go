// Package scenario scripts pointer input for headless runs, snapshots and
// benchmarks.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
)

var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// Script produces the events to apply before tick (zero based).
type Script interface {
	Events(tick int, at time.Time, b geom.Bounds) []input.Event
}

// Idle never touches the surface.
type Idle struct{}

func (Idle) Events(int, time.Time, geom.Bounds) []input.Event { return nil }

// Orbit presses at the centre and then circles it forever, so the radius
// keeps growing and nothing is ever released.
type Orbit struct {
	Period int     // ticks per revolution
	Reach  float64 // circle radius as a fraction of half the smaller side
	Source input.Source
}

func (o Orbit) Events(tick int, at time.Time, b geom.Bounds) []input.Event {
	c := geom.LogicalPoint{X: b.Width / 2, Y: b.Height / 2}
	if tick == 0 {
		return []input.Event{event(input.Down, o.Source, c, at)}
	}

	period := o.Period
	if period <= 0 {
		period = 240
	}
	angle := 2 * math.Pi * float64(tick) / float64(period)
	pos := c.Add(geom.FromPolar(angle, o.Reach*b.MinDim()/2))
	return []input.Event{event(input.Move, o.Source, pos, at)}
}

// Swipe repeats press, hold, drag, release strokes through the middle of
// the surface, alternating direction each stroke. The drag moves Step
// units per tick so the settled crowd stays within flick range.
type Swipe struct {
	Hold   int     // ticks held still after the press
	Stroke int     // ticks spent dragging
	Step   float64 // drag distance per tick
	Gap    int     // idle ticks after the release
	Source input.Source
}

func (s Swipe) cycle() int { return s.Hold + s.Stroke + s.Gap + 2 }

func (s Swipe) Events(tick int, at time.Time, b geom.Bounds) []input.Event {
	n := tick / s.cycle()
	phase := tick % s.cycle()

	dir := 1.0
	if n%2 == 1 {
		dir = -1
	}
	span := float64(s.Stroke) * s.Step
	from := geom.LogicalPoint{X: b.Width/2 - dir*span/2, Y: b.Height / 2}

	switch {
	case phase == 0:
		return []input.Event{event(input.Down, s.Source, from, at)}
	case phase <= s.Hold:
		return nil
	case phase <= s.Hold+s.Stroke:
		pos := from.Add(geom.Vec{X: dir * float64(phase-s.Hold) * s.Step})
		return []input.Event{event(input.Move, s.Source, pos, at)}
	case phase == s.Hold+s.Stroke+1:
		pos := from.Add(geom.Vec{X: dir * span})
		return []input.Event{event(input.Up, s.Source, pos, at)}
	}
	return nil
}

func event(k input.Kind, src input.Source, pos geom.LogicalPoint, at time.Time) input.Event {
	ev := input.Event{Kind: k, Source: src, Pos: pos, At: at}
	if src == input.Touch && k != input.Up {
		ev.Touches = 1
	}
	return ev
}

var scripts = map[string]func() Script{
	"idle":        func() Script { return Idle{} },
	"orbit":       func() Script { return Orbit{Period: 240, Reach: 0.5} },
	"swipe":       func() Script { return Swipe{Hold: 90, Stroke: 20, Step: 3, Gap: 60} },
	"touch-swipe": func() Script { return Swipe{Hold: 90, Stroke: 20, Step: 3, Gap: 60, Source: input.Touch} },
}

func Get(name string) (Script, error) {
	f, ok := scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
