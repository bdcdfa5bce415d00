package input

import (
	"time"

	"github.com/san-kum/stardust/internal/geom"
)

type Kind uint8

const (
	Down Kind = iota
	Up
	Move
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "move"
	}
}

type Source uint8

const (
	Mouse Source = iota
	Touch
)

// Event is a pointer or touch event reduced to one logical position.
// Touches carries the number of active touch points for touch events;
// only the first touch contributes Pos.
type Event struct {
	Kind    Kind
	Source  Source
	Pos     geom.LogicalPoint
	Touches int
	At      time.Time
}

// Outcome reports what Apply did to the pointer state.
type Outcome struct {
	Flick   bool
	Started bool
	Ended   bool
}

// Apply reduces ev into p. Mouse positions must lie in the raw drawable
// rectangle, touch positions may overshoot it by touchBuffer; anything
// outside ends the interaction. Accepted positions are clamped to the
// edge buffer before being stored.
func Apply(p *PointerState, ev Event, b geom.Bounds, touchBuffer float64) Outcome {
	was := p.Interacting()
	var out Outcome

	tolerance := 0.0
	if ev.Source == Touch {
		tolerance = touchBuffer
	}

	switch ev.Kind {
	case Down:
		if ev.Source == Touch && (ev.Touches == 0 || !b.Contains(ev.Pos, tolerance)) {
			break
		}
		p.Begin(ev.At)
		if track(p, ev.Pos, b, tolerance) {
			out.Flick = true
		}

	case Up:
		p.End()

	case Move:
		if ev.Source == Touch {
			if ev.Touches == 0 {
				p.End()
				break
			}
			if !p.Interacting() {
				break
			}
		}
		if track(p, ev.Pos, b, tolerance) && p.Interacting() {
			out.Flick = true
		}
	}

	now := p.Interacting()
	out.Started = !was && now
	out.Ended = was && !now
	return out
}

// track moves the pointer to pos, or ends the interaction when pos falls
// outside the tolerated rectangle. Previous always takes the old position.
func track(p *PointerState, pos geom.LogicalPoint, b geom.Bounds, tolerance float64) bool {
	if !b.Contains(pos, tolerance) {
		p.Previous = p.Position
		p.End()
		return false
	}
	p.MoveTo(b.Clamp(pos))
	return true
}
