package input

import (
	"time"

	"github.com/san-kum/stardust/internal/geom"
)

// PointerState is the single shared interaction state. The start time is
// set exactly when interaction begins and cleared when it ends.
type PointerState struct {
	Position geom.LogicalPoint
	Previous geom.LogicalPoint

	interacting bool
	startedAt   time.Time
}

// Begin starts an interaction. Calling it while already interacting keeps
// the original start time.
func (p *PointerState) Begin(at time.Time) {
	if p.interacting {
		return
	}
	p.interacting = true
	p.startedAt = at
}

func (p *PointerState) End() {
	p.interacting = false
	p.startedAt = time.Time{}
}

// MoveTo shifts the current position into Previous and records pt.
func (p *PointerState) MoveTo(pt geom.LogicalPoint) {
	p.Previous = p.Position
	p.Position = pt
}

// Velocity is the pointer displacement since the previous move.
func (p PointerState) Velocity() geom.Vec {
	return p.Position.Sub(p.Previous)
}

func (p PointerState) Interacting() bool { return p.interacting }

func (p PointerState) StartedAt() (time.Time, bool) {
	return p.startedAt, p.interacting
}

// Elapsed is the interaction time at now, zero when idle or when now
// precedes the start.
func (p PointerState) Elapsed(now time.Time) time.Duration {
	if !p.interacting {
		return 0
	}
	d := now.Sub(p.startedAt)
	if d < 0 {
		return 0
	}
	return d
}
