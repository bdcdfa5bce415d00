package input

import (
	"time"

	"github.com/san-kum/stardust/internal/geom"
)

// Sample is the polled pointer state of one frame, already converted to
// logical units. Touch is the position of the first active touch.
type Sample struct {
	MouseDown bool
	Mouse     geom.LogicalPoint
	Touches   int
	Touch     geom.LogicalPoint
}

// Tracker turns successive polled samples into events for hosts that poll
// input instead of receiving it. While any touch is active or just ended,
// the mouse is ignored.
type Tracker struct {
	prev Sample
	seen bool
}

func (t *Tracker) Events(cur Sample, at time.Time) []Event {
	prev := t.prev
	first := !t.seen
	t.prev, t.seen = cur, true

	if cur.Touches > 0 || prev.Touches > 0 {
		switch {
		case prev.Touches == 0:
			return []Event{{Kind: Down, Source: Touch, Pos: cur.Touch, Touches: cur.Touches, At: at}}
		case cur.Touches == 0:
			return []Event{{Kind: Up, Source: Touch, Pos: prev.Touch, At: at}}
		case cur.Touch != prev.Touch || cur.Touches != prev.Touches:
			return []Event{{Kind: Move, Source: Touch, Pos: cur.Touch, Touches: cur.Touches, At: at}}
		}
		return nil
	}

	switch {
	case cur.MouseDown && !prev.MouseDown:
		return []Event{{Kind: Down, Source: Mouse, Pos: cur.Mouse, At: at}}
	case !cur.MouseDown && prev.MouseDown:
		return []Event{{Kind: Up, Source: Mouse, Pos: cur.Mouse, At: at}}
	case first || cur.Mouse != prev.Mouse:
		return []Event{{Kind: Move, Source: Mouse, Pos: cur.Mouse, At: at}}
	}
	return nil
}
