package sim

import (
	"time"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
)

// Rand is the random source driving jitter, twinkle and scatter.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// TickStats summarises one simulation tick.
type TickStats struct {
	Tick        int
	Elapsed     time.Duration
	Free        int
	Attracted   int
	Flicked     int
	Captured    int
	Flicks      int
	Radius      float64
	Interacting bool
}

type Observer interface {
	OnTick(s TickStats)
}

// Counts is the number of particles in each state.
type Counts struct {
	Free, Attracted, Flicked int
}

// Driver feeds input events into a headless run.
type Driver interface {
	Events(tick int, at time.Time, b geom.Bounds) []input.Event
}

type RunConfig struct {
	Ticks int
	TPS   int
	Start time.Time
}

type Result struct {
	Stats      []TickStats
	Final      Counts
	StepsTaken int
}
