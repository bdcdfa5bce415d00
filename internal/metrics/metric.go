// Package metrics summarises a run from its per-tick statistics.
package metrics

import "github.com/san-kum/stardust/internal/sim"

type Metric interface {
	Name() string
	Observe(s sim.TickStats)
	Value() float64
	Reset()
}

// Standard returns a fresh instance of every metric, in report order.
func Standard() []Metric {
	return []Metric{
		NewPeakAttracted(),
		NewTotalCaptured(),
		NewTotalFlicks(),
		NewMeanFlicked(),
		NewCalm(),
	}
}
