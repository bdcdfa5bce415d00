package metrics

import "github.com/san-kum/stardust/internal/sim"

// TotalCaptured counts every free-to-attracted transition.
type TotalCaptured struct {
	name  string
	total int
}

func NewTotalCaptured() *TotalCaptured {
	return &TotalCaptured{
		name: "total_captured",
	}
}

func (c *TotalCaptured) Name() string { return c.name }

func (c *TotalCaptured) Observe(s sim.TickStats) {
	c.total += s.Captured
}

func (c *TotalCaptured) Value() float64 { return float64(c.total) }

func (c *TotalCaptured) Reset() { c.total = 0 }

// TotalFlicks counts every attracted-to-flicked transition.
type TotalFlicks struct {
	name  string
	total int
}

func NewTotalFlicks() *TotalFlicks {
	return &TotalFlicks{
		name: "total_flicks",
	}
}

func (f *TotalFlicks) Name() string { return f.name }

func (f *TotalFlicks) Observe(s sim.TickStats) {
	f.total += s.Flicks
}

func (f *TotalFlicks) Value() float64 { return float64(f.total) }

func (f *TotalFlicks) Reset() { f.total = 0 }
