package metrics

import "github.com/san-kum/stardust/internal/sim"

type PeakAttracted struct {
	name string
	peak int
}

func NewPeakAttracted() *PeakAttracted {
	return &PeakAttracted{
		name: "peak_attracted",
	}
}

func (p *PeakAttracted) Name() string { return p.name }

func (p *PeakAttracted) Observe(s sim.TickStats) {
	if s.Attracted > p.peak {
		p.peak = s.Attracted
	}
}

func (p *PeakAttracted) Value() float64 { return float64(p.peak) }

func (p *PeakAttracted) Reset() { p.peak = 0 }

// MeanFlicked is the average number of particles in flight per tick.
type MeanFlicked struct {
	name    string
	sum     float64
	samples int
}

func NewMeanFlicked() *MeanFlicked {
	return &MeanFlicked{
		name: "mean_flicked",
	}
}

func (m *MeanFlicked) Name() string { return m.name }

func (m *MeanFlicked) Observe(s sim.TickStats) {
	m.sum += float64(s.Flicked)
	m.samples++
}

func (m *MeanFlicked) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanFlicked) Reset() {
	m.sum = 0
	m.samples = 0
}

// Calm is the fraction of ticks with nothing attracted or in flight.
type Calm struct {
	name    string
	busy    int
	samples int
}

func NewCalm() *Calm {
	return &Calm{
		name: "calm",
	}
}

func (c *Calm) Name() string { return c.name }

func (c *Calm) Observe(s sim.TickStats) {
	c.samples++
	if s.Attracted > 0 || s.Flicked > 0 {
		c.busy++
	}
}

func (c *Calm) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.busy)/float64(c.samples)
}

func (c *Calm) Reset() {
	c.busy = 0
	c.samples = 0
}
