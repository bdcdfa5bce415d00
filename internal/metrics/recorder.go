package metrics

import "github.com/san-kum/stardust/internal/sim"

// Recorder is a sim.Observer that keeps the tick history and feeds every
// metric it holds.
type Recorder struct {
	History []sim.TickStats
	Metrics []Metric
}

func NewRecorder(ms ...Metric) *Recorder {
	return &Recorder{
		History: make([]sim.TickStats, 0, 256),
		Metrics: ms,
	}
}

func (r *Recorder) OnTick(s sim.TickStats) {
	r.History = append(r.History, s)
	for _, m := range r.Metrics {
		m.Observe(s)
	}
}

// Values maps metric names to their current values.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics))
	for _, m := range r.Metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.History = r.History[:0]
	for _, m := range r.Metrics {
		m.Reset()
	}
}

// Series extracts one column of the history for plotting.
func (r *Recorder) Series(f func(sim.TickStats) float64) []float64 {
	out := make([]float64, len(r.History))
	for i, s := range r.History {
		out[i] = f(s)
	}
	return out
}
