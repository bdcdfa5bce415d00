package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/stardust/internal/sim"
)

func history() []sim.TickStats {
	return []sim.TickStats{
		{Tick: 1, Free: 10},
		{Tick: 2, Free: 7, Attracted: 3, Captured: 3, Interacting: true},
		{Tick: 3, Free: 6, Attracted: 2, Flicked: 2, Captured: 1, Flicks: 2, Interacting: true},
		{Tick: 4, Free: 8, Attracted: 2, Interacting: true},
		{Tick: 5, Free: 8, Attracted: 2},
	}
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		metric Metric
		want   float64
	}{
		{NewPeakAttracted(), 3},
		{NewTotalCaptured(), 4},
		{NewTotalFlicks(), 2},
		{NewMeanFlicked(), 0.4},
		{NewCalm(), 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			for _, s := range history() {
				tt.metric.Observe(s)
			}
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestMetricsReset(t *testing.T) {
	for _, m := range Standard() {
		for _, s := range history() {
			m.Observe(s)
		}
		m.Reset()
		want := 0.0
		if m.Name() == "calm" {
			want = 1.0
		}
		if m.Value() != want {
			t.Errorf("%s: expected %f after reset, got %f", m.Name(), want, m.Value())
		}
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(Standard()...)
	for _, s := range history() {
		r.OnTick(s)
	}

	if len(r.History) != 5 {
		t.Fatalf("expected 5 ticks, got %d", len(r.History))
	}
	vals := r.Values()
	if vals["total_captured"] != 4 {
		t.Errorf("expected 4 captured, got %f", vals["total_captured"])
	}

	free := r.Series(func(s sim.TickStats) float64 { return float64(s.Free) })
	if len(free) != 5 || free[1] != 7 {
		t.Errorf("unexpected series %v", free)
	}

	r.Reset()
	if len(r.History) != 0 || r.Values()["peak_attracted"] != 0 {
		t.Error("reset should clear history and metrics")
	}
}

func TestRecorderObservesSimulation(t *testing.T) {
	var _ sim.Observer = NewRecorder()
}
