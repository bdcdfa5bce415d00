package sim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRun = errors.New("sim: invalid run configuration")

// Run drives s headlessly for cfg.Ticks ticks on a virtual clock of
// cfg.TPS ticks per second, feeding events from d before every tick.
// A nil driver runs without input.
func Run(ctx context.Context, s *Simulation, d Driver, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	dt := time.Second / time.Duration(cfg.TPS)

	result := &Result{Stats: make([]TickStats, 0, cfg.Ticks)}
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.Counts()
			return result, ctx.Err()
		default:
		}

		now := start.Add(time.Duration(i) * dt)
		if d != nil {
			for _, ev := range d.Events(i, now, s.Bounds()) {
				if ev.At.IsZero() {
					ev.At = now
				}
				s.HandleEvent(ev)
			}
		}

		result.Stats = append(result.Stats, s.Step(now))
		result.StepsTaken++
	}

	result.Final = s.Counts()
	return result, nil
}

func validateRun(cfg RunConfig) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidRun, cfg.Ticks)
	}
	if cfg.TPS <= 0 {
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalidRun, cfg.TPS)
	}
	return nil
}
