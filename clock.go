package drift

import (
	"context"
	"time"
)

// Ticker steps timeline realizations. Run calls step with elapsed seconds
// until step reports done or ctx is cancelled; the real implementation
// ticks at frame rate, ManualTicker steps deterministically for tests.
type Ticker interface {
	Run(ctx context.Context, step func(dt float32) (done bool)) error
}

// frameRate is the tick rate for real-time timeline realizations.
const frameRate = 60

// frameTicker steps in real time at frameRate using a time.Ticker.
type frameTicker struct{}

func (frameTicker) Run(ctx context.Context, step func(dt float32) bool) error {
	tick := time.NewTicker(time.Second / frameRate)
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tick.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if step(dt) {
				return nil
			}
		}
	}
}

// ManualTicker feeds a fixed dt per step, for deterministic tests and for
// reduced-motion hosts that want transitions to complete in one step. A
// zero-value ManualTicker steps at 1/60s.
type ManualTicker struct {
	// DT is the per-step elapsed time in seconds.
	DT float32
	// MaxSteps bounds the run; 0 means unbounded.
	MaxSteps int
	// Steps counts the steps taken by the last Run.
	Steps int
}

func (m *ManualTicker) Run(ctx context.Context, step func(dt float32) bool) error {
	dt := m.DT
	if dt <= 0 {
		dt = 1.0 / frameRate
	}
	m.Steps = 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.Steps++
		if step(dt) {
			return nil
		}
		if m.MaxSteps > 0 && m.Steps >= m.MaxSteps {
			return nil
		}
	}
}
