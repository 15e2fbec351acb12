package drift

import (
	"sync"
	"time"
)

// Environment is the host side of the trigger contract. Triggers probe it
// for the capability interfaces below (ScrollSource, ResizeSource, ...);
// an environment that lacks a capability simply makes the corresponding
// trigger a no-op — never an error and never a panic, so the pipeline
// degrades to static visuals in hosts that cannot observe an event source.
type Environment interface{}

// ScrollSource delivers normalized scroll progress. container selects a
// scroll context when the experience is mounted inside a sub-element; the
// empty string means the global viewport.
type ScrollSource interface {
	OnScroll(container string, fn func(progress float64)) (cancel func())
}

// ResizeSource delivers viewport dimension changes in pixels.
type ResizeSource interface {
	OnResize(fn func(width, height int)) (cancel func())
}

// PointerSource delivers pointer position changes in pixels.
type PointerSource interface {
	OnPointerMove(fn func(x, y int)) (cancel func())
}

// VisibilitySource delivers per-section visible ratios in [0, 1],
// identified by the section's data-section-id value.
type VisibilitySource interface {
	OnVisibility(container string, fn func(sectionID string, ratio float64)) (cancel func())
}

// MotionSource delivers the host's reduced-motion preference.
type MotionSource interface {
	OnMotionPreference(fn func(reduced bool)) (cancel func())
}

// Trigger adapts exactly one environment event source into Store field
// writes. Each Store field has exactly one writing trigger; that ownership
// is a convention of this package, not something the types enforce.
type Trigger interface {
	// Mount attaches the trigger to env and writes into store until the
	// returned teardown runs. The teardown must remove every listener and
	// stop every timer the trigger created, and must be safe to call more
	// than once.
	Mount(store *Store, env Environment) (teardown func())
}

// noopTeardown is returned by triggers whose event source is unavailable.
func noopTeardown() {}

// ScrollTrigger writes scrollProgress and isScrolling. isScrolling is
// cleared after IdleDelay without scroll events (default 150ms).
type ScrollTrigger struct {
	// Container scopes observation to a sub-element; empty means the
	// global viewport.
	Container string
	IdleDelay time.Duration
}

// DefaultScrollIdleDelay is the isScrolling idle window used when
// ScrollTrigger.IdleDelay is zero.
const DefaultScrollIdleDelay = 150 * time.Millisecond

func (t *ScrollTrigger) Mount(store *Store, env Environment) func() {
	src, ok := env.(ScrollSource)
	if !ok {
		logger.Debug().Str("trigger", "scroll").Msg("environment lacks source, trigger inactive")
		return noopTeardown
	}

	idle := t.IdleDelay
	if idle <= 0 {
		idle = DefaultScrollIdleDelay
	}

	var mu sync.Mutex
	var idleTimer *time.Timer
	clampPage := store.Model() != ModelInfiniteCarousel

	cancel := src.OnScroll(t.Container, func(progress float64) {
		if clampPage {
			progress = clamp01(progress)
		}
		store.Update(func(s *State) {
			s.Experience.ScrollProgress = progress
			s.Experience.IsScrolling = true
		})

		mu.Lock()
		if idleTimer != nil {
			idleTimer.Stop()
		}
		idleTimer = time.AfterFunc(idle, func() {
			store.Update(func(s *State) {
				s.Experience.IsScrolling = false
			})
		})
		mu.Unlock()
	})

	return func() {
		cancel()
		mu.Lock()
		if idleTimer != nil {
			idleTimer.Stop()
			idleTimer = nil
		}
		mu.Unlock()
	}
}

// ResizeTrigger writes viewportHeight.
type ResizeTrigger struct{}

func (t *ResizeTrigger) Mount(store *Store, env Environment) func() {
	src, ok := env.(ResizeSource)
	if !ok {
		logger.Debug().Str("trigger", "resize").Msg("environment lacks source, trigger inactive")
		return noopTeardown
	}
	return src.OnResize(func(_, height int) {
		store.Update(func(s *State) {
			s.Experience.ViewportHeight = height
		})
	})
}

// PointerTrigger writes cursorX and cursorY.
type PointerTrigger struct{}

func (t *PointerTrigger) Mount(store *Store, env Environment) func() {
	src, ok := env.(PointerSource)
	if !ok {
		logger.Debug().Str("trigger", "pointer").Msg("environment lacks source, trigger inactive")
		return noopTeardown
	}
	return src.OnPointerMove(func(x, y int) {
		store.Update(func(s *State) {
			s.Experience.CursorX = x
			s.Experience.CursorY = y
		})
	})
}

// VisibilityTrigger writes sectionVisibilities entries.
type VisibilityTrigger struct {
	Container string
}

func (t *VisibilityTrigger) Mount(store *Store, env Environment) func() {
	src, ok := env.(VisibilitySource)
	if !ok {
		logger.Debug().Str("trigger", "visibility").Msg("environment lacks source, trigger inactive")
		return noopTeardown
	}
	return src.OnVisibility(t.Container, func(sectionID string, ratio float64) {
		store.Update(func(s *State) {
			s.Experience.SectionVisibilities[sectionID] = clamp01(ratio)
		})
	})
}

// MotionTrigger writes prefersReducedMotion.
type MotionTrigger struct{}

func (t *MotionTrigger) Mount(store *Store, env Environment) func() {
	src, ok := env.(MotionSource)
	if !ok {
		logger.Debug().Str("trigger", "motion").Msg("environment lacks source, trigger inactive")
		return noopTeardown
	}
	return src.OnMotionPreference(func(reduced bool) {
		store.Update(func(s *State) {
			s.Experience.PrefersReducedMotion = reduced
		})
	})
}

// TriggerSet owns the mounted triggers of one experience instance. It is
// the single place teardown ordering is guaranteed: Unmount runs teardowns
// in reverse mount order, once.
type TriggerSet struct {
	teardowns []func()
	unmounted bool
}

// MountTriggers mounts every trigger against the store and environment and
// returns the aggregate for later unmount. This is the only sanctioned way
// to wire triggers — mounting ad hoc loses the ordering guarantee.
func MountTriggers(store *Store, env Environment, triggers ...Trigger) *TriggerSet {
	set := &TriggerSet{teardowns: make([]func(), 0, len(triggers))}
	for _, t := range triggers {
		set.teardowns = append(set.teardowns, t.Mount(store, env))
	}
	return set
}

// Unmount tears every trigger down in reverse mount order. Idempotent.
func (ts *TriggerSet) Unmount() {
	if ts.unmounted {
		return
	}
	ts.unmounted = true
	for i := len(ts.teardowns) - 1; i >= 0; i-- {
		ts.teardowns[i]()
	}
	ts.teardowns = nil
}

// DefaultTriggers returns one of each trigger this package ships, scoped
// to container (empty for the global viewport).
func DefaultTriggers(container string) []Trigger {
	return []Trigger{
		&ScrollTrigger{Container: container},
		&ResizeTrigger{},
		&PointerTrigger{},
		&VisibilityTrigger{Container: container},
		&MotionTrigger{},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
