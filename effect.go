package drift

import (
	"sort"
	"sync"
	"time"
)

// EffectDefaults carries the timing an effect declares for itself.
// Callers may override either field per track.
type EffectDefaults struct {
	Duration time.Duration
	Ease     string
}

// TimelineSpec is the tween-based realization of an effect: named CSS
// variables interpolated from From to To over the merged duration. Format
// is the fmt verb plus unit applied to each interpolated value (default
// "%.3f"). Build, when set, replaces the declarative keyframes entirely
// with a custom player.
type TimelineSpec struct {
	From   map[string]float64
	To     map[string]float64
	Format string
	Build  func(target Target, opts EffectOptions) Player
}

// Player is a custom timeline built by TimelineSpec.Build: stepped like a
// tween set, done when Step reports true.
type Player interface {
	Step(dt float32) (done bool)
}

// ClassSpec is the class-toggle realization of an effect: add Class,
// wait for the host's animation completion (or the fallback timeout),
// remove Class.
type ClassSpec struct {
	Class string
}

// Effect is a reusable description of a discrete visual transition. Either
// realization may be nil; track execution falls back to whichever is
// present.
type Effect struct {
	ID       string
	Name     string
	Defaults EffectDefaults
	Timeline *TimelineSpec
	Class    *ClassSpec
}

// EffectOptions are per-track overrides merged over an effect's defaults.
type EffectOptions struct {
	Duration time.Duration
	Ease     string
	Delay    time.Duration
}

// defaultEffectDuration applies when neither the effect nor the caller
// specifies one.
const defaultEffectDuration = 400 * time.Millisecond

// merged resolves the timing for one track: caller options over effect
// defaults over package defaults.
func (e Effect) merged(opts EffectOptions) EffectOptions {
	out := opts
	if out.Duration <= 0 {
		out.Duration = e.Defaults.Duration
	}
	if out.Duration <= 0 {
		out.Duration = defaultEffectDuration
	}
	if out.Ease == "" {
		out.Ease = e.Defaults.Ease
	}
	return out
}

// EffectRegistry holds registered effect primitives. Ids are unique within
// a registry; re-registering overwrites (last writer wins, logged).
type EffectRegistry struct {
	mu   sync.RWMutex
	m    map[string]Effect
	tick Ticker
}

// NewEffectRegistry creates an empty registry.
func NewEffectRegistry() *EffectRegistry {
	return &EffectRegistry{m: make(map[string]Effect)}
}

// Register stores e under its id, overwriting any previous definition.
func (r *EffectRegistry) Register(e Effect) {
	if e.ID == "" {
		logger.Warn().Msg("effect registration ignored: empty id")
		return
	}
	r.mu.Lock()
	if _, exists := r.m[e.ID]; exists {
		logger.Warn().Str("id", e.ID).Msg("effect overwritten")
	}
	r.m[e.ID] = e
	r.mu.Unlock()
}

// Unregister removes an id. No-op for unknown ids. Exists for test
// isolation.
func (r *EffectRegistry) Unregister(id string) {
	r.mu.Lock()
	delete(r.m, id)
	r.mu.Unlock()
}

// Resolve returns the effect registered under id, or nil for "", "none",
// and unknown ids. Unknown ids log a warning (once per call); "" and
// "none" are the sanctioned way to opt out and stay silent. Resolve never
// fails harder than nil.
func (r *EffectRegistry) Resolve(id string) *Effect {
	if id == "" || id == "none" {
		return nil
	}
	r.mu.RLock()
	e, ok := r.m[id]
	r.mu.RUnlock()
	if !ok {
		logger.Warn().Str("id", id).Msg("unknown effect")
		return nil
	}
	return &e
}

// IDs returns the registered ids, sorted.
func (r *EffectRegistry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// --- Built-in effect library ---

// DefaultEffects returns the effect primitives this package ships: the
// page-transition and reveal vocabulary experiences reference by id. Pass
// them to InitRegistries.
func DefaultEffects() []Effect {
	return []Effect{
		{
			ID:       "fade-out",
			Name:     "Fade out",
			Defaults: EffectDefaults{Duration: 300 * time.Millisecond, Ease: "out-quad"},
			Timeline: &TimelineSpec{
				From:   map[string]float64{"--fx-opacity": 1},
				To:     map[string]float64{"--fx-opacity": 0},
				Format: "%.3f",
			},
			Class: &ClassSpec{Class: "is-fading-out"},
		},
		{
			ID:       "fade-in",
			Name:     "Fade in",
			Defaults: EffectDefaults{Duration: 300 * time.Millisecond, Ease: "out-quad"},
			Timeline: &TimelineSpec{
				From:   map[string]float64{"--fx-opacity": 0},
				To:     map[string]float64{"--fx-opacity": 1},
				Format: "%.3f",
			},
			Class: &ClassSpec{Class: "is-fading-in"},
		},
		{
			ID:       "slide-up",
			Name:     "Slide up",
			Defaults: EffectDefaults{Duration: 500 * time.Millisecond, Ease: "out-cubic"},
			Timeline: &TimelineSpec{
				From:   map[string]float64{"--fx-shift-y": 40, "--fx-opacity": 0},
				To:     map[string]float64{"--fx-shift-y": 0, "--fx-opacity": 1},
				Format: "%.2f",
			},
		},
		{
			ID:       "wipe-up",
			Name:     "Clip wipe up",
			Defaults: EffectDefaults{Duration: 700 * time.Millisecond, Ease: "in-out-cubic"},
			Timeline: &TimelineSpec{
				From:   map[string]float64{"--fx-clip": 0},
				To:     map[string]float64{"--fx-clip": 100},
				Format: "%.2f",
			},
			Class: &ClassSpec{Class: "is-wiping"},
		},
		{
			ID:       "flash",
			Name:     "Class-only flash",
			Defaults: EffectDefaults{Duration: 200 * time.Millisecond},
			Class:    &ClassSpec{Class: "is-flashing"},
		},
	}
}
