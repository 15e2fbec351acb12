package drift

import (
	"fmt"
	"sort"
	"sync"
)

// ComputeFunc transforms reactive state plus static options into CSS custom
// properties. It must be synchronous, side-effect-free, and must read only
// the state keys its Behaviour declares in Requires; every output key must
// be "--"-prefixed. Purity is a convention of this package (checked by the
// built-ins' tests), not a runtime guarantee — freezing state on the
// per-frame path is not worth the cost.
type ComputeFunc func(state State, opts Options) Vars

// Behaviour is the declarative half of the animation system: a pure
// registry-resolved function from state to CSS variables.
type Behaviour struct {
	ID string
	// Requires lists the state keys Compute reads. Must be a subset of
	// StateKeys for the model the behaviour runs under; consumers use it
	// to skip recomputes on irrelevant changes.
	Requires []string
	// ApplicableTo lists the widget types the behaviour is compatible
	// with. Empty means any.
	ApplicableTo []string
	Compute      ComputeFunc
}

// noopBehaviour is what Resolve returns for "none" and unknown ids so
// consumers never branch on a missing behaviour.
var noopBehaviour = Behaviour{
	ID:      "none",
	Compute: func(State, Options) Vars { return nil },
}

// BehaviourRegistry holds registered behaviours. Construct one per process
// (or per test) with NewBehaviourRegistry and populate it through
// InitRegistries; there is no package-global registry.
type BehaviourRegistry struct {
	mu sync.RWMutex
	m  map[string]Behaviour
}

// NewBehaviourRegistry creates an empty registry.
func NewBehaviourRegistry() *BehaviourRegistry {
	return &BehaviourRegistry{m: make(map[string]Behaviour)}
}

// Register stores b under its id. Re-registering an id overwrites the
// previous definition (last writer wins) and logs the collision.
func (r *BehaviourRegistry) Register(b Behaviour) {
	if b.ID == "" || b.Compute == nil {
		logger.Warn().Str("id", b.ID).Msg("behaviour registration ignored: missing id or compute")
		return
	}
	r.mu.Lock()
	if _, exists := r.m[b.ID]; exists {
		logger.Warn().Str("id", b.ID).Msg("behaviour overwritten")
	}
	r.m[b.ID] = b
	r.mu.Unlock()
}

// Unregister removes an id. No-op for unknown ids. Exists for test
// isolation; production registries are never torn down.
func (r *BehaviourRegistry) Unregister(id string) {
	r.mu.Lock()
	delete(r.m, id)
	r.mu.Unlock()
}

// Resolve returns the behaviour registered under id. It never fails: ""
// and "none" resolve to the shared no-op silently, unknown ids resolve to
// it with a logged warning.
func (r *BehaviourRegistry) Resolve(id string) Behaviour {
	if id == "" || id == "none" {
		return noopBehaviour
	}
	r.mu.RLock()
	b, ok := r.m[id]
	r.mu.RUnlock()
	if !ok {
		logger.Warn().Str("id", id).Msg("unknown behaviour, using no-op")
		return noopBehaviour
	}
	return b
}

// IDs returns the registered ids, sorted.
func (r *BehaviourRegistry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// ValidateAssignment checks that the assigned behaviour's Requires keys
// are all exposed by the given model's state shape, and that the widget
// type is compatible. Violations are logged warnings, not errors: a bad
// assignment degrades to static visuals at worst.
func (r *BehaviourRegistry) ValidateAssignment(a BehaviourAssignment, model PresentationModel, widgetType string) bool {
	b := r.Resolve(a.Behaviour)
	if b.ID == "none" {
		return true
	}

	ok := true
	exposed := make(map[string]bool)
	for _, k := range StateKeys(model) {
		exposed[k] = true
	}
	for _, k := range b.Requires {
		if !exposed[k] {
			logger.Warn().Str("behaviour", b.ID).Str("key", k).Str("model", string(model)).
				Msg("behaviour requires a key the model does not expose")
			ok = false
		}
	}

	if widgetType != "" && len(b.ApplicableTo) > 0 {
		compatible := false
		for _, w := range b.ApplicableTo {
			if w == widgetType {
				compatible = true
				break
			}
		}
		if !compatible {
			logger.Warn().Str("behaviour", b.ID).Str("widget", widgetType).
				Msg("behaviour not applicable to widget type")
			ok = false
		}
	}
	return ok
}

// --- Built-in behaviour library ---

// DefaultBehaviours returns the behaviours this package ships. Pass them
// to InitRegistries; nothing registers itself at import time.
func DefaultBehaviours() []Behaviour {
	return []Behaviour{
		parallaxBehaviour(),
		fadeRevealBehaviour(),
		cursorShiftBehaviour(),
		scrollScaleBehaviour(),
	}
}

// parallaxBehaviour translates a layer against scroll direction.
// Options: "speed" (default 0.5), "axis" ("y" default, or "x").
func parallaxBehaviour() Behaviour {
	return Behaviour{
		ID:           "parallax",
		Requires:     []string{"scrollProgress", "viewportHeight", "prefersReducedMotion"},
		ApplicableTo: []string{"section", "media", "hero"},
		Compute: func(s State, opts Options) Vars {
			if s.Experience.PrefersReducedMotion {
				return Vars{"--parallax-shift": "0px"}
			}
			speed := opts.Float("speed", 0.5)
			span := float64(s.Experience.ViewportHeight)
			shift := -s.Experience.ScrollProgress * span * speed
			key := "--parallax-shift"
			if opts.String("axis", "y") == "x" {
				key = "--parallax-shift-x"
			}
			return Vars{key: fmt.Sprintf("%.2fpx", shift)}
		},
	}
}

// fadeRevealBehaviour fades a section in as it becomes visible.
// Options: "threshold" — visibility ratio at which opacity reaches 1
// (default 0.6), "section" — the section id to track.
func fadeRevealBehaviour() Behaviour {
	return Behaviour{
		ID:           "fade-reveal",
		Requires:     []string{"sectionVisibilities", "prefersReducedMotion"},
		ApplicableTo: []string{"section", "card", "media"},
		Compute: func(s State, opts Options) Vars {
			if s.Experience.PrefersReducedMotion {
				return Vars{"--reveal-opacity": "1"}
			}
			id := opts.String("section", "")
			ratio := s.Experience.SectionVisibilities[id]
			threshold := opts.Float("threshold", 0.6)
			if threshold <= 0 {
				threshold = 0.6
			}
			return Vars{"--reveal-opacity": fmt.Sprintf("%.3f", clamp01(ratio/threshold))}
		},
	}
}

// cursorShiftBehaviour offsets a layer toward the pointer.
// Options: "strength" — max shift in px at the viewport edge (default 12).
func cursorShiftBehaviour() Behaviour {
	return Behaviour{
		ID:           "cursor-shift",
		Requires:     []string{"cursorX", "cursorY", "viewportHeight", "prefersReducedMotion"},
		ApplicableTo: []string{"hero", "media"},
		Compute: func(s State, opts Options) Vars {
			if s.Experience.PrefersReducedMotion || s.Experience.ViewportHeight == 0 {
				return Vars{"--cursor-shift-x": "0px", "--cursor-shift-y": "0px"}
			}
			strength := opts.Float("strength", 12)
			h := float64(s.Experience.ViewportHeight)
			// Normalize cursor to [-1, 1] around the viewport center.
			ny := (float64(s.Experience.CursorY)/h)*2 - 1
			nx := (float64(s.Experience.CursorX)/h)*2 - 1
			return Vars{
				"--cursor-shift-x": fmt.Sprintf("%.2fpx", nx*strength),
				"--cursor-shift-y": fmt.Sprintf("%.2fpx", ny*strength),
			}
		},
	}
}

// scrollScaleBehaviour scales a layer down as the page scrolls away.
// Options: "min" — scale at full scroll (default 0.9).
func scrollScaleBehaviour() Behaviour {
	return Behaviour{
		ID:           "scroll-scale",
		Requires:     []string{"scrollProgress", "prefersReducedMotion"},
		ApplicableTo: []string{"section", "hero"},
		Compute: func(s State, opts Options) Vars {
			if s.Experience.PrefersReducedMotion {
				return Vars{"--scroll-scale": "1"}
			}
			min := opts.Float("min", 0.9)
			scale := 1 - (1-min)*clamp01(s.Experience.ScrollProgress)
			return Vars{"--scroll-scale": fmt.Sprintf("%.4f", scale)}
		},
	}
}
