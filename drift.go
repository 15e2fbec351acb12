package drift

import "strings"

// Vars is a set of CSS custom properties produced by a Behaviour or effect
// realization and consumed through the Target write path. Every key must be
// prefixed "--"; that prefix is the whole contract between the pipeline and
// the styling layer.
type Vars map[string]string

// Merge copies every entry of other into v, overwriting existing keys.
func (v Vars) Merge(other Vars) {
	for k, val := range other {
		v[k] = val
	}
}

// ValidVarName reports whether name is a usable CSS custom property name.
func ValidVarName(name string) bool {
	return strings.HasPrefix(name, "--") && len(name) > 2
}

// Options carries per-assignment tuning for a Behaviour (amplitude, axis,
// thresholds). Behaviours read only the keys they document and must treat
// the map as read-only.
type Options map[string]any

// Float reads a numeric option, accepting float64 or int, falling back to
// def when absent or of the wrong type.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// String reads a string option, falling back to def when absent.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool reads a boolean option, falling back to def when absent.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// PresentationModel selects which state shape a Store carries and which
// navigation machinery an experience uses. It is the tag of the State
// tagged union: check it (or use the ok-returning accessors) before
// touching navigation- or carousel-only fields.
type PresentationModel string

const (
	// ModelStacking scrolls sections in normal document flow.
	ModelStacking PresentationModel = "stacking"
	// ModelSlideshow shows one section at a time with discrete navigation.
	ModelSlideshow PresentationModel = "slideshow"
	// ModelInfiniteCarousel loops sections endlessly under momentum physics.
	ModelInfiniteCarousel PresentationModel = "infinite-carousel"
	// ModelCoverScroll pins each section while the next slides over it.
	ModelCoverScroll PresentationModel = "cover-scroll"
)

// navigable reports whether the model carries NavigationState.
func (m PresentationModel) navigable() bool {
	switch m {
	case ModelSlideshow, ModelInfiniteCarousel, ModelCoverScroll:
		return true
	}
	return false
}

// Direction is the travel direction of an in-flight section transition.
type Direction string

const (
	DirectionNone     Direction = ""
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Phase is the carousel controller lifecycle phase. The transition is
// one-way: PhaseIntro -> PhaseReady after initial measurement settles.
type Phase string

const (
	PhaseIntro Phase = "intro"
	PhaseReady Phase = "ready"
)
