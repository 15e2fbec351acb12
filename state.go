package drift

// ExperienceState is the base reactive state every experience exposes.
// Fields are written exclusively by Triggers (one writer per field, by
// convention) and read by Behaviours and Drivers.
type ExperienceState struct {
	// ScrollProgress is the normalized document scroll position in [0, 1].
	// The infinite-carousel model repurposes it as a continuous section
	// index in [0, totalSections).
	ScrollProgress float64
	// ViewportHeight is the current viewport height in pixels.
	ViewportHeight int
	// IsScrolling is true while scroll events are arriving, cleared after
	// a short idle window.
	IsScrolling bool
	// PrefersReducedMotion mirrors the host's reduced-motion preference.
	PrefersReducedMotion bool
	// SectionVisibilities maps section id to visible ratio in [0, 1].
	SectionVisibilities map[string]float64
	// CursorX and CursorY are the pointer position in pixels.
	CursorX, CursorY int
}

// NavigationState extends ExperienceState for models with discrete section
// navigation (slideshow, cover-scroll, infinite-carousel).
type NavigationState struct {
	ActiveSection   int
	PreviousSection int
	TotalSections   int
	// IsTransitioning is true while a section transition is in flight;
	// TransitionProgress runs [0, 1] over its course.
	IsTransitioning     bool
	TransitionProgress  float64
	TransitionDirection Direction
	// LastInputType records what drove the latest navigation ("wheel",
	// "drag", "key", ...). Empty until the first input.
	LastInputType string
	// IsLocked blocks navigation input while set (intro sequences, modal
	// overlays).
	IsLocked bool
}

// CarouselState extends NavigationState for the infinite-carousel model.
type CarouselState struct {
	// Velocity is the momentum driver's current speed in sections per
	// frame (positive = forward).
	Velocity float64
	// SnapTarget is the section index the driver is snapping toward, or
	// -1 when no snap is in flight.
	SnapTarget int
	IsSnapping bool
	// Phase is intro until the first measurement settles, then ready.
	// The transition is one-way.
	Phase Phase
	// HasLooped becomes true the first time scroll wraps past the last
	// section.
	HasLooped bool
	// SectionIDs is the discovered section order. Read-only after mount.
	SectionIDs []string
	// ClipProgress is the clip-phase progress of the outgoing section in
	// [0, 1]; 0 while it is internal-scrolling.
	ClipProgress float64
	// PinnedSections lists section indices excluded from snap (oversized
	// sections whose internal scroll must not be skipped).
	PinnedSections []int
}

// State is the tagged union a Store carries. Model is the tag: navigation
// and carousel views exist only for the models that declare them and are
// reachable only through the ok-returning accessors, never by cast.
type State struct {
	Model      PresentationModel
	Experience ExperienceState

	nav      *NavigationState
	carousel *CarouselState
}

// newState builds the state shape for the given presentation model.
func newState(model PresentationModel) State {
	s := State{
		Model: model,
		Experience: ExperienceState{
			SectionVisibilities: make(map[string]float64),
		},
	}
	if model.navigable() {
		s.nav = &NavigationState{}
	}
	if model == ModelInfiniteCarousel {
		s.carousel = &CarouselState{SnapTarget: -1, Phase: PhaseIntro}
	}
	return s
}

// Navigation returns the navigation view of the state, or false when the
// model has none.
func (s *State) Navigation() (*NavigationState, bool) {
	if s.nav == nil {
		return nil, false
	}
	return s.nav, true
}

// Carousel returns the carousel view of the state, or false when the model
// is not infinite-carousel.
func (s *State) Carousel() (*CarouselState, bool) {
	if s.carousel == nil {
		return nil, false
	}
	return s.carousel, true
}

// clone deep-copies the state so snapshots cannot alias live maps/slices.
func (s *State) clone() State {
	out := *s
	vis := make(map[string]float64, len(s.Experience.SectionVisibilities))
	for k, v := range s.Experience.SectionVisibilities {
		vis[k] = v
	}
	out.Experience.SectionVisibilities = vis
	if s.nav != nil {
		nav := *s.nav
		out.nav = &nav
	}
	if s.carousel != nil {
		car := *s.carousel
		car.SectionIDs = append([]string(nil), s.carousel.SectionIDs...)
		car.PinnedSections = append([]int(nil), s.carousel.PinnedSections...)
		out.carousel = &car
	}
	return out
}

// Field returns the state value behind a string key — the view Behaviour
// Requires declarations are validated against. ok is false for keys the
// current model's shape does not expose.
func (s *State) Field(key string) (any, bool) {
	switch key {
	case "scrollProgress":
		return s.Experience.ScrollProgress, true
	case "viewportHeight":
		return s.Experience.ViewportHeight, true
	case "isScrolling":
		return s.Experience.IsScrolling, true
	case "prefersReducedMotion":
		return s.Experience.PrefersReducedMotion, true
	case "sectionVisibilities":
		return s.Experience.SectionVisibilities, true
	case "cursorX":
		return s.Experience.CursorX, true
	case "cursorY":
		return s.Experience.CursorY, true
	}
	if s.nav != nil {
		switch key {
		case "activeSection":
			return s.nav.ActiveSection, true
		case "previousSection":
			return s.nav.PreviousSection, true
		case "totalSections":
			return s.nav.TotalSections, true
		case "isTransitioning":
			return s.nav.IsTransitioning, true
		case "transitionProgress":
			return s.nav.TransitionProgress, true
		case "transitionDirection":
			return s.nav.TransitionDirection, true
		case "lastInputType":
			return s.nav.LastInputType, true
		case "isLocked":
			return s.nav.IsLocked, true
		}
	}
	if s.carousel != nil {
		switch key {
		case "velocity":
			return s.carousel.Velocity, true
		case "snapTarget":
			return s.carousel.SnapTarget, true
		case "isSnapping":
			return s.carousel.IsSnapping, true
		case "phase":
			return s.carousel.Phase, true
		case "hasLooped":
			return s.carousel.HasLooped, true
		case "sectionIds":
			return s.carousel.SectionIDs, true
		case "clipProgress":
			return s.carousel.ClipProgress, true
		case "pinnedSections":
			return s.carousel.PinnedSections, true
		}
	}
	return nil, false
}

var experienceKeys = []string{
	"scrollProgress", "viewportHeight", "isScrolling",
	"prefersReducedMotion", "sectionVisibilities", "cursorX", "cursorY",
}

var navigationKeys = []string{
	"activeSection", "previousSection", "totalSections",
	"isTransitioning", "transitionProgress", "transitionDirection",
	"lastInputType", "isLocked",
}

var carouselKeys = []string{
	"velocity", "snapTarget", "isSnapping", "phase", "hasLooped",
	"sectionIds", "clipProgress", "pinnedSections",
}

// StateKeys enumerates the field keys the given model's state shape
// exposes. Behaviour Requires lists must be a subset of these for the
// model they run under.
func StateKeys(model PresentationModel) []string {
	keys := append([]string(nil), experienceKeys...)
	if model.navigable() {
		keys = append(keys, navigationKeys...)
	}
	if model == ModelInfiniteCarousel {
		keys = append(keys, carouselKeys...)
	}
	return keys
}
