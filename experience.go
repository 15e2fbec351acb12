package drift

import (
	"sort"
	"sync"
	"time"
)

// BehaviourAssignment links a section or widget to a registered behaviour
// with its static options. Pinned assignments survive experience swaps
// (content authors opt specific widgets out of re-theming).
type BehaviourAssignment struct {
	Behaviour string
	Options   Options
	Pinned    bool
}

// IntroStep is one step of an experience's intro sequence: an effect id
// played after an optional delay.
type IntroStep struct {
	Effect string
	Delay  time.Duration
}

// Experience is a named bundle of presentation model, default behaviour
// assignments, and intro sequence — the selectable "feel" of a site.
// Swapping experiences swaps all three without touching widget code.
type Experience struct {
	ID          string
	Model       PresentationModel
	Assignments []BehaviourAssignment
	Intro       []IntroStep
}

// ExperienceRegistry holds registered experiences.
type ExperienceRegistry struct {
	mu sync.RWMutex
	m  map[string]Experience
}

// NewExperienceRegistry creates an empty registry.
func NewExperienceRegistry() *ExperienceRegistry {
	return &ExperienceRegistry{m: make(map[string]Experience)}
}

// Register stores e under its id, overwriting any previous definition
// (last writer wins, logged).
func (r *ExperienceRegistry) Register(e Experience) {
	if e.ID == "" {
		logger.Warn().Msg("experience registration ignored: empty id")
		return
	}
	r.mu.Lock()
	if _, exists := r.m[e.ID]; exists {
		logger.Warn().Str("id", e.ID).Msg("experience overwritten")
	}
	r.m[e.ID] = e
	r.mu.Unlock()
}

// Resolve returns the experience registered under id, or nil with a
// logged warning for unknown ids. Never fails harder than nil.
func (r *ExperienceRegistry) Resolve(id string) *Experience {
	r.mu.RLock()
	e, ok := r.m[id]
	r.mu.RUnlock()
	if !ok {
		logger.Warn().Str("id", id).Msg("unknown experience")
		return nil
	}
	return &e
}

// IDs returns the registered ids, sorted.
func (r *ExperienceRegistry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Registries bundles the three process-wide registries. Construct one at
// startup with InitRegistries and pass it by reference to everything that
// resolves ids — there is deliberately no package-global instance, so
// tests isolate with fresh bundles instead of tearing shared state down.
type Registries struct {
	Behaviours  *BehaviourRegistry
	Effects     *EffectRegistry
	Experiences *ExperienceRegistry
}

// RegistrySet is the explicit definition list InitRegistries collects.
// Populating registries from one list at startup replaces registration by
// import side effect: nothing depends on import order, and a definition
// missing from the list is visible right here instead of silently absent.
type RegistrySet struct {
	Behaviours  []Behaviour
	Effects     []Effect
	Experiences []Experience
}

// NewRegistries returns an empty bundle.
func NewRegistries() *Registries {
	return &Registries{
		Behaviours:  NewBehaviourRegistry(),
		Effects:     NewEffectRegistry(),
		Experiences: NewExperienceRegistry(),
	}
}

// InitRegistries builds a bundle populated from the set. The usual call
// at process start is
//
//	regs := drift.InitRegistries(drift.RegistrySet{
//		Behaviours:  drift.DefaultBehaviours(),
//		Effects:     drift.DefaultEffects(),
//		Experiences: drift.DefaultExperiences(),
//	})
//
// with site-specific definitions appended to each list.
func InitRegistries(set RegistrySet) *Registries {
	regs := NewRegistries()
	for _, b := range set.Behaviours {
		regs.Behaviours.Register(b)
	}
	for _, e := range set.Effects {
		regs.Effects.Register(e)
	}
	for _, e := range set.Experiences {
		regs.Experiences.Register(e)
	}
	return regs
}

// DefaultExperiences returns the experiences this package ships.
func DefaultExperiences() []Experience {
	return []Experience{
		{
			ID:    "editorial",
			Model: ModelStacking,
			Assignments: []BehaviourAssignment{
				{Behaviour: "parallax", Options: Options{"speed": 0.35}},
				{Behaviour: "fade-reveal"},
			},
			Intro: []IntroStep{
				{Effect: "fade-in"},
			},
		},
		{
			ID:    "showcase",
			Model: ModelInfiniteCarousel,
			Assignments: []BehaviourAssignment{
				{Behaviour: "scroll-scale", Options: Options{"min": 0.94}},
			},
			Intro: []IntroStep{
				{Effect: "fade-in"},
				{Effect: "slide-up", Delay: 150 * time.Millisecond},
			},
		},
		{
			ID:    "deck",
			Model: ModelSlideshow,
			Assignments: []BehaviourAssignment{
				{Behaviour: "cursor-shift", Options: Options{"strength": 8.0}},
			},
		},
	}
}

// PlayIntro bridges an experience's intro sequence into timeline steps
// against target, resolving each effect through regs. Returns the steps;
// the caller runs them with PlaySequence so it controls ctx and timing.
func PlayIntro(regs *Registries, exp *Experience, target Target) []Step {
	if exp == nil {
		return nil
	}
	steps := make([]Step, 0, len(exp.Intro))
	for _, intro := range exp.Intro {
		steps = append(steps, Step{
			Delay: intro.Delay,
			Track: regs.Effects.Track(intro.Effect, target, EffectOptions{}, ModeTimeline),
		})
	}
	return steps
}
