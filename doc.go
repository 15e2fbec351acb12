// Package drift is the experience animation pipeline behind content-managed
// sites: the machinery that turns raw environment events into continuous,
// declarative visual state, orchestrates discrete transitions, and drives
// physics-based infinite scrolling — without the content widgets ever
// knowing which "experience" is active.
//
// # Pipeline
//
// Data flows one way. A [Trigger] observes a single environment event
// source (scroll, resize, pointer, visibility, motion preference) and
// writes primitive fields into a [Store]. On every store change two things
// happen in the same tick: registered [Behaviour] functions compute a map
// of CSS custom properties for the component tree to apply, and any
// [VarDriver] imperatively writes variables straight onto its registered
// targets, bypassing the declarative layer for per-frame performance.
//
//	env := drift.NewSyntheticEnvironment()
//	store := drift.NewStore(drift.ModelStacking)
//	set := drift.MountTriggers(store, env,
//		&drift.ScrollTrigger{}, &drift.ResizeTrigger{})
//	defer set.Unmount()
//
// # Discrete effects
//
// Discrete transitions (page exits, reveals, intros) are [Effect]
// primitives resolved from an [EffectRegistry]. Each effect carries up to
// two realizations — a tween timeline or a CSS class toggle — and
// [EffectRegistry.Track] bridges one into a [Track]: a thunk returning
// only when the transition has completed. [Play] runs tracks concurrently;
// [PlaySequence] runs ordered, optionally delayed steps.
//
// # Infinite carousel
//
// [CarouselController] implements the momentum-physics presentation model:
// wheel and drag input feed a [MomentumDriver], sections taller than one
// viewport get a two-phase internal-scroll-then-clip transition, and the
// outgoing section wipes away over the incoming one via a vertical
// clip-path inset. All per-frame output leaves through CSS custom
// properties on [Section] targets.
//
// # Hosts
//
// The pipeline is host-agnostic: anything implementing [Target] (and
// [ClassTarget] for class-toggle effects) can be driven. An
// [EbitenEnvironment] adapter feeds triggers from an [Ebitengine] game
// loop; see examples/ for runnable hosts. All interpolation is done with
// [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package drift
