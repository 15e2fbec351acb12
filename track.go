package drift

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tanema/gween"
)

// Track is a discrete transition bridged into a thunk: invoke it and it
// returns once the transition has completed (or been cancelled via ctx).
// Orchestration code depends only on this shape, never on how a track
// animates.
type Track func(ctx context.Context) error

// RealizationMode selects which realization a track should prefer. The
// other realization is used as a fallback when the preferred one is
// missing; an effect with neither logs a warning and completes
// immediately, so callers never hang on a misconfigured effect.
type RealizationMode string

const (
	// ModeTimeline prefers the tween-timeline realization.
	ModeTimeline RealizationMode = "timeline"
	// ModeClass prefers the class-toggle realization.
	ModeClass RealizationMode = "class-toggle"
)

// fallbackGrace is added to a class realization's duration to guard
// against a host animation that never signals completion. Timeouts here
// are only ever the fallback, never the primary completion signal.
const fallbackGrace = 100 * time.Millisecond

// realization is one concrete way of executing an effect. Strategies are
// tried in preference order by capability, so adding a third realization
// is a new implementation plus a slot in the order, not another special
// case.
type realization interface {
	available(e Effect, target Target) bool
	run(ctx context.Context, e Effect, target Target, opts EffectOptions, tick Ticker) error
}

// realizationOrder returns the strategy preference for a requested mode.
func realizationOrder(mode RealizationMode) []realization {
	timeline := timelineRealization{}
	class := classRealization{}
	if mode == ModeClass {
		return []realization{class, timeline}
	}
	return []realization{timeline, class}
}

// Track bridges a registered effect into a Track. Resolution happens at
// invocation time: "", "none", and unknown ids produce a track that
// completes immediately (unknown ids log), caller opts merge over the
// effect's defaults, and the preferred realization runs with fallback to
// whichever is actually present.
func (r *EffectRegistry) Track(id string, target Target, opts EffectOptions, mode RealizationMode) Track {
	return func(ctx context.Context) error {
		e := r.Resolve(id)
		if e == nil {
			return nil
		}
		merged := e.merged(opts)

		if merged.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(merged.Delay):
			}
		}

		for _, strat := range realizationOrder(mode) {
			if strat.available(*e, target) {
				return strat.run(ctx, *e, target, merged, r.ticker())
			}
		}
		logger.Warn().Str("id", e.ID).Msg("effect has no usable realization")
		return nil
	}
}

// SetTicker replaces the ticker that steps timeline realizations built
// from this registry. Tests install a ManualTicker; the default ticks in
// real time at frame rate.
func (r *EffectRegistry) SetTicker(t Ticker) {
	r.mu.Lock()
	r.tick = t
	r.mu.Unlock()
}

func (r *EffectRegistry) ticker() Ticker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tick != nil {
		return r.tick
	}
	return frameTicker{}
}

// --- Timeline realization ---

type timelineRealization struct{}

func (timelineRealization) available(e Effect, _ Target) bool {
	return e.Timeline != nil && (e.Timeline.Build != nil || len(e.Timeline.To) > 0 || len(e.Timeline.From) > 0)
}

func (timelineRealization) run(ctx context.Context, e Effect, target Target, opts EffectOptions, tick Ticker) error {
	spec := e.Timeline

	if spec.Build != nil {
		player := spec.Build(target, opts)
		if player == nil {
			return nil
		}
		return tick.Run(ctx, player.Step)
	}

	format := spec.Format
	if format == "" {
		format = "%.3f"
	}
	duration := float32(opts.Duration.Seconds())
	easeFn := EaseFunc(opts.Ease)

	// Union of from/to keys, sorted for deterministic write order. A key
	// missing on one side holds the other side's value as both endpoints.
	keys := make(map[string]bool, len(spec.From)+len(spec.To))
	for k := range spec.From {
		keys[k] = true
	}
	for k := range spec.To {
		keys[k] = true
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	tweens := make([]*gween.Tween, len(names))
	for i, name := range names {
		from, okFrom := spec.From[name]
		to, okTo := spec.To[name]
		if !okFrom {
			from = to
		}
		if !okTo {
			to = from
		}
		tweens[i] = gween.New(float32(from), float32(to), duration, easeFn)
		target.SetVar(name, fmt.Sprintf(format, from))
	}

	return tick.Run(ctx, func(dt float32) bool {
		done := true
		for i, tw := range tweens {
			val, finished := tw.Update(dt)
			target.SetVar(names[i], fmt.Sprintf(format, val))
			if !finished {
				done = false
			}
		}
		return done
	})
}

// --- Class-toggle realization ---

type classRealization struct{}

func (classRealization) available(e Effect, target Target) bool {
	if e.Class == nil || e.Class.Class == "" {
		return false
	}
	_, ok := target.(ClassTarget)
	return ok
}

func (classRealization) run(ctx context.Context, e Effect, target Target, opts EffectOptions, _ Ticker) error {
	ct := target.(ClassTarget)
	ct.AddClass(e.Class.Class)
	defer ct.RemoveClass(e.Class.Class)

	fallback := time.NewTimer(opts.Duration + fallbackGrace)
	defer fallback.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ct.AnimationEnd():
		return nil
	case <-fallback.C:
		logger.Warn().Str("id", e.ID).Str("class", e.Class.Class).
			Msg("animation completion never fired, resolved by fallback timeout")
		return nil
	}
}
