package drift

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func testEffects(t *testing.T) *EffectRegistry {
	t.Helper()
	r := NewEffectRegistry()
	for _, e := range DefaultEffects() {
		r.Register(e)
	}
	r.SetTicker(&ManualTicker{DT: 0.1, MaxSteps: 100})
	return r
}

func TestTrackUnknownEffectResolvesImmediately(t *testing.T) {
	r := testEffects(t)
	track := r.Track("no-such-effect", NewStyleMap(), EffectOptions{}, ModeTimeline)
	if err := track(context.Background()); err != nil {
		t.Fatalf("unknown effect track errored: %v", err)
	}
}

func TestTrackNoneResolvesImmediately(t *testing.T) {
	r := testEffects(t)
	for _, id := range []string{"", "none"} {
		if err := r.Track(id, NewStyleMap(), EffectOptions{}, ModeTimeline)(context.Background()); err != nil {
			t.Fatalf("track %q errored: %v", id, err)
		}
	}
}

func TestTrackTimelineWritesKeyframeVars(t *testing.T) {
	r := testEffects(t)
	target := NewStyleMap()

	track := r.Track("fade-out", target, EffectOptions{}, ModeTimeline)
	if err := track(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}

	v, ok := target.Var("--fx-opacity")
	if !ok {
		t.Fatal("timeline realization never wrote --fx-opacity")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != 0 {
		t.Errorf("final --fx-opacity = %q, want 0.000", v)
	}
}

func TestTrackTimelineMultiKey(t *testing.T) {
	r := testEffects(t)
	target := NewStyleMap()

	if err := r.Track("slide-up", target, EffectOptions{}, ModeTimeline)(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	if v, _ := target.Var("--fx-shift-y"); v != "0.00" {
		t.Errorf("final --fx-shift-y = %q, want 0.00", v)
	}
	if v, _ := target.Var("--fx-opacity"); v != "1.00" {
		t.Errorf("final --fx-opacity = %q, want 1.00", v)
	}
}

func TestTrackOptionsOverrideDefaults(t *testing.T) {
	r := NewEffectRegistry()
	tick := &ManualTicker{DT: 0.05, MaxSteps: 1000}
	r.SetTicker(tick)
	r.Register(Effect{
		ID:       "grow",
		Defaults: EffectDefaults{Duration: time.Second, Ease: "linear"},
		Timeline: &TimelineSpec{To: map[string]float64{"--fx-scale": 1}},
	})

	// 2s override at 0.05s/step needs ~40 steps; the 1s default would
	// finish in ~20.
	track := r.Track("grow", NewStyleMap(), EffectOptions{Duration: 2 * time.Second}, ModeTimeline)
	if err := track(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	if tick.Steps < 35 {
		t.Errorf("track completed in %d steps; caller duration override ignored", tick.Steps)
	}
}

func TestTrackCustomBuild(t *testing.T) {
	r := NewEffectRegistry()
	r.SetTicker(&ManualTicker{DT: 0.1})
	steps := 0
	r.Register(Effect{
		ID: "custom",
		Timeline: &TimelineSpec{
			Build: func(target Target, opts EffectOptions) Player {
				return playerFunc(func(dt float32) bool {
					steps++
					target.SetVar("--fx-custom", "1")
					return steps >= 3
				})
			},
		},
	})

	target := NewStyleMap()
	if err := r.Track("custom", target, EffectOptions{}, ModeTimeline)(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	if steps != 3 {
		t.Errorf("custom player ran %d steps, want 3", steps)
	}
	if _, ok := target.Var("--fx-custom"); !ok {
		t.Error("custom player writes never reached the target")
	}
}

type playerFunc func(dt float32) bool

func (f playerFunc) Step(dt float32) bool { return f(dt) }

func TestTrackClassToggleCompletionEvent(t *testing.T) {
	r := testEffects(t)
	target := NewStyleMap()

	done := make(chan error, 1)
	track := r.Track("flash", target, EffectOptions{Duration: time.Minute}, ModeClass)
	go func() { done <- track(context.Background()) }()

	// Wait for the trigger class to appear, then complete the animation.
	deadline := time.Now().Add(2 * time.Second)
	for !target.HasClass("is-flashing") {
		if time.Now().After(deadline) {
			t.Fatal("trigger class never added")
		}
		time.Sleep(time.Millisecond)
	}
	target.SignalAnimationEnd()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("track errored: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("track never resolved after completion event")
	}
	if target.HasClass("is-flashing") {
		t.Error("trigger class must be removed after completion")
	}
}

func TestTrackClassToggleFallbackTimeout(t *testing.T) {
	r := testEffects(t)
	target := NewStyleMap()

	// 300ms duration, no completion event: the fallback window is
	// duration + 100ms.
	start := time.Now()
	track := r.Track("flash", target, EffectOptions{Duration: 300 * time.Millisecond}, ModeClass)
	if err := track(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 300*time.Millisecond {
		t.Errorf("resolved after %v, before the animation could finish", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("resolved after %v, well past the %v fallback window", elapsed, 400*time.Millisecond)
	}
	if target.HasClass("is-flashing") {
		t.Error("trigger class must be removed after fallback")
	}
}

func TestTrackFallsBackToPresentRealization(t *testing.T) {
	r := testEffects(t)

	// slide-up has only a timeline realization; requesting class-toggle
	// must fall back to it.
	target := NewStyleMap()
	if err := r.Track("slide-up", target, EffectOptions{}, ModeClass)(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	if _, ok := target.Var("--fx-shift-y"); !ok {
		t.Error("fallback to timeline realization never ran")
	}

	// flash has only a class realization; requesting timeline must fall
	// back to it.
	target2 := NewStyleMap()
	done := make(chan error, 1)
	go func() {
		done <- r.Track("flash", target2, EffectOptions{Duration: 10 * time.Millisecond}, ModeTimeline)(context.Background())
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("track errored: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("class fallback never resolved")
	}
}

// plainTarget implements Target but not ClassTarget.
type plainTarget struct{ vars map[string]string }

func (p *plainTarget) SetVar(name, value string) {
	if p.vars == nil {
		p.vars = map[string]string{}
	}
	p.vars[name] = value
}
func (p *plainTarget) RemoveVar(name string) { delete(p.vars, name) }

func TestTrackNoUsableRealizationResolves(t *testing.T) {
	r := NewEffectRegistry()
	r.Register(Effect{ID: "empty"})
	if err := r.Track("empty", NewStyleMap(), EffectOptions{}, ModeTimeline)(context.Background()); err != nil {
		t.Fatalf("realization-less effect errored: %v", err)
	}

	// A class-only effect against a target without class support has no
	// usable realization either; it must still resolve.
	r.Register(Effect{ID: "class-only", Class: &ClassSpec{Class: "x"}, Defaults: EffectDefaults{Duration: 10 * time.Millisecond}})
	if err := r.Track("class-only", &plainTarget{}, EffectOptions{}, ModeClass)(context.Background()); err != nil {
		t.Fatalf("class-only effect on plain target errored: %v", err)
	}
}

func TestTrackDelayHonored(t *testing.T) {
	r := testEffects(t)
	start := time.Now()
	track := r.Track("fade-out", NewStyleMap(), EffectOptions{Delay: 50 * time.Millisecond}, ModeTimeline)
	if err := track(context.Background()); err != nil {
		t.Fatalf("track errored: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("track started after %v, before its delay", elapsed)
	}
}

func TestTrackContextCancellation(t *testing.T) {
	r := NewEffectRegistry()
	r.Register(Effect{
		ID:       "forever",
		Defaults: EffectDefaults{Duration: time.Hour},
		Timeline: &TimelineSpec{To: map[string]float64{"--fx-x": 1}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Track("forever", NewStyleMap(), EffectOptions{}, ModeTimeline)(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled track should return the context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled track never returned")
	}
}
