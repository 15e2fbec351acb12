package drift

import (
	"testing"
	"time"
)

func TestScrollTriggerWritesProgress(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &ScrollTrigger{})
	defer set.Unmount()

	env.EmitScroll("", 0.6)
	s := store.State()
	if s.Experience.ScrollProgress != 0.6 {
		t.Errorf("scrollProgress = %v, want 0.6", s.Experience.ScrollProgress)
	}
	if !s.Experience.IsScrolling {
		t.Error("isScrolling must be true immediately after a scroll event")
	}

	// Progress clamps for page models.
	env.EmitScroll("", 1.7)
	if got := store.State().Experience.ScrollProgress; got != 1 {
		t.Errorf("scrollProgress = %v, want clamped to 1", got)
	}
}

func TestScrollTriggerIdleClearsIsScrolling(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &ScrollTrigger{IdleDelay: 15 * time.Millisecond})
	defer set.Unmount()

	env.EmitScroll("", 0.3)
	deadline := time.Now().Add(2 * time.Second)
	for store.State().Experience.IsScrolling {
		if time.Now().After(deadline) {
			t.Fatal("isScrolling never cleared after idle window")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScrollTriggerContainerScoped(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &ScrollTrigger{Container: "panel"})
	defer set.Unmount()

	env.EmitScroll("", 0.9) // global scroll, different scope
	if got := store.State().Experience.ScrollProgress; got != 0 {
		t.Errorf("contained trigger saw global scroll: %v", got)
	}
	env.EmitScroll("panel", 0.4)
	if got := store.State().Experience.ScrollProgress; got != 0.4 {
		t.Errorf("scrollProgress = %v, want 0.4", got)
	}
}

func TestResizeTriggerWritesViewportHeight(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &ResizeTrigger{})
	defer set.Unmount()

	env.EmitResize(1280, 720)
	if got := store.State().Experience.ViewportHeight; got != 720 {
		t.Errorf("viewportHeight = %d, want 720", got)
	}
}

func TestPointerTriggerWritesCursor(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &PointerTrigger{})
	defer set.Unmount()

	env.EmitPointerMove(120, 340)
	s := store.State()
	if s.Experience.CursorX != 120 || s.Experience.CursorY != 340 {
		t.Errorf("cursor = (%d, %d), want (120, 340)", s.Experience.CursorX, s.Experience.CursorY)
	}
}

func TestVisibilityTriggerWritesRatios(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &VisibilityTrigger{})
	defer set.Unmount()

	env.EmitVisibility("", "hero", 0.75)
	env.EmitVisibility("", "footer", 2.5) // out-of-range ratios clamp
	s := store.State()
	if got := s.Experience.SectionVisibilities["hero"]; got != 0.75 {
		t.Errorf("hero visibility = %v, want 0.75", got)
	}
	if got := s.Experience.SectionVisibilities["footer"]; got != 1 {
		t.Errorf("footer visibility = %v, want clamped to 1", got)
	}
}

func TestMotionTriggerWritesPreference(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, &MotionTrigger{})
	defer set.Unmount()

	env.EmitMotionPreference(true)
	if !store.State().Experience.PrefersReducedMotion {
		t.Error("prefersReducedMotion not written")
	}
	env.EmitMotionPreference(false)
	if store.State().Experience.PrefersReducedMotion {
		t.Error("preference change not written")
	}
}

// bareEnvironment implements no capability interfaces at all.
type bareEnvironment struct{}

func TestTriggersNoOpWithoutSource(t *testing.T) {
	store := NewStore(ModelStacking)
	set := MountTriggers(store, bareEnvironment{}, DefaultTriggers("")...)
	// Mounting against a capability-less environment must not panic, and
	// unmounting must be clean.
	set.Unmount()
}

func TestTriggersNoOpWithNilEnvironment(t *testing.T) {
	store := NewStore(ModelStacking)
	set := MountTriggers(store, nil, &ScrollTrigger{}, &PointerTrigger{})
	set.Unmount()
}

func TestUnmountRemovesListeners(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelStacking)
	set := MountTriggers(store, env, DefaultTriggers("")...)

	if env.SubscriberCount() != 5 {
		t.Fatalf("subscriberCount = %d after mount, want 5", env.SubscriberCount())
	}
	set.Unmount()
	if env.SubscriberCount() != 0 {
		t.Fatalf("subscriberCount = %d after unmount, want 0", env.SubscriberCount())
	}

	env.EmitScroll("", 0.9)
	if got := store.State().Experience.ScrollProgress; got != 0 {
		t.Errorf("unmounted trigger still writing: %v", got)
	}
}

// recordingTrigger reports when its teardown runs.
type recordingTrigger struct {
	name  string
	order *[]string
}

func (r *recordingTrigger) Mount(store *Store, env Environment) func() {
	return func() { *r.order = append(*r.order, r.name) }
}

func TestUnmountReverseOrder(t *testing.T) {
	var order []string
	store := NewStore(ModelStacking)
	set := MountTriggers(store, nil,
		&recordingTrigger{"first", &order},
		&recordingTrigger{"second", &order},
		&recordingTrigger{"third", &order},
	)
	set.Unmount()
	set.Unmount() // idempotent

	if len(order) != 3 || order[0] != "third" || order[1] != "second" || order[2] != "first" {
		t.Fatalf("teardown order = %v, want [third second first]", order)
	}
}

func TestCarouselStoreScrollNotClamped(t *testing.T) {
	env := NewSyntheticEnvironment()
	store := NewStore(ModelInfiniteCarousel)
	set := MountTriggers(store, env, &ScrollTrigger{})
	defer set.Unmount()

	// Carousel progress is a continuous section index, not a page ratio.
	env.EmitScroll("", 2.6)
	if got := store.State().Experience.ScrollProgress; got != 2.6 {
		t.Errorf("scrollProgress = %v, want unclamped 2.6", got)
	}
}
