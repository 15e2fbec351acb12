package drift

import "testing"

func TestStateFieldLookup(t *testing.T) {
	s := newState(ModelInfiniteCarousel)
	s.Experience.ScrollProgress = 0.4
	s.nav.ActiveSection = 2
	s.carousel.Velocity = 0.01

	tests := []struct {
		key  string
		want any
	}{
		{"scrollProgress", 0.4},
		{"activeSection", 2},
		{"velocity", 0.01},
		{"snapTarget", -1},
		{"phase", PhaseIntro},
	}
	for _, tt := range tests {
		got, ok := s.Field(tt.key)
		if !ok {
			t.Errorf("Field(%q) not found", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Field(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestStateFieldRespectsShape(t *testing.T) {
	s := newState(ModelStacking)
	if _, ok := s.Field("activeSection"); ok {
		t.Error("stacking shape must not expose navigation keys")
	}
	if _, ok := s.Field("velocity"); ok {
		t.Error("stacking shape must not expose carousel keys")
	}
	if _, ok := s.Field("scrollProgress"); !ok {
		t.Error("base keys must always be exposed")
	}

	nav := newState(ModelSlideshow)
	if _, ok := nav.Field("activeSection"); !ok {
		t.Error("slideshow shape must expose navigation keys")
	}
	if _, ok := nav.Field("velocity"); ok {
		t.Error("slideshow shape must not expose carousel keys")
	}

	if _, ok := s.Field("not-a-key"); ok {
		t.Error("unknown keys must not resolve")
	}
}

func TestStateKeysPerModel(t *testing.T) {
	base := len(experienceKeys)
	if got := len(StateKeys(ModelStacking)); got != base {
		t.Errorf("stacking keys = %d, want %d", got, base)
	}
	if got := len(StateKeys(ModelSlideshow)); got != base+len(navigationKeys) {
		t.Errorf("slideshow keys = %d, want %d", got, base+len(navigationKeys))
	}
	want := base + len(navigationKeys) + len(carouselKeys)
	if got := len(StateKeys(ModelInfiniteCarousel)); got != want {
		t.Errorf("carousel keys = %d, want %d", got, want)
	}

	// Every enumerated key must actually resolve on its shape.
	s := newState(ModelInfiniteCarousel)
	for _, key := range StateKeys(ModelInfiniteCarousel) {
		if _, ok := s.Field(key); !ok {
			t.Errorf("StateKeys includes %q but Field cannot resolve it", key)
		}
	}
}

func TestStateCloneIsolation(t *testing.T) {
	s := newState(ModelInfiniteCarousel)
	s.carousel.SectionIDs = []string{"a", "b"}
	s.Experience.SectionVisibilities["a"] = 1

	c := s.clone()
	car, _ := c.Carousel()
	car.SectionIDs[0] = "mutated"
	c.Experience.SectionVisibilities["a"] = 0

	if s.carousel.SectionIDs[0] != "a" {
		t.Error("clone shares sectionIds backing array")
	}
	if s.Experience.SectionVisibilities["a"] != 1 {
		t.Error("clone shares visibility map")
	}
}
