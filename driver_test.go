package drift

import (
	"fmt"
	"testing"
)

func TestDriverRegisterIdempotent(t *testing.T) {
	d := NewVarDriver(nil, nil)
	target := NewStyleMap()
	d.Register(target)
	d.Register(target)
	if d.TargetCount() != 1 {
		t.Fatalf("targetCount = %d after duplicate register, want 1", d.TargetCount())
	}
	d.Register(nil) // ignored
	if d.TargetCount() != 1 {
		t.Fatalf("targetCount = %d after nil register, want 1", d.TargetCount())
	}
}

func TestDriverUnregisterStopsWrites(t *testing.T) {
	d := NewVarDriver(nil, nil)
	target := NewStyleMap()
	d.Register(target)
	d.Unregister(target)

	d.Update(Vars{"--x": "1"})
	if target.VarCount() != 0 {
		t.Fatal("update mutated an unregistered target")
	}

	d.Unregister(target) // absent: no-op
}

func TestDriverUpdateWritesAllTargets(t *testing.T) {
	d := NewVarDriver(nil, nil)
	a, b := NewStyleMap(), NewStyleMap()
	d.Register(a)
	d.Register(b)

	d.Update(Vars{"--x": "1", "--y": "2"})
	for _, target := range []*StyleMap{a, b} {
		if v, _ := target.Var("--x"); v != "1" {
			t.Errorf("--x = %q, want 1", v)
		}
		if v, _ := target.Var("--y"); v != "2" {
			t.Errorf("--y = %q, want 2", v)
		}
	}
}

func TestDriverFollowsStore(t *testing.T) {
	store := NewStore(ModelStacking)
	d := NewVarDriver(store, func(s State) Vars {
		return Vars{"--progress": fmt.Sprintf("%.3f", s.Experience.ScrollProgress)}
	})
	defer d.Destroy()

	target := NewStyleMap()
	d.Register(target)

	store.Update(func(s *State) { s.Experience.ScrollProgress = 0.5 })
	if v, _ := target.Var("--progress"); v != "0.500" {
		t.Errorf("--progress = %q, want 0.500", v)
	}
}

func TestDriverDestroyReleasesEverything(t *testing.T) {
	store := NewStore(ModelStacking)
	d := NewVarDriver(store, func(s State) Vars { return Vars{"--x": "1"} })
	target := NewStyleMap()
	d.Register(target)

	d.Destroy()
	d.Destroy() // idempotent

	if store.SubscriberCount() != 0 {
		t.Error("destroy must cancel the store subscription")
	}
	if d.TargetCount() != 0 {
		t.Error("destroy must clear targets")
	}

	// A destroyed driver is inert.
	d.Register(target)
	d.Update(Vars{"--x": "1"})
	if target.VarCount() != 0 {
		t.Error("destroyed driver still writing")
	}
}

func TestStyleMapRejectsNonCustomProperty(t *testing.T) {
	m := NewStyleMap()
	m.SetVar("color", "red")
	m.SetVar("--", "empty suffix")
	if m.VarCount() != 0 {
		t.Fatal("StyleMap accepted a non-custom-property name")
	}
	m.SetVar("--ok", "1")
	if m.VarCount() != 1 {
		t.Fatal("StyleMap rejected a valid custom property")
	}
}

func TestStyleMapClasses(t *testing.T) {
	m := NewStyleMap()
	m.AddClass("is-active")
	if !m.HasClass("is-active") {
		t.Fatal("class not recorded")
	}
	m.RemoveClass("is-active")
	if m.HasClass("is-active") {
		t.Fatal("class not removed")
	}
}
