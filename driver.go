package drift

import "sync"

// Target is the imperative style surface the pipeline writes to. SetVar is
// the only channel: drivers and effect realizations set CSS custom
// properties and nothing else. Writing any other style surface through a
// side door is a contract violation caught by review tooling, not at
// runtime.
type Target interface {
	SetVar(name, value string)
	RemoveVar(name string)
}

// ClassTarget extends Target for class-toggle effect realizations.
// AnimationEnd yields once per completed host animation; realizations
// guard it with a fallback timer, so a host that never signals completion
// only delays a track, never hangs it.
type ClassTarget interface {
	Target
	AddClass(name string)
	RemoveClass(name string)
	AnimationEnd() <-chan struct{}
}

// Driver is the structural contract every continuous controller satisfies.
// There is deliberately no shared base implementation: a driver is
// anything that registers targets, applies var updates to all of them, and
// releases everything on Destroy.
type Driver interface {
	Register(t Target)
	Unregister(t Target)
	Update(vars Vars)
	Destroy()
}

// VarDriver applies computed CSS variables to a set of registered targets
// on every store change, inside the same tick as the triggering write and
// outside any declarative render cycle. One VarDriver exists per mounted
// controller component; Destroy on unmount is mandatory or the store
// subscription keeps firing.
type VarDriver struct {
	mu        sync.Mutex
	targets   []Target
	destroyed bool
	cancel    func()
}

// NewVarDriver creates a driver subscribed to store: every update runs
// compute on the new snapshot and applies the result to all registered
// targets. compute may be nil for drivers fed manually through Update.
func NewVarDriver(store *Store, compute func(State) Vars) *VarDriver {
	d := &VarDriver{}
	if store != nil && compute != nil {
		d.cancel = store.Subscribe(func(s State) {
			d.Update(compute(s))
		})
	}
	return d
}

// Register adds a target to the update set. Idempotent: registering a
// target twice keeps a single entry.
func (d *VarDriver) Register(t Target) {
	if t == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return
	}
	for _, existing := range d.targets {
		if existing == t {
			return
		}
	}
	d.targets = append(d.targets, t)
}

// Unregister removes a target from the update set. No-op if absent.
func (d *VarDriver) Unregister(t Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.targets {
		if existing == t {
			d.targets = append(d.targets[:i], d.targets[i+1:]...)
			return
		}
	}
}

// Update applies every var to every registered target. Empty or nil var
// maps are no-ops.
func (d *VarDriver) Update(vars Vars) {
	if len(vars) == 0 {
		return
	}
	d.mu.Lock()
	targets := append([]Target(nil), d.targets...)
	d.mu.Unlock()

	for _, t := range targets {
		for name, value := range vars {
			t.SetVar(name, value)
		}
	}
}

// TargetCount reports the number of registered targets.
func (d *VarDriver) TargetCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.targets)
}

// Destroy cancels the store subscription and releases all targets. The
// driver is inert afterwards: Register and Update become no-ops. Safe to
// call more than once.
func (d *VarDriver) Destroy() {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	d.destroyed = true
	cancel := d.cancel
	d.cancel = nil
	d.targets = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// StyleMap is a map-backed Target and ClassTarget: the reference
// implementation for headless hosts and the workhorse of this package's
// tests. Hosts that buffer variable writes before flushing them to a real
// styling layer can embed or wrap it.
type StyleMap struct {
	mu      sync.Mutex
	vars    map[string]string
	classes map[string]bool
	animEnd chan struct{}
}

// NewStyleMap creates an empty StyleMap.
func NewStyleMap() *StyleMap {
	return &StyleMap{
		vars:    make(map[string]string),
		classes: make(map[string]bool),
		animEnd: make(chan struct{}, 1),
	}
}

// SetVar implements Target. Names that are not custom properties are
// dropped with a warning rather than stored.
func (m *StyleMap) SetVar(name, value string) {
	if !ValidVarName(name) {
		logger.Warn().Str("name", name).Msg("rejected non-custom-property var write")
		return
	}
	m.mu.Lock()
	m.vars[name] = value
	m.mu.Unlock()
}

// RemoveVar implements Target.
func (m *StyleMap) RemoveVar(name string) {
	m.mu.Lock()
	delete(m.vars, name)
	m.mu.Unlock()
}

// Var returns the current value of a variable and whether it is set.
func (m *StyleMap) Var(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[name]
	return v, ok
}

// VarCount reports the number of set variables.
func (m *StyleMap) VarCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vars)
}

// AddClass implements ClassTarget.
func (m *StyleMap) AddClass(name string) {
	m.mu.Lock()
	m.classes[name] = true
	m.mu.Unlock()
}

// RemoveClass implements ClassTarget.
func (m *StyleMap) RemoveClass(name string) {
	m.mu.Lock()
	delete(m.classes, name)
	m.mu.Unlock()
}

// HasClass reports whether a class is currently set.
func (m *StyleMap) HasClass(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes[name]
}

// AnimationEnd implements ClassTarget.
func (m *StyleMap) AnimationEnd() <-chan struct{} {
	return m.animEnd
}

// SignalAnimationEnd simulates the host's animation-completion event.
// Non-blocking: the signal is dropped when nothing is waiting and one is
// already queued.
func (m *StyleMap) SignalAnimationEnd() {
	select {
	case m.animEnd <- struct{}{}:
	default:
	}
}
