package drift

import "sync"

// SyntheticEnvironment implements every trigger capability with explicit
// Emit methods, dispatching synchronously to subscribers. It exists for
// tests and headless hosts: the same event path real environments use,
// driven deterministically instead of by a browser or game loop.
type SyntheticEnvironment struct {
	mu     sync.Mutex
	nextID int

	scroll     map[int]scopedScrollFn
	resize     map[int]func(int, int)
	pointer    map[int]func(int, int)
	visibility map[int]scopedVisibilityFn
	motion     map[int]func(bool)
}

type scopedScrollFn struct {
	container string
	fn        func(float64)
}

type scopedVisibilityFn struct {
	container string
	fn        func(string, float64)
}

// NewSyntheticEnvironment creates an environment with no subscribers.
func NewSyntheticEnvironment() *SyntheticEnvironment {
	return &SyntheticEnvironment{
		scroll:     make(map[int]scopedScrollFn),
		resize:     make(map[int]func(int, int)),
		pointer:    make(map[int]func(int, int)),
		visibility: make(map[int]scopedVisibilityFn),
		motion:     make(map[int]func(bool)),
	}
}

func (e *SyntheticEnvironment) id() int {
	e.nextID++
	return e.nextID
}

// OnScroll implements ScrollSource.
func (e *SyntheticEnvironment) OnScroll(container string, fn func(float64)) func() {
	e.mu.Lock()
	id := e.id()
	e.scroll[id] = scopedScrollFn{container: container, fn: fn}
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.scroll, id)
		e.mu.Unlock()
	}
}

// OnResize implements ResizeSource.
func (e *SyntheticEnvironment) OnResize(fn func(int, int)) func() {
	e.mu.Lock()
	id := e.id()
	e.resize[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.resize, id)
		e.mu.Unlock()
	}
}

// OnPointerMove implements PointerSource.
func (e *SyntheticEnvironment) OnPointerMove(fn func(int, int)) func() {
	e.mu.Lock()
	id := e.id()
	e.pointer[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.pointer, id)
		e.mu.Unlock()
	}
}

// OnVisibility implements VisibilitySource.
func (e *SyntheticEnvironment) OnVisibility(container string, fn func(string, float64)) func() {
	e.mu.Lock()
	id := e.id()
	e.visibility[id] = scopedVisibilityFn{container: container, fn: fn}
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.visibility, id)
		e.mu.Unlock()
	}
}

// OnMotionPreference implements MotionSource.
func (e *SyntheticEnvironment) OnMotionPreference(fn func(bool)) func() {
	e.mu.Lock()
	id := e.id()
	e.motion[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.motion, id)
		e.mu.Unlock()
	}
}

// EmitScroll dispatches a scroll event to subscribers of container.
func (e *SyntheticEnvironment) EmitScroll(container string, progress float64) {
	e.mu.Lock()
	fns := make([]func(float64), 0, len(e.scroll))
	for _, s := range e.scroll {
		if s.container == container {
			fns = append(fns, s.fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(progress)
	}
}

// EmitResize dispatches a viewport resize to all subscribers.
func (e *SyntheticEnvironment) EmitResize(width, height int) {
	e.mu.Lock()
	fns := make([]func(int, int), 0, len(e.resize))
	for _, fn := range e.resize {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(width, height)
	}
}

// EmitPointerMove dispatches a pointer position to all subscribers.
func (e *SyntheticEnvironment) EmitPointerMove(x, y int) {
	e.mu.Lock()
	fns := make([]func(int, int), 0, len(e.pointer))
	for _, fn := range e.pointer {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(x, y)
	}
}

// EmitVisibility dispatches a section visibility ratio to subscribers of
// container.
func (e *SyntheticEnvironment) EmitVisibility(container, sectionID string, ratio float64) {
	e.mu.Lock()
	fns := make([]func(string, float64), 0, len(e.visibility))
	for _, s := range e.visibility {
		if s.container == container {
			fns = append(fns, s.fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(sectionID, ratio)
	}
}

// EmitMotionPreference dispatches the reduced-motion preference to all
// subscribers.
func (e *SyntheticEnvironment) EmitMotionPreference(reduced bool) {
	e.mu.Lock()
	fns := make([]func(bool), 0, len(e.motion))
	for _, fn := range e.motion {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(reduced)
	}
}

// SubscriberCount reports the total live subscriptions across all
// capabilities. Useful for teardown leak checks.
func (e *SyntheticEnvironment) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scroll) + len(e.resize) + len(e.pointer) + len(e.visibility) + len(e.motion)
}
