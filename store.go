package drift

import "sync"

// Store is the per-experience reactive state container. One Store exists
// per mounted experience instance; Triggers are its only writers, and
// Behaviour consumers and Drivers read it through State or Subscribe.
//
// Writes fan out to subscribers synchronously on the writer's goroutine,
// in subscription order, so "store write" and "target write" land in the
// same tick with deterministic ordering. The mutex exists because effect
// tracks and fallback timers run off the frame goroutine, not because the
// frame path itself is concurrent.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []storeSub
	next  int
}

type storeSub struct {
	id int
	fn func(State)
}

// NewStore creates a Store whose state shape is selected by the
// presentation-model discriminant.
func NewStore(model PresentationModel) *Store {
	return &Store{state: newState(model)}
}

// Model returns the presentation model the store was created for.
func (s *Store) Model() PresentationModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Model
}

// State returns a point-in-time deep snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Update applies mut to the state and fans the new snapshot out to every
// subscriber, in subscription order, before returning. mut receives the
// live state and may touch any subset of fields.
func (s *Store) Update(mut func(*State)) {
	s.mu.Lock()
	mut(&s.state)
	snap := s.state.clone()
	subs := append([]storeSub(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Subscribe registers fn to run on every Update with a snapshot of the new
// state. The returned cancel is idempotent and safe to call after the
// store is abandoned.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, storeSub{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscriberCount reports the number of active subscriptions. Useful for
// leak checks in teardown paths.
func (s *Store) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
