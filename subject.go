package observe

import "sync"

// Subject fans typed events out to an ordered registry of observers.
//
// All methods are safe for concurrent use. The registry holds non-owning
// references only: a Subject never extends the life of its observers, and
// the paired teardown operations (DetachAll here, Base.Close on the observer
// side) guarantee that destroying either endpoint first leaves no stale link
// on the survivor.
//
// A Subject contains a mutex and must not be copied after first use; Clone
// exists for callers that want a fresh subject of the same event type.
// The zero value is ready to use.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []Observer[T]
}

// NewSubject returns an empty Subject.
func NewSubject[T any]() *Subject[T] { return &Subject[T]{} }

// Clone returns a new Subject with an empty registry. Attachments are not
// transferable state: who observes a subject is bound to that exact instance,
// so a clone never inherits the original's observers.
func (s *Subject[T]) Clone() *Subject[T] { return &Subject[T]{} }

// Attach registers obs to receive notifications, appending it to the end of
// the notification order. Attaching an observer that is already registered is
// a no-op. The reciprocal link is recorded on the observer under its own
// lock before Attach returns.
func (s *Subject[T]) Attach(obs Observer[T]) {
	b := obs.base()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(b) >= 0 {
		return
	}
	s.observers = append(s.observers, obs)
	b.addSubject(s)
}

// Detach removes obs from the registry and clears the reciprocal link, then
// invokes the observer's OnSubjectDisconnected exactly once, with no locks
// held. Returns ErrNotAttached if obs is not currently registered.
func (s *Subject[T]) Detach(obs Observer[T]) error {
	if err := s.detach(obs.base()); err != nil {
		return err
	}
	obs.OnSubjectDisconnected()
	return nil
}

// DetachAll empties the registry, clearing the reciprocal link on every
// removed observer. No callbacks are invoked; bulk teardown is silent. Call
// it when the subject reaches the end of its life so that observers closed
// later do not try to reach back into it.
func (s *Subject[T]) DetachAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obs := range s.observers {
		obs.base().removeSubject(s)
	}
	s.observers = nil
}

// Notify invokes OnNotify(event) on every attached observer, in attachment
// order, synchronously on the calling goroutine. The registry is snapshotted
// under the lock and dispatch happens outside it, so callbacks may attach or
// detach on this subject freely; an observer detached concurrently with an
// in-flight Notify may still receive that notification.
//
// A panic in a callback propagates to the caller and aborts notification of
// the remaining observers; the registry itself is never corrupted.
func (s *Subject[T]) Notify(event T) {
	s.mu.Lock()
	snapshot := make([]Observer[T], len(s.observers))
	copy(snapshot, s.observers)
	s.mu.Unlock()

	for _, obs := range snapshot {
		obs.OnNotify(event)
	}
}

// ObserverCount reports the current size of the registry, consistent with
// some valid interleaving of concurrent operations.
func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// detach removes the observer identified by b and clears the reciprocal
// link, as one step under both locks in subject-then-observer order. No
// callback is invoked: Detach layers OnSubjectDisconnected on top, and the
// observer-side teardown in Base.Close depends on exactly this silence so a
// closing observer is never called back into.
func (s *Subject[T]) detach(b *Base[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(b)
	if i < 0 {
		return ErrNotAttached
	}
	s.observers = append(s.observers[:i], s.observers[i+1:]...)
	b.removeSubject(s)
	return nil
}

// indexLocked locates an observer by its Base pointer, the identity a
// registration is keyed on. Caller holds s.mu.
func (s *Subject[T]) indexLocked(b *Base[T]) int {
	for i, obs := range s.observers {
		if obs.base() == b {
			return i
		}
	}
	return -1
}
