package observe

import "sync"

// Observer receives events from the subjects it is attached to.
//
// OnNotify is invoked by Subject.Notify, synchronously on the notifying
// goroutine, once per event. OnSubjectDisconnected is invoked when an
// explicit Subject.Detach removes the observer; it is not invoked by
// DetachAll or by the observer's own Close.
//
// Implementations embed Base, which carries the attachment bookkeeping and
// supplies a no-op OnSubjectDisconnected, and must be used through a pointer:
//
//	type lastValue struct {
//		observe.Base[int]
//		last int
//	}
//
//	func (o *lastValue) OnNotify(v int) { o.last = v }
type Observer[T any] interface {
	OnNotify(event T)
	OnSubjectDisconnected()

	// base exposes the attachment bookkeeping to Subject. Unexported so the
	// only way to satisfy the interface is to embed Base.
	base() *Base[T]
}

// Base holds the observer-side half of the attachment relation: the subjects
// an observer is currently attached to, guarded by the observer's own lock.
// Subjects mutate it through Attach and the detach paths; implementations
// only need it for Close and SubjectCount. The zero value is ready to use.
type Base[T any] struct {
	mu       sync.Mutex
	subjects []*Subject[T]
}

func (b *Base[T]) base() *Base[T] { return b }

// OnSubjectDisconnected is the default reaction to an explicit detach: none.
// Shadow it on the embedding type to react.
func (b *Base[T]) OnSubjectDisconnected() {}

// Close detaches the observer from every subject it is still attached to,
// without invoking OnSubjectDisconnected. Call it at the end of the
// observer's life; afterwards no subject retains a reference to it.
//
// Close is safe to run concurrently with subject-side teardown: a subject
// whose DetachAll already dropped the link is skipped.
func (b *Base[T]) Close() {
	b.mu.Lock()
	subjects := make([]*Subject[T], len(b.subjects))
	copy(subjects, b.subjects)
	b.mu.Unlock()

	for _, s := range subjects {
		// NotAttached here means the subject tore down first; that is fine.
		_ = s.detach(b)
	}

	b.mu.Lock()
	b.subjects = nil
	b.mu.Unlock()
}

// SubjectCount reports how many subjects the observer is currently attached
// to, consistent with some valid interleaving of concurrent operations.
func (b *Base[T]) SubjectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subjects)
}

// addSubject records s. Callers hold the subject's lock; taking b.mu here
// preserves the package-wide subject-then-observer lock order.
func (b *Base[T]) addSubject(s *Subject[T]) {
	b.mu.Lock()
	b.subjects = append(b.subjects, s)
	b.mu.Unlock()
}

// removeSubject drops s, if present. Same locking discipline as addSubject.
func (b *Base[T]) removeSubject(s *Subject[T]) {
	b.mu.Lock()
	for i, cur := range b.subjects {
		if cur == s {
			b.subjects = append(b.subjects[:i], b.subjects[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}
