package observe

import (
	"sync"
	"testing"
)

func TestObserverCloseDetachesEverywhere(t *testing.T) {
	s1 := NewSubject[int]()
	s2 := NewSubject[int]()
	o := &intRecorder{}
	bystander := &intRecorder{}

	s1.Attach(o)
	s1.Attach(bystander)
	s2.Attach(o)

	o.Close()

	if got := s1.ObserverCount(); got != 1 {
		t.Fatalf("s1 ObserverCount after close = %d, want 1", got)
	}
	if got := s2.ObserverCount(); got != 0 {
		t.Fatalf("s2 ObserverCount after close = %d, want 0", got)
	}
	if got := o.SubjectCount(); got != 0 {
		t.Fatalf("SubjectCount after close = %d, want 0", got)
	}
	if got := o.disconnectCount(); got != 0 {
		t.Fatalf("close invoked %d disconnect callbacks, want 0", got)
	}

	s1.Notify(1)
	s2.Notify(2)
	if got := o.lastSeen(); got != 0 {
		t.Fatalf("closed observer saw %d, want nothing", got)
	}
	if got := bystander.lastSeen(); got != 1 {
		t.Fatalf("bystander saw %d, want 1", got)
	}
}

func TestDetachAllClearsObserverTracking(t *testing.T) {
	s := NewSubject[int]()
	o1 := &intRecorder{}
	o2 := &intRecorder{}
	s.Attach(o1)
	s.Attach(o2)

	s.DetachAll()

	if got := s.ObserverCount(); got != 0 {
		t.Fatalf("ObserverCount after DetachAll = %d, want 0", got)
	}
	if o1.SubjectCount() != 0 || o2.SubjectCount() != 0 {
		t.Fatalf("SubjectCounts after DetachAll = %d, %d, want 0, 0",
			o1.SubjectCount(), o2.SubjectCount())
	}
	if o1.disconnectCount() != 0 || o2.disconnectCount() != 0 {
		t.Fatal("DetachAll must not invoke disconnect callbacks")
	}

	// Closing the observers afterwards must not reach back into the subject.
	o1.Close()
	o2.Close()
	if got := s.ObserverCount(); got != 0 {
		t.Fatalf("ObserverCount after late closes = %d, want 0", got)
	}
}

func TestTeardownInEitherOrder(t *testing.T) {
	// Subject first.
	s := NewSubject[int]()
	o := &intRecorder{}
	s.Attach(o)
	s.DetachAll()
	o.Close()

	// Observer first.
	s = NewSubject[int]()
	o = &intRecorder{}
	s.Attach(o)
	o.Close()
	s.DetachAll()

	if got := s.ObserverCount(); got != 0 {
		t.Fatalf("ObserverCount = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewSubject[int]()
	o := &intRecorder{}
	s.Attach(o)

	o.Close()
	o.Close()

	if got := s.ObserverCount(); got != 0 {
		t.Fatalf("ObserverCount = %d, want 0", got)
	}
}

func TestConcurrentAttachDetachNotify(t *testing.T) {
	s := NewSubject[int]()
	o := &intRecorder{}

	const iterations = 2000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Attach(o)
			_ = s.Detach(o)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Notify(i)
		}
	}()
	wg.Wait()

	if got := s.ObserverCount(); got != 0 {
		t.Fatalf("ObserverCount after churn = %d, want 0", got)
	}
	if got := o.SubjectCount(); got != 0 {
		t.Fatalf("SubjectCount after churn = %d, want 0", got)
	}
}

func TestConcurrentTeardownBothSides(t *testing.T) {
	const rounds = 500
	for i := 0; i < rounds; i++ {
		s := NewSubject[int]()
		o := &intRecorder{}
		s.Attach(o)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.DetachAll()
		}()
		go func() {
			defer wg.Done()
			o.Close()
		}()
		wg.Wait()

		if got := s.ObserverCount(); got != 0 {
			t.Fatalf("round %d: ObserverCount = %d, want 0", i, got)
		}
		if got := o.SubjectCount(); got != 0 {
			t.Fatalf("round %d: SubjectCount = %d, want 0", i, got)
		}
	}
}

func TestConcurrentAttachOppositePairs(t *testing.T) {
	// Two goroutines working the same subject/observer pair in opposite
	// roles must not deadlock on lock ordering.
	s1 := NewSubject[int]()
	s2 := NewSubject[int]()
	o1 := &intRecorder{}
	o2 := &intRecorder{}

	const iterations = 1000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s1.Attach(o1)
			s2.Attach(o2)
			_ = s1.Detach(o1)
			_ = s2.Detach(o2)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s2.Attach(o1)
			s1.Attach(o2)
			_ = s2.Detach(o1)
			_ = s1.Detach(o2)
		}
	}()
	wg.Wait()

	for _, s := range []*Subject[int]{s1, s2} {
		if got := s.ObserverCount(); got != 0 {
			t.Fatalf("ObserverCount = %d, want 0", got)
		}
	}
}
