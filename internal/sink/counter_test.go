package sink

import (
	"testing"
	"time"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/feed"
)

func TestCounterTallies(t *testing.T) {
	c := NewCounter()
	now := time.Now().UTC()

	c.OnNotify(testEvent(now, "fswatch", "fs.create", "a"))
	c.OnNotify(testEvent(now, "fswatch", "fs.create", "b"))
	c.OnNotify(testEvent(now, "ticker", "tick", "heartbeat 1"))

	if got := c.Total(); got != 3 {
		t.Fatalf("Total = %d, want 3", got)
	}
	snap := c.Snapshot()
	if snap["fs.create"] != 2 || snap["tick"] != 1 {
		t.Fatalf("Snapshot = %v", snap)
	}

	// Mutating the snapshot must not touch the counter.
	snap["fs.create"] = 99
	if got := c.Snapshot()["fs.create"]; got != 2 {
		t.Fatalf("snapshot is not a copy, count = %d", got)
	}
}

func TestCounterSeesDisconnects(t *testing.T) {
	c := NewCounter()
	s := observe.NewSubject[feed.Event]()

	s.Attach(c)
	if err := s.Detach(c); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if got := c.Disconnects(); got != 1 {
		t.Fatalf("Disconnects = %d, want 1", got)
	}

	// Bulk teardown is silent.
	s.Attach(c)
	s.DetachAll()
	if got := c.Disconnects(); got != 1 {
		t.Fatalf("Disconnects after DetachAll = %d, want 1", got)
	}
}
