package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/thalassalab/observe"
)

// Ticker emits a heartbeat event at a fixed interval. It doubles as a
// liveness signal in the watch output: if heartbeats stop, the pipeline is
// stuck.
type Ticker struct {
	interval time.Duration
	subject  *observe.Subject[Event]
}

// NewTicker creates a Ticker with the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{
		interval: interval,
		subject:  observe.NewSubject[Event](),
	}
}

// Events returns the Subject this source notifies.
func (t *Ticker) Events() *observe.Subject[Event] {
	return t.subject
}

// Run emits heartbeats until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	if t.interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", t.interval)
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			seq++
			t.subject.Notify(Event{
				Time:    now.UTC(),
				Source:  "ticker",
				Type:    "tick",
				Message: fmt.Sprintf("heartbeat %d", seq),
				Data:    map[string]any{"seq": seq},
			})
		}
	}
}

// Close empties the source's registry.
func (t *Ticker) Close() {
	t.subject.DetachAll()
}
