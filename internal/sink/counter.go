package sink

import (
	"sync"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/feed"
)

// Counter tallies observed events per type. It backs the watch summary and
// the dashboard counts panel.
type Counter struct {
	observe.Base[feed.Event]

	mu          sync.Mutex
	byType      map[string]int
	total       int
	disconnects int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{byType: make(map[string]int)}
}

// OnNotify tallies the event.
func (c *Counter) OnNotify(event feed.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byType[event.Type]++
	c.total++
}

// OnSubjectDisconnected counts explicit detachments from subjects.
func (c *Counter) OnSubjectDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
}

// Snapshot returns a copy of the per-type tallies.
func (c *Counter) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.byType))
	for k, v := range c.byType {
		out[k] = v
	}
	return out
}

// Total returns the number of events observed.
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Disconnects returns how many explicit detachments the counter has seen.
func (c *Counter) Disconnects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}
