// Package sink provides Observer implementations for the observe toolkit:
// a durable JSONL recorder, a styled console printer, and per-type counters.
package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/feed"
)

// Filter specifies criteria for reading recorded events.
type Filter struct {
	Since  *time.Time
	Until  *time.Time
	Type   string
	Source string
}

// Recorder appends every event it observes to a JSONL file. Attach it to any
// number of subjects; writes are serialized by its own lock.
type Recorder struct {
	observe.Base[feed.Event]

	path string

	mu       sync.Mutex
	file     *os.File
	writeErr error
	dropped  int
}

// NewRecorder opens (or creates) the JSONL file at path for appending.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &Recorder{path: path, file: f}, nil
}

// OnNotify appends the event as one JSON line. Write failures do not
// propagate into the notifying subject; they are retained for Err and
// counted in Dropped.
func (r *Recorder) OnNotify(event feed.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		r.recordFailure(fmt.Errorf("marshalling event: %w", err))
		return
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		r.dropped++
		return
	}
	if _, err := r.file.Write(data); err != nil {
		r.dropped++
		if r.writeErr == nil {
			r.writeErr = fmt.Errorf("writing event: %w", err)
		}
	}
}

// Err returns the first write failure seen, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeErr
}

// Dropped returns the number of events that could not be recorded.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Read returns the recorded events matching the filter.
func (r *Recorder) Read(filter Filter) ([]feed.Event, error) {
	return ReadLog(r.path, filter)
}

// Close detaches the recorder from every subject it still observes, then
// closes the underlying file. Events notified after Close are dropped.
func (r *Recorder) Close() error {
	r.Base.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	f := r.file
	r.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}

// ReadLog scans the JSONL file at path line by line, decodes each event, and
// returns those matching the filter. A missing file yields no events.
func ReadLog(path string, filter Filter) ([]feed.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []feed.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event feed.Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // skip malformed lines
		}

		if matchesFilter(event, filter) {
			events = append(events, event)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}

	return events, nil
}

// matchesFilter checks whether an event satisfies all filter criteria.
func matchesFilter(event feed.Event, filter Filter) bool {
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && event.Time.After(*filter.Until) {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.Source != "" && event.Source != filter.Source {
		return false
	}
	return true
}

func (r *Recorder) recordFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
	if r.writeErr == nil {
		r.writeErr = err
	}
}
