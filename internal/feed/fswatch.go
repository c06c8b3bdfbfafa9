package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thalassalab/observe"
)

// FileWatcher turns filesystem notifications on a set of paths into events on
// its Subject.
type FileWatcher struct {
	paths   []string
	subject *observe.Subject[Event]
}

// NewFileWatcher creates a FileWatcher for the given paths. Run starts the
// actual watching; attaching observers before Run avoids missed events.
func NewFileWatcher(paths ...string) *FileWatcher {
	return &FileWatcher{
		paths:   paths,
		subject: observe.NewSubject[Event](),
	}
}

// Events returns the Subject this source notifies. Attach sinks here.
func (w *FileWatcher) Events() *observe.Subject[Event] {
	return w.subject
}

// Run watches the configured paths until ctx is cancelled, notifying the
// Subject for every filesystem event. Watcher-level errors are reported as
// events of type "fs.error" rather than terminating the run.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range w.paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.subject.Notify(translate(evt))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.subject.Notify(Event{
				Time:    time.Now().UTC(),
				Source:  "fswatch",
				Type:    "fs.error",
				Message: err.Error(),
			})
		}
	}
}

// Close empties the source's registry. Call it after Run has returned so
// sinks closed later do not reach back into the source.
func (w *FileWatcher) Close() {
	w.subject.DetachAll()
}

// translate maps an fsnotify event to the toolkit payload.
func translate(evt fsnotify.Event) Event {
	return Event{
		Time:    time.Now().UTC(),
		Source:  "fswatch",
		Type:    eventType(evt.Op),
		Message: evt.Name,
		Data:    map[string]any{"path": evt.Name, "op": evt.Op.String()},
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "fs.create"
	case op.Has(fsnotify.Write):
		return "fs.write"
	case op.Has(fsnotify.Remove):
		return "fs.remove"
	case op.Has(fsnotify.Rename):
		return "fs.rename"
	case op.Has(fsnotify.Chmod):
		return "fs.chmod"
	default:
		return "fs.other"
	}
}
