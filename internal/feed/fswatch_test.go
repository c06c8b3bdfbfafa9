package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestFileWatcherReportsCreate(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWatcher(dir)
	c := newCollector()
	w.Events().Attach(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before touching the directory.
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(dir, "touched.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case e := <-c.ch:
			if e.Type == "fs.create" && e.Data["path"] == path {
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatalf("no create event for %s; saw %v", path, c.all())
		}
	}
}

func TestFileWatcherRejectsMissingPath(t *testing.T) {
	w := NewFileWatcher(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected an error for a missing watch path")
	}
}

func TestEventTypeMapping(t *testing.T) {
	cases := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "fs.create"},
		{fsnotify.Write, "fs.write"},
		{fsnotify.Remove, "fs.remove"},
		{fsnotify.Rename, "fs.rename"},
		{fsnotify.Chmod, "fs.chmod"},
		{fsnotify.Create | fsnotify.Write, "fs.create"},
		{0, "fs.other"},
	}
	for _, tc := range cases {
		if got := eventType(tc.op); got != tc.want {
			t.Errorf("eventType(%v) = %q, want %q", tc.op, got, tc.want)
		}
	}
}

func TestTranslateCarriesPath(t *testing.T) {
	e := translate(fsnotify.Event{Name: "/tmp/a", Op: fsnotify.Write})
	if e.Source != "fswatch" || e.Type != "fs.write" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.Data["path"] != "/tmp/a" {
		t.Fatalf("path = %v, want /tmp/a", e.Data["path"])
	}
	if e.Message != "/tmp/a" {
		t.Fatalf("message = %q, want the path", e.Message)
	}
}
