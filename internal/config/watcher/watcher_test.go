package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcher_WatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)

	first := filepath.Join(dir, "settings.toml")
	second := filepath.Join(dir, "missing.json")
	if err := w.Watch(first); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatalf("watching a file that does not exist yet must work: %v", err)
	}
	if err := w.Watch(first); err != nil {
		t.Fatalf("watching twice must be a no-op: %v", err)
	}
	if got := len(w.WatchedFiles()); got != 2 {
		t.Errorf("WatchedFiles() = %d files, want 2", got)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("directory refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(first); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if err := w.Unwatch(second); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if len(w.WatchedFiles()) != 0 || len(w.dirs) != 0 {
		t.Errorf("expected nothing watched, files=%v dirs=%v", w.WatchedFiles(), w.dirs)
	}
}

func TestWatcher_WatchMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "settings.toml")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestWatcher_DeliversChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("capitalizeListItems: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Fatal("expected watcher to be running")
	}

	// A sibling file is ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("capitalizeListItems: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if filepath.Base(ev.Path) != "settings.yaml" {
			t.Errorf("event for unexpected file %s", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
}

func TestWatcher_ClosedWatcher(t *testing.T) {
	w := newWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "a.toml")); err != ErrClosed {
		t.Errorf("Watch() after Close = %v, want ErrClosed", err)
	}
	if err := w.Start(context.Background()); err != ErrClosed {
		t.Errorf("Start() after Close = %v, want ErrClosed", err)
	}
}

func TestQueueEventCoalesces(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Second))
	base := time.Now()

	w.queueEvent(Event{Path: "/a", Op: OpCreate, Time: base})
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: base.Add(time.Millisecond)})
	w.queueEvent(Event{Path: "/b", Op: OpWrite, Time: base})
	w.queueEvent(Event{Path: "/b", Op: OpRemove, Time: base.Add(time.Millisecond)})

	if got := w.pending["/a"]; got.Op != OpCreate || !got.Time.Equal(base.Add(time.Millisecond)) {
		t.Errorf("create+write = %v at %v, want create at latest time", got.Op, got.Time)
	}
	if got := w.pending["/b"].Op; got != OpRemove {
		t.Errorf("write+remove = %v, want remove", got)
	}
}

func TestProcessPendingEventsWaitsForQuiet(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Second))
	var got []Event
	w.OnChange(func(ev Event) { got = append(got, ev) })

	base := time.Now()
	w.queueEvent(Event{Path: "/a", Op: OpWrite, Time: base})

	w.processPendingEvents(base.Add(500 * time.Millisecond))
	if len(got) != 0 {
		t.Fatalf("event delivered before the debounce elapsed: %v", got)
	}

	w.processPendingEvents(base.Add(time.Second))
	if len(got) != 1 || got[0].Path != "/a" {
		t.Fatalf("expected one event for /a, got %v", got)
	}
	if len(w.pending) != 0 {
		t.Error("delivered events must leave the queue")
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	w := newWatcher(t)
	var called bool
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called = true })

	w.emitEvent(Event{Path: "/a", Op: OpWrite, Time: time.Now()})
	if !called {
		t.Error("handlers after a panicking one must still run")
	}
}
