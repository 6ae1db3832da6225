package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	t.Cleanup(w.Stop)
	w.Start()
	return w
}

func waitPayload(t *testing.T, w *Watcher) Payload {
	t.Helper()
	select {
	case p := <-w.Payloads():
		return p
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for payload")
	}
	return Payload{}
}

func expectNoPayload(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case p := <-w.Payloads():
		t.Fatalf("unexpected payload %q", p.Text)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherEmitsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello there"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w := newTestWatcher(t, path)
	p := waitPayload(t, w)
	if p.Text != "hello there" {
		t.Fatalf("payload = %q, want %q", p.Text, "hello there")
	}
	if p.Hash == 0 {
		t.Fatal("payload hash is zero")
	}
}

func TestWatcherEmitsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	w := newTestWatcher(t, path)

	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if got := waitPayload(t, w).Text; got != "first" {
		t.Fatalf("payload = %q, want %q", got, "first")
	}

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	if got := waitPayload(t, w).Text; got != "second" {
		t.Fatalf("payload = %q, want %q", got, "second")
	}
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("same"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w := newTestWatcher(t, path)
	first := waitPayload(t, w)

	// Re-save identical bytes: the event fires but the hash matches.
	if err := os.WriteFile(path, []byte("same"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	expectNoPayload(t, w)

	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	second := waitPayload(t, w)
	if second.Hash == first.Hash {
		t.Fatal("expected a new hash after content change")
	}
}

func TestWatcherRetypesSameContentAfterTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("again"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w := newTestWatcher(t, path)
	if got := waitPayload(t, w).Text; got != "again" {
		t.Fatalf("payload = %q, want %q", got, "again")
	}

	if err := os.Truncate(path, 0); err != nil {
		t.Fatalf("failed to truncate file: %v", err)
	}
	expectNoPayload(t, w)

	if err := os.WriteFile(path, []byte("again"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	if got := waitPayload(t, w).Text; got != "again" {
		t.Fatalf("payload after truncate = %q, want %q", got, "again")
	}
}

func TestWatcherSkipsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	w := newTestWatcher(t, path)
	expectNoPayload(t, w)

	if err := os.WriteFile(path, []byte("now populated"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	if got := waitPayload(t, w).Text; got != "now populated" {
		t.Fatalf("payload = %q, want %q", got, "now populated")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	w := newTestWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0o644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}
	expectNoPayload(t, w)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	w := newTestWatcher(t, path)

	// Several writes inside one debounce window settle into one payload.
	for _, content := range []string{"a", "ab", "abc"} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := waitPayload(t, w).Text; got != "abc" {
		t.Fatalf("payload = %q, want %q", got, "abc")
	}
	expectNoPayload(t, w)
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "gone", "note.txt"), time.Second, nil); err == nil {
		t.Fatal("expected an error for a missing parent directory")
	}
}
