// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changes := make(chan struct{}, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{"ignored.py"}, func() {
		changes <- struct{}{}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(tmpDir); err != nil {
		t.Fatal(err)
	}

	// Create a file
	testFile := filepath.Join(tmpDir, "test.py")
	os.WriteFile(testFile, []byte("x = 1"), 0644)

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// A burst of writes inside the debounce window collapses to one callback.
	os.WriteFile(filepath.Join(tmpDir, "a.py"), []byte("a = 1"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "b.py"), []byte("b = 1"), 0644)

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for burst event")
	}
	select {
	case <-changes:
		t.Error("Debounced burst fired more than one callback")
	case <-time.After(300 * time.Millisecond):
		// Expected
	}

	// Test exclusion and non-Python files
	os.WriteFile(filepath.Join(tmpDir, "ignored.py"), []byte("skip"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("skip"), 0644)

	select {
	case <-changes:
		t.Error("Excluded or irrelevant file triggered event")
	case <-time.After(400 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	// The directory create itself schedules a rescan; drain it.
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for directory create event")
	}

	subFile := filepath.Join(subdir, "nested.py")
	if err := os.WriteFile(subFile, []byte("n = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for nested file event in newly created directory")
	}
}

func TestWatcherRejectsBadPattern(t *testing.T) {
	_, err := NewWatcher(time.Millisecond, []string{"[unterminated"}, func() {})
	if err == nil {
		t.Fatal("expected pattern compile error")
	}
}
