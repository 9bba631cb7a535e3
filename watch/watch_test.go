package watch_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/golineage/lineage/watch"
)

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "hierarchy.yaml")
	err := os.WriteFile(defPath, []byte("version: 1\n"), 0644)
	require.NoError(t, err, "failed to create definition file")

	w, err := watch.New(watch.Config{
		Path:     defPath,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into a single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(defPath, []byte(fmt.Sprintf("version: 1 # rev %d\n", i)), 0644)
		require.NoError(t, err, "failed to write definition file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_FileModeIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "hierarchy.yaml")
	otherPath := filepath.Join(dir, "other.yaml")
	err := os.WriteFile(defPath, []byte("version: 1\n"), 0644)
	require.NoError(t, err, "failed to create definition file")
	// Pre-create the sibling so writes to it are plain Write events
	err = os.WriteFile(otherPath, []byte("version: 1\n"), 0644)
	require.NoError(t, err, "failed to create sibling file")

	w, err := watch.New(watch.Config{
		Path:     defPath,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(otherPath, []byte("version: 1 # changed\n"), 0644)
	require.NoError(t, err, "failed to write sibling file")

	select {
	case <-onChange:
		t.Fatal("should not notify for sibling files in file mode")
	case <-time.After(150 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_DirectoryMode(t *testing.T) {
	dir := t.TempDir()

	w, err := watch.New(watch.Config{
		Path:     dir,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// A non-YAML file in the directory should not notify
	err = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	require.NoError(t, err, "failed to write text file")

	select {
	case <-onChange:
		t.Fatal("should not notify for non-YAML files")
	case <-time.After(150 * time.Millisecond):
		// Expected
	}

	// A new YAML file should notify
	err = os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("version: 1\n"), 0644)
	require.NoError(t, err, "failed to write yaml file")

	select {
	case <-onChange:
		// Expected
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for new YAML file")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "hierarchy.yaml")
	err := os.WriteFile(defPath, []byte("version: 1\n"), 0644)
	require.NoError(t, err, "failed to create definition file")

	w, err := watch.New(watch.Config{
		Path:     defPath,
		Debounce: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	var stopErr error
	go func() {
		stopErr = w.Stop()
		close(done)
	}()

	select {
	case <-done:
		require.NoError(t, stopErr, "Stop returned error")
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watch.DefaultConfig("defs/hierarchy.yaml")

	require.Equal(t, "defs/hierarchy.yaml", cfg.Path)
	require.Equal(t, 1*time.Second, cfg.Debounce)
}
