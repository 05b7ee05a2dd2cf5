package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_WriteToWatchedFileTriggersBatch(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "note.md")
	ignored := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(ignored, []byte("a"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.SetPaths([]string{watched}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches := make(chan []string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(changed []string) {
			select {
			case batches <- changed:
			default:
			}
		})
	}()

	// The watcher subscribes to the parent directory; only watch-set members
	// should surface.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(ignored, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("b"), 0o644))

	select {
	case changed := <-batches:
		require.Equal(t, []string{watched}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatcher_DebounceCoalescesBurstIntoOneBatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	w, err := New(200 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.SetPaths([]string{a, b}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches := make(chan []string, 4)
	go func() {
		_ = w.Run(ctx, func(changed []string) { batches <- changed })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(a, []byte("a2"), 0o644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(b, []byte("b2"), 0o644))

	select {
	case changed := <-batches:
		require.Equal(t, []string{a, b}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestWatcher_SetPathsDropsStaleDirectories(t *testing.T) {
	oldDir := t.TempDir()
	newDir := t.TempDir()
	oldFile := filepath.Join(oldDir, "old.md")
	newFile := filepath.Join(newDir, "new.md")
	require.NoError(t, os.WriteFile(oldFile, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(newFile, []byte("a"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.SetPaths([]string{oldFile}))
	require.NoError(t, w.SetPaths([]string{newFile}))
	require.True(t, w.dirs.Has(newDir))
	require.False(t, w.dirs.Has(oldDir))
	require.False(t, w.relevant(oldFile))
	require.True(t, w.relevant(newFile))
}
