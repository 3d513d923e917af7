package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDirectoryAndMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := New(dir, 0)
	assert.ErrorIs(t, err, ErrNotAFile)

	_, err = New(filepath.Join(dir, "missing.yaml"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReloadAfterWritesSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: []\n"), 0o644))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("nodes: []\n# edit\n"), 0o644))
	}
	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// Sibling files do not trigger a reload
	seen := reloads.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, seen, reloads.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
