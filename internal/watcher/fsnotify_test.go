package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultExtensions(t *testing.T) {
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Stop()
	assert.Equal(t, DefaultExtensions, w.extensions)
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Stop()
	_, err = w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestWatchReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{".txt"}, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	select {
	case ev, ok := <-events:
		require.True(t, ok)
		assert.Equal(t, "notes.txt", filepath.Base(ev.Path))
		assert.Contains(t, []Operation{FileCreated, FileModified}, ev.Operation)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, t.TempDir())
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "created", FileCreated.String())
	assert.Equal(t, "modified", FileModified.String())
	assert.Equal(t, "deleted", FileDeleted.String())
}
