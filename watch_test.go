package cssconf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailwind.config.json")
	writeConfig(t, path, `{"content": ["a/*.html"], "safelist": ["p-4"]}`)

	var (
		changes []*LoadResult
		errs    []error
	)
	w, err := NewWatcher(path, WatcherOptions{
		OnChange: func(res *LoadResult) { changes = append(changes, res) },
		OnError:  func(err error) { errs = append(errs, err) },
	})
	require.NoError(t, err)
	first := w.Current()
	firstSnapshot := w.Snapshot()
	assert.Equal(t, []string{"a/*.html"}, first.ContentGlobs())

	// Unchanged file keeps the same snapshot.
	changed, err := w.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, changes)
	assert.Same(t, firstSnapshot, w.Snapshot())
	assert.Same(t, first, w.Current())

	// A broken edit keeps the previous snapshot.
	writeConfig(t, path, `{"content": ["b/*.html"], "safelist": [1]}`)
	changed, err = w.Reload()
	require.Error(t, err)
	assert.False(t, changed)
	require.Len(t, errs, 1)
	var se *SchemaError
	assert.True(t, errors.As(errs[0], &se))
	assert.Same(t, first, w.Current())

	// A valid edit replaces it wholesale.
	writeConfig(t, path, `{"content": ["b/*.html"], "safelist": ["m-2"]}`)
	changed, err = w.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, changes, 1)
	assert.Equal(t, []string{"b/*.html"}, w.Current().ContentGlobs())
	assert.True(t, w.Current().Safelist().Has("m-2"))
	assert.Same(t, changes[0], w.Snapshot())

	// The old snapshot is untouched.
	assert.Equal(t, []string{"a/*.html"}, first.ContentGlobs())
}

func TestNewWatcher_InvalidInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailwind.config.json")
	writeConfig(t, path, `{"content": `)

	_, err := NewWatcher(path, WatcherOptions{})
	var le *LoadError
	require.True(t, errors.As(err, &le))
}

func TestWatcher_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailwind.config.yaml")
	writeConfig(t, path, "content: [a/*.html]\n")

	var mu sync.Mutex
	var seen []string
	w, err := NewWatcher(path, WatcherOptions{
		OnChange: func(res *LoadResult) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, res.Config.ContentGlobs()...)
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Keep rewriting until the watcher has picked the edit up; the watch
	// may not be registered yet on the first write.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("content: [b/*.html]\n"), 0644)
		globs := w.Current().ContentGlobs()
		return len(globs) == 1 && globs[0] == "b/*.html"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, "b/*.html")
}

func runWatcher(t *testing.T, w *Watcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func stopWatcher(t *testing.T, cancel context.CancelFunc, done <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "Run returned %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_RunSurvivesReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailwind.config.json")
	writeConfig(t, path, `{"content": ["a/*.html"]}`)

	w, err := NewWatcher(path, WatcherOptions{})
	require.NoError(t, err)
	cancel, done := runWatcher(t, w)

	// Save the way editors do: write a temp file, remove, rename over.
	tmp := filepath.Join(dir, "tailwind.config.json.tmp")
	writeConfig(t, tmp, `{"content": ["c/*.html"]}`)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		globs := w.Current().ContentGlobs()
		return len(globs) == 1 && globs[0] == "c/*.html"
	}, 5*time.Second, 20*time.Millisecond)

	// The re-armed watch keeps following plain writes.
	writeConfig(t, path, `{"content": ["d/*.html"]}`)
	require.Eventually(t, func() bool {
		globs := w.Current().ContentGlobs()
		return len(globs) == 1 && globs[0] == "d/*.html"
	}, 5*time.Second, 20*time.Millisecond)

	stopWatcher(t, cancel, done)
}

func TestWatcher_RunWaitsForMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailwind.config.json")
	writeConfig(t, path, `{"content": ["a/*.html"]}`)

	w, err := NewWatcher(path, WatcherOptions{})
	require.NoError(t, err)

	// The file is gone before Run starts.
	require.NoError(t, os.Remove(path))
	cancel, done := runWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Run returned while the file was missing: %v", err)
	default:
	}
	assert.Equal(t, []string{"a/*.html"}, w.Current().ContentGlobs())

	writeConfig(t, path, `{"content": ["b/*.html"]}`)
	require.Eventually(t, func() bool {
		globs := w.Current().ContentGlobs()
		return len(globs) == 1 && globs[0] == "b/*.html"
	}, 5*time.Second, 20*time.Millisecond)

	stopWatcher(t, cancel, done)
}

func TestWaitForFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, context.Canceled))
}
