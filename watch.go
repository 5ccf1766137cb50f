package cssconf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/knadh/koanf/providers/file"
)

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Loader used for every reload. Nil means a zero Loader.
	Loader *Loader
	// OnChange is called after a reload produced a different config.
	OnChange func(*LoadResult)
	// OnError is called when a reload fails. The previous snapshot stays
	// current.
	OnError func(error)
}

// Watcher keeps the latest valid config for a file. Each reload parses the
// whole file and swaps the snapshot in one step, so readers never observe
// a half-applied edit.
type Watcher struct {
	path    string
	opts    WatcherOptions
	current atomic.Pointer[LoadResult]
	mu      sync.Mutex // serialises reloads
}

// NewWatcher loads path once. An invalid initial config is an error.
func NewWatcher(path string, opts WatcherOptions) (*Watcher, error) {
	if opts.Loader == nil {
		opts.Loader = &Loader{}
	}
	w := &Watcher{path: path, opts: opts}
	res, err := opts.Loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	w.current.Store(res)
	return w, nil
}

// Current returns the latest valid config.
func (w *Watcher) Current() *Config { return w.current.Load().Config }

// Snapshot returns the latest valid load result.
func (w *Watcher) Snapshot() *LoadResult { return w.current.Load() }

// Reload re-reads the file. It reports whether the config changed. On
// error the previous snapshot is kept.
func (w *Watcher) Reload() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.opts.Loader.LoadFile(w.path)
	if err != nil {
		w.reportError(err)
		return false, err
	}

	prev := w.current.Load()
	if prev != nil && prev.Config.Equal(res.Config) {
		return false, nil
	}
	w.current.Store(res)
	if w.opts.OnChange != nil {
		w.opts.OnChange(res)
	}
	return true, nil
}

// Run watches the file until ctx is cancelled, reloading on every change.
// Editors that save by replacing the file end the underlying watch; Run
// waits for the file to reappear and watches it again. A file that is
// missing when Run starts is waited for the same way.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		restart := make(chan struct{}, 1)
		fp := file.Provider(w.path)
		err := fp.Watch(func(_ interface{}, err error) {
			if err != nil {
				w.reportError(fmt.Errorf("watching %s: %w", w.path, err))
				select {
				case restart <- struct{}{}:
				default:
				}
				return
			}
			_, _ = w.Reload()
		})
		if errors.Is(err, fs.ErrNotExist) {
			// The provider is left locked after a failed symlink lookup, so
			// it is dropped rather than unwatched.
			if err := waitForFile(ctx, w.path); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("watching %s: %w", w.path, err)
		}

		// Pick up edits made while no watch was armed.
		_, _ = w.Reload()

		select {
		case <-ctx.Done():
			if err := fp.Unwatch(); err != nil {
				return fmt.Errorf("unwatching %s: %w", w.path, err)
			}
			return ctx.Err()
		case <-restart:
			_ = fp.Unwatch()
			if err := waitForFile(ctx, w.path); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) reportError(err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}

// pollInterval is how often waitForFile checks for a replaced file.
var pollInterval = 100 * time.Millisecond

func waitForFile(ctx context.Context, path string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
