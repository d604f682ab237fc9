package launchd

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// DefinitionEvent represents a change under a watched definition directory
type DefinitionEvent struct {
	// Path is the definition file that changed (created, written, renamed
	// or removed); empty on error events
	Path string
	Err  error
}

// WatchCleanupFunc stops a watch and releases its resources
type WatchCleanupFunc func() error

// WatchOption configures a definition watch
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
}

// WithDebounce sets the debounce duration for coalescing rapid definition
// changes into a single event.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		cfg.debounce = d
	}
}

// WatchDefinitions watches job definition directories and emits one event per
// settled burst of plist changes, so a shell can reload its snapshot when
// jobs are installed or removed behind its back. Directories that do not
// exist are skipped; at least one must be watchable. Watching stops when the
// cleanup function is called, which closes the event channel.
//
// Typical use watches Domain.DefinitionDirs for the domain being displayed.
func WatchDefinitions(ctx context.Context, dirs []string, opts ...WatchOption) (<-chan DefinitionEvent, WatchCleanupFunc, error) {
	cfg := &watchConfig{debounce: DefaultWatchDebounce}
	for _, opt := range opts {
		opt(cfg)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	watched := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err == nil {
			watched++
		}
	}
	if watched == 0 {
		_ = watcher.Close()
		return nil, nil, ErrNoWatchDirs
	}

	ch := make(chan DefinitionEvent, 10)

	// Create stopper context for managing goroutine lifecycle
	sctx := stopper.WithContext(ctx)

	// Register watcher cleanup with stopper
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	var (
		mu        sync.Mutex
		debouncer *time.Timer
		lastPath  string
	)

	// Create cleanup function using stopper
	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond) // Graceful stop with 100ms grace period
		return sctx.Wait()
	}

	// Emit the settled event for the current burst
	emit := func() {
		if sctx.IsStopping() {
			return
		}

		mu.Lock()
		path := lastPath
		mu.Unlock()

		select {
		case ch <- DefinitionEvent{Path: path}:
		case <-sctx.Stopping():
		}
	}

	// Launch watcher goroutine using stopper
	sctx.Go(func(sctx *stopper.Context) error {
		// Register debouncer cleanup
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Ext(event.Name) != DefinitionExt {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}

				mu.Lock()
				lastPath = event.Name

				// Cancel existing debouncer
				if debouncer != nil {
					debouncer.Stop()
				}
				debouncer = time.AfterFunc(cfg.debounce, emit)
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil && !sctx.IsStopping() {
					select {
					case ch <- DefinitionEvent{Err: err}:
					case <-sctx.Stopping():
						return nil
					}
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
