// Package watch subscribes to the plan's watch set via fsnotify and invokes
// a replan callback after a quiet-window debounce. Each callback invocation
// is expected to build a fresh graph; the watcher holds no graph state.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/md2html/internal/logfields"
	"git.home.luguber.info/inful/md2html/internal/util/sets"
)

// Watcher monitors the files of a build plan's watch set.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	watchSet sets.Set[string]
	dirs     sets.Set[string]
}

// New creates a watcher with the given debounce quiet window.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		watchSet: sets.New[string](),
		dirs:     sets.New[string](),
	}, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }

// SetPaths replaces the watched file set. Parent directories are watched
// (more reliable than watching files directly); events are filtered against
// the set. Called again after each replan to pick up new dependencies.
func (w *Watcher) SetPaths(paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.watchSet = sets.New(paths...)
	wanted := sets.New[string]()
	for _, p := range paths {
		wanted.Add(filepath.Dir(p))
	}
	for dir := range wanted {
		if !w.dirs.Has(dir) {
			if err := w.watcher.Add(dir); err != nil {
				slog.Warn("Failed to watch directory", logfields.Path(dir), logfields.Error(err))
				continue
			}
			w.dirs.Add(dir)
		}
	}
	for dir := range w.dirs {
		if !wanted.Has(dir) {
			_ = w.watcher.Remove(dir)
			delete(w.dirs, dir)
		}
	}
	return nil
}

func (w *Watcher) relevant(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watchSet.Has(filepath.Clean(name))
}

// Run blocks, delivering debounced change notifications to onChange until the
// context is canceled. Changed paths are accumulated across the quiet window
// and handed over in one batch.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	pending := sets.New[string]()
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			slog.Debug("File change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			pending.Add(filepath.Clean(event.Name))
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			timerC = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		case <-timerC:
			changed := sets.Sorted(pending)
			pending = sets.New[string]()
			timerC = nil
			onChange(changed)
		}
	}
}
