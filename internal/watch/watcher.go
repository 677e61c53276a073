// Package watch re-runs the style fixer when the VHDL file or its style
// configuration changes.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

const debounceDuration = 100 * time.Millisecond

// Event describes the change that triggered a run.
type Event struct {
	Path string // The watched file that changed
}

// RunFunc performs one run. Errors are logged and watching continues.
type RunFunc func(ctx context.Context, e Event) error

// Watcher monitors a VHDL file and its style configuration for changes.
type Watcher struct {
	target string
	files  map[string]bool
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
	debounce   time.Duration
	group      singleflight.Group

	mu      sync.Mutex
	digests map[string]string
	running bool
	pending string // A change seen while a run was in progress
}

// NewWatcher creates a Watcher for target. Changes to target or to any of the
// extra files trigger a run.
func NewWatcher(logger *slog.Logger, target string, extra ...string) *Watcher {
	w := &Watcher{
		target:     clean(target),
		files:      map[string]bool{},
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
		debounce:   debounceDuration,
		digests:    map[string]string{},
	}
	w.files[w.target] = true
	for _, f := range extra {
		w.files[clean(f)] = true
	}
	return w
}

// Watch monitors the watched files and calls run after each debounced change.
// Changes that leave a file's content identical to what it held after the last
// run are ignored, so the rewrite done by vsg --fix does not trigger another
// run. Watch blocks until the context is cancelled and any run in progress
// has returned.
func (w *Watcher) Watch(ctx context.Context, run RunFunc) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	w.remember()
	w.logger.Info("Watching for changes", "file", w.target)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	var inflight sync.WaitGroup
	defer func() {
		if timer != nil && timer.Stop() {
			inflight.Done()
		}
		inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			if timer != nil && timer.Stop() {
				inflight.Done()
			}
			inflight.Add(1)
			timer = time.AfterFunc(w.debounce, func() {
				defer inflight.Done()
				w.trigger(ctx, run, path)
			})
		}
	}
}

// trigger runs the fixer for a change to path. A change that arrives while a
// run is in progress cannot be told apart from the fixer's own rewrite, so it
// is queued and causes exactly one more run once the current one finishes.
func (w *Watcher) trigger(ctx context.Context, run RunFunc, path string) {
	if ctx.Err() != nil {
		return
	}
	if w.queue(path) || !w.changed(path) {
		return
	}

	_, _, _ = w.group.Do(w.target, func() (any, error) {
		w.setRunning()
		for next := path; next != "" && ctx.Err() == nil; next = w.finish() {
			w.logger.Debug("Change detected", "path", next)
			if err := run(ctx, Event{Path: next}); err != nil {
				w.logger.Error("Run failed", "error", err)
			}
			w.remember()
		}
		return nil, nil
	})
}

// queue records path as pending if a run is in progress.
func (w *Watcher) queue(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.pending = path
	}
	return w.running
}

func (w *Watcher) setRunning() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = true
}

// finish returns the pending path and clears it. When nothing is pending the
// run is over.
func (w *Watcher) finish() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := w.pending
	w.pending = ""
	if next == "" {
		w.running = false
	}
	return next
}

func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := clean(event.Name)
	return path, w.files[path]
}

// dirs returns the distinct directories holding the watched files. Watching
// the directory rather than the file keeps the watch alive when an editor
// replaces the file.
func (w *Watcher) dirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for f := range w.files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (w *Watcher) remember() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for f := range w.files {
		w.digests[f] = digest(f)
	}
}

func (w *Watcher) changed(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.digests[path] != digest(path)
}

// digest returns the SHA-256 of the file at path, or "" if it cannot be read.
func digest(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}

func clean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
