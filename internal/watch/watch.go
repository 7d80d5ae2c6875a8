// Package watch regenerates derived artifacts when canonical case files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"qaconv/internal/batch"
)

// DefaultDebounce is how long a path must be quiet before it is processed.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-runs the batch driver's per-file step for changed case files.
type Watcher struct {
	driver   *batch.Driver
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	onResult func(batch.FileResult)

	mu      sync.Mutex
	pending map[string]time.Time
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce sets the quiet period before a changed file is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithResultHandler receives every processed file result.
func WithResultHandler(fn func(batch.FileResult)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// New starts watching the driver's case directory.
func New(driver *batch.Driver, opts ...Option) (*Watcher, error) {
	if driver == nil {
		return nil, fmt.Errorf("driver is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := driver.Config().CaseDir()
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		driver:   driver,
		watcher:  fsw,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes events until ctx is canceled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := w.debounce / 3
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info("watching case directory", zap.String("dir", w.driver.Config().CaseDir()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watch events closed")
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watch errors closed")
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !batch.IsCaseFile(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush processes paths that have been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	w.mu.Lock()
	ready := make([]string, 0)
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()
	sort.Strings(ready)

	for _, path := range ready {
		result := w.driver.ProcessFile(ctx, path)
		if result.Err != nil {
			w.logger.Warn("file failed", zap.String("file", path), zap.Error(result.Err))
		} else {
			w.logger.Info("file processed",
				zap.String("file", path),
				zap.String("outcome", string(result.Outcome)))
		}
		if w.onResult != nil {
			w.onResult(result)
		}
	}
}
