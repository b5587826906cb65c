package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/paths"
)

// DefaultDebounce collapses bursts of events on the same file
const DefaultDebounce = 150 * time.Millisecond

// ChangeHandler applies external storage changes
type ChangeHandler interface {
	Reload(ctx context.Context, name string) error
	Forget(name string)
}

// Watcher follows a FileBackend directory and reports configs edited or
// removed by other processes. Writes made by the backend itself are ignored.
type Watcher struct {
	backend  *FileBackend
	handler  ChangeHandler
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher for backend's directory
func NewWatcher(backend *FileBackend, handler ChangeHandler, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		backend:  backend,
		handler:  handler,
		logger:   logger,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
}

// WithDebounce overrides the debounce window
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.backend.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.backend.Dir(), err)
	}
	w.logger.Info("Watching config directory", zap.String("dir", w.backend.Dir()))

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	name, ok := paths.ConfigName(event.Name)
	if !ok {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	path := event.Name
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, exists := w.pending[name]; exists {
		t.Stop()
	}
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.apply(ctx, name, path)
	})
}

// apply inspects the file once the burst settled
func (w *Watcher) apply(ctx context.Context, name, path string) {
	if ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("Config file removed", zap.String("config", name))
		w.handler.Forget(name)
		return
	}
	if err != nil {
		w.logger.Warn("Failed to read changed config", zap.String("config", name), zap.Error(err))
		return
	}
	if w.backend.IsOwnWrite(name, data) {
		return
	}

	if err := w.handler.Reload(ctx, name); err != nil {
		w.logger.Warn("Failed to reload changed config", zap.String("config", name), zap.Error(err))
		return
	}
	w.logger.Info("Config changed on disk", zap.String("config", name))
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
}
