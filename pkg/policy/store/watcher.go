package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"osauth/keyruled/pkg/policy/keyfile"
)

// WatcherConfig contains configuration for the rules directory watcher.
type WatcherConfig struct {
	// Dirs are the directories to watch, non-recursively.
	Dirs []string

	// Suffix is the rule-file extension (default keyfile.FileSuffix).
	Suffix string

	// Debounce is the quiet period applied to event bursts before a
	// reload fires. Zero disables coalescing: every qualifying event
	// triggers a full reload.
	Debounce time.Duration
}

// Watcher watches the rules directories and triggers store reloads.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	logger   *slog.Logger
	config   WatcherConfig
	debounce *debouncer

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher over the store's rule directories.
func NewWatcher(st *Store, cfg WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Suffix == "" {
		cfg.Suffix = keyfile.FileSuffix
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		store:   st,
		logger:  logger.With("component", "policy.watcher"),
		config:  cfg,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	if cfg.Debounce > 0 {
		w.debounce = newDebouncer(cfg.Debounce)
	}
	return w, nil
}

// Run watches for directory changes and reloads the store on qualifying
// events. It blocks until the context is cancelled or Stop is called. A
// directory that cannot be watched is logged and skipped; it never
// prevents watching the remaining directories.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	watching := 0
	for _, dir := range w.config.Dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("error monitoring rules directory", "dir", dir, "error", err)
			continue
		}
		w.logger.Debug("watching rules directory", "dir", dir)
		watching++
	}
	w.logger.Info("rules watcher started", "directories", watching, "debounce", w.config.Debounce)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rules watcher stopped", "reason", "context cancelled")
			return nil

		case <-w.stopCh:
			w.logger.Info("rules watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.qualifies(event) {
				continue
			}
			w.logger.Debug("rule file event", "path", event.Name, "op", event.Op.String())
			w.triggerReload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("rules watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases its filesystem watches. It is safe
// to call concurrently and more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	alreadyStopped := w.stopped
	w.stopped = true
	w.mu.Unlock()

	if !alreadyStopped {
		close(w.stopCh)
	}
	if running {
		<-w.doneCh
	}

	if w.debounce != nil {
		w.debounce.stop()
	}
	return w.watcher.Close()
}

// triggerReload performs or schedules a reload depending on debounce
// configuration.
func (w *Watcher) triggerReload(ctx context.Context) {
	if w.debounce == nil {
		w.logger.Info("reloading rules")
		w.store.Reload(ctx)
		return
	}
	w.debounce.trigger(func() {
		w.logger.Info("reloading rules")
		w.store.Reload(ctx)
	})
}

// qualifies reports whether an event should trigger a reload: the entry
// must not be hidden or an editor swap file, must carry the rule suffix,
// and the operation must indicate creation, deletion or a settled write.
func (w *Watcher) qualifies(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#") {
		return false
	}
	if !strings.HasSuffix(name, w.config.Suffix) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// debouncer coalesces rapid event bursts and fires the callback only after
// a quiet period.
type debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

// trigger schedules the callback after the quiet period, replacing any
// previously pending callback.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
