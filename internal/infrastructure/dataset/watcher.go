package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
)

// DefaultDebounce is how long a file must stay quiet before it is
// re-validated.
const DefaultDebounce = 500 * time.Millisecond

// ValidationResult is delivered to the watcher callback after each settled
// change.  Err is nil when the file loaded cleanly.
type ValidationResult struct {
	Path    string
	Records int
	Err     error
	At      time.Time
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events        int
	Validations   int
	Failures      int
	Errors        int
	LastEventTime time.Time
	LastEventType string
	LastValid     bool
}

// Watcher re-validates a dataset file whenever it changes on disk.  The
// containing directory is watched so atomic replace-by-rename saves are
// seen.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	loader      *Loader
	source      *FileSource
	dir         string
	base        string
	onResult    func(ValidationResult)
	logger      logging.Logger
	debounceDur time.Duration
	pending     time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       WatcherStats
}

// NewWatcher creates a Watcher for src.  onResult may be nil.
func NewWatcher(src *FileSource, loader *Loader, onResult func(ValidationResult), logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		abs = src.Path
	}
	return &Watcher{
		watcher:     fw,
		loader:      loader,
		source:      src,
		dir:         filepath.Dir(abs),
		base:        filepath.Base(abs),
		onResult:    onResult,
		logger:      logger.Named("dataset_watcher"),
		debounceDur: DefaultDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period.  Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.debounceDur = d
	}
}

// Start begins watching.  It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Unlock()
		return err
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching dataset", logging.String("path", filepath.Join(w.dir, w.base)))
	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing watcher", logging.Err(err))
	}
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a copy of the current statistics.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	interval := w.debounceDur / 5
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", logging.Err(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-tick.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.base {
		return
	}

	var eventType string
	switch {
	case event.Has(fsnotify.Create):
		eventType = "create"
	case event.Has(fsnotify.Write):
		eventType = "modify"
	case event.Has(fsnotify.Remove):
		eventType = "delete"
	case event.Has(fsnotify.Rename):
		eventType = "rename"
	default:
		return
	}

	w.mu.Lock()
	now := time.Now()
	w.stats.Events++
	w.stats.LastEventTime = now
	w.stats.LastEventType = eventType
	w.pending = now
	w.mu.Unlock()
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	w.validate(ctx)
}

// validate loads the file once and reports the outcome.
func (w *Watcher) validate(ctx context.Context) {
	ds, err := w.loader.Load(ctx, w.source)

	res := ValidationResult{Path: w.source.Path, Err: err, At: time.Now()}
	if err == nil {
		res.Records = ds.Len()
	}

	w.mu.Lock()
	w.stats.Validations++
	w.stats.LastValid = err == nil
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("dataset no longer valid", logging.String("path", res.Path), logging.Err(err))
	} else {
		w.logger.Info("dataset revalidated", logging.String("path", res.Path), logging.Int("records", res.Records))
	}
	if w.onResult != nil {
		w.onResult(res)
	}
}

//Personal.AI order the ending
