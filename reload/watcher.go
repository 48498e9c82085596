package reload

import (
	"context"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/viant/metamodel/logging"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Handler applies a changed file
type Handler func(ctx context.Context, path string) error

// Watcher calls handler once a watched file settles after a change
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   *logging.Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stop     sync.Once
	started  atomic.Bool
	reloads  int
	mux      sync.Mutex
}

// Reloads returns number of applied changes
func (w *Watcher) Reloads() int {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.reloads
}

// Start watches the parent directory of the file
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "failed to watch %v", w.path)
	}
	w.started.Store(true)
	go w.loop(ctx)
	return nil
}

// Stop closes watcher and waits for the loop to exit
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		_ = w.watcher.Close()
		if w.started.Load() {
			<-w.done
		}
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	var settle <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			settle = timer.C
		case <-settle:
			settle = nil
			w.apply(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "error", err.Error())
		}
	}
}

func (w *Watcher) apply(ctx context.Context) {
	if err := w.handler(ctx, w.path); err != nil {
		w.logger.Errorc(ctx, "failed to reload", "path", w.path, "error", err.Error())
		return
	}
	w.mux.Lock()
	w.reloads++
	w.mux.Unlock()
	w.logger.Infoc(ctx, "reloaded", "path", w.path)
}

// New creates a file watcher
func New(path string, debounce time.Duration, handler Handler, logger *logging.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("reload handler was nil")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %v", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{path: filepath.Clean(absolute), debounce: debounce, handler: handler, logger: logger, watcher: fw, done: make(chan struct{})}, nil
}
