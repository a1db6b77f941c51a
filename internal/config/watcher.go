package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// Reloader is the part of a store the watcher drives.
type Reloader interface {
	Path() string
	Reload() error
}

// Watcher reloads a store when its backing file changes on disk.
type Watcher struct {
	store    Reloader
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewWatcher creates a watcher for store. A non-positive debounce uses 300ms.
func NewWatcher(store Reloader, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the directory containing the config file (more reliable than
// watching the file itself, since writers replace it by rename).
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to watch config directory").
			WithContext("dir", dir).
			Build()
	}
	slog.Info("Starting configuration watcher", logfields.Path(w.store.Path()))
	go w.loop(ctx)
	return nil
}

// Stop ends the watch loop and releases the OS watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	name := filepath.Base(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			} else if event.Has(fsnotify.Remove) {
				slog.Warn("Config file removed", logfields.Path(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopChan:
			return
		default:
		}
		if err := w.store.Reload(); err != nil {
			slog.Warn("Failed to reload configuration", logfields.Error(err))
		}
	})
}
