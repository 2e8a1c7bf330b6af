// Package watch re-classifies a device whenever its environment snapshot
// file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/logging"
)

// SnapshotWatcher feeds an Observer from a snapshot file. The parent
// directory is watched so editors that replace the file atomically are
// picked up.
type SnapshotWatcher struct {
	path     string
	observer *device.Observer
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
}

// NewSnapshotWatcher loads path once, pushes it into obs, and starts
// watching for changes. Call Run to process events and Close to release
// the watch.
func NewSnapshotWatcher(path string, obs *device.Observer) (*SnapshotWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot path: %w", err)
	}

	snap, err := device.LoadSnapshot(abs)
	if err != nil {
		return nil, err
	}
	obs.Update(snap)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &SnapshotWatcher{path: abs, observer: obs, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *SnapshotWatcher) Path() string { return w.path }

// Run processes filesystem events until ctx is cancelled or the watcher is
// closed. onReload, if not nil, is called after every reload attempt with
// the snapshot or the error that prevented it. A snapshot that fails to
// parse leaves the observer unchanged.
func (w *SnapshotWatcher) Run(ctx context.Context, onReload func(device.Snapshot, error)) {
	log := logging.Get("watch")

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			snap, err := device.LoadSnapshot(w.path)
			if err != nil {
				log.Warn("snapshot reload failed", "path", w.path, "error", err)
			} else {
				log.Debug("snapshot reloaded", "path", w.path, "op", event.Op.String())
				w.observer.Update(snap)
			}
			if onReload != nil {
				onReload(snap, err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)
		}
	}
}

func (w *SnapshotWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops watching. It is safe to call more than once.
func (w *SnapshotWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
