package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file and invokes a handler after changes
// settle. Editors typically save through a rename-and-replace dance that
// emits several events in quick succession; the watcher monitors the file's
// directory (so replaced inodes stay visible) and debounces the burst into
// one callback.
type FileWatcher struct {
	path     string
	fw       *fsnotify.Watcher
	debounce *Debouncer
	handler  func()

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher for the given file. handler is called after each
// debounced burst of changes. A zero debounce uses DefaultDebounceDuration.
func New(path string, debounce time.Duration, handler func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &FileWatcher{
		path:     abs,
		fw:       fw,
		debounce: NewDebouncer(debounce),
		handler:  handler,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; events are processed in a
// background goroutine until ctx is cancelled or Stop is called. On failure
// the watcher is released and must not be reused.
func (w *FileWatcher) Start(ctx context.Context) error {
	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.loop(ctx)
	return nil
}

// Stop stops the watcher and cancels any pending callback.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		_ = w.fw.Close()
	})
}

func (w *FileWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.debounce.Trigger(w.handler)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient (e.g. the directory briefly
			// disappearing during an atomic save); keep looping.
		}
	}
}

// relevant filters directory events down to writes touching the watched
// file, including rename-and-replace saves.
func (w *FileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}
