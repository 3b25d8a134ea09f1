package agents

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to an agents overlay file. The registry itself is
// immutable once built, so long-running processes use the watcher to tell the
// operator a restart is needed to pick up the change.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}

	closeOnce sync.Once
}

// WatchFile watches the overlay file at path. The parent directory is
// watched rather than the file itself, which survives editors that replace
// the file on save.
func WatchFile(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve agents file path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fsw,
		changes: make(chan string, 4),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.changes <- w.path:
			default:
				// A change is already pending, one notice is enough.
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching.
		}
	}
}

// Changes returns the channel that receives the overlay path after each
// write to it.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
