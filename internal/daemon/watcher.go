package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher reports external changes to the fish history file. It watches
// the parent directory rather than the file itself, so it keeps working
// when the file is replaced or has not been created yet.
type watcher struct {
	path   string
	events chan struct{}
}

func newWatcher(path string) *watcher {
	return &watcher{
		path:   filepath.Clean(path),
		events: make(chan struct{}, 16),
	}
}

// Events delivers one value per detected change. The channel is closed
// when the watcher stops.
func (w *watcher) Events() <-chan struct{} {
	return w.events
}

// run blocks until ctx is cancelled. Only Create, Remove and Rename of
// the watched file are reported; plain writes are ignored because the
// daemon's own appends would retrigger it.
func (w *watcher) run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer fsw.Close()
	defer close(w.events)

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("fish history file changed", "path", ev.Name, "op", ev.Op.String())
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", "error", err)
		}
	}
}
