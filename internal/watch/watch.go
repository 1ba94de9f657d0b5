// Package watch re-runs a callback whenever a watched style document
// changes on disk.  Editors tend to emit bursts of write events per save,
// so events are debounced before the callback fires.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/armkhudinyan/porto-parque/logger"
)

// DefaultDebounce is the quiet period required after the last event
// before the callback fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one file and invokes a callback after changes settle.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       func(path string)
	fsw      *fsnotify.Watcher
}

// New creates a Watcher for path.  fn is called with the watched path
// after each settled change, and once immediately from Run.
func New(path string, debounce time.Duration, fn func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that rename-into-place
	// replace the inode and a file watch would go stale.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: path, debounce: debounce, fn: fn, fsw: fsw}, nil
}

// Run blocks, dispatching debounced callbacks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	l := logger.L(ctx).With(zap.String("path", w.path))

	w.fn(w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			l.Debug("change detected", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.fn(w.path)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			l.Error("watch error", zap.Error(err))
		}
	}
}
