// Package watch re-runs an organize pass when the source tree changes.
//
// A recursive fsnotify watcher feeds a debounce timer; once events go
// quiet for the configured window the OnSettle callback runs. Passes are
// synchronous: events arriving during a pass queue up and trigger the
// next one.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"sortd/internal/logging"
)

// DefaultDebounce is the quiet window required before a pass runs.
const DefaultDebounce = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string
	// Debounce is the quiet window; DefaultDebounce when zero.
	Debounce time.Duration
	// Prune reports directory base names that should not be watched,
	// mirroring the walker's exclusion pruning. Nil prunes nothing.
	Prune func(name string) bool
	// OnSettle runs after events go quiet. Errors are logged and the
	// watcher keeps running.
	OnSettle func(ctx context.Context) error
	Logger   *slog.Logger
}

// Watcher owns the fsnotify handles for one source tree.
type Watcher struct {
	root     string
	debounce time.Duration
	prune    func(name string) bool
	onSettle func(ctx context.Context) error
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// New establishes watches on root and every unpruned subdirectory. The
// returned Watcher is idle until Run is called; Close releases it.
func New(opts Options) (*Watcher, error) {
	if opts.OnSettle == nil {
		return nil, errors.New("watch: OnSettle callback is required")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	prune := opts.Prune
	if prune == nil {
		prune = func(string) bool { return false }
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     opts.Root,
		debounce: debounce,
		prune:    prune,
		onSettle: opts.OnSettle,
		logger:   logging.NewComponentLogger(opts.Logger, "watch"),
		fsw:      fsw,
	}
	if err := w.addTree(opts.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying filesystem watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching for changes",
		logging.String(logging.FieldSource, w.root),
		logging.Duration("debounce", w.debounce),
	)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchIfDir(event.Name)
			}
			w.logger.Debug("change detected",
				logging.String(logging.FieldSource, event.Name),
				logging.String("op", event.Op.String()),
			)
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			w.logger.Info("tree settled, running pass")
			if err := w.onSettle(ctx); err != nil {
				w.logger.Warn("pass failed", logging.Error(err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// relevant filters out pure-chmod noise and events under pruned names.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !w.prune(filepath.Base(event.Name))
}

// watchIfDir extends the watch set when a directory appears inside the
// tree. The whole subtree is added because a rename can bring children
// along with it.
func (w *Watcher) watchIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", logging.String(logging.FieldSource, path), logging.Error(err))
	}
}

// addTree registers root and every unpruned directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.prune(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		w.logger.Debug("watching directory", logging.String(logging.FieldSource, path))
		return nil
	})
}
