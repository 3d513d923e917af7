// Package watch reloads the waypoint graph when its file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before a reload
const DefaultDebounce = 200 * time.Millisecond

// ErrNotAFile is returned when the watched path is a directory
var ErrNotAFile = errors.New("watch path is not a file")

// Watcher triggers a reload callback after its file settles. The parent
// directory is watched so editors that replace the file by rename are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for path
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, abs)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: abs, debounce: debounce, logger: slog.Default()}, nil
}

// SetLogger sets the logger used for watch diagnostics
func (w *Watcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is done. reload errors are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, reload func() error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Debug("watching graph file", slog.String("path", w.path))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("graph watch error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil
			if err := reload(); err != nil {
				w.logger.Warn("graph reload failed", slog.String("path", w.path), slog.String("error", err.Error()))
				continue
			}
			w.logger.Info("graph reloaded", slog.String("path", w.path))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
