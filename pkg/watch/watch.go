// Package watch reruns the precept cleanup whenever the watched save
// file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Callback is invoked once per debounced change to the watched file.
// Returning an error stops the watcher.
type Callback func(path string) error

// Watcher monitors a single save file. The file's directory is watched
// rather than the file itself, since games typically replace the file
// on save instead of writing it in place.
type Watcher struct {
	path     string
	debounce time.Duration
	callback Callback
}

// New creates a watcher for path. debounce collapses event bursts;
// callback runs after each quiet period.
func New(path string, debounce time.Duration, callback Callback) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}
	return &Watcher{path: abs, debounce: debounce, callback: callback}, nil
}

// Run blocks, invoking the callback for each debounced change, until
// ctx is cancelled or the callback returns an error.
func (watcher *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer notifier.Close()

	dir := filepath.Dir(watcher.path)
	if err := notifier.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !watcher.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watcher.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watcher.debounce)
			}
			fire = timer.C

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher error: %w", err)

		case <-fire:
			fire = nil
			if err := watcher.callback(watcher.path); err != nil {
				return err
			}
		}
	}
}

// relevant reports whether event touches the watched file with an
// operation that can change its contents.
func (watcher *Watcher) relevant(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if eventPath != watcher.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
