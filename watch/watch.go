// Package watch provides file system watching with debouncing for
// definition documents.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/golineage/lineage"
)

// Watcher monitors a definition file or directory for changes and sends
// notifications after the changes settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	watchDir  bool
	debounce  time.Duration
	logger    *zap.Logger
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Path is the definition file or directory to watch.
	Path string

	// Debounce is how long changes must settle before a notification.
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 1 * time.Second,
	}
}

// New creates a new definition watcher.
func New(cfg Config, opts ...lineage.Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultConfig(cfg.Path).Debounce
	}

	o := lineage.NewOptions(opts...)

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  debounce,
		logger:    o.Logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. When the path is a directory, any YAML file in it
// counts; otherwise only the named file does. Returns a channel that
// receives a signal when the definitions change.
func (w *Watcher) Start() (<-chan struct{}, error) {
	target := w.path
	if info, err := os.Stat(w.path); err == nil && info.IsDir() {
		w.watchDir = true
	} else {
		target = filepath.Dir(w.path)
	}

	if err := w.fsWatcher.Add(target); err != nil {
		return nil, fmt.Errorf("watching %s: %w", target, err)
	}

	w.logger.Debug("watching definitions",
		zap.String("target", target),
		zap.Duration("debounce", w.debounce))

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start the debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send, drop if a signal is already queued
				select {
				case w.onChange <- struct{}{}:
					w.logger.Debug("definition change settled")
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	if w.watchDir {
		ext := strings.ToLower(filepath.Ext(event.Name))
		return ext == ".yaml" || ext == ".yml"
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}
