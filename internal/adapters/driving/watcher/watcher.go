// Package watcher reloads templates when the template directory changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// DefaultDebounce is how long the directory must stay quiet before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Refresher is the part of the template service the watcher drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config holds watcher configuration options.
type Config struct {
	// Dir is the template directory. It is created if missing.
	Dir string

	// Debounce collapses bursts of events into one reload.
	Debounce time.Duration

	// Ext selects which files trigger a reload. Defaults to ".txt".
	Ext string
}

// DefaultConfig returns the default watcher settings for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:      dir,
		Debounce: DefaultDebounce,
		Ext:      ".txt",
	}
}

// Watcher calls Refresh on its target after template files change.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	cfg       Config
	target    Refresher
	reloaded  chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	stopOnce  sync.Once
	started   atomic.Bool
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config, target Refresher) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watcher: no directory")
	}
	if target == nil {
		return nil, fmt.Errorf("watcher: no refresh target")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Ext == "" {
		cfg.Ext = ".txt"
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		cfg:       cfg,
		target:    target,
		reloaded:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}, nil
}

// Start watches the directory until ctx is cancelled or Stop is called.
// The returned channel receives a signal after each reload attempt; sends
// are dropped when nobody is listening.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(w.cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create watched directory: %w", err)
	}
	if err := w.fsWatcher.Add(w.cfg.Dir); err != nil {
		return nil, fmt.Errorf("watch directory %s: %w", w.cfg.Dir, err)
	}

	logger.Info("watching %s for template changes", w.cfg.Dir)
	w.started.Store(true)
	go w.loop(ctx)
	return w.reloaded, nil
}

// Stop terminates the watcher, waits for its goroutine and releases resources.
// It is safe to call more than once, and before Start.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	if w.started.Load() {
		<-w.stopped
	}
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			logger.Debug("template change: %s %s", event.Op, filepath.Base(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.target.Refresh(ctx); err != nil {
				logger.Warn("template reload failed: %v", err)
			}
			select {
			case w.reloaded <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Error("template watcher: %v", err)

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent reports whether an event touches a template file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, w.cfg.Ext)
}
