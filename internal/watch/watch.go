// Package watch provides the dev-mode file watcher that revalidates the
// project when its inputs change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vitessedocs/vitesse/internal/content"
	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/logfields"
)

// Reload is invoked once per settled burst of input changes.
type Reload func(ctx context.Context) error

// DefaultDebounce is the settle window between a change burst and the reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the project config file, the locale directory, and the
// content collection file, coalescing change bursts into single reloads.
type Watcher struct {
	configPath string
	srcDir     string
	reload     Reload
	logger     *slog.Logger
	watcher    *fsnotify.Watcher
	debounce   time.Duration

	stopOnce   sync.Once
	stopChan   chan struct{}
	changeChan chan string
}

// New creates a watcher for the given config file and project source dir.
func New(configPath, srcDir string, reload Reload, logger *slog.Logger) (*Watcher, error) {
	if reload == nil {
		return nil, verrors.InternalError("watch reload callback is required", nil)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, verrors.InternalError("failed to create file watcher", err)
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		_ = fsw.Close()
		return nil, verrors.InternalError("failed to resolve config path", err)
	}
	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		_ = fsw.Close()
		return nil, verrors.InternalError("failed to resolve source dir", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		configPath: absConfig,
		srcDir:     absSrc,
		reload:     reload,
		logger:     logger,
		watcher:    fsw,
		debounce:   DefaultDebounce,
		stopChan:   make(chan struct{}),
		changeChan: make(chan string, 1),
	}, nil
}

// SetDebounce adjusts the settle window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start registers the watch targets and begins monitoring. Directories are
// watched instead of files so editors that replace-on-save keep triggering
// events.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return verrors.InternalError("failed to watch config directory", err)
	}
	for _, dir := range []string{w.localesDir(), w.contentDir()} {
		if err := w.watcher.Add(dir); err != nil {
			// Optional trees may not exist yet.
			w.logger.Debug("watch target unavailable", logfields.Path(dir), logfields.Error(err))
		}
	}

	w.logger.Info("watching for changes",
		logfields.Path(w.configPath),
		slog.String("src_dir", w.srcDir))

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop terminates monitoring. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("error closing file watcher", logfields.Error(err))
		}
	})
}

func (w *Watcher) localesDir() string { return filepath.Join(w.srcDir, i18n.LocalesDir) }
func (w *Watcher) contentDir() string { return filepath.Join(w.srcDir, "content") }

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debug("input change detected",
					logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.trigger(event.Name)
			} else if event.Op&fsnotify.Remove != 0 && filepath.Clean(event.Name) == w.configPath {
				w.logger.Warn("config file removed", logfields.Path(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", logfields.Error(err))
		}
	}
}

// relevant reports whether a changed path is one of the watched inputs: the
// config file itself, a locale JSON file, or a collection definition file.
func (w *Watcher) relevant(name string) bool {
	p := filepath.Clean(name)
	if p == w.configPath {
		return true
	}
	dir := filepath.Dir(p)
	if dir == w.localesDir() && filepath.Ext(p) == ".json" {
		return true
	}
	if dir == w.contentDir() && content.IsCollectionFile(filepath.Base(p)) {
		return true
	}
	return false
}

func (w *Watcher) trigger(name string) {
	select {
	case w.changeChan <- name:
	default:
		// A reload is already pending.
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var settle *time.Timer
	stopTimer := func() {
		if settle != nil {
			settle.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case <-w.changeChan:
			stopTimer()
			settle = time.AfterFunc(w.debounce, func() {
				if err := w.reload(ctx); err != nil {
					w.logger.Error("reload failed", logfields.Error(err))
				}
			})
		}
	}
}
