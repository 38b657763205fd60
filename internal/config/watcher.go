package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/loghaul/lokiship/pkg/log"
)

// DefaultDebounceDelay coalesces editor write bursts into one reload.
const DefaultDebounceDelay = 250 * time.Millisecond

// Watcher monitors the config file and invokes a callback with the freshly
// loaded file config. Only mutable settings (batch limits, intervals) should
// be applied from the callback; the wire format stays fixed.
type Watcher struct {
	path     string
	logger   log.Logger
	onReload func(FileConfig)

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, logger log.Logger, onReload func(FileConfig)) *Watcher {
	return &Watcher{
		path:     path,
		logger:   logger,
		onReload: onReload,
	}
}

// Start begins watching. It returns immediately; the watch loop runs until
// Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file: editors replace files on save
	// and a direct watch would be lost with the old inode.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.watchLoop(watchCtx, watcher)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(DefaultDebounceDelay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", log.Err(err))
		return
	}
	w.logger.Info("config file changed, applying new limits", log.String("path", w.path))
	w.onReload(fc)
}
