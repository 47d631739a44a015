// Package clipwatcher reloads the bridge's clips when the clip command file
// changes on disk.
package clipwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fluffware/modbusaudio/pkg/log"
	"github.com/fluffware/modbusaudio/pkg/modbusaudio"
)

// DefaultDebounceDelay is used when Config.DebounceDelay is not positive.
const DefaultDebounceDelay = 200 * time.Millisecond

// Plugin watches the directory holding the clip command file. Editors often
// replace files instead of writing them in place, so the directory is
// watched rather than the file.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration

	path     string
	reload   func() error
	logger   log.Logger
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the clip watcher plugin.
type Config struct {
	// DebounceDelay is how long the file must stay quiet before reloading.
	// Default: 200 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{DebounceDelay: DefaultDebounceDelay}
}

// New creates a clip watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "clipwatcher"
}

// Initialize starts watching cfg.ClipsFile. The plugin does nothing when no
// clips file is configured.
func (p *Plugin) Initialize(ctx context.Context, cfg modbusaudio.PluginConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.ClipsFile == "" || cfg.ReloadClips == nil {
		logger.Warn("clip watcher disabled: no clips file configured")
		return nil
	}

	path, err := filepath.Abs(cfg.ClipsFile)
	if err != nil {
		return fmt.Errorf("resolve clips file: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.path = path
	p.reload = cfg.ReloadClips
	p.logger = logger
	p.watcher = watcher
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	logger.Info("clip watcher started", log.String("path", path))
	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	p.wg.Wait()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()
	defer p.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p.scheduleReload(ctx)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("clip watcher error", log.Err(err))
		}
	}
}

// scheduleReload restarts the debounce timer.
func (p *Plugin) scheduleReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := p.reload(); err != nil {
			p.logger.Error("clip reload failed, keeping previous clips", log.Err(err))
			return
		}
		p.logger.Info("clips reloaded", log.String("path", p.path))
	})
}

var _ modbusaudio.Plugin = (*Plugin)(nil)
