// Package storewatcher wakes an idle credrot host when another process
// writes a new session into the state directory.
package storewatcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/credrot/pkg/credrot"
	"github.com/bft-labs/credrot/pkg/log"
)

// Plugin watches the session store file and calls Wake when it is
// created or written.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	dir      string
	file     string
	wake     func()
	logger   credrot.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the store watcher plugin.
type Config struct {
	// DebounceDelay collapses bursts of writes (temp file plus rename, WAL
	// checkpoints) into one wake.
	// Default: 250 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 250 * time.Millisecond}
}

// New creates a store watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 250 * time.Millisecond
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "storewatcher"
}

// Initialize starts watching the directory of the store file.
func (p *Plugin) Initialize(ctx context.Context, cfg credrot.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.wake = cfg.Wake
	p.file = cfg.StorePath
	p.mu.Unlock()

	if p.logger == nil {
		p.logger = log.NewNoopLogger()
	}
	if p.file == "" || p.wake == nil {
		p.logger.Warn("store watcher disabled: store is not file backed")
		return nil
	}
	p.dir = filepath.Dir(p.file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("store watcher initialized", log.String("dir", p.dir))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.file)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !matches(filepath.Base(event.Name), name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceWake()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("store watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceWake() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		p.logger.Debug("store changed, waking host")
		p.wake()
	})
}

// matches accepts the store file and its sidecars (temp file, sqlite WAL).
func matches(base, name string) bool {
	return strings.HasPrefix(base, name)
}

// Ensure Plugin implements credrot.Plugin.
var _ credrot.Plugin = (*Plugin)(nil)
