package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher reloads a config file whenever it is written and hands each
// valid result to subscribers. A file that fails to load or validate is
// logged and the last good config stays current.
//
// The relay only applies the log level from reloads; everything else is
// read once at startup.
type ConfigWatcher struct {
	path    string
	fsw     *fsnotify.Watcher
	logger  *zap.Logger
	current atomic.Pointer[Config]
	stopped chan struct{}

	mu   sync.Mutex
	subs []chan *Config
}

// NewConfigWatcher loads path and starts watching it. The file must exist.
func NewConfigWatcher(path string, logger *zap.Logger) (*ConfigWatcher, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	path = filepath.Clean(path)
	// Editors often replace the file instead of writing it, so watch the
	// parent directory and filter by name
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	w := &ConfigWatcher{
		path:    path,
		fsw:     fsw,
		logger:  logger.With(zap.String("config_path", path)),
		stopped: make(chan struct{}),
	}
	w.current.Store(cfg)

	go w.loop()
	return w, nil
}

// Current returns the last config that loaded successfully.
func (w *ConfigWatcher) Current() *Config {
	return w.current.Load()
}

// Subscribe returns a channel receiving each reloaded config. A subscriber
// that has not drained its previous update misses the next one. The
// channel is closed by Close.
func (w *ConfigWatcher) Subscribe() <-chan *Config {
	ch := make(chan *Config, 1)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()
	return ch
}

func (w *ConfigWatcher) loop() {
	defer close(w.stopped)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == w.path && ev.Has(fsnotify.Write|fsnotify.Create) {
				if err := w.reload(); err != nil {
					w.logger.Error("Config reload failed, keeping previous config", zap.Error(err))
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", zap.Error(err))
		}
	}
}

// reload reads the file again and publishes it if it is valid.
func (w *ConfigWatcher) reload() error {
	cfg, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	w.current.Store(cfg)
	w.publish(cfg)
	w.logger.Info("Configuration reloaded")
	return nil
}

func (w *ConfigWatcher) publish(cfg *Config) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- cfg:
		default:
		}
	}
}

// Close stops watching and closes every subscriber channel.
func (w *ConfigWatcher) Close() error {
	err := w.fsw.Close()
	<-w.stopped

	w.mu.Lock()
	for _, ch := range w.subs {
		close(ch)
	}
	w.subs = nil
	w.mu.Unlock()

	return err
}
