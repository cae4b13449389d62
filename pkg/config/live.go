package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Provider hands out the configuration in effect. Callers should fetch it
// per request rather than caching the pointer.
type Provider interface {
	Current() *Config
}

type staticProvider struct {
	cfg *Config
}

func (s staticProvider) Current() *Config { return s.cfg }

// Static returns a Provider that always yields cfg.
func Static(cfg *Config) Provider {
	return staticProvider{cfg: cfg}
}

// Live is a Provider whose configuration can be swapped at runtime.
type Live struct {
	current atomic.Pointer[Config]
	dir     string
	logger  *slog.Logger
}

// NewLive wraps an already loaded configuration. Reload re-reads from dir.
func NewLive(cfg *Config, dir string, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Live{dir: dir, logger: logger}
	l.current.Store(cfg)
	return l
}

func (l *Live) Current() *Config {
	return l.current.Load()
}

// Reload loads and validates the configuration again. On error the previous
// configuration stays in effect.
func (l *Live) Reload() error {
	cfg, err := LoadFrom(l.dir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.current.Store(cfg)
	return nil
}

func isConfigFile(name string) bool {
	base := filepath.Base(name)
	return base == ConfigFileName || base == TOMLConfigFileName
}

// Watch reloads the configuration whenever the config file is written,
// created or renamed into place, until ctx is done. The directory is watched
// rather than the file so atomic replacements are seen.
func (l *Live) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}
	l.logger.Info("watching configuration", "dir", l.dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := l.Reload(); err != nil {
				l.logger.Error("configuration reload failed", "file", event.Name, "error", err)
				continue
			}
			l.logger.Info("configuration reloaded", "file", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("configuration watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
