package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mindgate/internal/logging"
)

// Provider exposes settings hot-readable per call. Threshold accessors take
// an RLock so a reload never tears a read. Watch starts an fsnotify loop
// that reloads the file on change; a bad edit keeps the previous settings.
type Provider struct {
	mu      sync.RWMutex
	path    string
	current *Settings
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewProvider loads settings from path (empty path = pure defaults) and
// returns a provider around them.
func NewProvider(path string) (*Provider, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Provider{path: path, current: s}, nil
}

// NewStaticProvider wraps fixed settings, for tests and embedded use.
func NewStaticProvider(s *Settings) *Provider {
	if s == nil {
		s = DefaultSettings()
	}
	return &Provider{current: s}
}

// Snapshot returns a copy of the current settings.
func (p *Provider) Snapshot() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.current
}

// AttentionRelevanceThreshold reads kernel.attention_relevance_threshold.
func (p *Provider) AttentionRelevanceThreshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Kernel.AttentionRelevanceThreshold
}

// PlausibilityConfidenceThreshold reads kernel.plausibility_confidence_threshold.
func (p *Provider) PlausibilityConfidenceThreshold() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Kernel.PlausibilityConfidenceThreshold
}

// Reload re-reads the settings file. On error the previous settings stay
// in effect.
func (p *Provider) Reload() error {
	if p.path == "" {
		return nil
	}
	s, err := Load(p.path)
	if err != nil {
		logging.ConfigWarn("Settings reload failed, keeping previous: %v", err)
		return err
	}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	logging.Config("Settings reloaded from %s", p.path)
	return nil
}

// Watch starts watching the settings file for changes. No-op when the
// provider has no backing file.
func (p *Provider) Watch() error {
	if p.path == "" {
		return nil
	}
	if p.watcher != nil {
		return fmt.Errorf("already watching %s", p.path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which drops
	// per-file watches.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	p.watcher = watcher
	p.done = make(chan struct{})

	go func() {
		target := filepath.Clean(p.path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					_ = p.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.ConfigWarn("Settings watcher error: %v", err)
			case <-p.done:
				return
			}
		}
	}()

	logging.Config("Watching settings file %s", p.path)
	return nil
}

// Close stops the watcher, if any.
func (p *Provider) Close() error {
	if p.watcher == nil {
		return nil
	}
	close(p.done)
	err := p.watcher.Close()
	p.watcher = nil
	return err
}
