package state

import (
	"sync"

	"bingwall/internal/bing"
	"bingwall/internal/config"
	"bingwall/internal/timer"
)

// Service is the daemon's shared mutable state. The lock is never held
// across network or unbounded filesystem work: callers copy values out,
// release, then write results back.
type Service struct {
	mu sync.RWMutex

	cfg        *config.Config
	configPath string

	currentImage *bing.Image
	currentPath  string

	timer *timer.Timer
}

// New builds the shared state around an already loaded config.
func New(cfg *config.Config, configPath string, tm *timer.Timer) *Service {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Service{cfg: cfg, configPath: configPath, timer: tm}
}

// Config returns a copy of the live configuration.
func (s *Service) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// ConfigPath returns the file the live configuration was loaded from.
func (s *Service) ConfigPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configPath
}

// Timer returns the shared timer. The timer synchronizes itself.
func (s *Service) Timer() *timer.Timer {
	return s.timer
}

// Current returns the current wallpaper metadata and path. The image is a
// copy; the path may be empty when nothing has been applied yet.
func (s *Service) Current() (*bing.Image, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentImage == nil {
		return nil, s.currentPath
	}
	img := *s.currentImage
	return &img, s.currentPath
}

// SetCurrent records the wallpaper that is now on screen.
func (s *Service) SetCurrent(img *bing.Image, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img == nil {
		s.currentImage = nil
	} else {
		clone := *img
		s.currentImage = &clone
	}
	s.currentPath = path
}

// Reload re-reads the config file backing this state and makes the result
// the live configuration. A load failure leaves the previous config in
// place and is returned alongside a copy of it.
func (s *Service) Reload() (config.Config, error) {
	s.mu.RLock()
	path := s.configPath
	s.mu.RUnlock()

	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return s.Config(), err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.configPath = resolved
	s.mu.Unlock()
	return *cfg, nil
}

// SaveConfig persists cfg to the backing file and makes it the live
// configuration.
func (s *Service) SaveConfig(cfg config.Config) error {
	s.mu.RLock()
	path := s.configPath
	s.mu.RUnlock()

	if err := cfg.Save(path); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = &cfg
	s.configPath = path
	s.mu.Unlock()
	return nil
}
