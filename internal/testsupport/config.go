package testsupport

import (
	"path/filepath"
	"testing"

	"bingwall/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with a unique wallpaper directory per
// test and persists it, so reload paths observe the same values. The
// startup fetch and retention cleanup are disabled; tests that want them
// opt back in.
func NewConfig(t testing.TB, opts ...ConfigOption) (*config.Config, string) {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Market = "en-US"
	cfgVal.WallpaperDir = filepath.Join(base, "wallpapers")
	cfgVal.KeepDays = 0
	cfgVal.FetchOnStartup = false

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}

	cfgPath := filepath.Join(base, "config.json")
	if err := builder.cfg.Save(cfgPath); err != nil {
		t.Fatalf("save test config: %v", err)
	}
	return builder.cfg, cfgPath
}

// WithMarket overrides the market code on the test config.
func WithMarket(market string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Market = market
	}
}

// WithKeepDays overrides the retention window on the test config.
func WithKeepDays(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.KeepDays = days
	}
}

// WithFetchOnStartup toggles the startup fetch on the test config.
func WithFetchOnStartup(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FetchOnStartup = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.WallpaperDir)
}
