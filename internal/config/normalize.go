package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Market = strings.TrimSpace(c.Market)
	if c.Market == "" {
		c.Market = defaultMarket
	}

	if strings.TrimSpace(c.WallpaperDir) == "" {
		c.WallpaperDir = defaultWallpaperDir
	}
	var err error
	if c.WallpaperDir, err = expandPath(c.WallpaperDir); err != nil {
		return fmt.Errorf("wallpaper_dir: %w", err)
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
