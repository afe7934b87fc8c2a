package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMarket(); err != nil {
		return err
	}
	if c.WallpaperDir == "" {
		return errors.New("wallpaper_dir must be set")
	}
	if c.KeepDays < 0 {
		return errors.New("keep_days must be >= 0")
	}
	return nil
}

func (c *Config) validateMarket() error {
	if IsKnownMarket(c.Market) {
		return nil
	}
	// Markets beyond the built-in table are accepted as long as they are
	// well-formed BCP 47 tags; Bing resolves unknown markets server-side.
	if _, err := language.Parse(c.Market); err != nil {
		return fmt.Errorf("market: %q is not a known market or valid language tag (see 'bingwall market list')", c.Market)
	}
	return nil
}

// ValidateMarket applies the market rules to a candidate code without
// touching the rest of the configuration.
func ValidateMarket(code string) error {
	probe := Config{Market: code}
	return probe.validateMarket()
}
