package config

const (
	defaultMarket       = "en-US"
	defaultWallpaperDir = "~/Pictures/BingWallpapers"
	defaultKeepDays     = 30
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Market:         defaultMarket,
		WallpaperDir:   defaultWallpaperDir,
		KeepDays:       defaultKeepDays,
		FetchOnStartup: true,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
