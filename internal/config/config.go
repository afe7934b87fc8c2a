package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bingwall/internal/fileutil"
)

// Logging contains configuration for log output.
type Logging struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

// Config encapsulates all configuration values for bingwall.
//
// The persisted document is JSON and fully rewritten on save, so it stays
// hand-editable between runs. Fields:
//   - Market: Bing image market code (for example "en-US")
//   - WallpaperDir: where downloaded wallpapers are stored
//   - KeepDays: retention window for old wallpapers; 0 keeps everything
//   - FetchOnStartup: fetch today's image when the daemon starts
//   - Logging: log format and level
type Config struct {
	Market         string  `json:"market"`
	WallpaperDir   string  `json:"wallpaper_dir"`
	KeepDays       int     `json:"keep_days"`
	FetchOnStartup bool    `json:"fetch_on_startup"`
	Logging        Logging `json:"logging"`
}

// ConfigDir returns the per-application configuration directory that holds
// config.json, timer_state.json, and the instance lockfiles.
func ConfigDir() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "bingwall"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bingwall"), nil
}

// DataDir returns the per-application data directory that holds the daemon
// socket, pid file, flock file, and logs.
func DataDir() (string, error) {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "bingwall"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "bingwall"), nil
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultTimerStatePath returns the absolute path to the persisted timer
// state document.
func DefaultTimerStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timer_state.json"), nil
}

// TimerStatePathFor returns the timer state path that belongs to the given
// config file. The two documents always live in the same directory.
func TimerStatePathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "timer_state.json")
}

// DefaultLogDir returns the directory the daemon writes bingwall.log into.
func DefaultLogDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// DefaultSocketPath returns the unix socket path the daemon serves on.
func DefaultSocketPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bingwall.sock"), nil
}

// DefaultPIDPath returns the daemon pid file path.
func DefaultPIDPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bingwall.pid"), nil
}

// DefaultLockPath returns the flock file path guarding daemon exclusivity.
func DefaultLockPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bingwalld.lock"), nil
}

// Load locates, parses, and validates the configuration file. The returned
// config has all path fields expanded and normalized. A missing file yields
// the defaults with exists=false; decoding starts from the defaults so
// absent fields keep their default values.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, "", false, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// Save rewrites the configuration file at path with the current values,
// pretty-printed for hand editing.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// JSON renders the configuration as an indented JSON document.
func (c *Config) JSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.WallpaperDir, 0o755); err != nil {
		return fmt.Errorf("create wallpaper directory %q: %w", c.WallpaperDir, err)
	}
	return nil
}

// CreateDefault writes a default configuration file to the specified
// location.
func CreateDefault(path string) error {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		return err
	}
	return cfg.Save(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
