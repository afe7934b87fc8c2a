package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bingwall/internal/fileutil"
	"bingwall/internal/logging"
)

// backgroundConfigRel is where COSMIC reads its background settings,
// relative to the user config dir.
const backgroundConfigRel = "cosmic/com.system76.CosmicBackground/v1/all"

// Applier sets the desktop wallpaper.
type Applier interface {
	Apply(ctx context.Context, imagePath string) error
}

// CommandRunner is the slice of the host command runner the applier needs.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(name string, args ...string) error
}

// CosmicApplier writes the COSMIC background config and restarts
// cosmic-bg so the new image takes effect.
type CosmicApplier struct {
	runner    CommandRunner
	logger    *slog.Logger
	configDir string

	restartWait time.Duration
	verifyWait  time.Duration
}

var _ Applier = (*CosmicApplier)(nil)

// NewCosmicApplier builds an applier targeting the current user's COSMIC
// configuration.
func NewCosmicApplier(runner CommandRunner, logger *slog.Logger) (*CosmicApplier, error) {
	if runner == nil {
		return nil, errors.New("command runner required")
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CosmicApplier{
		runner:      runner,
		logger:      logging.NewComponentLogger(logger, "wallpaper"),
		configDir:   configDir,
		restartWait: 500 * time.Millisecond,
		verifyWait:  300 * time.Millisecond,
	}, nil
}

// Apply points every COSMIC output at imagePath and bounces cosmic-bg.
// cosmic-bg only reads its config at startup, hence the kill and respawn.
func (a *CosmicApplier) Apply(ctx context.Context, imagePath string) error {
	configPath := filepath.Join(a.configDir, filepath.FromSlash(backgroundConfigRel))
	content := renderBackgroundConfig(imagePath)
	if err := fileutil.WriteFileAtomic(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write background config: %w", err)
	}
	a.logger.Debug("background config written", logging.String(logging.FieldPath, configPath))

	// A missing cosmic-bg process is fine, the respawn below covers it.
	_, _ = a.runner.Run(ctx, "pkill", "-x", "cosmic-bg")

	if err := sleepCtx(ctx, a.restartWait); err != nil {
		return err
	}
	if err := a.runner.Start("cosmic-bg"); err != nil {
		return fmt.Errorf("start cosmic-bg: %w", err)
	}
	if err := sleepCtx(ctx, a.verifyWait); err != nil {
		return err
	}
	if _, err := a.runner.Run(ctx, "pgrep", "-x", "cosmic-bg"); err != nil {
		return errors.New("cosmic-bg failed to start")
	}
	a.logger.Info("wallpaper applied", logging.String(logging.FieldPath, imagePath))
	return nil
}

// renderBackgroundConfig produces the RON document COSMIC expects. The
// field set matches what cosmic-bg ships with, only the source changes.
func renderBackgroundConfig(imagePath string) string {
	return fmt.Sprintf(`(
    output: "all",
    source: Path("%s"),
    filter_by_theme: false,
    rotation_frequency: 300,
    filter_method: Lanczos,
    scaling_mode: Zoom,
    sampling_method: Alphanumeric,
)`, imagePath)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
