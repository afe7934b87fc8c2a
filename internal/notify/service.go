package notify

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"bingwall/internal/hostcmd"
	"bingwall/internal/logging"
)

const appTitle = "Bing Wallpaper"

// Service is the notification surface exposed to the daemon.
type Service interface {
	NotifyWallpaperApplied(ctx context.Context, title string) error
	NotifyFetchFailed(ctx context.Context, phase string, err error) error
}

// Starter launches host commands without waiting for them.
type Starter interface {
	Start(name string, args ...string) error
}

// NewService builds a notification service backed by notify-send. When the
// binary cannot be found (and the process is not sandboxed, where probing
// the host is impossible), a noop implementation is returned.
func NewService(runner *hostcmd.Runner, logger *slog.Logger) Service {
	if runner == nil {
		return noopService{}
	}
	if !runner.IsFlatpak() {
		if _, err := exec.LookPath("notify-send"); err != nil {
			return noopService{}
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &desktopService{
		starter: runner,
		logger:  logging.NewComponentLogger(logger, "notify"),
	}
}

type desktopService struct {
	starter Starter
	logger  *slog.Logger
}

func (s *desktopService) NotifyWallpaperApplied(ctx context.Context, title string) error {
	body := "Today's wallpaper has been applied!"
	if title = strings.TrimSpace(title); title != "" {
		body = "Applied: " + title
	}
	return s.send(ctx, []string{"-i", "preferences-desktop-wallpaper", appTitle, body})
}

func (s *desktopService) NotifyFetchFailed(ctx context.Context, phase string, err error) error {
	detail := "unknown error"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	phase = strings.TrimSpace(phase)
	if phase == "" {
		phase = "fetch"
	}
	body := "Failed to " + phase + ": " + detail
	return s.send(ctx, []string{"-u", "critical", "-i", "dialog-error", appTitle, body})
}

func (s *desktopService) send(ctx context.Context, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.starter.Start("notify-send", args...); err != nil {
		s.logger.Debug("notify-send failed", logging.Error(err))
		return err
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyWallpaperApplied(context.Context, string) error { return nil }
func (noopService) NotifyFetchFailed(context.Context, string, error) error { return nil }
