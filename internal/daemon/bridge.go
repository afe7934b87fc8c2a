package daemon

import (
	"context"
	"log/slog"

	"bingwall/internal/events"
	"bingwall/internal/logging"
	"bingwall/internal/notify"
)

// notifyBridge forwards wallpaper-change events to desktop notifications.
// Fetch failures are announced by the pipeline entry points, which still
// hold the typed error and its phase.
type notifyBridge struct {
	notifier notify.Service
	logger   *slog.Logger
}

func newNotifyBridge(notifier notify.Service, logger *slog.Logger) *notifyBridge {
	return &notifyBridge{
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "notify"),
	}
}

// Append implements events.Sink.
func (b *notifyBridge) Append(evt events.Event) {
	if evt.Type != events.TypeWallpaperChanged {
		return
	}
	if err := b.notifier.NotifyWallpaperApplied(context.Background(), evt.Title); err != nil {
		b.logger.Debug("wallpaper notification not delivered", logging.Error(err))
	}
}
