package fetch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bingwall/internal/bing"
	"bingwall/internal/events"
	"bingwall/internal/history"
	"bingwall/internal/logging"
	"bingwall/internal/preflight"
	"bingwall/internal/state"
)

// Source provides image-of-the-day metadata and bytes.
type Source interface {
	FetchImage(ctx context.Context, market string) (*bing.Image, error)
	Download(ctx context.Context, img *bing.Image, dir, market string) (string, bool, error)
}

// Applier sets the desktop wallpaper.
type Applier interface {
	Apply(ctx context.Context, imagePath string) error
}

// Summary describes a completed pipeline run.
type Summary struct {
	Entry         history.Entry
	Image         bing.Image
	Downloaded    bool
	Applied       bool
	Removed       int
	CorrelationID string
}

// Orchestrator runs the fetch, download, cleanup, apply, record pipeline.
type Orchestrator struct {
	state   *state.Service
	source  Source
	applier Applier
	hub     *events.Hub
	logger  *slog.Logger

	retryBase     time.Duration
	retryAttempts int
}

// New wires the pipeline collaborators together. The hub may be nil when
// nobody listens for progress.
func New(st *state.Service, source Source, applier Applier, hub *events.Hub, logger *slog.Logger) (*Orchestrator, error) {
	if st == nil {
		return nil, errors.New("service state required")
	}
	if source == nil {
		return nil, errors.New("image source required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		state:         st,
		source:        source,
		applier:       applier,
		hub:           hub,
		logger:        logging.NewComponentLogger(logger, "fetch"),
		retryBase:     10 * time.Second,
		retryAttempts: 3,
	}, nil
}

// FetchAndApply runs the pipeline once. With apply false the image is
// downloaded and recorded but the desktop is left alone.
func (o *Orchestrator) FetchAndApply(ctx context.Context, apply bool) (Summary, error) {
	correlationID := uuid.NewString()
	log := o.logger.With(logging.String(logging.FieldCorrelationID, correlationID))
	summary := Summary{CorrelationID: correlationID}

	// Pick up external config edits before reading market and dir.
	if _, err := o.state.Reload(); err != nil {
		logging.WarnWithContext(log, "config reload failed", "config_reload_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix or remove the config file"),
			logging.String(logging.FieldImpact, "fetch continues with the previous config"))
	}
	cfg := o.state.Config()

	o.hub.Publish(events.FetchProgress(PhaseStarting, "Fetching image info...", correlationID))
	log.Info("fetching image metadata", logging.String(logging.FieldMarket, cfg.Market))
	img, err := o.source.FetchImage(ctx, cfg.Market)
	if err != nil {
		return summary, o.fail(log, correlationID, ErrFetch, "fetch image metadata", err)
	}
	summary.Image = *img
	log.Info("image metadata fetched",
		logging.String("title", img.Title),
		logging.String("date", img.Date))

	o.runPreflight(log, cfg.WallpaperDir)

	o.hub.Publish(events.FetchProgress(PhaseDownloading, "Downloading: "+img.Title, correlationID))
	path, downloaded, err := o.source.Download(ctx, img, cfg.WallpaperDir, cfg.Market)
	if err != nil {
		return summary, o.fail(log, correlationID, ErrDownload, "download image", err)
	}
	summary.Downloaded = downloaded
	summary.Entry = entryFor(path)
	if downloaded {
		log.Info("image downloaded", logging.String(logging.FieldPath, path))
	} else {
		log.Info("image already on disk", logging.String(logging.FieldPath, path))
	}

	if removed := history.CleanupOld(cfg.WallpaperDir, cfg.KeepDays); removed > 0 {
		summary.Removed = removed
		log.Info("retention cleanup removed old wallpapers",
			logging.Int("removed", removed),
			logging.Int("keep_days", cfg.KeepDays))
	}

	if apply {
		if o.applier == nil {
			return summary, o.fail(log, correlationID, ErrApply, "no applier configured", nil)
		}
		o.hub.Publish(events.FetchProgress(PhaseApplying, "Applying wallpaper...", correlationID))
		if err := o.applier.Apply(ctx, path); err != nil {
			// The download stays on disk; a rerun reuses it without
			// touching the network.
			return summary, o.fail(log, correlationID, ErrApply, "apply wallpaper", err)
		}
		summary.Applied = true
		o.hub.Publish(events.WallpaperChanged(path, img.Title))
	}

	if tm := o.state.Timer(); tm != nil {
		if err := tm.RecordFetch(); err != nil {
			logging.WarnWithContext(log, "failed to record fetch time", "record_fetch_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the timer may run a catch-up fetch tomorrow"))
		}
	}
	o.state.SetCurrent(img, path)

	o.hub.Publish(events.FetchProgress(PhaseComplete, "Done!", correlationID))
	log.Info("fetch pipeline complete",
		logging.String(logging.FieldPath, path),
		logging.Bool("applied", summary.Applied))
	return summary, nil
}

// FetchWithRetry runs the pipeline with bounded backoff for unattended
// invocations: three attempts, pausing 10s then 20s. The last error is
// surfaced when every attempt fails and nothing is recorded.
func (o *Orchestrator) FetchWithRetry(ctx context.Context, apply bool) (Summary, error) {
	var summary Summary
	var lastErr error
	for attempt := 1; attempt <= o.retryAttempts; attempt++ {
		if attempt > 1 {
			delay := o.retryBase << (attempt - 2)
			o.logger.Info("retrying fetch",
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", o.retryAttempts),
				logging.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(delay):
			}
		}
		summary, lastErr = o.FetchAndApply(ctx, apply)
		if lastErr == nil {
			return summary, nil
		}
	}
	logging.ErrorWithContext(o.logger, "all fetch attempts failed", "fetch_retries_exhausted",
		logging.Error(lastErr),
		logging.Int("attempts", o.retryAttempts),
		logging.String(logging.FieldErrorHint, "check network connectivity and the configured market"))
	return summary, lastErr
}

func (o *Orchestrator) runPreflight(log *slog.Logger, dir string) {
	checks := []preflight.Result{
		preflight.CheckWallpaperDir("wallpaper directory", dir),
		preflight.CheckDiskSpace("disk space", dir, preflight.MinFreeBytes),
	}
	for _, check := range checks {
		if check.Passed {
			continue
		}
		logging.WarnWithContext(log, "preflight check failed", "preflight_warning",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldImpact, "the download is attempted anyway"))
	}
}

func (o *Orchestrator) fail(log *slog.Logger, correlationID string, marker error, operation string, err error) error {
	wrapped := wrap(marker, operation, err)
	o.hub.Publish(events.FetchProgress(PhaseError, wrapped.Error(), correlationID))
	logging.ErrorWithContext(log, "fetch pipeline failed", "fetch_failed",
		logging.Error(wrapped),
		logging.String(logging.FieldPhase, Phase(wrapped)))
	return wrapped
}

func entryFor(path string) history.Entry {
	filename := filepath.Base(path)
	return history.Entry{Path: path, Filename: filename, Date: history.ExtractDate(filename)}
}
