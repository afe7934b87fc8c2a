package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"bingwall/internal/config"
	"bingwall/internal/events"
	"bingwall/internal/fetch"
	"bingwall/internal/history"
	"bingwall/internal/instance"
	"bingwall/internal/logging"
	"bingwall/internal/notify"
	"bingwall/internal/state"
	"bingwall/internal/timerstate"
	"bingwall/internal/wallpaper"
)

// Paths locates the daemon's runtime files.
type Paths struct {
	Socket string
	Lock   string
}

// Status is a point-in-time snapshot of the daemon for status rendering.
type Status struct {
	Running      bool
	PID          int
	Version      string
	Market       string
	WallpaperDir string
	TimerEnabled bool
	TimerNextRun string
	CurrentPath  string
	SocketPath   string
	LockPath     string
}

// Daemon owns the background process lifecycle and exposes the operations
// the IPC layer serves.
type Daemon struct {
	state    *state.Service
	store    *timerstate.Store
	orch     *fetch.Orchestrator
	applier  wallpaper.Applier
	hub      *events.Hub
	notifier notify.Service
	coord    *instance.Coordinator
	logger   *slog.Logger

	socketPath string
	lockPath   string
	version    string
	lock       *flock.Flock

	debounce time.Duration
	watcher  *watcher

	fetchMu sync.Mutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New wires the daemon's collaborators together. The applier may be nil on
// hosts without a desktop session; Apply and apply-mode fetches then fail
// with a clear error while everything else keeps working.
func New(st *state.Service, store *timerstate.Store, orch *fetch.Orchestrator, applier wallpaper.Applier, hub *events.Hub, notifier notify.Service, logger *slog.Logger, paths Paths, version string) (*Daemon, error) {
	if st == nil || store == nil || orch == nil {
		return nil, errors.New("daemon requires state, timer store, and orchestrator")
	}
	if st.Timer() == nil {
		return nil, errors.New("daemon requires a timer on the shared state")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if hub == nil {
		hub = events.NewHub(0)
	}
	if notifier == nil {
		notifier = notify.NewService(nil, logger)
	}

	d := &Daemon{
		state:      st,
		store:      store,
		orch:       orch,
		applier:    applier,
		hub:        hub,
		notifier:   notifier,
		coord:      instance.New(filepath.Dir(st.ConfigPath()), logger),
		logger:     logging.NewComponentLogger(logger, "daemon"),
		socketPath: paths.Socket,
		lockPath:   paths.Lock,
		version:    version,
		lock:       flock.New(paths.Lock),
		debounce:   watcherDebounce,
		shutdownCh: make(chan struct{}),
	}
	hub.AddSink(newNotifyBridge(notifier, logger))
	return d, nil
}

// Start acquires the single-instance lock and launches the background
// goroutines: role heartbeat, timer loop, fire consumer, file watcher, and
// the optional startup fetch.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !ok {
		return errors.New("another bingwall daemon is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if removed := d.coord.CleanupStale(); removed > 0 {
		d.logger.Info("removed stale instance lockfiles", logging.Int("removed", removed))
	}
	if err := d.coord.Acquire(instance.RoleDaemon); err != nil {
		// The flock above is the hard guarantee; the role file is only the
		// cross-process liveness signal.
		logging.WarnWithContext(d.logger, "failed to write instance lockfile", "instance_lockfile_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "other processes cannot see the daemon's liveness file"))
	} else {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.coord.Heartbeat(d.ctx, instance.RoleDaemon)
		}()
	}

	fires := d.state.Timer().Start(d.ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.consumeFires(d.ctx, fires)
	}()

	if err := d.startWatcher(d.ctx); err != nil {
		logging.WarnWithContext(d.logger, "file watcher unavailable", "watcher_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "external config edits apply on the next fetch instead of immediately"))
	}

	if d.state.Config().FetchOnStartup {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.startupFetch(d.ctx)
		}()
	}

	d.running.Store(true)
	d.logger.Info("bingwall daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("socket", d.socketPath),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop halts the background goroutines and releases the daemon lock. An
// in-flight scheduled fetch runs to completion before Stop returns.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.state.Timer().Stop()
	d.wg.Wait()
	if d.watcher != nil {
		d.watcher.close()
		d.watcher = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("bingwall daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() {
	d.Stop()
}

// RequestShutdown asks the process runner to exit. Safe to call more than
// once.
func (d *Daemon) RequestShutdown() {
	d.shutdownOnce.Do(func() {
		close(d.shutdownCh)
	})
}

// ShutdownRequested is closed once a client asks the daemon to exit.
func (d *Daemon) ShutdownRequested() <-chan struct{} {
	return d.shutdownCh
}

// Hub exposes the event hub for the IPC long-poll.
func (d *Daemon) Hub() *events.Hub {
	return d.hub
}

// Fetch runs the fetch pipeline once. Pipeline runs are serialized; a
// second caller waits for the first to finish.
func (d *Daemon) Fetch(ctx context.Context, apply bool) (fetch.Summary, error) {
	d.fetchMu.Lock()
	defer d.fetchMu.Unlock()
	return d.orch.FetchAndApply(ctx, apply)
}

// Apply sets an already-downloaded file as the wallpaper and announces the
// change with the image title when the file is the current wallpaper, or
// its filename otherwise.
func (d *Daemon) Apply(ctx context.Context, path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return errors.New("wallpaper path is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return fmt.Errorf("resolve wallpaper path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("stat wallpaper: %w", err)
	}
	if d.applier == nil {
		return errors.New("no wallpaper applier configured")
	}

	d.fetchMu.Lock()
	defer d.fetchMu.Unlock()
	if err := d.applier.Apply(ctx, abs); err != nil {
		return fmt.Errorf("apply wallpaper: %w", err)
	}

	title := filepath.Base(abs)
	if img, current := d.state.Current(); img != nil && current == abs {
		title = img.Title
	} else {
		d.state.SetCurrent(nil, abs)
	}
	d.hub.Publish(events.WallpaperChanged(abs, title))
	d.logger.Info("wallpaper applied",
		logging.String(logging.FieldEventType, "wallpaper_applied"),
		logging.String(logging.FieldPath, abs))
	return nil
}

// ConfigJSON returns the live configuration serialized to JSON.
func (d *Daemon) ConfigJSON() (string, error) {
	cfg := d.state.Config()
	return cfg.JSON()
}

// Market returns the configured Bing market code.
func (d *Daemon) Market() string {
	return d.state.Config().Market
}

// SetMarket validates and persists a new market code. Codes from the
// built-in table are stored in their canonical casing.
func (d *Daemon) SetMarket(market string) error {
	market = strings.TrimSpace(market)
	if err := config.ValidateMarket(market); err != nil {
		return err
	}
	market = config.CanonicalMarket(market)
	cfg := d.state.Config()
	cfg.Market = market
	if err := d.state.SaveConfig(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	d.logger.Info("market updated",
		logging.String(logging.FieldEventType, "market_updated"),
		logging.String(logging.FieldMarket, market))
	return nil
}

// WallpaperDir returns the directory downloads land in.
func (d *Daemon) WallpaperDir() string {
	return d.state.Config().WallpaperDir
}

// TimerEnabled reports whether scheduled fetching is on.
func (d *Daemon) TimerEnabled() bool {
	return d.state.Timer().IsEnabled()
}

// SetTimerEnabled persists the scheduling flag and announces the change.
func (d *Daemon) SetTimerEnabled(enabled bool) error {
	if err := d.state.Timer().SetEnabled(enabled); err != nil {
		return err
	}
	d.hub.Publish(events.TimerStateChanged(enabled))
	d.logger.Info("timer state updated",
		logging.String(logging.FieldEventType, "timer_state_updated"),
		logging.Bool("enabled", enabled))
	return nil
}

// TimerNextRun returns the human-readable next scheduled run.
func (d *Daemon) TimerNextRun() string {
	return d.state.Timer().NextRunString()
}

// CurrentPath returns the path of the wallpaper on screen, if known.
func (d *Daemon) CurrentPath() string {
	_, path := d.state.Current()
	return path
}

// History lists downloaded wallpapers, newest first.
func (d *Daemon) History() []history.Entry {
	return history.Scan(d.state.Config().WallpaperDir)
}

// DeleteWallpaper removes a downloaded file. Paths outside the wallpaper
// directory are refused; deleting the current wallpaper clears it.
func (d *Daemon) DeleteWallpaper(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return errors.New("wallpaper path is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return fmt.Errorf("resolve wallpaper path: %w", err)
	}
	dir := filepath.Clean(d.state.Config().WallpaperDir)
	if filepath.Dir(abs) != dir {
		return fmt.Errorf("refusing to delete %q: outside the wallpaper directory", abs)
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("delete wallpaper: %w", err)
	}
	if _, current := d.state.Current(); current == abs {
		d.state.SetCurrent(nil, "")
	}
	d.logger.Info("wallpaper deleted",
		logging.String(logging.FieldEventType, "wallpaper_deleted"),
		logging.String(logging.FieldPath, abs))
	return nil
}

// Markets returns the built-in market table.
func (d *Daemon) Markets() []config.Market {
	return config.Markets()
}

// Status returns the current daemon snapshot.
func (d *Daemon) Status() Status {
	cfg := d.state.Config()
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Version:      d.version,
		Market:       cfg.Market,
		WallpaperDir: cfg.WallpaperDir,
		TimerEnabled: d.state.Timer().IsEnabled(),
		TimerNextRun: d.state.Timer().NextRunString(),
		CurrentPath:  d.CurrentPath(),
		SocketPath:   d.socketPath,
		LockPath:     d.lockPath,
	}
}

// consumeFires runs the pipeline for each timer fire. A fire's run is
// detached from the daemon context so shutdown lets it finish.
func (d *Daemon) consumeFires(ctx context.Context, fires <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-fires:
			if !ok {
				return
			}
			d.logger.Info("scheduled fetch triggered",
				logging.String(logging.FieldEventType, "timer_fire"))
			if _, err := d.Fetch(context.WithoutCancel(ctx), true); err != nil {
				d.notifyFailure(err)
			}
		}
	}
}

// startupFetch runs the login-time fetch with the headless retry policy.
func (d *Daemon) startupFetch(ctx context.Context) {
	d.logger.Info("startup fetch beginning",
		logging.String(logging.FieldEventType, "startup_fetch"))
	d.fetchMu.Lock()
	defer d.fetchMu.Unlock()
	if _, err := d.orch.FetchWithRetry(ctx, true); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.notifyFailure(err)
	}
}

func (d *Daemon) notifyFailure(err error) {
	phase := fetch.Phase(err)
	if notifyErr := d.notifier.NotifyFetchFailed(context.Background(), phase, err); notifyErr != nil {
		d.logger.Debug("failure notification not delivered", logging.Error(notifyErr))
	}
}
