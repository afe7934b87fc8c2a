package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"bingwall/internal/bing"
	"bingwall/internal/config"
	"bingwall/internal/daemon"
	"bingwall/internal/deps"
	"bingwall/internal/events"
	"bingwall/internal/fetch"
	"bingwall/internal/hostcmd"
	"bingwall/internal/ipc"
	"bingwall/internal/logging"
	"bingwall/internal/notify"
	"bingwall/internal/state"
	"bingwall/internal/timer"
	"bingwall/internal/timerstate"
	"bingwall/internal/wallpaper"
)

// Options configures daemon process runtime behavior.
type Options struct {
	ConfigPath string
	SocketPath string
	LogLevel   string
	Version    string
}

// Run starts the bingwall daemon runtime loop and blocks until a signal
// or an IPC shutdown request arrives.
func Run(cmdCtx context.Context, opts Options) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, cfgPath, _, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logDir, err := config.DefaultLogDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg, logDir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logDependencySnapshot(logger)

	socketPath := opts.SocketPath
	if socketPath == "" {
		if socketPath, err = config.DefaultSocketPath(); err != nil {
			return fmt.Errorf("resolve socket path: %w", err)
		}
	}
	lockPath, err := config.DefaultLockPath()
	if err != nil {
		return fmt.Errorf("resolve lock path: %w", err)
	}
	pidPath, err := config.DefaultPIDPath()
	if err != nil {
		return fmt.Errorf("resolve pid path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(pidPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store := timerstate.NewStore(config.TimerStatePathFor(cfgPath), logger)
	tm, err := timer.New(store, logger)
	if err != nil {
		return fmt.Errorf("create timer: %w", err)
	}
	st := state.New(cfg, cfgPath, tm)

	runner := hostcmd.New(hostcmd.Detect())
	applier, err := wallpaper.NewCosmicApplier(runner, logger)
	if err != nil {
		return fmt.Errorf("create wallpaper applier: %w", err)
	}
	notifier := notify.NewService(runner, logger)
	hub := events.NewHub(256)

	orch, err := fetch.New(st, bing.New(), applier, hub, logger)
	if err != nil {
		return fmt.Errorf("create fetch pipeline: %w", err)
	}

	d, err := daemon.New(st, store, orch, applier, hub, notifier, logger,
		daemon.Paths{Socket: socketPath, Lock: lockPath}, opts.Version)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	logger.Info("bingwall daemon ready",
		logging.String(logging.FieldEventType, "daemon_ready"),
		logging.String("socket", socketPath),
		logging.String(logging.FieldMarket, d.Market()),
	)

	select {
	case <-signalCtx.Done():
		logger.Info("bingwall daemon shutting down",
			logging.String(logging.FieldEventType, "daemon_shutdown"),
			logging.String("reason", "signal"))
	case <-d.ShutdownRequested():
		logger.Info("bingwall daemon shutting down",
			logging.String(logging.FieldEventType, "daemon_shutdown"),
			logging.String("reason", "ipc"))
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger) {
	if logger == nil {
		return
	}
	attrs := []any{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, status := range deps.CheckBinaries(deps.Defaults()) {
		key := strings.ReplaceAll(status.Name, "-", "_") + "_available"
		attrs = append(attrs, logging.Bool(key, status.Available))
	}
	logger.Info("dependency snapshot", attrs...)
}
