package instance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bingwall/internal/logging"
)

const (
	// RoleDaemon is held by the background service process.
	RoleDaemon = "daemon"

	// stalenessWindow bounds how old a lockfile may be before its owner is
	// presumed dead. The refresh cadence stays at or below half of it so a
	// single missed refresh never looks like an exit.
	stalenessWindow = 60 * time.Second
	refreshInterval = 30 * time.Second
)

// Coordinator manages the role lockfiles of one directory.
type Coordinator struct {
	dir    string
	logger *slog.Logger

	staleness time.Duration
	refresh   time.Duration
}

// New returns a coordinator over dir, which holds every <role>.lock file.
func New(dir string, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		dir:       dir,
		logger:    logging.NewComponentLogger(logger, "instance"),
		staleness: stalenessWindow,
		refresh:   refreshInterval,
	}
}

// IsRunning reports whether a live process holds the role: the lockfile
// exists and was refreshed within the staleness window.
func (c *Coordinator) IsRunning(role string) bool {
	info, err := os.Stat(c.lockPath(role))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.staleness
}

// Acquire claims the role for this process. A previous owner's file is
// overwritten; CleanupStale at launch keeps live owners from colliding.
func (c *Coordinator) Acquire(role string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(c.lockPath(role), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s lockfile: %w", role, err)
	}
	return nil
}

// Refresh rewrites the lockfile so its mtime moves forward.
func (c *Coordinator) Refresh(role string) error {
	return c.Acquire(role)
}

// Release removes the role's lockfile. Releasing a role that was never
// acquired is fine.
func (c *Coordinator) Release(role string) {
	err := os.Remove(c.lockPath(role))
	if err != nil && !os.IsNotExist(err) {
		c.logger.Warn("failed to remove lockfile",
			logging.String("role", role),
			logging.Error(err))
	}
}

// CleanupStale removes every lockfile past the staleness window or with
// an unreadable mtime. Run at process launch, before claiming a role.
func (c *Coordinator) CleanupStale() int {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}
		info, err := entry.Info()
		if err == nil && time.Since(info.ModTime()) < c.staleness {
			continue
		}
		if os.Remove(filepath.Join(c.dir, entry.Name())) == nil {
			removed++
			c.logger.Info("removed stale lockfile",
				logging.String(logging.FieldPath, entry.Name()))
		}
	}
	return removed
}

// Heartbeat refreshes the role's lockfile on the coordinator's cadence
// until ctx ends, then releases it. Run it on its own goroutine after a
// successful Acquire.
func (c *Coordinator) Heartbeat(ctx context.Context, role string) {
	ticker := time.NewTicker(c.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Release(role)
			return
		case <-ticker.C:
			if err := c.Refresh(role); err != nil {
				c.logger.Warn("lockfile refresh failed",
					logging.String("role", role),
					logging.Error(err))
			}
		}
	}
}

func (c *Coordinator) lockPath(role string) string {
	return filepath.Join(c.dir, role+".lock")
}
