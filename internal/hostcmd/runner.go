package hostcmd

import (
	"context"
	"os"
	"os/exec"
)

const flatpakInfoPath = "/.flatpak-info"

// Detect reports whether this process runs inside a Flatpak sandbox.
func Detect() bool {
	_, err := os.Stat(flatpakInfoPath)
	return err == nil
}

// Runner executes commands on the host.
type Runner struct {
	flatpak bool
}

// New returns a Runner. Pass Detect() outside of tests.
func New(flatpak bool) *Runner {
	return &Runner{flatpak: flatpak}
}

// IsFlatpak reports whether commands are routed through flatpak-spawn.
func (r *Runner) IsFlatpak() bool { return r.flatpak }

// Command builds the exec.Cmd for a host command without starting it.
func (r *Runner) Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	if r.flatpak {
		spawnArgs := append([]string{"--host", name}, args...)
		return exec.CommandContext(ctx, "flatpak-spawn", spawnArgs...)
	}
	return exec.CommandContext(ctx, name, args...)
}

// Run executes a host command and returns its combined output. A non-zero
// exit surfaces as the error from exec.Cmd.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.Command(ctx, name, args...).CombinedOutput()
}

// Start launches a host command without waiting for it. The child is
// reaped in the background when it eventually exits.
func (r *Runner) Start(name string, args ...string) error {
	cmd := r.Command(context.Background(), name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
