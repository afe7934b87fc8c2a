package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bingwall/internal/config"
	"bingwall/internal/daemonctl"
	"bingwall/internal/deps"
	"bingwall/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the bingwall daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				if result.PID > 0 {
					fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", result.PID)
				} else {
					fmt.Fprintln(stdout, "Daemon already running")
				}
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the bingwall daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the bingwall daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}
			fmt.Fprintln(stdout, "Daemon restarted")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, wallpaper, and timer status",
		RunE: func(cmd *cobra.Command, args []string) error {
			statusResp, err := daemonctl.BuildStatusSnapshot(ctx.socketPath(), ctx.resolvedConfigPath())
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range daemonLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Wallpaper", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range wallpaperLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Timer", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range timerLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(deps.CheckBinaries(deps.Defaults()), colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func daemonLines(resp *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 3)
	if resp.Running {
		detail := fmt.Sprintf("Running (pid %d)", resp.PID)
		if strings.TrimSpace(resp.Version) != "" {
			detail = fmt.Sprintf("Running (pid %d, version %s)", resp.PID, resp.Version)
		}
		lines = append(lines, renderStatusLine("Daemon", statusOK, detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Daemon", statusWarn, "Not running (showing on-disk state)", colorize))
	}
	lines = append(lines, renderStatusLine("Socket", statusOK, resp.SocketPath, colorize))
	return lines
}

func wallpaperLines(resp *ipc.StatusResponse, colorize bool) []string {
	market := resp.Market
	if name, ok := config.MarketName(resp.Market); ok {
		market = fmt.Sprintf("%s (%s)", resp.Market, name)
	}
	lines := []string{
		renderStatusLine("Market", statusOK, market, colorize),
		renderStatusLine("Download directory", statusOK, resp.WallpaperDir, colorize),
	}
	if strings.TrimSpace(resp.CurrentPath) != "" {
		lines = append(lines, renderStatusLine("Current wallpaper", statusOK, resp.CurrentPath, colorize))
	} else {
		lines = append(lines, renderStatusLine("Current wallpaper", statusWarn, "None applied yet", colorize))
	}
	return lines
}

func timerLines(resp *ipc.StatusResponse, colorize bool) []string {
	if !resp.TimerEnabled {
		return []string{renderStatusLine("Daily updates", statusWarn, "Disabled", colorize)}
	}
	lines := []string{renderStatusLine("Daily updates", statusOK, "Enabled", colorize)}
	if strings.TrimSpace(resp.TimerNextRun) != "" {
		lines = append(lines, renderStatusLine("Next run", statusOK, resp.TimerNextRun, colorize))
	}
	return lines
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	missing := make([]string, 0)
	for _, dep := range statuses {
		if dep.Available {
			lines = append(lines, renderStatusLine(dep.Name, statusOK, fmt.Sprintf("Ready (command: %s)", dep.Command), colorize))
			continue
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
