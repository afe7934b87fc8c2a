package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/config"
	"bingwall/internal/logging"
	"bingwall/internal/timerstate"
)

func newTimerCommand(ctx *commandContext) *cobra.Command {
	timerCmd := &cobra.Command{
		Use:   "timer",
		Short: "Control the daily update timer",
	}

	timerCmd.AddCommand(newTimerEnableCommand(ctx))
	timerCmd.AddCommand(newTimerDisableCommand(ctx))
	timerCmd.AddCommand(newTimerStatusCommand(ctx))

	return timerCmd
}

func newTimerEnableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Enable daily wallpaper updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTimerEnabled(cmd, ctx, true)
		},
	}
}

func newTimerDisableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable daily wallpaper updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTimerEnabled(cmd, ctx, false)
		},
	}
}

// setTimerEnabled goes through the daemon when one is running, otherwise it
// writes the timer state file directly. The daemon watches that file and
// syncs the flag, so both paths end in the same state.
func setTimerEnabled(cmd *cobra.Command, ctx *commandContext, enabled bool) error {
	stdout := cmd.OutOrStdout()

	if client, err := ctx.dialClient(); err == nil {
		defer client.Close()
		if err := client.SetTimerEnabled(enabled); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Daily updates %s\n", enabledWord(enabled))
		if enabled {
			if next, err := client.GetTimerNextRun(); err == nil && strings.TrimSpace(next) != "" {
				fmt.Fprintf(stdout, "Next run: %s\n", next)
			}
		}
		return nil
	}

	if _, err := ctx.ensureConfig(); err != nil {
		return err
	}
	store := timerstate.NewStore(config.TimerStatePathFor(ctx.resolvedConfigPath()), logging.NewNop())
	if _, err := store.SetEnabled(enabled); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Daily updates %s\n", enabledWord(enabled))
	fmt.Fprintln(stdout, "Daemon is not running; the schedule takes effect when it starts")
	return nil
}

func newTimerStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether daily updates are enabled and when the next run is",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				enabled, err := client.GetTimerEnabled()
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Daily updates: %s\n", enabledWord(enabled))
				if !enabled {
					return nil
				}
				next, err := client.GetTimerNextRun()
				if err != nil {
					return err
				}
				if strings.TrimSpace(next) != "" {
					fmt.Fprintf(stdout, "Next run: %s\n", next)
				}
				return nil
			}

			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			store := timerstate.NewStore(config.TimerStatePathFor(ctx.resolvedConfigPath()), logging.NewNop())
			state := store.Load()
			fmt.Fprintf(stdout, "Daily updates: %s\n", enabledWord(state.Enabled))
			fmt.Fprintln(stdout, "Daemon is not running")
			return nil
		},
	}
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
