package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/events"
	"bingwall/internal/ipc"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream daemon events (wallpaper changes, timer flips, fetch progress)",
		Long: `Watch replays the daemon's buffered events and then follows new ones
until interrupted. Events cover wallpaper changes, timer enable/disable,
and the phases of running fetches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				cmdCtx := cmd.Context()
				stdout := cmd.OutOrStdout()
				var since uint64
				waitMillis := 0

				for {
					resp, err := client.Events(ipc.EventsRequest{Since: since, WaitMillis: waitMillis})
					if err != nil {
						return fmt.Errorf("stream events: %w", err)
					}
					for _, ev := range resp.Events {
						if asJSON {
							if err := writeJSON(cmd, ev); err != nil {
								return err
							}
							continue
						}
						fmt.Fprintln(stdout, formatEvent(ev))
					}
					since = resp.Next
					// The backlog is drained after the first round; long-poll
					// from here on.
					waitMillis = 1000

					select {
					case <-cmdCtx.Done():
						return nil
					default:
					}
				}
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit events as JSON")
	return cmd
}

func formatEvent(ev ipc.Event) string {
	ts := ev.Timestamp.Local().Format("15:04:05")
	switch ev.Type {
	case events.TypeWallpaperChanged:
		if strings.TrimSpace(ev.Title) != "" {
			return fmt.Sprintf("%s wallpaper changed: %s (%s)", ts, ev.Title, ev.Path)
		}
		return fmt.Sprintf("%s wallpaper changed: %s", ts, ev.Path)
	case events.TypeTimerStateChanged:
		return fmt.Sprintf("%s daily updates %s", ts, enabledWord(ev.Enabled))
	case events.TypeFetchProgress:
		return fmt.Sprintf("%s fetch %s: %s", ts, ev.Phase, ev.Message)
	default:
		return fmt.Sprintf("%s %s", ts, ev.Type)
	}
}
