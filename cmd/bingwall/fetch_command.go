package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bingwall/internal/bing"
	"bingwall/internal/config"
	"bingwall/internal/fetch"
	"bingwall/internal/hostcmd"
	"bingwall/internal/ipc"
	"bingwall/internal/logging"
	"bingwall/internal/state"
	"bingwall/internal/timer"
	"bingwall/internal/timerstate"
	"bingwall/internal/wallpaper"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var noApply bool
	var direct bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download today's Bing image and set it as the wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			apply := !noApply
			if direct {
				return runDirectFetch(cmd, ctx, apply)
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Fetch(apply)
				if err != nil {
					return err
				}
				printFetchOutcome(cmd, resp.Title, resp.Entry.Path, resp.Downloaded, resp.Applied)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noApply, "no-apply", false, "Download without changing the desktop background")
	cmd.Flags().BoolVar(&direct, "direct", false, "Run the fetch pipeline in-process instead of through the daemon")
	return cmd
}

// runDirectFetch assembles the pipeline locally so a fetch works without a
// running daemon. Retries match the daemon's scheduled-fetch behavior.
func runDirectFetch(cmd *cobra.Command, ctx *commandContext, apply bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store := timerstate.NewStore(config.TimerStatePathFor(ctx.resolvedConfigPath()), logger)
	tm, err := timer.New(store, logger)
	if err != nil {
		return fmt.Errorf("init timer: %w", err)
	}
	st := state.New(cfg, ctx.resolvedConfigPath(), tm)

	runner := hostcmd.New(hostcmd.Detect())
	applier, err := wallpaper.NewCosmicApplier(runner, logger)
	if err != nil {
		return fmt.Errorf("init wallpaper applier: %w", err)
	}

	orch, err := fetch.New(st, bing.New(), applier, nil, logger)
	if err != nil {
		return fmt.Errorf("init fetch pipeline: %w", err)
	}

	summary, err := orch.FetchWithRetry(cmd.Context(), apply)
	if err != nil {
		return err
	}
	printFetchOutcome(cmd, summary.Image.Title, summary.Entry.Path, summary.Downloaded, summary.Applied)
	return nil
}

func printFetchOutcome(cmd *cobra.Command, title, path string, downloaded, applied bool) {
	stdout := cmd.OutOrStdout()
	if title != "" {
		fmt.Fprintf(stdout, "Image: %s\n", title)
	}
	if downloaded {
		fmt.Fprintf(stdout, "Downloaded %s\n", path)
	} else {
		fmt.Fprintf(stdout, "Already downloaded: %s\n", path)
	}
	if applied {
		fmt.Fprintln(stdout, "Wallpaper applied")
	}
}
