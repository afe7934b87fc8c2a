package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/history"
	"bingwall/internal/ipc"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List downloaded wallpapers, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadHistoryEntries(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No wallpapers downloaded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Date, entry.Filename, entry.Path})
			}
			table := renderTable(
				[]string{"#", "Date", "Filename", "Path"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Emit history as JSON")

	historyCmd.AddCommand(newHistoryDeleteCommand(ctx))

	return historyCmd
}

// loadHistoryEntries asks the daemon first and falls back to scanning the
// wallpaper directory when it is not reachable. Both views derive from the
// same filenames, so they agree.
func loadHistoryEntries(ctx *commandContext) ([]ipc.HistoryEntry, error) {
	if client, err := ctx.dialClient(); err == nil {
		defer client.Close()
		resp, err := client.GetHistory()
		if err != nil {
			return nil, err
		}
		return resp.Entries, nil
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	scanned := history.Scan(cfg.WallpaperDir)
	entries := make([]ipc.HistoryEntry, 0, len(scanned))
	for _, entry := range scanned {
		entries = append(entries, ipc.HistoryEntry{
			Path:     entry.Path,
			Filename: entry.Filename,
			Date:     entry.Date,
		})
	}
	return entries, nil
}

func newHistoryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a downloaded wallpaper file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if path == "" {
				return fmt.Errorf("wallpaper path is required")
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve wallpaper path: %w", err)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.DeleteWallpaper(abs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", abs)
				return nil
			})
		},
	}
}
