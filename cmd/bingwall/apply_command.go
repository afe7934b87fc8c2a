package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/history"
	"bingwall/internal/ipc"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <path>",
		Short: "Set a previously downloaded image as the wallpaper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(args[0])
			if path == "" {
				return fmt.Errorf("image path is required")
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve image path: %w", err)
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.Apply(abs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wallpaper applied: %s\n", abs)
				return nil
			})
		},
	}
}

func newCurrentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the path of the wallpaper currently on screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				path, err := client.GetCurrentWallpaperPath()
				if err != nil {
					return err
				}
				if strings.TrimSpace(path) == "" {
					fmt.Fprintln(stdout, "No wallpaper applied yet")
					return nil
				}
				fmt.Fprintln(stdout, path)
				return nil
			}

			// Without the daemon's in-memory state the newest download is the
			// best available answer.
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries := history.Scan(cfg.WallpaperDir)
			if len(entries) == 0 {
				fmt.Fprintln(stdout, "No wallpapers downloaded yet")
				return nil
			}
			fmt.Fprintln(stdout, entries[0].Path)
			return nil
		},
	}
}
