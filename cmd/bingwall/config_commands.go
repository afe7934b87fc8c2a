package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Prefer the daemon's live view; it may have reloaded edits or
			// accepted changes not yet seen by this process.
			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				doc, err := client.GetConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), doc)
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := cfg.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a default configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateDefault(target); err != nil {
				return fmt.Errorf("create default config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote default configuration to %s\n", target)
			fmt.Fprintln(out, "Edit market or wallpaper_dir in the file, then start the daemon with `bingwall start`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the file and socket locations bingwall uses",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if ctx.configFlag != nil {
				if flagged := strings.TrimSpace(*ctx.configFlag); flagged != "" {
					if configPath, err = config.ExpandPath(flagged); err != nil {
						return err
					}
				}
			}
			socketPath := ctx.socketPath()
			pidPath, err := config.DefaultPIDPath()
			if err != nil {
				return err
			}
			lockPath, err := config.DefaultLockPath()
			if err != nil {
				return err
			}
			logDir, err := config.DefaultLogDir()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:      %s\n", configPath)
			fmt.Fprintf(out, "Timer state: %s\n", config.TimerStatePathFor(configPath))
			fmt.Fprintf(out, "Socket:      %s\n", socketPath)
			fmt.Fprintf(out, "PID file:    %s\n", pidPath)
			fmt.Fprintf(out, "Lock file:   %s\n", lockPath)
			fmt.Fprintf(out, "Logs:        %s\n", logDir)
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagged string
			if ctx.configFlag != nil {
				flagged = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, path, exists, err := config.Load(flagged)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
