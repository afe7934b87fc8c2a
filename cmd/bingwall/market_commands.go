package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bingwall/internal/config"
)

func newMarketCommand(ctx *commandContext) *cobra.Command {
	marketCmd := &cobra.Command{
		Use:   "market",
		Short: "Inspect and change the Bing image market",
	}

	marketCmd.AddCommand(newMarketGetCommand(ctx))
	marketCmd.AddCommand(newMarketSetCommand(ctx))
	marketCmd.AddCommand(newMarketListCommand())

	return marketCmd
}

func newMarketGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the configured market",
		RunE: func(cmd *cobra.Command, args []string) error {
			market := ""
			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				market, err = client.GetMarket()
				if err != nil {
					return err
				}
			} else {
				// Daemon not reachable; fall back to the on-disk config.
				cfg, cfgErr := ctx.ensureConfig()
				if cfgErr != nil {
					return cfgErr
				}
				market = cfg.Market
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatMarket(market))
			return nil
		},
	}
}

func newMarketSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <code>",
		Short: "Change the market and persist it to the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			stdout := cmd.OutOrStdout()

			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				if err := client.SetMarket(code); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Market set to %s\n", formatMarket(code))
				return nil
			}

			// No daemon; validate and edit the config file directly. A daemon
			// started later (or watching the file) picks the change up.
			if err := config.ValidateMarket(code); err != nil {
				return err
			}
			code = config.CanonicalMarket(code)
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			updated := *cfg
			updated.Market = code
			if err := updated.Save(ctx.resolvedConfigPath()); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Market set to %s\n", formatMarket(code))
			return nil
		},
	}
}

func newMarketListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the supported Bing markets",
		RunE: func(cmd *cobra.Command, args []string) error {
			markets := config.Markets()
			rows := make([][]string, 0, len(markets))
			for _, m := range markets {
				rows = append(rows, []string{m.Code, m.Name})
			}
			table := renderTable([]string{"Code", "Country"}, rows, []columnAlignment{alignLeft, alignLeft})
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func formatMarket(code string) string {
	if name, ok := config.MarketName(code); ok {
		return fmt.Sprintf("%s (%s)", code, name)
	}
	return code
}
