package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardhound/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Config file: %s\n", path)
			} else {
				fmt.Fprintf(out, "Config file: %s (not found, using defaults)\n", path)
			}
			fmt.Fprintf(out, "Data dir:    %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log dir:     %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "API bind:    %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "Database:    %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "Marketplace: %s (category %s)\n", cfg.Ebay.MarketplaceID, cfg.Ebay.CategoryID)
			fmt.Fprintf(out, "Client ID:   %s\n", redactCredential(cfg.Ebay.ClientID))
			fmt.Fprintf(out, "Daily quota: %d calls, cache TTL %d minutes\n", cfg.Ebay.DailyQuota, cfg.Ebay.CacheTTL)
			fmt.Fprintf(out, "Min score:   %d\n", cfg.Match.MinScore)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config-path", "f", "", "Configuration file to inspect")
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if err := config.WriteSample(expanded); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", expanded)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Where to write the sample config")
	return cmd
}

func redactCredential(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 6 {
		return "******"
	}
	return value[:4] + strings.Repeat("*", len(value)-4)
}
