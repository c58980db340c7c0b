package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
)

func newRateLimitCommand(ctx *commandContext) *cobra.Command {
	rateCmd := &cobra.Command{
		Use:   "rate-limit",
		Short: "Inspect the daily API call budget",
	}

	rateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show today's API usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				stats := svc.RateStats()
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.RateLimitResponse{Stats: stats})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s of %s calls used (%.1f%%), %s remaining\n",
					stats.Date, formatCount(int64(stats.Used)), formatCount(int64(stats.Limit)),
					stats.PercentUsed, formatCount(int64(stats.Remaining)))
				return nil
			})
		},
	})

	rateCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Zero today's call counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				if err := svc.ResetRate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rate limit counter reset")
				return nil
			})
		},
	})

	return rateCmd
}
