package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the search cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size and hit totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				stats, err := svc.CacheStats(runCtx)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CacheStatsResponse{Stats: stats})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d cached searches, %s total hits, %d expired\n",
					stats.Entries, formatCount(stats.TotalHits), stats.Expired)
				return nil
			})
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				removed, err := svc.ClearCache(runCtx)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CacheClearResponse{Removed: removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached searches\n", removed)
				return nil
			})
		},
	})

	return cacheCmd
}
