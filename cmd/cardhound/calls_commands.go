package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
)

func newCallsCommand(ctx *commandContext) *cobra.Command {
	callsCmd := &cobra.Command{
		Use:   "calls",
		Short: "Inspect the API call log",
	}

	callsCmd.AddCommand(newCallsRecentCommand(ctx))
	callsCmd.AddCommand(newCallsSummaryCommand(ctx))

	return callsCmd
}

func newCallsRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the newest lookup attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				calls, err := svc.RecentCalls(runCtx, limit)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CallsResponse{Calls: calls})
				}

				out := cmd.OutOrStdout()
				if len(calls) == 0 {
					fmt.Fprintln(out, "No calls logged")
					return nil
				}
				rows := make([][]string, 0, len(calls))
				for _, call := range calls {
					source := "live"
					if call.CacheHit {
						source = "cache"
					}
					status := "ok"
					if !call.Success {
						status = call.ErrorMessage
						if status == "" {
							status = "failed"
						}
					}
					rows = append(rows, []string{
						call.CreatedAt.Local().Format("15:04:05"),
						call.Query,
						source,
						strconv.Itoa(call.ItemCount),
						strconv.FormatInt(call.LatencyMS, 10) + "ms",
						status,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Time", "Query", "Source", "Items", "Latency", "Status"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of records to show")
	return cmd
}

func newCallsSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Aggregate the call log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				summary, err := svc.CallSummary(runCtx)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CallSummaryResponse{Summary: summary})
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s calls total: %s live, %s from cache, %s failed, avg %.0fms\n",
					formatCount(summary.TotalCalls), formatCount(summary.LiveCalls),
					formatCount(summary.CacheHits), formatCount(summary.Failures),
					summary.AvgLatencyMS)
				return nil
			})
		},
	}
}
