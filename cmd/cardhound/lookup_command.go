package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
	"cardhound/internal/lookup"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var req api.LookupRequest

	cmd := &cobra.Command{
		Use:   "lookup [query]",
		Short: "Price a card from its attributes or a raw search query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Query = args[0]
			}
			if strings.TrimSpace(req.Query) == "" && strings.TrimSpace(req.Player) == "" {
				return fmt.Errorf("either a raw query argument or --player is required")
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				result, err := svc.Lookup(runCtx, req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.LookupResponse{Result: result})
				}
				printLookupResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Player, "player", "p", "", "Player or subject name")
	cmd.Flags().StringVarP(&req.Year, "year", "y", "", "Card year")
	cmd.Flags().StringVarP(&req.SetName, "set", "s", "", "Set or brand name")
	cmd.Flags().StringVarP(&req.Number, "number", "n", "", "Card number")
	cmd.Flags().StringVar(&req.Variety, "variety", "", "Insert or variety name")
	cmd.Flags().StringVar(&req.Parallel, "parallel", "", "Parallel or color")
	cmd.Flags().BoolVar(&req.Signed, "auto", false, "Autographed card")
	cmd.Flags().StringVar(&req.Grade, "grade", "", "Professional grade, e.g. \"PSA 10\"")
	cmd.Flags().StringVar(&req.Numbered, "numbered", "", "Serial numbering, e.g. \"05/49\"")

	return cmd
}

func printLookupResult(cmd *cobra.Command, result *lookup.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Query: %s\n", result.Query)
	if result.Broadened {
		fmt.Fprintf(out, "Broadened search (%s)\n", result.BroadenNote)
	}
	if result.CacheHit {
		fmt.Fprintln(out, "Served from cache")
	}

	if !result.Matched() {
		fmt.Fprintf(out, "No relevant listings found (%d scanned, %d rejected)\n",
			result.Scanned, result.RejectedCount)
		return
	}

	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		price := "-"
		if amount, ok := item.Listing.Price.Amount(); ok {
			price = formatPrice(&amount)
		}
		rows = append(rows, []string{
			formatInt(item.Score),
			item.Listing.Title,
			price,
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Score", "Title", "Price"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight}))

	pricing := result.Pricing
	fmt.Fprintf(out, "Median %s  Average %s  Range %s - %s  (%d of %d listings priced)\n",
		formatPrice(pricing.Median), formatPrice(pricing.Average),
		formatPrice(pricing.Min), formatPrice(pricing.Max),
		pricing.SampleSize, pricing.Count)
}
