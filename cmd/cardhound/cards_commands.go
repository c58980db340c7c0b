package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardhound/internal/api"
	"cardhound/internal/store"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the card collection",
	}

	cardsCmd.AddCommand(newCardsListCommand(ctx))
	cardsCmd.AddCommand(newCardsAddCommand(ctx))
	cardsCmd.AddCommand(newCardsShowCommand(ctx))
	cardsCmd.AddCommand(newCardsRemoveCommand(ctx))
	cardsCmd.AddCommand(newCardsTrackCommand(ctx))
	cardsCmd.AddCommand(newCardsCheckCommand(ctx))
	cardsCmd.AddCommand(newCardsCheckTrackedCommand(ctx))

	return cardsCmd
}

func newCardsListCommand(ctx *commandContext) *cobra.Command {
	var filter store.CardFilter
	var trackedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if trackedOnly {
				tracked := true
				filter.Tracked = &tracked
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				cards, err := svc.ListCards(runCtx, filter)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CardListResponse{Cards: cards})
				}
				printCardTable(cmd, cards)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter.Player, "player", "p", "", "Filter by player name")
	cmd.Flags().StringVarP(&filter.Year, "year", "y", "", "Filter by year")
	cmd.Flags().StringVarP(&filter.SetName, "set", "s", "", "Filter by set name")
	cmd.Flags().BoolVar(&trackedOnly, "tracked", false, "Only tracked cards")

	return cmd
}

func newCardsAddCommand(ctx *commandContext) *cobra.Command {
	var req api.CardRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				card, err := svc.AddCard(runCtx, req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CardResponse{Card: card})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added card %d: %s\n", card.ID, cardLabel(card))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Player, "player", "p", "", "Player or subject name (required)")
	cmd.Flags().StringVarP(&req.Year, "year", "y", "", "Card year")
	cmd.Flags().StringVarP(&req.SetName, "set", "s", "", "Set or brand name")
	cmd.Flags().StringVarP(&req.CardNumber, "number", "n", "", "Card number")
	cmd.Flags().StringVar(&req.Team, "team", "", "Team")
	cmd.Flags().StringVar(&req.Variety, "variety", "", "Insert or variety name")
	cmd.Flags().StringVar(&req.Parallel, "parallel", "", "Parallel or color")
	cmd.Flags().BoolVar(&req.Autograph, "auto", false, "Autographed card")
	cmd.Flags().StringVar(&req.Numbered, "numbered", "", "Serial numbering, e.g. \"05/49\"")
	cmd.Flags().StringVar(&req.Graded, "grade", "", "Professional grade")
	cmd.Flags().IntVarP(&req.Quantity, "quantity", "q", 1, "Copies owned")
	cmd.Flags().BoolVar(&req.Tracked, "track", false, "Track for scheduled price checks")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newCardsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one card in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				card, err := svc.GetCard(runCtx, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CardResponse{Card: card})
				}
				printCardDetail(cmd, card)
				return nil
			})
		},
	}
}

func newCardsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a card from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.DeleteCard(runCtx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed card %d\n", id)
				return nil
			})
		},
	}
}

func newCardsTrackCommand(ctx *commandContext) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "track <id>",
		Short: "Toggle scheduled price checking for a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.SetTracked(runCtx, id, !off); err != nil {
					return err
				}
				state := "tracked"
				if off {
					state = "untracked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Card %d is now %s\n", id, state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Stop tracking instead")
	return cmd
}

func newCardsCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Refresh a card's market value now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				card, result, err := svc.CheckPrice(runCtx, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CheckPriceResponse{Card: card, Result: result})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n", cardLabel(card))
				printLookupResult(cmd, result)
				fmt.Fprintf(out, "Stored value: %s\n", formatPrice(card.CurrentValue))
				return nil
			})
		},
	}
}

func newCardsCheckTrackedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check-tracked",
		Short: "Refresh every tracked card",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(runCtx context.Context, svc *api.Service) error {
				outcomes, err := svc.CheckTracked(runCtx)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.CheckTrackedResponse{Outcomes: outcomes})
				}

				out := cmd.OutOrStdout()
				if len(outcomes) == 0 {
					fmt.Fprintln(out, "No tracked cards")
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					value := "-"
					note := outcome.Err
					if outcome.Result != nil {
						value = formatPrice(outcome.Result.Pricing.Average)
						if note == "" && !outcome.Result.Matched() {
							note = "no match"
						}
					}
					rows = append(rows, []string{
						strconv.FormatInt(outcome.CardID, 10),
						outcome.Player,
						value,
						note,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Player", "Value", "Note"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}
}

func parseCardID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid card id %q", arg)
	}
	return id, nil
}

func cardLabel(card *store.Card) string {
	label := card.Player
	if card.Year != "" {
		label = card.Year + " " + label
	}
	if card.SetName != "" {
		label += " " + card.SetName
	}
	if card.CardNumber != "" {
		label += " #" + card.CardNumber
	}
	return label
}

func printCardTable(cmd *cobra.Command, cards []*store.Card) {
	out := cmd.OutOrStdout()
	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards found")
		return
	}

	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, []string{
			strconv.FormatInt(card.ID, 10),
			card.Year,
			card.Player,
			card.SetName,
			card.CardNumber,
			formatPrice(card.CurrentValue),
			yesNo(card.Tracked),
			formatTimestamp(card.LastCheckedAt),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Year", "Player", "Set", "No.", "Value", "Tracked", "Checked"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
}

func printCardDetail(cmd *cobra.Command, card *store.Card) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Card %d: %s\n", card.ID, cardLabel(card))
	if card.Team != "" {
		fmt.Fprintf(out, "  Team:       %s\n", card.Team)
	}
	if card.Variety != "" {
		fmt.Fprintf(out, "  Variety:    %s\n", card.Variety)
	}
	if card.Parallel != "" {
		fmt.Fprintf(out, "  Parallel:   %s\n", card.Parallel)
	}
	if card.Numbered != "" {
		fmt.Fprintf(out, "  Numbered:   %s\n", card.Numbered)
	}
	if card.Graded != "" {
		fmt.Fprintf(out, "  Grade:      %s\n", card.Graded)
	}
	fmt.Fprintf(out, "  Autograph:  %s\n", yesNo(card.Autograph))
	fmt.Fprintf(out, "  Quantity:   %d\n", card.Quantity)
	fmt.Fprintf(out, "  Paid:       %s\n", formatPrice(card.PricePaid))
	fmt.Fprintf(out, "  Value:      %s\n", formatPrice(card.CurrentValue))
	fmt.Fprintf(out, "  Tracked:    %s\n", yesNo(card.Tracked))
	fmt.Fprintf(out, "  Checked:    %s\n", formatTimestamp(card.LastCheckedAt))
	if card.Notes != "" {
		fmt.Fprintf(out, "  Notes:      %s\n", card.Notes)
	}
}
