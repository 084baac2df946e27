package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
)

// Markets lists markets, optionally in one category.
func (a *App) Markets(ctx context.Context, args []string) error {
	var category string
	if len(args) > 0 {
		category = args[0]
	}
	markets, err := a.store.Markets(ctx, category)
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		fmt.Fprintln(a.out, "No markets.")
		return nil
	}

	now := time.Now()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range markets {
		state := m.Status
		if m.Status == models.MarketOpen && !m.IsOpen(now) {
			state = models.MarketClosed
		}
		fmt.Fprintf(tw, "%s\t%s\t[%s]\t%s\n", m.ID, m.Title, m.Category, state)
		for _, o := range m.Outcomes {
			fmt.Fprintf(tw, "\t  %s\t%s\tx%.2f\n", o.ID, o.Label, o.Odds)
		}
	}
	return tw.Flush()
}

// Bet places a stake: bet <market-id> <outcome-id> <amount>.
func (a *App) Bet(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usageError("bet <market-id> <outcome-id> <amount>")
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return usageError("bet <market-id> <outcome-id> <amount>")
	}

	bet, err := a.store.PlaceBet(ctx, models.BetRequest{
		MarketID:  models.ID(args[0]),
		OutcomeID: models.ID(args[1]),
		Amount:    amount,
	})
	if err != nil {
		return err
	}
	a.p.Fprintf(a.out, "Bet %s placed: %d tokens, potential payout %d.\n",
		bet.ID, tokens(bet.Amount), tokens(bet.PotentialPayout))
	if snap := a.store.Snapshot(); snap.Profile != nil {
		a.p.Fprintf(a.out, "Balance: %d tokens.\n", tokens(snap.Profile.TokensBalance))
	}
	return nil
}
