package cmd

import (
	"fmt"
	"io"

	"aurabot/models"
	"aurabot/service"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newLedgerCommand(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or maintain the aura ledger without connecting to Discord",
	}

	var limit int
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "Print the highest balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := loadLedger(cmd.Context(), opts.cfg, service.NewRandom(), nil)
			if err != nil {
				return err
			}
			printLeaderboard(cmd.OutOrStdout(), ledger.TopN(limit))
			return nil
		},
	}
	topCmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to print")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Re-roll every balance and clear pending battles, as the daily reset does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := loadLedger(cmd.Context(), opts.cfg, service.NewRandom(), nil)
			if err != nil {
				return err
			}
			count, err := ledger.ResetAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset aura for %d users\n", count)
			return nil
		},
	}

	ledgerCmd.AddCommand(topCmd, resetCmd)
	return ledgerCmd
}

func printLeaderboard(w io.Writer, entries []models.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The ledger is empty")
		return
	}
	p := message.NewPrinter(language.English)
	for _, entry := range entries {
		p.Fprintf(w, "%2d. %s %d\n", entry.Rank, entry.DiscordID, entry.Balance)
	}
}
