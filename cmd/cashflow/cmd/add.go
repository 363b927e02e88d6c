package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add LABEL AMOUNT",
		Short: "Add an entry to a month's ledger",
		Long: `Add a labeled amount. Positive amounts are income, negative amounts
are expenses. Both 12.50 and 12,50 are accepted. Flags must come before
LABEL so that negative amounts are not read as flags.

Example:
  cashflow add --month JANVIER --year 2024 Loyer -500
  cashflow add Salaire 1200`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.period()
			if err != nil {
				return err
			}

			e, err := a.service.AddEntry(ctxOrBackground(cmd), p, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.ID, e.Label, e.Amount.String())
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}
