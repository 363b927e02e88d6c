package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger for a month if it does not exist",
		Long: `Create the ledger for the selected month. An existing ledger is
loaded and left untouched.

Example:
  cashflow init --month JANVIER --year 2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.period()
			if err != nil {
				return err
			}

			l, err := a.service.Open(ctxOrBackground(cmd), p)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ledger %s ready at %s (%d entries)\n", p.Key(), l.Location(), l.Len())
			return nil
		},
	}
}
