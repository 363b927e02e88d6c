package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashflow/internal/storage"
)

func newShowCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's entries and totals",
		Long: `Show the entries of a month in insertion order followed by the
balance, income, expenses and the share of income already spent.

Example:
  cashflow show --month JANVIER --year 2024
  cashflow show --raw`,
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

			out := cmd.OutOrStdout()
			if raw {
				data, err := storage.Encode(l.Record())
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "ID\tLABEL\tAMOUNT\t\n")
			for _, e := range l.Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", e.ID, e.Label, e.Amount.StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			sum := l.Summary()
			fmt.Fprintf(out, "\n%s: %d entries\n", p.Key(), sum.Entries)
			fmt.Fprintf(out, "Balance:  %s\n", sum.Balance.StringFixed(2))
			fmt.Fprintf(out, "Income:   %s\n", sum.Income.StringFixed(2))
			fmt.Fprintf(out, "Expenses: %s\n", sum.Expenses.StringFixed(2))
			fmt.Fprintf(out, "Spent:    %.1f%%\n", sum.Ratio*100)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored JSON record")
	return cmd
}
