package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove"},
		Short:   "Remove entries by identifier",
		Long: `Remove one or more entries. Unknown identifiers are reported and
skipped. Identifiers are never reused.

Example:
  cashflow rm --month JANVIER --year 2024 001 003`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.period()
			if err != nil {
				return err
			}

			removed, err := a.service.RemoveEntries(ctxOrBackground(cmd), p, args...)
			out := cmd.OutOrStdout()
			if len(removed) > 0 {
				fmt.Fprintf(out, "Removed: %s\n", strings.Join(removed, " "))
			}
			if err != nil {
				return err
			}

			if missing := difference(args, removed); len(missing) > 0 {
				fmt.Fprintf(out, "Not found: %s\n", strings.Join(missing, " "))
			}
			return nil
		},
	}
}

// difference returns the items of all not present in some, keeping order.
func difference(all, some []string) []string {
	seen := make(map[string]struct{}, len(some))
	for _, s := range some {
		seen[s] = struct{}{}
	}
	var out []string
	for _, s := range all {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
