package sheets

import (
	"context"

	"cashflow/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter replaces the mirrored copy of one month's ledger.
	LedgerWriter interface {
		WriteLedger(ctx context.Context, rec core.Record) error
	}
)

// TabName returns the sheet tab used for a period, "{MONTH}_{YEAR}".
func TabName(p core.Period) string {
	return p.Key()
}
