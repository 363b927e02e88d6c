package sheets

import "cashflow/internal/core"

// LedgerRows renders a record as sheet rows: a header, one row per entry in
// insertion order, a blank separator and the aggregate rows.
func LedgerRows(rec core.Record) [][]any {
	rows := make([][]any, 0, len(rec.Entries)+6)
	rows = append(rows, []any{"ID", "LABEL", "AMOUNT"})
	for _, e := range rec.Entries {
		rows = append(rows, []any{e.ID, e.Label, e.Amount.InexactFloat64()})
	}

	sum := core.Summarize(rec.Period, rec.Entries)
	rows = append(rows,
		[]any{},
		[]any{"BALANCE", "", sum.Balance.InexactFloat64()},
		[]any{"INCOME", "", sum.Income.InexactFloat64()},
		[]any{"EXPENSES", "", sum.Expenses.InexactFloat64()},
		[]any{"RATIO", "", sum.Ratio},
	)
	return rows
}
