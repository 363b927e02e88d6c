package core

import "github.com/shopspring/decimal"

// Summary is a compact aggregate view of one ledger.
type Summary struct {
	Period   Period
	Entries  int
	Balance  decimal.Decimal // Income - Expenses
	Income   decimal.Decimal // sum of amounts >= 0
	Expenses decimal.Decimal // absolute sum of amounts < 0
	Ratio    float64         // share of income consumed, within [0,1]
}

// Ratio returns expenses/income clamped to 1. Both zero yields 0.
func Ratio(income, expenses decimal.Decimal) float64 {
	if income.IsZero() && expenses.IsZero() {
		return 0
	}
	if expenses.GreaterThanOrEqual(income) {
		return 1
	}
	return expenses.Div(income).InexactFloat64()
}

// Summarize aggregates entries for p.
func Summarize(p Period, entries []Entry) Summary {
	income, expenses := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Amount.IsNegative() {
			expenses = expenses.Add(e.Amount.Abs())
			continue
		}
		income = income.Add(e.Amount)
	}
	return Summary{
		Period:   p,
		Entries:  len(entries),
		Balance:  income.Sub(expenses),
		Income:   income,
		Expenses: expenses,
		Ratio:    Ratio(income, expenses),
	}
}
