package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRatio(t *testing.T) {
	cases := []struct {
		income, expenses string
		want             float64
	}{
		{"0", "0", 0},
		{"0", "10", 1},
		{"100", "100", 1},
		{"100", "150", 1},
		{"100", "25", 0.25},
		{"100", "0", 0},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.want, Ratio(d(tc.income), d(tc.expenses)), 1e-12, "%s/%s", tc.expenses, tc.income)
	}
}

func TestSummarize(t *testing.T) {
	p := Period{Month: "JANVIER", Year: 2024}
	s := Summarize(p, []Entry{
		{ID: "001", Label: "LOYER", Amount: d("-500")},
		{ID: "002", Label: "SALAIRE", Amount: d("1200")},
		{ID: "003", Label: "CAFE", Amount: d("-2.30")},
		{ID: "004", Label: "ZERO", Amount: d("0")},
	})
	require.Equal(t, 4, s.Entries)
	require.True(t, d("1200").Equal(s.Income))
	require.True(t, d("502.3").Equal(s.Expenses))
	require.True(t, d("697.7").Equal(s.Balance))
	require.InDelta(t, 502.3/1200, s.Ratio, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(Period{Month: "MAI", Year: 2024}, nil)
	require.True(t, s.Balance.IsZero())
	require.Equal(t, 0.0, s.Ratio)
}
