package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cashflow/internal/core"
)

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, data))
	return buf.String()
}

func requireSameRecord(t *testing.T, want, got core.Record) {
	t.Helper()
	require.Equal(t, want.Period, got.Period)
	require.Equal(t, want.NextID, got.NextID)
	require.Len(t, got.Entries, len(want.Entries))
	for i := range want.Entries {
		require.Equal(t, want.Entries[i].ID, got.Entries[i].ID)
		require.Equal(t, want.Entries[i].Label, got.Entries[i].Label)
		require.True(t, want.Entries[i].Amount.Equal(got.Entries[i].Amount),
			"entry %s: want %s, got %s", want.Entries[i].ID, want.Entries[i].Amount, got.Entries[i].Amount)
	}
}

func TestEncodeEmptyRecord(t *testing.T) {
	rec := core.NewRecord(core.Period{Month: "JANVIER", Year: 2024})

	data, err := Encode(rec)
	require.NoError(t, err)
	require.Equal(t,
		`{"parameters":{"init":["JANVIER",2024],"cash_id":0},"cashflow":{}}`,
		compact(t, data))
}

func TestEncodeEntries(t *testing.T) {
	rec := core.Record{
		Period: core.Period{Month: "JANVIER", Year: 2024},
		NextID: 2,
		Entries: []core.Entry{
			{ID: "001", Label: "LOYER", Amount: decimal.NewFromInt(-500)},
			{ID: "002", Label: "SALAIRE", Amount: decimal.RequireFromString("1200.50")},
		},
	}

	data, err := Encode(rec)
	require.NoError(t, err)
	require.Equal(t,
		`{"parameters":{"init":["JANVIER",2024],"cash_id":2},"cashflow":{"001":["LOYER",-500],"002":["SALAIRE",1200.5]}}`,
		compact(t, data))
	require.Contains(t, string(data), "\n    \"parameters\"")
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `hello`},
		{"empty", ``},
		{"missing cashflow", `{"parameters":{"init":["JANVIER",2024],"cash_id":0}}`},
		{"null cashflow", `{"parameters":{"init":["JANVIER",2024],"cash_id":0},"cashflow":null}`},
		{"missing parameters", `{"cashflow":{}}`},
		{"missing cash_id", `{"parameters":{"init":["JANVIER",2024]},"cashflow":{}}`},
		{"negative cash_id", `{"parameters":{"init":["JANVIER",2024],"cash_id":-1},"cashflow":{}}`},
		{"fractional cash_id", `{"parameters":{"init":["JANVIER",2024],"cash_id":1.5},"cashflow":{}}`},
		{"short init", `{"parameters":{"init":["JANVIER"],"cash_id":0},"cashflow":{}}`},
		{"numeric month", `{"parameters":{"init":[1,2024],"cash_id":0},"cashflow":{}}`},
		{"bad year", `{"parameters":{"init":["JANVIER","twenty"],"cash_id":0},"cashflow":{}}`},
		{"cashflow array", `{"parameters":{"init":["JANVIER",2024],"cash_id":0},"cashflow":[]}`},
		{"entry not pair", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":["LOYER"]}}`},
		{"amount string", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":["LOYER","-500"]}}`},
		{"label number", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":[3,-500]}}`},
		{"non numeric id", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"abc":["LOYER",-500]}}`},
		{"duplicate id", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":["A",1],"001":["B",2]}}`},
		{"huge exponent", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":["LOYER",1e50000000]}}`},
		{"too many fraction digits", `{"parameters":{"init":["JANVIER",2024],"cash_id":1},"cashflow":{"001":["LOYER",1e-31]}}`},
		{"trailing data", `{"parameters":{"init":["JANVIER",2024],"cash_id":0},"cashflow":{}} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.ErrorIs(t, err, core.ErrCorruptRecord)
		})
	}
}

func TestDecodeAcceptsStringYear(t *testing.T) {
	rec, err := Decode([]byte(`{"parameters":{"init":["MARS","2024"],"cash_id":0},"cashflow":{}}`))
	require.NoError(t, err)
	require.Equal(t, core.Period{Month: "MARS", Year: 2024}, rec.Period)

	data, err := Encode(rec)
	require.NoError(t, err)
	require.Contains(t, compact(t, data), `"init":["MARS",2024]`)
}

func TestDecodeRaisesStaleCounter(t *testing.T) {
	rec, err := Decode([]byte(`{"parameters":{"init":["MARS",2024],"cash_id":1},"cashflow":{"001":["A",1],"004":["B",2]}}`))
	require.NoError(t, err)
	require.Equal(t, 4, rec.NextID)
}

func TestDecodeKeepsCounterAboveEntries(t *testing.T) {
	rec, err := Decode([]byte(`{"parameters":{"init":["MARS",2024],"cash_id":7},"cashflow":{"002":["A",1]}}`))
	require.NoError(t, err)
	require.Equal(t, 7, rec.NextID)
}

func TestCodecRoundTrip(t *testing.T) {
	amounts := []string{"-500", "1200", "0", "0.1", "-33.333", "1e3", "999999999.99"}

	for _, n := range []int{0, 1, 150} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			rec := core.NewRecord(core.Period{Month: "AVRIL", Year: 2025})
			for i := 1; i <= n; i++ {
				rec.NextID = i
				rec.Entries = append(rec.Entries, core.Entry{
					ID:     core.FormatID(i),
					Label:  fmt.Sprintf("ENTRY \"%d\" É", i),
					Amount: decimal.RequireFromString(amounts[i%len(amounts)]),
				})
			}

			data, err := Encode(rec)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			requireSameRecord(t, rec, got)
		})
	}
}

func TestCodecKeepsInsertionOrderPastThreeDigits(t *testing.T) {
	rec := core.Record{
		Period: core.Period{Month: "MAI", Year: 2025},
		NextID: 1001,
		Entries: []core.Entry{
			{ID: "999", Label: "A", Amount: decimal.NewFromInt(1)},
			{ID: "1000", Label: "B", Amount: decimal.NewFromInt(2)},
			{ID: "1001", Label: "C", Amount: decimal.NewFromInt(3)},
		},
	}

	data, err := Encode(rec)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	requireSameRecord(t, rec, got)
}
