package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	cases := []struct {
		month string
		year  int
		want  Period
		ok    bool
	}{
		{"janvier", 2024, Period{Month: "JANVIER", Year: 2024}, true},
		{"  Février ", 2025, Period{Month: "FÉVRIER", Year: 2025}, true},
		{"", 2024, Period{}, false},
		{"MARS", 0, Period{}, false},
		{"../etc", 2024, Period{}, false},
		{"a/b", 2024, Period{}, false},
	}
	for i, tc := range cases {
		got, err := NewPeriod(tc.month, tc.year)
		if !tc.ok {
			require.Error(t, err, "case %d", i)
			require.True(t, errors.Is(err, ErrInvalidPeriod), "case %d", i)
			continue
		}
		require.NoError(t, err, "case %d", i)
		require.Equal(t, tc.want, got)
	}
}

func TestPeriodKey(t *testing.T) {
	p := Period{Month: "JANVIER", Year: 2024}
	require.Equal(t, "JANVIER_2024", p.Key())
	require.Equal(t, "JANVIER_2024.json", p.FileName())
}

func TestFormatID(t *testing.T) {
	require.Equal(t, "001", FormatID(1))
	require.Equal(t, "042", FormatID(42))
	require.Equal(t, "999", FormatID(999))
	require.Equal(t, "1000", FormatID(1000))
}

func TestParseID(t *testing.T) {
	n, err := ParseID("007")
	require.NoError(t, err)
	require.Equal(t, 7, n)

	for _, bad := range []string{"", "abc", "-01", "000", "1a"} {
		_, err := ParseID(bad)
		require.Error(t, err, "id %q", bad)
	}
}

func TestRecordValidate(t *testing.T) {
	p := Period{Month: "MAI", Year: 2024}
	good := Record{Period: p, NextID: 3, Entries: []Entry{
		{ID: "001", Label: "A", Amount: decimal.NewFromInt(1)},
		{ID: "003", Label: "B", Amount: decimal.NewFromInt(-1)},
	}}
	require.NoError(t, good.Validate())

	bads := []Record{
		{Period: Period{}, NextID: 0},
		{Period: p, NextID: -1},
		{Period: p, NextID: 1, Entries: []Entry{{ID: "002"}}},
		{Period: p, NextID: 2, Entries: []Entry{{ID: "001"}, {ID: "001"}}},
		{Period: p, NextID: 2, Entries: []Entry{{ID: "x"}}},
	}
	for i, r := range bads {
		require.Error(t, r.Validate(), "case %d", i)
	}
}

func TestRecordClone(t *testing.T) {
	r := Record{Period: Period{Month: "MAI", Year: 2024}, NextID: 1, Entries: []Entry{{ID: "001", Label: "A"}}}
	c := r.Clone()
	c.Entries[0].Label = "B"
	require.Equal(t, "A", r.Entries[0].Label)
}

func TestRecordErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("save", "/tmp/x.json", cause)
	require.True(t, errors.Is(err, ErrPersistence))
	require.True(t, errors.Is(err, cause))
	require.False(t, errors.Is(err, ErrNotFound))

	var re *RecordError
	require.True(t, errors.As(err, &re))
	require.Equal(t, "/tmp/x.json", re.Location)
	require.Contains(t, err.Error(), "disk full")
}

func TestRecordErrorNamesKindOnce(t *testing.T) {
	cause := fmt.Errorf("%w: missing \"cashflow\"", ErrCorruptRecord)
	err := Corrupt("load", "JUIN_2024.json", cause)
	require.ErrorIs(t, err, ErrCorruptRecord)
	require.Equal(t, `load JUIN_2024.json: corrupt ledger record: missing "cashflow"`, err.Error())

	plain := Corrupt("load", "JUIN_2024.json", errors.New("bad"))
	require.Equal(t, "load JUIN_2024.json: corrupt ledger record: bad", plain.Error())
}
