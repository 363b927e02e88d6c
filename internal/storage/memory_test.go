package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cashflow/internal/core"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := sampleRecord()
	loc := s.PathFor(rec.Period)
	require.Equal(t, "mem:JANVIER_2024.json", loc)

	_, err := s.Load(ctx, loc)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.Save(ctx, loc, rec))
	ok, err := s.Exists(ctx, loc)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Load(ctx, loc)
	require.NoError(t, err)
	requireSameRecord(t, rec, got)

	raw, ok := s.Raw(loc)
	require.True(t, ok)
	require.Contains(t, compact(t, raw), `"cash_id":3`)
}

func TestMemoryStoreFailSaves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := sampleRecord()
	loc := s.PathFor(rec.Period)

	diskFull := errors.New("no space left on device")
	s.FailSaves(diskFull)
	err := s.Save(ctx, loc, rec)
	require.ErrorIs(t, err, core.ErrPersistence)
	require.ErrorIs(t, err, diskFull)

	ok, err := s.Exists(ctx, loc)
	require.NoError(t, err)
	require.False(t, ok)

	s.FailSaves(nil)
	require.NoError(t, s.Save(ctx, loc, rec))
}

func TestMemoryStoreCorrupt(t *testing.T) {
	s := NewMemoryStore()
	s.Put("mem:BAD_2024.json", []byte(`{"cashflow":{}}`))

	_, err := s.Load(context.Background(), "mem:BAD_2024.json")
	require.ErrorIs(t, err, core.ErrCorruptRecord)
}
