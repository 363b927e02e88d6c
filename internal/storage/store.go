package storage

import (
	"context"

	"cashflow/internal/core"
)

// Store persists ledger records at locations derived from a period.
// Implementations must never expose a partially written record to Load.
type Store interface {
	// PathFor returns the location owned by p. It is pure and deterministic.
	PathFor(p core.Period) string
	// Exists reports whether a record is persisted at location.
	Exists(ctx context.Context, location string) (bool, error)
	// Save replaces the record at location.
	Save(ctx context.Context, location string, rec core.Record) error
	// Load reads the record at location.
	Load(ctx context.Context, location string) (core.Record, error)
}
