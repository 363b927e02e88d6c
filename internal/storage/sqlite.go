package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cashflow/internal/core"
)

// SQLiteStore keeps each ledger record as one row keyed by location.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) PathFor(p core.Period) string {
	return p.FileName()
}

func (s *SQLiteStore) Exists(ctx context.Context, location string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM ledgers WHERE location = ?`, location).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, core.Persistence("exists", location, err)
	}
}

// Save upserts the record in a single statement, so readers see either the old or the new body.
func (s *SQLiteStore) Save(ctx context.Context, location string, rec core.Record) error {
	body, err := Encode(rec)
	if err != nil {
		return core.Persistence("save", location, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledgers (location, month, year, next_id, body, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(location) DO UPDATE SET
			month = excluded.month,
			year = excluded.year,
			next_id = excluded.next_id,
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP`,
		location, rec.Period.Month, rec.Period.Year, rec.NextID, string(body))
	if err != nil {
		return core.Persistence("save", location, err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"location", location,
		"entries", len(rec.Entries),
		"next_id", rec.NextID)
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, location string) (core.Record, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM ledgers WHERE location = ?`, location).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Record{}, core.NotFound("load", location, err)
		}
		return core.Record{}, core.Persistence("load", location, err)
	}
	rec, err := Decode([]byte(body))
	if err != nil {
		return core.Record{}, core.Corrupt("load", location, err)
	}
	return rec, nil
}
