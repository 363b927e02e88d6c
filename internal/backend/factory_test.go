package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cashflow/internal/config"
	"cashflow/internal/core"
	"cashflow/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.DataBackend = config.BackendS3
	app.S3Bucket = "ledgers"
	app.S3Prefix = "home"

	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	require.Equal(t, S3Backend, cfg.Type)
	require.Equal(t, "ledgers", cfg.S3.Bucket)
	require.Equal(t, "home", cfg.S3.Prefix)

	_, err = FromAppConfig(nil)
	require.Error(t, err)

	app.DataBackend = "sheets"
	_, err = FromAppConfig(app)
	require.ErrorContains(t, err, "invalid backend type")
}

func TestCreateStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, s storage.Store)
	}{
		{
			name:   "file",
			config: Config{Type: FileBackend, LedgerDir: filepath.Join(dir, "ledgers")},
			check: func(t *testing.T, s storage.Store) {
				require.IsType(t, &storage.FileStore{}, s)
			},
		},
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, s storage.Store) {
				require.IsType(t, &storage.MemoryStore{}, s)
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "cashflow.db")},
			check: func(t *testing.T, s storage.Store) {
				require.IsType(t, &storage.SQLiteStore{}, s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateStore(ctx, tt.config)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, res.Close()) })
			tt.check(t, res.Store)

			p := core.Period{Month: "JUIN", Year: 2024}
			loc := res.Store.PathFor(p)
			require.NoError(t, res.Store.Save(ctx, loc, core.NewRecord(p)))
			ok, err := res.Store.Exists(ctx, loc)
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestCreateStoreInvalid(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.CreateStore(context.Background(), Config{Type: SQLiteBackend})
	require.ErrorContains(t, err, "SQLite database path is required")

	_, err = f.CreateStore(context.Background(), Config{Type: "sheets"})
	require.ErrorContains(t, err, "invalid backend type")
}
