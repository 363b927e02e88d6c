package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"cashflow/internal/core"
)

// FileStore keeps one JSON file per period under a base directory.
type FileStore struct {
	dir  string
	perm fs.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &FileStore{dir: dir, perm: 0o644}, nil
}

// Dir returns the base directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) PathFor(p core.Period) string {
	return filepath.Join(s.dir, p.FileName())
}

func (s *FileStore) Exists(_ context.Context, location string) (bool, error) {
	info, err := os.Stat(location)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, core.Persistence("stat", location, errors.New("location is a directory"))
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, core.Persistence("stat", location, err)
	}
}

// Save writes to a temp file in the target directory and renames it over location.
func (s *FileStore) Save(ctx context.Context, location string, rec core.Record) error {
	data, err := Encode(rec)
	if err != nil {
		return core.Persistence("save", location, err)
	}

	dir, base := filepath.Split(location)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return core.Persistence("save", location, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Failed to remove temp ledger file", "path", tmpName, "error", rmErr)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return core.Persistence("save", location, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return core.Persistence("save", location, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return core.Persistence("save", location, err)
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		cleanup()
		return core.Persistence("save", location, err)
	}
	if err := os.Rename(tmpName, location); err != nil {
		cleanup()
		return core.Persistence("save", location, err)
	}

	slog.DebugContext(ctx, "Ledger saved to file",
		"location", location,
		"entries", len(rec.Entries),
		"next_id", rec.NextID)
	return nil
}

func (s *FileStore) Load(_ context.Context, location string) (core.Record, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Record{}, core.NotFound("load", location, err)
		}
		return core.Record{}, core.Persistence("load", location, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return core.Record{}, core.Corrupt("load", location, err)
	}
	return rec, nil
}
