package backend

import (
	"context"

	"cashflow/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the store and optional cleanup function
type Result struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation
type Config struct {
	Type Type

	// File
	LedgerDir string

	// SQLite
	SQLiteDBPath string

	// S3
	S3 storage.S3Config
}

// Type represents the type of backend
type Type string

const (
	FileBackend   Type = "file"
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
	S3Backend     Type = "s3"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, MemoryBackend, SQLiteBackend, S3Backend:
		return true
	default:
		return false
	}
}
