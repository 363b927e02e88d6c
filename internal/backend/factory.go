package backend

import (
	"context"
	"fmt"

	"cashflow/internal/log"
	"cashflow/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileStore(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteStore(ctx, config)
	case S3Backend:
		return f.createS3Store(ctx, config)
	case MemoryBackend:
		f.logger.WarnContext(ctx, "Using in-memory ledger store; data is lost on exit")
		return &Result{Store: storage.NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileStore(ctx context.Context, config Config) (*Result, error) {
	store, err := storage.NewFileStore(config.LedgerDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized file backend", "dir", store.Dir())
	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &Result{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createS3Store(ctx context.Context, config Config) (*Result, error) {
	store, err := storage.NewS3Store(ctx, config.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized S3 backend",
		"bucket", config.S3.Bucket,
		"prefix", config.S3.Prefix,
		"endpoint", config.S3.Endpoint)
	return &Result{Store: store}, nil
}
