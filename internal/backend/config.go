package backend

import (
	"fmt"

	"cashflow/internal/config"
	"cashflow/internal/storage"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		LedgerDir:    appConfig.LedgerDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		S3: storage.S3Config{
			Region:          appConfig.S3Region,
			Bucket:          appConfig.S3Bucket,
			Prefix:          appConfig.S3Prefix,
			AccessKeyID:     appConfig.S3AccessKeyID,
			SecretAccessKey: appConfig.S3SecretAccessKey,
			Endpoint:        appConfig.S3Endpoint,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.LedgerDir == "" {
			return fmt.Errorf("ledger directory is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case S3Backend:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 backend")
		}
	case MemoryBackend:
		// Nothing to configure
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []Type {
	return []Type{FileBackend, MemoryBackend, SQLiteBackend, S3Backend}
}
