package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v8"
	"gopkg.in/yaml.v3"

	"cashflow/internal/log"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

var validBackends = []string{BackendFile, BackendMemory, BackendSQLite, BackendS3}

// Config is loaded from defaults, then an optional YAML file, then the environment.
type Config struct {
	// Storage
	DataBackend  string `yaml:"data_backend" env:"DATA_BACKEND"`
	LedgerDir    string `yaml:"ledger_dir" env:"CASHFLOW_DIR"`
	SQLiteDBPath string `yaml:"sqlite_db_path" env:"SQLITE_DB_PATH"`

	S3Region          string `yaml:"s3_region" env:"S3_REGION"`
	S3Bucket          string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Prefix          string `yaml:"s3_prefix" env:"S3_PREFIX"`
	S3AccessKeyID     string `yaml:"s3_access_key_id" env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`

	// AMQP (optional; empty URL disables change messages)
	AMQPURL      string `yaml:"amqp_url" env:"AMQP_URL"`
	AMQPExchange string `yaml:"amqp_exchange" env:"AMQP_EXCHANGE"`
	AMQPQueue    string `yaml:"amqp_queue" env:"AMQP_QUEUE"`

	// Worker sinks
	ArchiveDBPath            string `yaml:"archive_db_path" env:"ARCHIVE_DB_PATH"`
	GoogleSpreadsheetID      string `yaml:"google_spreadsheet_id" env:"GOOGLE_SPREADSHEET_ID"`
	GoogleServiceAccountJSON string `yaml:"-" env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `yaml:"google_service_account_file" env:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	LedgerCacheSize int    `yaml:"ledger_cache_size" env:"LEDGER_CACHE_SIZE"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat       string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		DataBackend:     BackendFile,
		LedgerDir:       "./data/ledgers",
		SQLiteDBPath:    "./data/cashflow.db",
		S3Region:        "eu-west-1",
		AMQPExchange:    "cashflow",
		AMQPQueue:       "ledger_changes",
		ArchiveDBPath:   "./data/archive.db",
		LedgerCacheSize: 12,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds the configuration. path may be empty; a missing file at an
// explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendFile:
		if strings.TrimSpace(c.LedgerDir) == "" {
			errs = append(errs, "ledger directory cannot be empty when using file backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, "S3 bucket is required when using s3 backend")
		}
		if c.S3Region == "" {
			errs = append(errs, "S3 region is required when using s3 backend")
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			errs = append(errs, "S3 access key id and secret access key must be set together")
		}
		if c.S3Endpoint != "" {
			if u, err := url.Parse(c.S3Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Sprintf("invalid S3 endpoint '%s'", c.S3Endpoint))
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.LedgerCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid ledger cache size %d: must be at least 1", c.LedgerCacheSize))
	} else if c.LedgerCacheSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid ledger cache size %d: must be at most 1000", c.LedgerCacheSize))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings only the mirror worker needs.
func (c *Config) ValidateWorker() error {
	var errs []string
	if c.AMQPURL == "" {
		errs = append(errs, "AMQP_URL is required for the worker")
	}
	if c.ArchiveDBPath == "" && c.GoogleSpreadsheetID == "" {
		errs = append(errs, "at least one sink is required: set ARCHIVE_DB_PATH or GOOGLE_SPREADSHEET_ID")
	}
	if c.DataBackend == BackendMemory {
		errs = append(errs, "the worker cannot read ledgers from the memory backend")
	}
	if len(errs) > 0 {
		return fmt.Errorf("worker configuration invalid:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
