package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteConfig holds configuration for an embedded SQLite database file.
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns sensible defaults for a local SQLite file.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:        "data/storefront.db",
		BusyTimeout: 5 * time.Second,
	}
}

// DSN returns the driver connection string with pragmas applied.
func (c SQLiteConfig) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		c.Path, c.BusyTimeout.Milliseconds())
}

// OpenSQLite opens (creating if needed) the SQLite database at cfg.Path and
// verifies it answers a ping. SQLite serializes writers, so the pool is
// limited to a single connection.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig, logger *slog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := ConnectWithRetry(ctx, "sqlite", logger, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
