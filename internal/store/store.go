// Package store provides database access for the nodelist table over a
// single sqlx handle. It supports SQLite, PostgreSQL and MySQL through
// their database/sql drivers; all statements beyond the engine-specific
// DDL are engine-neutral and rebound to the driver's placeholder style.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/gitpan/ftndb/internal/schema"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps an open database handle together with its engine family.
// It is owned exclusively by one command invocation at a time.
type Store struct {
	db     *sqlx.DB
	engine schema.Engine
}

// Open connects to the database identified by dsn and verifies the
// connection with a ping. For SQLite the directory holding the database
// file is created if missing.
func Open(ctx context.Context, engine schema.Engine, dsn string) (*Store, error) {
	if engine == schema.EngineSQLite {
		if dir := filepath.Dir(sqliteFilePath(dsn)); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sqlx.Open(engine.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", engine, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", engine, err)
	}

	slog.Debug("database opened", "engine", engine.String())
	return &Store{db: db, engine: engine}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Engine returns the engine family the store was opened for.
func (s *Store) Engine() schema.Engine {
	return s.engine
}

// sqliteFilePath strips the query-parameter tail of a go-sqlite3 DSN,
// leaving the filesystem path of the database file.
func sqliteFilePath(dsn string) string {
	for i := 0; i < len(dsn); i++ {
		if dsn[i] == '?' {
			return dsn[:i]
		}
	}
	return dsn
}
