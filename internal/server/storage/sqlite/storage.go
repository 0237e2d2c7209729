// Package sqlite is the SQLite implementation of the server operation log,
// the default for a single server instance.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/notesync/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// pragmas применяются к единственному соединению пула
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Storage is the operation log kept in one SQLite file.
type Storage struct {
	db      *sql.DB
	version int64
}

// New opens (or creates) the database at dbPath and migrates it.
// ":memory:" gives a private in-memory log, used by tests.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite сериализует запись, а :memory: живет только в своем соединении
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Storage{db: db}
	if err := s.init(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return s, nil
}

func (s *Storage) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	s.version, err = storage.Migrate(ctx, goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the schema version after migrations.
func (s *Storage) SchemaVersion() int64 {
	return s.version
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB exposes the connection to tests.
func (s *Storage) DB() *sql.DB {
	return s.db
}
