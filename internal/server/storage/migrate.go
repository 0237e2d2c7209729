package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migrate applies the pending migrations found in migrations (the directory
// itself, not its parent) and returns the resulting schema version.
// Each call uses its own goose provider, so several drivers can migrate
// in one process.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, migrations fs.FS, opts ...goose.ProviderOption) (int64, error) {
	provider, err := goose.NewProvider(dialect, db, migrations, opts...)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	// provider.Close закрыл бы db, им владеет вызывающий
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up failed: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
