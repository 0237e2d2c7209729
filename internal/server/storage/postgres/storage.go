// Package postgres is the PostgreSQL implementation of the server
// operation log, for deployments that run several server instances
// against one database.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents PostgreSQL storage implementation of the operation log
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to the database and applies migrations.
// dsn is a libpq connection string or URL.
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// runMigrations прогоняет goose через database/sql поверх того же пула
func (s *Storage) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	// экземпляры, стартующие одновременно, мигрируют по очереди
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("failed to create migration lock: %w", err)
	}

	if _, err := storage.Migrate(ctx, goose.DialectPostgres, db, migrations, goose.WithSessionLocker(locker)); err != nil {
		return err
	}
	return nil
}

// AppendOperations stores operations that are not stored yet, in one
// batch. Returns the number of newly stored operations.
func (s *Storage) AppendOperations(ctx context.Context, docID string, ops []models.Operation) (int, error) {
	if err := storage.ValidateBatch(docID, ops); err != nil {
		return 0, err
	}
	if len(ops) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, op := range ops {
		batch.Queue(`
			INSERT INTO operations (
				document_id, actor, counter, seq, op_type,
				origin_actor, origin_counter, target_actor, target_counter, value
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (document_id, actor, counter) DO NOTHING`,
			docID,
			op.ID.Actor,
			int64(op.ID.Counter),
			int64(op.Seq),
			string(op.Type),
			op.Origin.Actor,
			int64(op.Origin.Counter),
			op.Target.Actor,
			int64(op.Target.Counter),
			int32(op.Value),
		)
	}

	results := tx.SendBatch(ctx, batch)
	stored := 0
	for _, op := range ops {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to insert operation %s: %w", op.ID, err)
		}
		stored += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

// LoadOperations returns the log of a document in append order.
func (s *Storage) LoadOperations(ctx context.Context, docID string) ([]models.Operation, error) {
	if docID == "" {
		return nil, storage.ErrInvalidDocumentID
	}

	rows, err := s.pool.Query(ctx, `
		SELECT actor, counter, seq, op_type,
		       origin_actor, origin_counter, target_actor, target_counter, value
		FROM operations
		WHERE document_id = $1
		ORDER BY position ASC`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}

	ops, err := pgx.CollectRows(rows, scanOperation)
	if err != nil {
		return nil, fmt.Errorf("failed to collect operations: %w", err)
	}
	if ops == nil {
		ops = make([]models.Operation, 0)
	}

	return ops, nil
}

// ListDocuments returns ids of every document with at least one operation, sorted.
func (s *Storage) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT document_id FROM operations ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect documents: %w", err)
	}
	if ids == nil {
		ids = make([]string, 0)
	}

	return ids, nil
}

func scanOperation(row pgx.CollectableRow) (models.Operation, error) {
	var (
		op                           models.Operation
		opType                       string
		counter, seq                 int64
		originCounter, targetCounter int64
		value                        int32
	)

	err := row.Scan(
		&op.ID.Actor,
		&counter,
		&seq,
		&opType,
		&op.Origin.Actor,
		&originCounter,
		&op.Target.Actor,
		&targetCounter,
		&value,
	)
	if err != nil {
		return models.Operation{}, err
	}

	op.ID.Counter = uint64(counter)
	op.Seq = uint64(seq)
	op.Type = models.OpType(opType)
	op.Origin.Counter = uint64(originCounter)
	op.Target.Counter = uint64(targetCounter)
	op.Value = value

	return op, nil
}
