package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/server/storage"
)

// AppendOperations stores operations that are not stored yet, in one
// transaction. Returns the number of newly stored operations.
func (s *Storage) AppendOperations(ctx context.Context, docID string, ops []models.Operation) (int, error) {
	if err := storage.ValidateBatch(docID, ops); err != nil {
		return 0, err
	}
	if len(ops) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations (
			document_id, actor, counter, seq, op_type,
			origin_actor, origin_counter, target_actor, target_counter,
			value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_id, actor, counter) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	stored := 0
	for _, op := range ops {
		res, err := stmt.ExecContext(ctx,
			docID,
			op.ID.Actor,
			int64(op.ID.Counter),
			int64(op.Seq),
			string(op.Type),
			op.Origin.Actor,
			int64(op.Origin.Counter),
			op.Target.Actor,
			int64(op.Target.Counter),
			int64(op.Value),
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert operation %s: %w", op.ID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		stored += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

// LoadOperations returns the log of a document in append order.
// Returns empty slice for a document that has no operations.
func (s *Storage) LoadOperations(ctx context.Context, docID string) (ops []models.Operation, err error) {
	if docID == "" {
		return nil, storage.ErrInvalidDocumentID
	}

	query := `
		SELECT actor, counter, seq, op_type,
		       origin_actor, origin_counter, target_actor, target_counter, value
		FROM operations
		WHERE document_id = ?
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ops = make([]models.Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ops, nil
}

// ListDocuments returns ids of every document with at least one operation, sorted.
func (s *Storage) ListDocuments(ctx context.Context) (ids []string, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT document_id FROM operations ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ids = make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// scanOperation собирает операцию из строки выборки
func scanOperation(rows *sql.Rows) (models.Operation, error) {
	var (
		op                           models.Operation
		opType                       string
		counter, seq                 int64
		originCounter, targetCounter int64
		value                        int64
	)

	err := rows.Scan(
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
		return models.Operation{}, fmt.Errorf("failed to scan operation: %w", err)
	}

	op.ID.Counter = uint64(counter)
	op.Seq = uint64(seq)
	op.Type = models.OpType(opType)
	op.Origin.Counter = uint64(originCounter)
	op.Target.Counter = uint64(targetCounter)
	op.Value = rune(value)

	return op, nil
}
