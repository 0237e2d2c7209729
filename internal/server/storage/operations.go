package storage

import (
	"context"
	"fmt"

	"github.com/iudanet/notesync/internal/models"
)

//go:generate moq -out operationstorage_mock.go . OperationStorage

// OperationStorage defines interface for the server-side operation log.
// The log of a document is append-only and holds every operation the
// server has accepted, tombstones included.
type OperationStorage interface {
	// AppendOperations stores operations that are not stored yet.
	// Operations already present (same document, actor and counter) are
	// skipped, so a retried batch is harmless.
	// Returns the number of newly stored operations.
	AppendOperations(ctx context.Context, docID string, ops []models.Operation) (int, error)

	// LoadOperations returns the log of a document in append order.
	// Returns empty slice for a document that has no operations.
	LoadOperations(ctx context.Context, docID string) ([]models.Operation, error)

	// ListDocuments returns ids of every document with at least one
	// operation, sorted.
	ListDocuments(ctx context.Context) ([]string, error)
}

// ValidateBatch проверяет идентификатор документа и каждую операцию
// перед записью. Общая проверка для всех реализаций.
func ValidateBatch(docID string, ops []models.Operation) error {
	if docID == "" {
		return ErrInvalidDocumentID
	}
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
		}
	}
	return nil
}
