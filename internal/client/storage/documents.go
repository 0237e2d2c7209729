package storage

import (
	"context"

	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
)

//go:generate moq -out documentstorage_mock.go . DocumentStorage

// DocumentStorage defines interface for the local operation log of documents.
// The document text is never stored: it is rebuilt by replaying the log.
type DocumentStorage interface {
	// SaveOperations appends ops to the document log and stores the clock
	// state in the same transaction, so a restarted replica never issues
	// an id it has already used. Operations already in the log are skipped.
	SaveOperations(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error

	// LoadDocument returns the log in the order it was saved. A removed
	// document comes back with an empty log and its last clock state.
	// Returns ErrDocumentNotFound if nothing was ever saved for docID
	LoadDocument(ctx context.Context, docID string) (*StoredDocument, error)

	// ListDocuments returns ids of all saved documents, sorted
	ListDocuments(ctx context.Context) ([]string, error)

	// DeleteDocument removes the document log but keeps its clock state.
	// Returns ErrDocumentNotFound if the document does not exist
	DeleteDocument(ctx context.Context, docID string) error
}

// StoredDocument is the persisted state of one document replica.
type StoredDocument struct {
	ID         string
	Operations []models.Operation
	Clock      crdt.ClockState
}
