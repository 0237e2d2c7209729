package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadatastorage_mock.go . MetadataStorage

// MetadataStorage defines interface for storing replica metadata
type MetadataStorage interface {
	// GetActorID returns the actor id of this replica.
	// Returns ErrActorNotFound on the first start
	GetActorID(ctx context.Context) (string, error)

	// SaveActorID stores the actor id of this replica
	SaveActorID(ctx context.Context, actorID string) error

	// SaveLastSync saves the time of the last successful exchange with the server
	SaveLastSync(ctx context.Context, docID string, at time.Time) error

	// GetLastSync returns zero time if the document was never synchronized
	GetLastSync(ctx context.Context, docID string) (time.Time, error)
}
