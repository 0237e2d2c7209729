package storage

import "errors"

// Common client storage errors
var (
	// ErrDocumentNotFound indicates that the document has never been saved
	ErrDocumentNotFound = errors.New("document not found")

	// ErrActorNotFound indicates that the replica has no actor id yet
	ErrActorNotFound = errors.New("actor id not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
