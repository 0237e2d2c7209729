package storage

import "errors"

// Common storage errors
var (
	// ErrInvalidDocumentID indicates an empty or malformed document id
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrInvalidOperation indicates an operation that cannot be stored
	ErrInvalidOperation = errors.New("invalid operation")
)
