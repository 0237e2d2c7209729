package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/notesync/internal/client/storage"
)

const (
	keyActorID        = "actor_id"
	keyLastSyncPrefix = "last_sync:"
)

// GetActorID returns the actor id of this replica
func (s *Storage) GetActorID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var actorID string

	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketMetadata).Get([]byte(keyActorID))
		if value == nil {
			return storage.ErrActorNotFound
		}
		actorID = string(value)
		return nil
	})
	if err != nil {
		return "", err
	}

	return actorID, nil
}

// SaveActorID stores the actor id of this replica
func (s *Storage) SaveActorID(ctx context.Context, actorID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if actorID == "" {
		return fmt.Errorf("actor id is empty")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketMetadata).Put([]byte(keyActorID), []byte(actorID)); err != nil {
			return fmt.Errorf("failed to save actor id: %w", err)
		}
		return nil
	})
}

// SaveLastSync saves the time of the last successful sync of a document
func (s *Storage) SaveLastSync(ctx context.Context, docID string, at time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		// Конвертируем время в bytes (unix nano)
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, uint64(at.UnixNano()))

		if err := tx.Bucket(bucketMetadata).Put([]byte(keyLastSyncPrefix+docID), value); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}
		return nil
	})
}

// GetLastSync returns zero time if the document was never synchronized
func (s *Storage) GetLastSync(ctx context.Context, docID string) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var at time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketMetadata).Get([]byte(keyLastSyncPrefix + docID))
		if value == nil {
			return nil
		}
		at = time.Unix(0, int64(binary.BigEndian.Uint64(value)))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return at, nil
}
