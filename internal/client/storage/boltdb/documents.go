package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/notesync/internal/client/storage"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
)

// Структура bucket документа:
//
//	documents/<docID>/ops   порядковый номер записи (BigEndian) -> JSON операции
//	documents/<docID>/ids   ключ идентификатора операции -> пусто (дедупликация)
//	clocks/<docID>          JSON состояния часов, остается после удаления документа
var (
	bucketOps = []byte("ops")
	bucketIDs = []byte("ids")
	// keyClock место часов в формате версии 1
	keyClock = []byte("clock")
)

// SaveOperations appends new operations to the document log and stores the
// clock state in one transaction.
func (s *Storage) SaveOperations(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if docID == "" {
		return fmt.Errorf("document id is empty")
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		doc, err := tx.Bucket(bucketDocuments).CreateBucketIfNotExists([]byte(docID))
		if err != nil {
			return fmt.Errorf("failed to create document bucket: %w", err)
		}
		opsBucket, err := doc.CreateBucketIfNotExists(bucketOps)
		if err != nil {
			return fmt.Errorf("failed to create ops bucket: %w", err)
		}
		ids, err := doc.CreateBucketIfNotExists(bucketIDs)
		if err != nil {
			return fmt.Errorf("failed to create ids bucket: %w", err)
		}

		for _, op := range ops {
			key := idKey(op.ID)
			if ids.Get(key) != nil {
				continue
			}

			data, err := json.Marshal(op)
			if err != nil {
				return fmt.Errorf("failed to marshal operation %s: %w", op.ID, err)
			}
			seq, err := opsBucket.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate log position: %w", err)
			}
			if err := opsBucket.Put(itob(seq), data); err != nil {
				return fmt.Errorf("failed to save operation %s: %w", op.ID, err)
			}
			if err := ids.Put(key, []byte{}); err != nil {
				return fmt.Errorf("failed to index operation %s: %w", op.ID, err)
			}
		}

		return saveClock(tx, docID, clock)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// LoadDocument returns the operation log and the clock state of a document
func (s *Storage) LoadDocument(ctx context.Context, docID string) (*storage.StoredDocument, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	result := &storage.StoredDocument{ID: docID}

	err := s.db.View(func(tx *bbolt.Tx) error {
		doc := tx.Bucket(bucketDocuments).Bucket([]byte(docID))
		rawClock := tx.Bucket(bucketClocks).Get([]byte(docID))
		if doc == nil && rawClock == nil {
			return storage.ErrDocumentNotFound
		}

		if rawClock != nil {
			if err := json.Unmarshal(rawClock, &result.Clock); err != nil {
				return fmt.Errorf("failed to unmarshal clock: %w", err)
			}
		}
		// Удаленный документ: журнала нет, часы сохранены
		if doc == nil {
			return nil
		}

		opsBucket := doc.Bucket(bucketOps)
		if opsBucket == nil {
			return nil
		}

		// Ключи BigEndian, ForEach идет в порядке записи
		return opsBucket.ForEach(func(k, v []byte) error {
			var op models.Operation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("failed to unmarshal operation at %d: %w", binary.BigEndian.Uint64(k), err)
			}
			result.Operations = append(result.Operations, op)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListDocuments returns ids of all documents with a saved log
func (s *Storage) ListDocuments(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var ids []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEachBucket(func(k []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// DeleteDocument removes the document log. The clock state is kept, so
// the replica never issues an id it has already used for the document.
func (s *Storage) DeleteDocument(ctx context.Context, docID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketDocuments).DeleteBucket([]byte(docID))
		if errors.Is(err, berrors.ErrBucketNotFound) {
			return storage.ErrDocumentNotFound
		}
		return err
	})
}

// saveClock сохраняет часы документа. Часы никогда не откатываются назад.
func saveClock(tx *bbolt.Tx, docID string, clock crdt.ClockState) error {
	clocks := tx.Bucket(bucketClocks)

	if raw := clocks.Get([]byte(docID)); raw != nil {
		var stored crdt.ClockState
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal clock: %w", err)
		}
		clock.Counter = max(clock.Counter, stored.Counter)
		clock.Seq = max(clock.Seq, stored.Seq)
	}

	data, err := json.Marshal(clock)
	if err != nil {
		return fmt.Errorf("failed to marshal clock: %w", err)
	}
	if err := clocks.Put([]byte(docID), data); err != nil {
		return fmt.Errorf("failed to save clock: %w", err)
	}
	return nil
}

// idKey: счетчик BigEndian + актор
func idKey(id models.OperationID) []byte {
	key := make([]byte, 8, 8+len(id.Actor))
	binary.BigEndian.PutUint64(key, id.Counter)
	return append(key, id.Actor...)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
