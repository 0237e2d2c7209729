// Package boltdb keeps the client replicas in a single BoltDB file.
package boltdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// formatVersion версия раскладки бакетов в файле.
// 2: часы документов вынесены в бакет clocks и переживают удаление документа
const formatVersion uint64 = 2

// openTimeout ожидание файловой блокировки, пока файл занят другим процессом
const openTimeout = time.Second

var keyFormatVersion = []byte("format_version")

var (
	bucketDocuments = []byte("documents") // вложенный бакет на документ
	bucketClocks    = []byte("clocks")    // docID -> JSON состояния часов
	bucketMetadata  = []byte("metadata")
)

// ErrUnsupportedFormat returned by New for a file written by a newer client
var ErrUnsupportedFormat = errors.New("unsupported database format")

// Storage is the client storage backed by BoltDB. It implements both
// storage.DocumentStorage and storage.MetadataStorage.
type Storage struct {
	db *bbolt.DB
}

// New opens the database file at dbPath, creating it when missing.
// It fails instead of waiting when another process holds the file.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: openTimeout})
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, fmt.Errorf("database %s is used by another process: %w", dbPath, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	if err := db.Update(s.prepare); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to prepare database: %w", err), db.Close())
	}

	return s, nil
}

// prepare создает бакеты и проверяет версию формата
func (s *Storage) prepare(tx *bbolt.Tx) error {
	for _, name := range [][]byte{bucketDocuments, bucketClocks, bucketMetadata} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", name, err)
		}
	}

	meta := tx.Bucket(bucketMetadata)
	var version uint64
	if raw := meta.Get(keyFormatVersion); raw != nil {
		if len(raw) != 8 {
			return fmt.Errorf("%w: malformed version", ErrUnsupportedFormat)
		}
		version = binary.BigEndian.Uint64(raw)
	}

	switch {
	case version > formatVersion:
		return fmt.Errorf("%w: version %d, supported %d", ErrUnsupportedFormat, version, formatVersion)
	case version == formatVersion:
		return nil
	case version == 1:
		if err := moveClocks(tx); err != nil {
			return fmt.Errorf("failed to migrate from version 1: %w", err)
		}
	}

	return meta.Put(keyFormatVersion, binary.BigEndian.AppendUint64(nil, formatVersion))
}

// moveClocks переносит часы из бакетов документов (версия 1) в бакет clocks
func moveClocks(tx *bbolt.Tx) error {
	docs := tx.Bucket(bucketDocuments)

	// Бакет нельзя менять во время обхода
	var ids [][]byte
	if err := docs.ForEachBucket(func(k []byte) error {
		ids = append(ids, append([]byte(nil), k...))
		return nil
	}); err != nil {
		return err
	}

	clocks := tx.Bucket(bucketClocks)
	for _, id := range ids {
		doc := docs.Bucket(id)
		raw := doc.Get(keyClock)
		if raw == nil {
			continue
		}
		if err := clocks.Put(id, append([]byte(nil), raw...)); err != nil {
			return err
		}
		if err := doc.Delete(keyClock); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database. Closing twice is a no-op.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
