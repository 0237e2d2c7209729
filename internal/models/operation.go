package models

import (
	"fmt"
	"math"
	"strings"
)

// MaxCounter наибольший допустимый счетчик и seq: журнал сервера хранит их
// в знаковых 64-битных колонках
const MaxCounter uint64 = math.MaxInt64

// OperationID уникально идентифицирует операцию: актор + счетчик Лампорта.
// Счетчик каждого актора строго возрастает, но может иметь пропуски.
// Нулевой OperationID обозначает начало документа (head) и никогда не выдается часами.
type OperationID struct {
	Actor   string `json:"actor"`
	Counter uint64 `json:"counter"`
}

// IsZero reports whether id is the document head marker.
func (id OperationID) IsZero() bool {
	return id.Counter == 0 && id.Actor == ""
}

// Compare returns -1, 0 or +1.
// Ids are ordered by counter first, ties are broken by actor (lexicographically).
func (id OperationID) Compare(other OperationID) int {
	switch {
	case id.Counter < other.Counter:
		return -1
	case id.Counter > other.Counter:
		return 1
	}
	return strings.Compare(id.Actor, other.Actor)
}

// Less reports whether id sorts before other.
func (id OperationID) Less(other OperationID) bool {
	return id.Compare(other) < 0
}

func (id OperationID) String() string {
	if id.IsZero() {
		return "head"
	}
	return fmt.Sprintf("%s@%d", id.Actor, id.Counter)
}

// OpType тип операции над документом
type OpType string

// Типы операций
const (
	OpInsert OpType = "insert"
	OpDelete OpType = "delete"
)

// Operation is a single replicated edit.
//
// Inserts carry Origin (the element that was immediately left of the new
// character when it was typed) and Value. Deletes carry Target, the id of
// the tombstoned character. Both kinds have their own ID issued by the
// authoring actor. Seq is the gapless per-actor sequence number (1, 2, 3...)
// that version vectors are built from; ID.Counter orders characters.
type Operation struct {
	ID     OperationID `json:"id"`
	Origin OperationID `json:"origin"`
	Target OperationID `json:"target"`
	Type   OpType      `json:"op_type"`
	Seq    uint64      `json:"seq"`
	Value  rune        `json:"value"`
}

// Validate проверяет структурную корректность операции (не зависящую от состояния документа)
func (op Operation) Validate() error {
	if op.ID.Counter == 0 || op.ID.Actor == "" {
		return fmt.Errorf("operation id %q is not set", op.ID)
	}
	if op.Seq == 0 {
		return fmt.Errorf("operation %s has no sequence number", op.ID)
	}
	if op.ID.Counter > MaxCounter || op.Seq > MaxCounter ||
		op.Origin.Counter > MaxCounter || op.Target.Counter > MaxCounter {
		return fmt.Errorf("operation %s: counter exceeds %d", op.ID, MaxCounter)
	}

	switch op.Type {
	case OpInsert:
		// Origin не может ссылаться на саму вставку
		if op.Origin == op.ID {
			return fmt.Errorf("insert %s references itself as origin", op.ID)
		}
	case OpDelete:
		if op.Target.IsZero() {
			return fmt.Errorf("delete %s has no target", op.ID)
		}
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}

	return nil
}
