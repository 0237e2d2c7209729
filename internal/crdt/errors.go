package crdt

import "errors"

// Ошибки протокола слияния. Ни одна из них не является фатальной.
var (
	// ErrOutOfRange returned when an edit addresses a visible index that does not exist.
	// The edit is rejected without touching the document.
	ErrOutOfRange = errors.New("index out of range")

	// ErrUnknownOrigin означает, что удаленная вставка ссылается на еще не полученный элемент.
	// Наружу не выходит: операция буферизуется до прихода зависимости.
	ErrUnknownOrigin = errors.New("unknown origin")

	// ErrClockExhausted returned when the local clock cannot issue enough ids for an edit.
	ErrClockExhausted = errors.New("clock exhausted")

	// ErrInvalidOperation returned for structurally broken operations (wire corruption).
	ErrInvalidOperation = errors.New("invalid operation")
)
