package crdt

import "github.com/iudanet/notesync/internal/models"

// CharElement is one inserted character of a document.
//
// Origin is the element that was immediately to the left when the character
// was typed, not necessarily its current neighbour. Deleted characters stay
// in the document as tombstones with Visible set to false.
type CharElement struct {
	ID      models.OperationID `json:"id"`
	Origin  models.OperationID `json:"origin"`
	Value   rune               `json:"value"`
	Visible bool               `json:"visible"`
}

// Operation возвращает операцию вставки, породившую элемент.
func (e CharElement) Operation(seq uint64) models.Operation {
	return models.Operation{
		ID:     e.ID,
		Origin: e.Origin,
		Type:   models.OpInsert,
		Seq:    seq,
		Value:  e.Value,
	}
}

// ApplyResult describes what happened to a remote operation.
type ApplyResult int

const (
	// Applied операция интегрирована в документ
	Applied ApplyResult = iota
	// Duplicate операция уже была применена ранее
	Duplicate
	// Buffered операция ждет свою зависимость
	Buffered
)

func (r ApplyResult) String() string {
	switch r {
	case Applied:
		return "applied"
	case Duplicate:
		return "duplicate"
	case Buffered:
		return "buffered"
	default:
		return "unknown"
	}
}
