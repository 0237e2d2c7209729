// Package transport carries sync frames between replicas: JSON codec,
// websocket connection and a reconnecting dialer.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/pkg/api"
)

// ErrInvalidFrame returned for frames that cannot be decoded or whose
// payload does not match their type.
var ErrInvalidFrame = errors.New("invalid frame")

// Encode serializes a frame after checking that it is well-formed.
func Encode(frame api.Frame) ([]byte, error) {
	if err := validate(frame); err != nil {
		return nil, err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frame: %w", err)
	}
	return data, nil
}

// Decode parses and validates a frame.
func Decode(data []byte) (api.Frame, error) {
	var frame api.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return api.Frame{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if err := validate(frame); err != nil {
		return api.Frame{}, err
	}
	return frame, nil
}

func validate(frame api.Frame) error {
	switch frame.Type {
	case api.FrameSummary:
		// пустая сводка допустима: новый пир еще ничего не видел
		return nil
	case api.FrameOps:
		if len(frame.Ops) == 0 {
			return fmt.Errorf("%w: ops frame without operations", ErrInvalidFrame)
		}
		return nil
	case api.FrameAwareness:
		if frame.Awareness == nil || frame.Awareness.PeerID == "" {
			return fmt.Errorf("%w: awareness frame without peer", ErrInvalidFrame)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFrame, frame.Type)
	}
}

// SummaryFrame builds a summary frame.
func SummaryFrame(document, from string, summary models.VersionVector) api.Frame {
	return api.Frame{
		Type:     api.FrameSummary,
		From:     from,
		Document: document,
		Summary:  summary.Clone(),
	}
}

// OpsFrame builds an operations frame.
func OpsFrame(document, from string, ops []models.Operation) api.Frame {
	return api.Frame{
		Type:     api.FrameOps,
		From:     from,
		Document: document,
		Ops:      OperationsToWire(ops),
	}
}

// AwarenessFrame builds an awareness frame.
func AwarenessFrame(document, from string, entry models.AwarenessEntry) api.Frame {
	return api.Frame{
		Type:      api.FrameAwareness,
		From:      from,
		Document:  document,
		Awareness: AwarenessToWire(entry),
	}
}

// OperationsToWire converts operations to their wire form.
func OperationsToWire(ops []models.Operation) []api.Operation {
	result := make([]api.Operation, 0, len(ops))
	for _, op := range ops {
		w := api.Operation{
			ID:     idToWire(op.ID),
			OpType: string(op.Type),
			Seq:    op.Seq,
		}
		switch op.Type {
		case models.OpInsert:
			if !op.Origin.IsZero() {
				origin := idToWire(op.Origin)
				w.Origin = &origin
			}
			w.Value = string(op.Value)
		case models.OpDelete:
			target := idToWire(op.Target)
			w.Target = &target
		}
		result = append(result, w)
	}
	return result
}

// OperationsFromWire converts wire operations back and validates them.
func OperationsFromWire(ops []api.Operation) ([]models.Operation, error) {
	result := make([]models.Operation, 0, len(ops))
	for i, w := range ops {
		op := models.Operation{
			ID:   idFromWire(w.ID),
			Type: models.OpType(w.OpType),
			Seq:  w.Seq,
		}
		if w.Origin != nil {
			op.Origin = idFromWire(*w.Origin)
		}
		if w.Target != nil {
			op.Target = idFromWire(*w.Target)
		}
		if op.Type == models.OpInsert {
			r, size := utf8.DecodeRuneInString(w.Value)
			if size == 0 || size != len(w.Value) || (r == utf8.RuneError && size == 1) {
				return nil, fmt.Errorf("%w: operation %d must carry exactly one character, got %q", ErrInvalidFrame, i, w.Value)
			}
			op.Value = r
		}
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("%w: operation %d: %w", ErrInvalidFrame, i, err)
		}
		result = append(result, op)
	}
	return result, nil
}

// AwarenessToWire converts an awareness entry to its wire form.
func AwarenessToWire(entry models.AwarenessEntry) *api.AwarenessEntry {
	return &api.AwarenessEntry{
		PeerID:    entry.PeerID,
		State:     entry.State,
		Timestamp: entry.Timestamp,
	}
}

// AwarenessFromWire converts a wire awareness entry.
func AwarenessFromWire(entry *api.AwarenessEntry) models.AwarenessEntry {
	if entry == nil {
		return models.AwarenessEntry{}
	}
	return models.AwarenessEntry{
		PeerID:    entry.PeerID,
		State:     entry.State,
		Timestamp: entry.Timestamp,
	}
}

// SummaryFromWire converts a wire summary.
func SummaryFromWire(summary map[string]uint64) models.VersionVector {
	return models.VersionVector(summary).Clone()
}

func idToWire(id models.OperationID) api.OperationID {
	return api.OperationID{Actor: id.Actor, Counter: id.Counter}
}

func idFromWire(id api.OperationID) models.OperationID {
	return models.OperationID{Actor: id.Actor, Counter: id.Counter}
}
