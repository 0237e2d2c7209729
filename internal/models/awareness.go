package models

import (
	"encoding/json"
	"time"
)

// AwarenessEntry хранит эфемерное состояние присутствия одного пира
// (курсор, выделение). Никогда не сохраняется на диск.
type AwarenessEntry struct {
	Timestamp time.Time       `json:"timestamp"` // Timestamp время отправки heartbeat на стороне пира
	LastSeen  time.Time       `json:"-"`         // LastSeen локальное время получения последнего heartbeat
	PeerID    string          `json:"peer_id"`
	State     json.RawMessage `json:"state"`
}

// Clone создает глубокую копию записи
func (e *AwarenessEntry) Clone() *AwarenessEntry {
	state := make(json.RawMessage, len(e.State))
	copy(state, e.State)

	return &AwarenessEntry{
		PeerID:    e.PeerID,
		State:     state,
		Timestamp: e.Timestamp,
		LastSeen:  e.LastSeen,
	}
}
