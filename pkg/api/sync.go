package api

import (
	"encoding/json"
	"time"
)

// FrameType различает три вида кадров протокола синхронизации
type FrameType string

// Виды кадров
const (
	FrameSummary   FrameType = "summary"   // сводка: последний непрерывный seq каждого актора
	FrameOps       FrameType = "ops"       // пакет операций
	FrameAwareness FrameType = "awareness" // состояние присутствия пира
)

// Frame is one message of the sync protocol. Exactly one payload field is
// set, matching Type.
type Frame struct {
	Summary   map[string]uint64 `json:"summary,omitempty"`
	Awareness *AwarenessEntry   `json:"awareness,omitempty"`
	Type      FrameType         `json:"type"`
	From      string            `json:"from,omitempty"`     // актор-отправитель
	Document  string            `json:"document,omitempty"` // идентификатор документа
	Ops       []Operation       `json:"ops,omitempty"`
}

// OperationID идентификатор операции на проводе
type OperationID struct {
	Actor   string `json:"actor"`
	Counter uint64 `json:"counter"`
}

// Operation представляет одну операцию в кадре ops
type Operation struct {
	ID     OperationID  `json:"id"`
	Origin *OperationID `json:"origin,omitempty"` // nil - начало документа
	Target *OperationID `json:"target,omitempty"` // только для delete
	OpType string       `json:"op_type"`          // insert | delete
	Value  string       `json:"value,omitempty"`  // один символ для insert
	Seq    uint64       `json:"seq"`
}

// AwarenessEntry представляет состояние присутствия пира
type AwarenessEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	PeerID    string          `json:"peer_id"`
	State     json.RawMessage `json:"state"`
}
