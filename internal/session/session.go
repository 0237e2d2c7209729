// Package session tracks what every connected peer already has and computes
// the operations each of them is missing.
package session

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
)

// ErrUnknownPeer returned for a peer that has no open sync state.
var ErrUnknownPeer = errors.New("peer is not connected")

//go:generate moq -out engine_mock.go . Engine

// Engine is the part of the merge engine a session works with.
type Engine interface {
	Summary() models.VersionVector
	OperationsSince(v models.VersionVector) []models.Operation
	ApplyRemoteOps(ops []models.Operation) (crdt.BatchResult, error)
}

// PeerState is the sync state of one connected peer.
type PeerState struct {
	OpenedAt time.Time `json:"opened_at"`
	// Known операции, которые точно есть у пира (по seq каждого актора)
	Known    models.VersionVector `json:"known"`
	PeerID   string               `json:"peer_id"`
	Sent     int                  `json:"sent"`
	Received int                  `json:"received"`
	// Summarized пир прислал свою сводку
	Summarized bool `json:"summarized"`
}

func (p *PeerState) clone() PeerState {
	c := *p
	c.Known = p.Known.Clone()
	return c
}

// Session holds the sync state of every connected peer of one document.
// State lives only as long as the connection: a reconnect starts from the
// summary exchange again.
type Session struct {
	engine Engine
	logger *slog.Logger
	peers  map[string]*PeerState
	mu     sync.Mutex
}

// New creates a session over the engine.
func New(engine Engine, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		engine: engine,
		logger: logger,
		peers:  make(map[string]*PeerState),
	}
}

// Open creates fresh sync state for the peer, dropping any previous state.
func (s *Session) Open(peerID string) PeerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &PeerState{
		PeerID:   peerID,
		Known:    make(models.VersionVector),
		OpenedAt: time.Now(),
	}
	s.peers[peerID] = p

	s.logger.Debug("Sync state opened", "peer_id", peerID)
	return p.clone()
}

// Close discards the peer's sync state. Unsent operations are not lost:
// they stay in the engine log and go out with the next delta.
func (s *Session) Close(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.peers[peerID]; ok {
		s.logger.Debug("Sync state closed", "peer_id", peerID, "sent", p.Sent, "received", p.Received)
		delete(s.peers, peerID)
	}
}

// Peer returns a copy of the peer's sync state.
func (s *Session) Peer(peerID string) (PeerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.peers[peerID]
	if !ok {
		return PeerState{}, false
	}
	return p.clone(), true
}

// Peers returns the ids of connected peers, sorted.
func (s *Session) Peers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.peers))
	for id := range s.peers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ComputeDelta returns the operations not covered by summary.
func (s *Session) ComputeDelta(summary models.VersionVector) []models.Operation {
	return s.engine.OperationsSince(summary)
}

// HandleSummary records the summary a peer sent on connect and returns the
// operations it is missing. The returned operations are counted as known
// to the peer, so later forwards do not repeat them.
func (s *Session) HandleSummary(peerID string, summary models.VersionVector) ([]models.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.peers[peerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, peerID)
	}

	p.Known.Merge(summary)
	p.Summarized = true

	// Сводка берется до дельты: операция, появившаяся между вызовами,
	// попадет в дельту, но не будет отмечена как известная пиру
	local := s.engine.Summary()
	delta := s.engine.OperationsSince(p.Known)
	p.Known.Merge(local)
	p.Sent += len(delta)

	s.logger.Debug("Summary received",
		"peer_id", peerID,
		"peer_summary", summary,
		"delta", len(delta))

	return delta, nil
}

// ReceiveDelta applies operations sent by the peer and records that the
// peer has them.
func (s *Session) ReceiveDelta(peerID string, ops []models.Operation) (crdt.BatchResult, error) {
	s.mu.Lock()
	p, ok := s.peers[peerID]
	if !ok {
		s.mu.Unlock()
		return crdt.BatchResult{}, fmt.Errorf("%w: %s", ErrUnknownPeer, peerID)
	}
	p.Received += len(ops)
	observe(p.Known, ops)
	s.mu.Unlock()

	res, err := s.engine.ApplyRemoteOps(ops)
	if err != nil {
		return res, fmt.Errorf("failed to apply delta from %s: %w", peerID, err)
	}
	return res, nil
}

// Forward splits ops into per-peer batches for every connected peer except
// from, leaving out what each peer already has. Peers that have not sent
// their summary yet are skipped: they get everything with their delta.
func (s *Session) Forward(ops []models.Operation, from string) map[string][]models.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches := make(map[string][]models.Operation)
	for peerID, p := range s.peers {
		if peerID == from || !p.Summarized {
			continue
		}

		var batch []models.Operation
		for _, op := range ops {
			if !p.Known.Includes(op) {
				batch = append(batch, op)
			}
		}
		if len(batch) == 0 {
			continue
		}

		observe(p.Known, batch)
		p.Sent += len(batch)
		batches[peerID] = batch
	}
	return batches
}

// observe продвигает вектор по операциям, упорядоченным по seq внутри актора.
func observe(v models.VersionVector, ops []models.Operation) {
	sorted := slices.Clone(ops)
	slices.SortFunc(sorted, func(a, b models.Operation) int {
		if c := cmp.Compare(a.ID.Actor, b.ID.Actor); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	for _, op := range sorted {
		v.Observe(op.ID.Actor, op.Seq)
	}
}
