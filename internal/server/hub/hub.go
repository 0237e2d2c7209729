// Package hub is the server side of document sync: one room per open
// document, holding the merge engine, the per-peer sync state and the
// presence of every connected client.
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/server/storage"
	"github.com/iudanet/notesync/pkg/api"
)

// DefaultOutboxSize размер очереди исходящих кадров одного клиента
const DefaultOutboxSize = 256

var (
	// ErrDocumentNotFound returned for a document without operations that is not open
	ErrDocumentNotFound = errors.New("document not found")

	// ErrHubClosed returned by Join after Close
	ErrHubClosed = errors.New("hub is closed")

	// ErrInvalidPeer returned by Join for an empty document or peer id
	ErrInvalidPeer = errors.New("document id and peer id are required")
)

//go:generate moq -out broker_mock.go . Broker

// Broker fans frames out between server instances that share a database.
type Broker interface {
	// Publish sends a frame accepted by this instance to the others.
	Publish(ctx context.Context, docID string, frame api.Frame) error
	// Subscribe calls fn for every frame published by other instances.
	Subscribe(ctx context.Context, docID string, fn func(api.Frame)) (unsubscribe func(), err error)
}

// Config содержит настройки хаба
type Config struct {
	// InstanceID актор сервера в кадрах; пустой - случайный uuid
	InstanceID string
	Awareness  awareness.Config
	OutboxSize int
}

// Hub owns the rooms of every open document. A room is opened from the
// operation log when the first peer joins and closed when the last one
// leaves.
type Hub struct {
	store  storage.OperationStorage
	broker Broker
	logger *slog.Logger
	rooms  map[string]*room
	cfg    Config
	closed bool
	mu     sync.Mutex

	// active клиенты, которые еще не вызвали Leave
	active sync.WaitGroup
}

// New creates a hub. broker may be nil for a single instance deployment.
func New(store storage.OperationStorage, broker Broker, cfg Config, logger *slog.Logger) *Hub {
	if cfg.InstanceID == "" {
		cfg.InstanceID = "server-" + uuid.NewString()
	}
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = DefaultOutboxSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		store:  store,
		broker: broker,
		cfg:    cfg,
		logger: logger,
		rooms:  make(map[string]*room),
	}
}

// InstanceID returns the actor id the hub signs its frames with.
func (h *Hub) InstanceID() string {
	return h.cfg.InstanceID
}

// Join connects a peer to a document, opening the document on first use.
// The returned client already has the server summary and the known
// presence entries queued.
func (h *Hub) Join(ctx context.Context, docID, peerID string) (*Client, error) {
	if docID == "" || peerID == "" || peerID == brokerPeer || peerID == h.cfg.InstanceID {
		return nil, fmt.Errorf("%w: document %q, peer %q", ErrInvalidPeer, docID, peerID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	r, ok := h.rooms[docID]
	if !ok {
		var err error
		r, err = openRoom(ctx, docID, h)
		if err != nil {
			return nil, fmt.Errorf("failed to open document %s: %w", docID, err)
		}
		h.rooms[docID] = r
		openDocuments.Inc()
	}

	h.active.Add(1)
	return r.join(peerID), nil
}

// Leave disconnects the client. The room is closed when it was the last one.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.left {
		return
	}
	c.left = true
	defer h.active.Done()

	r, ok := h.rooms[c.room.id]
	if !ok || r != c.room {
		c.close()
		return
	}

	if r.leave(c) == 0 {
		delete(h.rooms, r.id)
		openDocuments.Dec()
		r.close()
	}
}

// Document returns the current state of a document. A document that is
// not open is rebuilt from the log without being kept in memory.
func (h *Hub) Document(ctx context.Context, docID string) (api.DocumentResponse, error) {
	h.mu.Lock()
	r, ok := h.rooms[docID]
	h.mu.Unlock()

	if ok {
		return r.snapshot(), nil
	}

	ops, err := h.store.LoadOperations(ctx, docID)
	if err != nil {
		return api.DocumentResponse{}, fmt.Errorf("failed to load document %s: %w", docID, err)
	}
	if len(ops) == 0 {
		return api.DocumentResponse{}, ErrDocumentNotFound
	}

	engine := crdt.NewEngine(crdt.NewClockWithActor(h.cfg.InstanceID), h.logger)
	if err := engine.Restore(ops, crdt.ClockState{}); err != nil {
		h.logger.Warn("Skipped invalid operations in the log", "document_id", docID, "error", err)
	}

	return documentResponse(docID, engine), nil
}

// Documents returns ids of stored and open documents, sorted.
func (h *Hub) Documents(ctx context.Context) ([]string, error) {
	ids, err := h.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	h.mu.Lock()
	for id := range h.rooms {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// OpenDocuments returns the number of documents held in memory.
func (h *Hub) OpenDocuments() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms)
}

// Shutdown closes the hub and waits until every joined client has called
// Leave, so no handler touches storage after it returns.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.Close()

	done := make(chan struct{})
	go func() {
		h.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("clients are still connected: %w", ctx.Err())
	}
}

// Close disconnects every client and closes every room. Join fails afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, r := range h.rooms {
		r.close()
		delete(h.rooms, id)
		openDocuments.Dec()
	}
}
