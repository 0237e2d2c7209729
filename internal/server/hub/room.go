package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/server/storage"
	"github.com/iudanet/notesync/internal/session"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

// brokerPeer имя псевдо-пира, от имени которого применяются кадры других экземпляров
const brokerPeer = "broker"

// room держит состояние одного документа: движок слияния, сессию
// синхронизации, канал присутствия и подключенных клиентов
type room struct {
	engine  *crdt.Engine
	session *session.Session
	aware   *awareness.Channel
	store   storage.OperationStorage
	broker  Broker
	logger  *slog.Logger
	clients map[string]*Client
	cancel  context.CancelFunc

	id       string
	instance string

	unsubscribe []func()
	outboxSize  int
	mu          sync.Mutex
}

// openRoom поднимает документ из журнала. Подписка на брокер оформляется
// до чтения журнала, чтобы не потерять операции, записанные в промежутке.
func openRoom(ctx context.Context, docID string, h *Hub) (*room, error) {
	logger := h.logger.With("document_id", docID)
	engine := crdt.NewEngine(crdt.NewClockWithActor(h.cfg.InstanceID), logger)

	r := &room{
		id:         docID,
		instance:   h.cfg.InstanceID,
		engine:     engine,
		session:    session.New(engine, logger),
		aware:      awareness.New(h.cfg.InstanceID, h.cfg.Awareness, nil, logger),
		store:      h.store,
		broker:     h.broker,
		logger:     logger,
		clients:    make(map[string]*Client),
		outboxSize: h.cfg.OutboxSize,
	}

	r.unsubscribe = append(r.unsubscribe, engine.Subscribe(r.persist))

	if r.broker != nil {
		r.session.Open(brokerPeer)
		unsubscribe, err := r.broker.Subscribe(ctx, docID, r.handleBroker)
		if err != nil {
			r.release()
			return nil, err
		}
		r.unsubscribe = append(r.unsubscribe, unsubscribe)
	}

	ops, err := r.store.LoadOperations(ctx, docID)
	if err != nil {
		r.release()
		return nil, err
	}
	if err := engine.Restore(ops, crdt.ClockState{}); err != nil {
		// битые записи пропускаются, остальной журнал применен
		logger.Warn("Skipped invalid operations in the log", "error", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go func() {
		_ = r.aware.Run(runCtx)
	}()

	logger.Info("Document opened", "operations", len(ops), "length", engine.VisibleLen())
	return r, nil
}

// persist дописывает в журнал операции, которые движок увидел впервые
func (r *room) persist(change crdt.Change) {
	if _, err := r.store.AppendOperations(context.Background(), r.id, change.Ops); err != nil {
		storageErrors.Inc()
		r.logger.Error("Failed to persist operations", "operations", len(change.Ops), "error", err)
	}
}

func (r *room) join(peerID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Повторное подключение того же актора вытесняет старое соединение
	if old, ok := r.clients[peerID]; ok {
		r.logger.Info("Peer reconnected, closing previous connection", "peer_id", peerID)
		old.close()
	} else {
		connectedPeers.Inc()
	}

	c := newClient(r, peerID, r.outboxSize)
	r.clients[peerID] = c
	r.session.Open(peerID)

	c.send(transport.SummaryFrame(r.id, r.instance, r.engine.Summary()))
	for _, entry := range r.aware.Entries() {
		if entry.PeerID != peerID {
			c.send(transport.AwarenessFrame(r.id, r.instance, entry))
		}
	}

	r.logger.Info("Peer joined", "peer_id", peerID, "peers", len(r.clients))
	return c
}

// leave отключает клиента и возвращает число оставшихся
func (r *room) leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.close()
	if current, ok := r.clients[c.peerID]; ok && current == c {
		delete(r.clients, c.peerID)
		r.session.Close(c.peerID)
		connectedPeers.Dec()
		r.logger.Info("Peer left", "peer_id", c.peerID, "peers", len(r.clients))
	}
	return len(r.clients)
}

func (r *room) handle(ctx context.Context, c *Client, frame api.Frame) error {
	if frame.Document != "" && frame.Document != r.id {
		r.logger.Debug("Ignoring frame for another document", "peer_id", c.peerID, "frame_document", frame.Document)
		return nil
	}
	framesReceived.WithLabelValues(string(frame.Type), "client").Inc()

	switch frame.Type {
	case api.FrameSummary:
		delta, err := r.session.HandleSummary(c.peerID, transport.SummaryFromWire(frame.Summary))
		if err != nil {
			return err
		}
		if len(delta) > 0 {
			c.send(transport.OpsFrame(r.id, r.instance, delta))
		}

	case api.FrameOps:
		ops, err := transport.OperationsFromWire(frame.Ops)
		if err != nil {
			r.logger.Warn("Skipping malformed operations", "peer_id", c.peerID, "error", err)
			return nil
		}

		res, err := r.session.ReceiveDelta(c.peerID, ops)
		if errors.Is(err, session.ErrUnknownPeer) {
			return err
		}
		if err != nil {
			r.logger.Warn("Some operations were rejected", "peer_id", c.peerID, "error", err)
		}
		countOperations(res)

		if res.Applied+res.Buffered == 0 {
			return nil
		}
		r.forward(ops, c.peerID)
		r.publish(ctx, transport.OpsFrame(r.id, c.peerID, ops))

	case api.FrameAwareness:
		entry := transport.AwarenessFromWire(frame.Awareness)
		if entry.PeerID != c.peerID {
			r.logger.Warn("Ignoring awareness for another peer", "peer_id", c.peerID, "entry_peer", entry.PeerID)
			return nil
		}
		if !r.aware.Receive(entry) {
			return nil
		}
		r.relay(frame, c.peerID)
		r.publish(ctx, frame)
	}

	return nil
}

// handleBroker применяет кадр, пришедший от другого экземпляра сервера
func (r *room) handleBroker(frame api.Frame) {
	framesReceived.WithLabelValues(string(frame.Type), "broker").Inc()

	switch frame.Type {
	case api.FrameOps:
		ops, err := transport.OperationsFromWire(frame.Ops)
		if err != nil {
			r.logger.Warn("Skipping malformed operations from broker", "error", err)
			return
		}
		res, err := r.session.ReceiveDelta(brokerPeer, ops)
		if err != nil {
			r.logger.Warn("Failed to apply operations from broker", "error", err)
		}
		countOperations(res)
		if res.Applied+res.Buffered > 0 {
			r.forward(ops, brokerPeer)
		}

	case api.FrameAwareness:
		if r.aware.Receive(transport.AwarenessFromWire(frame.Awareness)) {
			r.relay(frame, "")
		}
	}
}

// forward рассылает операции пирам, у которых их еще нет
func (r *room) forward(ops []models.Operation, from string) {
	for peerID, batch := range r.session.Forward(ops, from) {
		if c := r.client(peerID); c != nil {
			c.send(transport.OpsFrame(r.id, r.instance, batch))
		}
	}
}

// relay пересылает кадр присутствия всем клиентам, кроме except
func (r *room) relay(frame api.Frame, except string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for peerID, c := range r.clients {
		if peerID != except {
			c.send(frame)
		}
	}
}

func (r *room) publish(ctx context.Context, frame api.Frame) {
	if r.broker == nil {
		return
	}
	if err := r.broker.Publish(ctx, r.id, frame); err != nil {
		r.logger.Warn("Failed to publish frame to broker", "type", frame.Type, "error", err)
	}
}

func (r *room) client(peerID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.clients[peerID]
}

// snapshot собирает текущее состояние документа для HTTP API
func (r *room) snapshot() api.DocumentResponse {
	resp := documentResponse(r.id, r.engine)

	for peerID, state := range r.aware.RemoteStates() {
		resp.Peers[peerID] = api.PeerStatus{
			LastSeen: state.LastSeen,
			State:    json.RawMessage(state.State),
			Color:    awareness.Color(peerID),
			Online:   state.Online,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for peerID := range r.clients {
		status, ok := resp.Peers[peerID]
		if !ok {
			status = api.PeerStatus{Color: awareness.Color(peerID)}
		}
		status.Connected = true
		resp.Peers[peerID] = status
	}

	return resp
}

// close отключает всех клиентов и останавливает фоновые задачи
func (r *room) close() {
	r.mu.Lock()
	for peerID, c := range r.clients {
		c.close()
		delete(r.clients, peerID)
		connectedPeers.Dec()
	}
	r.mu.Unlock()

	r.release()
	r.logger.Info("Document closed")
}

func (r *room) release() {
	if r.cancel != nil {
		r.cancel()
	}
	for _, unsubscribe := range r.unsubscribe {
		unsubscribe()
	}
	r.unsubscribe = nil
}

func documentResponse(docID string, engine *crdt.Engine) api.DocumentResponse {
	return api.DocumentResponse{
		ID:         docID,
		Text:       engine.Text(),
		Summary:    engine.Summary(),
		Peers:      make(map[string]api.PeerStatus),
		Length:     engine.VisibleLen(),
		Elements:   len(engine.Elements()),
		Operations: len(engine.Operations()),
	}
}

func countOperations(res crdt.BatchResult) {
	operationsReceived.WithLabelValues("applied").Add(float64(res.Applied))
	operationsReceived.WithLabelValues("duplicate").Add(float64(res.Duplicate))
	operationsReceived.WithLabelValues("buffered").Add(float64(res.Buffered))
}
