package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudanet/notesync/internal/server/hub"
	"github.com/iudanet/notesync/internal/transport"
)

// SyncHub подключает пиров к документам
type SyncHub interface {
	Join(ctx context.Context, docID, peerID string) (*hub.Client, error)
	Leave(c *hub.Client)
}

// SyncHandler handles websocket sync connections
type SyncHandler struct {
	logger *slog.Logger
	hub    SyncHub
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(logger *slog.Logger, h SyncHub) *SyncHandler {
	return &SyncHandler{
		logger: logger,
		hub:    h,
	}
}

// HandleSync обрабатывает GET /ws/{id}?peer=<actor>
// Пир подключается к комнате до апгрейда, чтобы ошибки ушли обычным HTTP ответом
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["id"]
	peerID := r.URL.Query().Get("peer")

	client, err := h.hub.Join(r.Context(), docID, peerID)
	switch {
	case errors.Is(err, hub.ErrInvalidPeer):
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, hub.ErrHubClosed):
		sendError(w, h.logger, "server is shutting down", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.logger.Error("Failed to join document", "document_id", docID, "peer_id", peerID, "error", err)
		sendError(w, h.logger, "failed to open document", http.StatusInternalServerError)
		return
	}
	defer h.hub.Leave(client)

	conn, err := transport.Upgrade(w, r)
	if err != nil {
		// upgrader уже ответил клиенту
		h.logger.Warn("Websocket upgrade failed", "document_id", docID, "peer_id", peerID, "error", err)
		return
	}

	logger := h.logger.With("document_id", docID, "peer_id", peerID, "remote", conn.RemoteAddr())
	logger.Debug("Sync connection opened")

	if err := transport.Serve(r.Context(), conn, client.Outbox(), client.Handle, logger); err != nil {
		logger.Warn("Sync connection failed", "error", err)
		return
	}
	logger.Debug("Sync connection closed")
}
