package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/notesync/pkg/api"
)

// DocumentCounter сообщает число открытых документов
type DocumentCounter interface {
	OpenDocuments() int
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	docs    DocumentCounter
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, docs DocumentCounter, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		docs:    docs,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Documents: h.docs.OpenDocuments(),
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
