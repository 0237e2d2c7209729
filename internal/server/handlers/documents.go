package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudanet/notesync/internal/server/hub"
	"github.com/iudanet/notesync/pkg/api"
)

//go:generate moq -out documentreader_mock.go . DocumentReader

// DocumentReader отдает состояние документов
type DocumentReader interface {
	Document(ctx context.Context, docID string) (api.DocumentResponse, error)
	Documents(ctx context.Context) ([]string, error)
}

// DocumentsHandler handles read-only document endpoints
type DocumentsHandler struct {
	logger *slog.Logger
	docs   DocumentReader
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(logger *slog.Logger, docs DocumentReader) *DocumentsHandler {
	return &DocumentsHandler{
		logger: logger,
		docs:   docs,
	}
}

// List обрабатывает GET /api/v1/documents
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.docs.Documents(r.Context())
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		sendError(w, h.logger, "failed to list documents", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, api.DocumentListResponse{Documents: ids}, http.StatusOK)
}

// Get обрабатывает GET /api/v1/documents/{id}
// Возвращает текст, сводку и присутствие пиров
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	docID := mux.Vars(r)["id"]
	if docID == "" {
		sendError(w, h.logger, "document id is required", http.StatusBadRequest)
		return
	}

	doc, err := h.docs.Document(r.Context(), docID)
	if errors.Is(err, hub.ErrDocumentNotFound) {
		sendError(w, h.logger, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load document", "document_id", docID, "error", err)
		sendError(w, h.logger, "failed to load document", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, doc, http.StatusOK)
}
