// Package server assembles the HTTP surface of the sync server.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/notesync/internal/server/handlers"
	"github.com/iudanet/notesync/internal/server/middleware"
)

// Пути HTTP API
const (
	HealthPath    = "/api/v1/health"
	DocumentsPath = "/api/v1/documents"
	SyncPrefix    = "/ws/"
	MetricsPath   = "/metrics"
)

// Hub is everything the routes need from the document hub.
type Hub interface {
	handlers.SyncHub
	handlers.DocumentReader
	handlers.DocumentCounter
}

// Options настройки маршрутизатора
type Options struct {
	Version string
	// Запросов в минуту с одного IP; 0 отключает лимит
	APIRateLimit  int
	SyncRateLimit int
}

// NewRouter returns the server handler with every route and middleware
// attached. stop releases the rate limiters and must be called on shutdown.
func NewRouter(h Hub, logger *slog.Logger, opts Options) (handler http.Handler, stop func()) {
	health := handlers.NewHealthHandler(logger, h, opts.Version)
	docs := handlers.NewDocumentsHandler(logger, h)
	syncHandler := handlers.NewSyncHandler(logger, h)

	r := mux.NewRouter()
	r.HandleFunc(HealthPath, health.Health).Methods(http.MethodGet)
	r.HandleFunc(DocumentsPath, docs.List).Methods(http.MethodGet)
	r.HandleFunc(DocumentsPath+"/{id}", docs.Get).Methods(http.MethodGet)
	r.HandleFunc(SyncPrefix+"{id}", syncHandler.HandleSync).Methods(http.MethodGet)
	r.Handle(MetricsPath, promhttp.Handler()).Methods(http.MethodGet)

	limit, stop := middleware.RateLimitMiddleware([]middleware.Limit{
		{Prefix: "/api/", Rate: opts.APIRateLimit, Window: time.Minute},
		{Prefix: SyncPrefix, Rate: opts.SyncRateLimit, Window: time.Minute},
	}, logger)

	// Порядок: logging -> recovery -> rate limit -> маршруты
	handler = middleware.LoggingMiddleware(logger, HealthPath, MetricsPath)(
		middleware.RecoveryMiddleware(logger)(
			limit(r),
		),
	)

	return handler, stop
}
