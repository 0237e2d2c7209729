package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// connectedPeers число подключенных websocket-клиентов
	connectedPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "connected_peers",
		Help:      "Number of connected sync clients",
	})

	// openDocuments число документов, загруженных в память
	openDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "open_documents",
		Help:      "Number of documents held in memory",
	})

	// framesReceived кадры от клиентов и брокера.
	// Labels: type (summary, ops, awareness), source (client, broker)
	framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "frames_received_total",
		Help:      "Total sync frames received",
	}, []string{"type", "source"})

	// operationsReceived исход применения полученных операций.
	// Labels: result (applied, duplicate, buffered)
	operationsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "operations_received_total",
		Help:      "Total operations received by outcome",
	}, []string{"result"})

	// droppedClients клиенты, отключенные из-за переполненной очереди
	droppedClients = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "dropped_clients_total",
		Help:      "Total clients disconnected because their outbox was full",
	})

	// storageErrors ошибки записи журнала операций
	storageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notesync",
		Subsystem: "hub",
		Name:      "storage_errors_total",
		Help:      "Total failed writes to the operation log",
	})
)
