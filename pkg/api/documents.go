package api

import "time"

// DocumentResponse представляет текущее состояние документа на сервере
type DocumentResponse struct {
	Summary    map[string]uint64     `json:"summary"`
	Peers      map[string]PeerStatus `json:"peers"`
	ID         string                `json:"id"`
	Text       string                `json:"text"`
	Length     int                   `json:"length"`     // видимых символов
	Elements   int                   `json:"elements"`   // включая надгробия
	Operations int                   `json:"operations"` // размер журнала
}

// PeerStatus состояние присутствия одного пира
type PeerStatus struct {
	LastSeen  time.Time `json:"last_seen"`
	State     any       `json:"state,omitempty"`
	Color     string    `json:"color"`
	Online    bool      `json:"online"`    // heartbeat не старше таймаута
	Connected bool      `json:"connected"` // есть открытое соединение с этим сервером
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Documents int    `json:"documents"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// DocumentListResponse список документов сервера
type DocumentListResponse struct {
	Documents []string `json:"documents"`
}
