package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// документы открываются из любого источника: авторизация вне рамок сервиса
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Upgrade upgrades an HTTP request to a sync connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}
	return NewConn(ws), nil
}

// Dial opens a sync connection to url (ws:// or wss://).
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			// 4xx не исправится повтором
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, backoff.Permanent(fmt.Errorf("failed to dial %s: %s: %w", url, resp.Status, err))
			}
		}
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return NewConn(ws), nil
}

// ReconnectConfig настройки повторных подключений
type ReconnectConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultReconnectConfig returns the reconnect defaults.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// Reconnect dials url and runs session on every established connection.
// When the connection drops it dials again with exponential backoff. It
// returns when ctx is done or the server rejects the handshake.
func Reconnect(ctx context.Context, url string, cfg ReconnectConfig, logger *slog.Logger, session func(ctx context.Context, conn *Conn) error) error {
	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}

	for {
		conn, err := backoff.Retry(ctx, func() (*Conn, error) {
			return Dial(ctx, url)
		},
			backoff.WithBackOff(b),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				logger.Warn("Failed to connect, retrying", "url", url, "retry_in", next, "error", err)
			}),
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		logger.Info("Connected", "url", url)
		err = session(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn("Connection lost, reconnecting", "url", url, "error", err)
	}
}
