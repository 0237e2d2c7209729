package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/notesync/pkg/api"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 4 << 20
)

// ErrClosed returned once the connection was closed by either side.
var ErrClosed = errors.New("connection closed")

// Conn is a websocket connection that carries sync frames.
// Send may be called from several goroutines; Receive from one.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex // gorilla допускает только одного писателя
}

// NewConn wraps an established websocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &Conn{ws: ws}
}

// Send encodes and writes one frame. The write deadline is the earlier of
// ctx's deadline and the default write timeout.
func (c *Conn) Send(ctx context.Context, frame api.Frame) error {
	data, err := Encode(frame)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return wrapClosed(err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", wrapClosed(err))
	}
	return nil
}

// Receive reads the next frame. A frame that cannot be decoded is
// reported with ErrInvalidFrame; the connection stays usable.
func (c *Conn) Receive() (api.Frame, error) {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			return api.Frame{}, wrapClosed(err)
		}
		// Продлеваем дедлайн чтения на любое входящее сообщение
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		if mt != websocket.TextMessage {
			continue
		}
		return Decode(data)
	}
}

// Ping sends a websocket ping; the pong extends the read deadline.
func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to ping: %w", wrapClosed(err))
	}
	return nil
}

// Close sends a close frame (best effort) and closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.mu.Unlock()

	if err := c.ws.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// RemoteAddr returns the peer's network address.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// IsClosed reports whether err means the connection is gone.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

func wrapClosed(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

// Handler processes one received frame.
type Handler func(ctx context.Context, frame api.Frame) error

// Serve runs the read and write loops of conn until ctx is done, either
// side closes the connection, or handle returns an error. Frames from
// outbox are written in order; closing outbox closes the connection.
// Invalid incoming frames are logged and skipped. The connection is always
// closed when Serve returns; an orderly shutdown returns nil.
func Serve(ctx context.Context, conn *Conn, outbox <-chan api.Frame, handle Handler, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	// Чтение
	g.Go(func() error {
		for {
			frame, err := conn.Receive()
			if errors.Is(err, ErrInvalidFrame) {
				logger.Warn("Skipping invalid frame", "remote", conn.RemoteAddr(), "error", err)
				continue
			}
			if err != nil {
				return err
			}
			if err := handle(gctx, frame); err != nil {
				return err
			}
		}
	})

	// Запись и пинги
	g.Go(func() error {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case frame, ok := <-outbox:
				if !ok {
					return ErrClosed
				}
				if err := conn.Send(gctx, frame); err != nil {
					return err
				}
			case <-ticker.C:
				if err := conn.Ping(); err != nil {
					return err
				}
			}
		}
	})

	// Закрытие соединения разблокирует чтение
	g.Go(func() error {
		<-gctx.Done()
		return conn.Close()
	})

	err := g.Wait()
	if err == nil || IsClosed(err) || ctx.Err() != nil {
		return nil
	}
	return err
}
