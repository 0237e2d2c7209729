package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// echoServer отвечает каждым полученным кадром
func echoServer(t *testing.T, done chan<- error) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r)
		if err != nil {
			done <- err
			return
		}
		outbox := make(chan api.Frame, 8)
		done <- Serve(r.Context(), conn, outbox, func(ctx context.Context, frame api.Frame) error {
			outbox <- frame
			return nil
		}, testLogger())
	}))
}

func TestServe_Echo(t *testing.T) {
	done := make(chan error, 1)
	srv := echoServer(t, done)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(srv))
	require.NoError(t, err)

	sent := SummaryFrame("doc", "alice", models.VersionVector{"alice": 2})
	require.NoError(t, conn.Send(ctx, sent))

	got, err := conn.Receive()
	require.NoError(t, err)
	assert.Equal(t, sent, got)

	require.NoError(t, conn.Close())

	select {
	case err := <-done:
		assert.NoError(t, err, "client close is an orderly shutdown")
	case <-ctx.Done():
		t.Fatal("server did not notice the close")
	}
}

func TestServe_SkipsInvalidFrames(t *testing.T) {
	done := make(chan error, 1)
	srv := echoServer(t, done)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(srv))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)))
	require.NoError(t, conn.ws.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))

	valid := SummaryFrame("doc", "alice", nil)
	require.NoError(t, conn.Send(ctx, valid))

	got, err := conn.Receive()
	require.NoError(t, err)
	assert.Equal(t, api.FrameSummary, got.Type, "invalid frames are skipped, the connection survives")
}

func TestServe_ClosingOutboxClosesConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r)
		if err != nil {
			return
		}
		outbox := make(chan api.Frame, 1)
		outbox <- SummaryFrame("doc", "server", nil)
		close(outbox)
		_ = Serve(r.Context(), conn, outbox, func(context.Context, api.Frame) error { return nil }, testLogger())
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(srv))
	require.NoError(t, err)
	defer conn.Close()

	frame, err := conn.Receive()
	require.NoError(t, err)
	assert.Equal(t, "server", frame.From)

	_, err = conn.Receive()
	assert.True(t, IsClosed(err), "expected closed connection, got %v", err)
}

func TestSend_InvalidFrame(t *testing.T) {
	done := make(chan error, 1)
	srv := echoServer(t, done)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, wsURL(srv))
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Send(ctx, api.Frame{Type: api.FrameOps})
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestReconnect(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r)
		if err != nil {
			return
		}
		connections.Add(1)
		// сервер сразу рвет соединение
		_ = conn.Close()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sessions atomic.Int32
	err := Reconnect(ctx, wsURL(srv), ReconnectConfig{InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}, testLogger(),
		func(ctx context.Context, conn *Conn) error {
			defer conn.Close()
			if sessions.Add(1) == 3 {
				cancel()
				return nil
			}
			_, err := conn.Receive()
			return err
		})

	assert.NoError(t, err, "cancelled context is a normal stop")
	assert.Equal(t, int32(3), sessions.Load())
	assert.GreaterOrEqual(t, connections.Load(), int32(3))
}

func TestReconnect_RejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Reconnect(ctx, wsURL(srv), DefaultReconnectConfig(), testLogger(),
		func(ctx context.Context, conn *Conn) error {
			t.Fatal("session must not start")
			return nil
		})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.NoError(t, ctx.Err(), "4xx is not retried")
}
