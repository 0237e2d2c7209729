package broker

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMessage_RoundTrip(t *testing.T) {
	frame := transport.SummaryFrame("doc", "alice", models.VersionVector{"alice": 4})

	data, err := encodeMessage("server-1", frame)
	require.NoError(t, err)

	instance, got, err := decodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, "server-1", instance)
	assert.Equal(t, frame, got)
}

func TestMessage_Invalid(t *testing.T) {
	_, err := encodeMessage("server-1", api.Frame{Type: api.FrameOps})
	assert.ErrorIs(t, err, transport.ErrInvalidFrame)

	_, _, err = decodeMessage([]byte(`not json`))
	assert.Error(t, err)

	_, _, err = decodeMessage([]byte(`{"instance":"x","frame":{"type":"patch"}}`))
	assert.ErrorIs(t, err, transport.ErrInvalidFrame)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "notesync:doc:notes-1", Channel("notes-1"))
}

// Проверка с настоящим redis: NOTESYNC_TEST_REDIS_ADDR=localhost:6379
func TestRedis_PublishSubscribe(t *testing.T) {
	addr := os.Getenv("NOTESYNC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NOTESYNC_TEST_REDIS_ADDR is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := NewRedis(ctx, addr, "first", testLogger())
	require.NoError(t, err)
	defer first.Close()
	second, err := NewRedis(ctx, addr, "second", testLogger())
	require.NoError(t, err)
	defer second.Close()

	docID := "test-" + uuid.NewString()
	received := make(chan api.Frame, 4)

	unsubscribe, err := first.Subscribe(ctx, docID, func(frame api.Frame) {
		received <- frame
	})
	require.NoError(t, err)
	defer unsubscribe()

	// Собственные сообщения не возвращаются
	require.NoError(t, first.Publish(ctx, docID, transport.SummaryFrame(docID, "own", nil)))
	require.NoError(t, second.Publish(ctx, docID, transport.SummaryFrame(docID, "other", nil)))

	select {
	case frame := <-received:
		assert.Equal(t, "other", frame.From)
	case <-ctx.Done():
		t.Fatal("frame was not delivered")
	}
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedis(ctx, "127.0.0.1:1", "x", testLogger())
	assert.Error(t, err)
}
