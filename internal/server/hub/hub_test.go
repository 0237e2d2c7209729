package hub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/server/storage"
	"github.com/iudanet/notesync/internal/server/storage/sqlite"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Storage {
	t.Helper()

	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newTestHub(t *testing.T, store storage.OperationStorage, broker Broker) *Hub {
	t.Helper()

	h := New(store, broker, Config{InstanceID: "server-test"}, testLogger())
	t.Cleanup(h.Close)
	return h
}

// next возвращает следующий кадр из очереди клиента; все отправки хаба синхронны
func next(t *testing.T, c *Client) api.Frame {
	t.Helper()

	select {
	case frame, ok := <-c.Outbox():
		require.True(t, ok, "outbox is closed")
		return frame
	default:
		t.Fatalf("no frame queued for %s", c.PeerID())
		return api.Frame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()

	select {
	case frame, ok := <-c.Outbox():
		if ok {
			t.Fatalf("unexpected %s frame for %s", frame.Type, c.PeerID())
		}
	default:
	}
}

// connect подключает пира и проводит обмен сводками
func connect(t *testing.T, h *Hub, docID, peerID string, summary models.VersionVector) *Client {
	t.Helper()

	c, err := h.Join(context.Background(), docID, peerID)
	require.NoError(t, err)

	first := next(t, c)
	require.Equal(t, api.FrameSummary, first.Type, "summary is the first frame")
	assert.Equal(t, h.InstanceID(), first.From)

	require.NoError(t, c.Handle(context.Background(), transport.SummaryFrame(docID, peerID, summary)))
	return c
}

func typing(t *testing.T, actor, text string) []models.Operation {
	t.Helper()

	engine := crdt.NewEngine(crdt.NewClockWithActor(actor), nil)
	ops, err := engine.Insert(0, text)
	require.NoError(t, err)
	return ops
}

func TestHub_ForwardsOperations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	h := newTestHub(t, store, nil)

	alice := connect(t, h, "doc", "alice", nil)
	bob := connect(t, h, "doc", "bob", nil)
	assertNoFrame(t, alice)
	assertNoFrame(t, bob)

	ops := typing(t, "alice", "hi")
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))

	frame := next(t, bob)
	assert.Equal(t, api.FrameOps, frame.Type)
	got, err := transport.OperationsFromWire(frame.Ops)
	require.NoError(t, err)
	assert.Equal(t, ops, got)
	assertNoFrame(t, alice)

	// Повтор того же пакета никому не пересылается
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))
	assertNoFrame(t, bob)

	stored, err := store.LoadOperations(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, ops, stored)

	doc, err := h.Document(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "hi", doc.Text)
	assert.Equal(t, map[string]uint64{"alice": 2}, doc.Summary)
	assert.True(t, doc.Peers["bob"].Connected)
}

func TestHub_LateJoinerReceivesDelta(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice := connect(t, h, "doc", "alice", nil)
	ops := typing(t, "alice", "abc")
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))

	bob, err := h.Join(ctx, "doc", "bob")
	require.NoError(t, err)
	summary := next(t, bob)
	assert.Equal(t, map[string]uint64{"alice": 3}, summary.Summary)

	// Боб уже знает первую операцию
	require.NoError(t, bob.Handle(ctx, transport.SummaryFrame("doc", "bob", models.VersionVector{"alice": 1})))

	frame := next(t, bob)
	require.Equal(t, api.FrameOps, frame.Type)
	got, err := transport.OperationsFromWire(frame.Ops)
	require.NoError(t, err)
	assert.Equal(t, ops[1:], got)
}

func TestHub_PeerWithoutSummaryIsNotForwarded(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice := connect(t, h, "doc", "alice", nil)
	bob, err := h.Join(ctx, "doc", "bob")
	require.NoError(t, err)
	next(t, bob)

	ops := typing(t, "alice", "x")
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))
	assertNoFrame(t, bob)

	// Все придет с дельтой после сводки
	require.NoError(t, bob.Handle(ctx, transport.SummaryFrame("doc", "bob", nil)))
	frame := next(t, bob)
	assert.Len(t, frame.Ops, 1)
}

func TestHub_Awareness(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice := connect(t, h, "doc", "alice", nil)
	bob := connect(t, h, "doc", "bob", nil)

	entry := models.AwarenessEntry{
		PeerID:    "alice",
		State:     json.RawMessage(`{"cursor":1}`),
		Timestamp: time.Now(),
	}
	require.NoError(t, alice.Handle(ctx, transport.AwarenessFrame("doc", "alice", entry)))

	frame := next(t, bob)
	require.Equal(t, api.FrameAwareness, frame.Type)
	assert.Equal(t, "alice", frame.Awareness.PeerID)
	assertNoFrame(t, alice)

	// Старый heartbeat не пересылается
	stale := entry
	stale.Timestamp = entry.Timestamp.Add(-time.Second)
	require.NoError(t, alice.Handle(ctx, transport.AwarenessFrame("doc", "alice", stale)))
	assertNoFrame(t, bob)

	// Нельзя публиковать присутствие за другого пира
	forged := entry
	forged.PeerID = "carol"
	require.NoError(t, alice.Handle(ctx, transport.AwarenessFrame("doc", "alice", forged)))
	assertNoFrame(t, bob)

	// Новый пир сразу получает известные состояния
	carol, err := h.Join(ctx, "doc", "carol")
	require.NoError(t, err)
	assert.Equal(t, api.FrameSummary, next(t, carol).Type)
	frame = next(t, carol)
	require.Equal(t, api.FrameAwareness, frame.Type)
	assert.Equal(t, "alice", frame.Awareness.PeerID)

	doc, err := h.Document(ctx, "doc")
	require.NoError(t, err)
	status := doc.Peers["alice"]
	assert.True(t, status.Online)
	assert.True(t, status.Connected)
	assert.NotEmpty(t, status.Color)
}

func TestHub_IgnoresFramesForOtherDocuments(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice := connect(t, h, "doc", "alice", nil)
	bob := connect(t, h, "doc", "bob", nil)

	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("other", "alice", typing(t, "alice", "x"))))
	assertNoFrame(t, bob)

	doc, err := h.Document(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
}

func TestHub_RoomLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	h := newTestHub(t, store, nil)

	_, err := h.Document(ctx, "doc")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	alice := connect(t, h, "doc", "alice", nil)
	assert.Equal(t, 1, h.OpenDocuments())

	ops := typing(t, "alice", "hey")
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))

	h.Leave(alice)
	assert.Equal(t, 0, h.OpenDocuments())
	_, ok := <-alice.Outbox()
	assert.False(t, ok, "outbox is closed on leave")

	// Закрытый документ читается из журнала
	doc, err := h.Document(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "hey", doc.Text)
	assert.Equal(t, 3, doc.Operations)
	assert.Empty(t, doc.Peers)

	ids, err := h.Documents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, ids)

	// Повторное открытие восстанавливает состояние
	bob, err := h.Join(ctx, "doc", "bob")
	require.NoError(t, err)
	frame := next(t, bob)
	assert.Equal(t, map[string]uint64{"alice": 3}, frame.Summary)
}

func TestHub_ReconnectReplacesClient(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	first := connect(t, h, "doc", "alice", nil)
	second := connect(t, h, "doc", "alice", nil)

	_, ok := <-first.Outbox()
	assert.False(t, ok, "previous connection is closed")

	// Уход старого соединения не трогает новое
	h.Leave(first)
	assert.Equal(t, 1, h.OpenDocuments())

	bob := connect(t, h, "doc", "bob", nil)
	require.NoError(t, bob.Handle(ctx, transport.OpsFrame("doc", "bob", typing(t, "bob", "z"))))
	assert.Equal(t, api.FrameOps, next(t, second).Type)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	ctx := context.Background()
	h := New(newTestStore(t), nil, Config{InstanceID: "server-test", OutboxSize: 1}, testLogger())
	defer h.Close()

	alice, err := h.Join(ctx, "doc", "alice")
	require.NoError(t, err)
	require.NoError(t, alice.Handle(ctx, transport.SummaryFrame("doc", "alice", nil)))

	bob := connect(t, h, "doc", "bob", nil)
	require.NoError(t, bob.Handle(ctx, transport.OpsFrame("doc", "bob", typing(t, "bob", "a"))))

	// Сводка заняла очередь, пересылка не поместилась
	assert.Equal(t, api.FrameSummary, next(t, alice).Type)
	_, ok := <-alice.Outbox()
	assert.False(t, ok)
}

func TestHub_JoinErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid ids", func(t *testing.T) {
		h := newTestHub(t, newTestStore(t), nil)
		for _, tt := range [][2]string{{"", "alice"}, {"doc", ""}, {"doc", brokerPeer}, {"doc", "server-test"}} {
			_, err := h.Join(ctx, tt[0], tt[1])
			assert.ErrorIs(t, err, ErrInvalidPeer, "%v", tt)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		store := &storage.OperationStorageMock{
			LoadOperationsFunc: func(ctx context.Context, docID string) ([]models.Operation, error) {
				return nil, boom
			},
		}
		h := newTestHub(t, store, nil)

		_, err := h.Join(ctx, "doc", "alice")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, h.OpenDocuments())
	})

	t.Run("broker failure", func(t *testing.T) {
		boom := errors.New("redis is down")
		broker := &BrokerMock{
			SubscribeFunc: func(ctx context.Context, docID string, fn func(api.Frame)) (func(), error) {
				return nil, boom
			},
		}
		h := newTestHub(t, newTestStore(t), broker)

		_, err := h.Join(ctx, "doc", "alice")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("closed hub", func(t *testing.T) {
		h := New(newTestStore(t), nil, Config{}, testLogger())
		alice, err := h.Join(ctx, "doc", "alice")
		require.NoError(t, err)

		h.Close()

		_, err = h.Join(ctx, "doc", "bob")
		assert.ErrorIs(t, err, ErrHubClosed)

		next(t, alice)
		_, ok := <-alice.Outbox()
		assert.False(t, ok)
	})
}

func TestHub_StorageErrorDoesNotStopSync(t *testing.T) {
	ctx := context.Background()
	store := &storage.OperationStorageMock{
		LoadOperationsFunc: func(ctx context.Context, docID string) ([]models.Operation, error) {
			return nil, nil
		},
		AppendOperationsFunc: func(ctx context.Context, docID string, ops []models.Operation) (int, error) {
			return 0, errors.New("read-only file system")
		},
	}
	h := newTestHub(t, store, nil)

	alice := connect(t, h, "doc", "alice", nil)
	bob := connect(t, h, "doc", "bob", nil)

	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", typing(t, "alice", "ok"))))
	assert.Equal(t, api.FrameOps, next(t, bob).Type)
	assert.Len(t, store.AppendOperationsCalls(), 1)
}

// memBus доставляет опубликованные кадры подписчикам других экземпляров синхронно
type memBus struct {
	subs map[string]map[int]memSub
	next int
	mu   sync.Mutex
}

type memSub struct {
	fn       func(api.Frame)
	instance string
}

type memBroker struct {
	bus      *memBus
	instance string
}

func (b *memBroker) Publish(ctx context.Context, docID string, frame api.Frame) error {
	b.bus.mu.Lock()
	var targets []func(api.Frame)
	for _, sub := range b.bus.subs[docID] {
		if sub.instance != b.instance {
			targets = append(targets, sub.fn)
		}
	}
	b.bus.mu.Unlock()

	for _, fn := range targets {
		fn(frame)
	}
	return nil
}

func (b *memBroker) Subscribe(ctx context.Context, docID string, fn func(api.Frame)) (func(), error) {
	b.bus.mu.Lock()
	defer b.bus.mu.Unlock()

	if b.bus.subs[docID] == nil {
		b.bus.subs[docID] = make(map[int]memSub)
	}
	id := b.bus.next
	b.bus.next++
	b.bus.subs[docID][id] = memSub{instance: b.instance, fn: fn}

	return func() {
		b.bus.mu.Lock()
		defer b.bus.mu.Unlock()
		delete(b.bus.subs[docID], id)
	}, nil
}

func TestHub_BrokerFanOut(t *testing.T) {
	ctx := context.Background()
	bus := &memBus{subs: make(map[string]map[int]memSub)}
	store := newTestStore(t)

	first := New(store, &memBroker{bus: bus, instance: "a"}, Config{InstanceID: "server-a"}, testLogger())
	defer first.Close()
	second := New(store, &memBroker{bus: bus, instance: "b"}, Config{InstanceID: "server-b"}, testLogger())
	defer second.Close()

	alice := connect(t, first, "doc", "alice", nil)
	bob := connect(t, second, "doc", "bob", nil)

	ops := typing(t, "alice", "hi")
	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", ops)))

	frame := next(t, bob)
	require.Equal(t, api.FrameOps, frame.Type)
	assert.Equal(t, "server-b", frame.From)
	got, err := transport.OperationsFromWire(frame.Ops)
	require.NoError(t, err)
	assert.Equal(t, ops, got)
	assertNoFrame(t, alice)

	entry := models.AwarenessEntry{PeerID: "bob", State: json.RawMessage(`{}`), Timestamp: time.Now()}
	require.NoError(t, bob.Handle(ctx, transport.AwarenessFrame("doc", "bob", entry)))
	frame = next(t, alice)
	require.Equal(t, api.FrameAwareness, frame.Type)
	assert.Equal(t, "bob", frame.Awareness.PeerID)

	doc, err := second.Document(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "hi", doc.Text)
}

func TestHub_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	broker := &BrokerMock{
		PublishFunc: func(ctx context.Context, docID string, frame api.Frame) error {
			return errors.New("connection refused")
		},
		SubscribeFunc: func(ctx context.Context, docID string, fn func(api.Frame)) (func(), error) {
			return func() {}, nil
		},
	}
	h := newTestHub(t, newTestStore(t), broker)

	alice := connect(t, h, "doc", "alice", nil)
	bob := connect(t, h, "doc", "bob", nil)

	require.NoError(t, alice.Handle(ctx, transport.OpsFrame("doc", "alice", typing(t, "alice", "x"))))
	assert.Equal(t, api.FrameOps, next(t, bob).Type)
	assert.Len(t, broker.PublishCalls(), 1)
	assert.Len(t, broker.SubscribeCalls(), 1)
}

func TestHub_ShutdownWaitsForClients(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice, err := h.Join(ctx, "doc", "alice")
	require.NoError(t, err)

	// Обработчик соединения: дочитывает очередь и уходит с задержкой
	var left atomic.Bool
	go func() {
		for range alice.Outbox() {
		}
		time.Sleep(50 * time.Millisecond)
		left.Store(true)
		h.Leave(alice)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	require.NoError(t, h.Shutdown(shutdownCtx))
	assert.True(t, left.Load(), "shutdown returns only after the client left")

	_, err = h.Join(ctx, "doc", "bob")
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestHub_ShutdownTimeout(t *testing.T) {
	ctx := context.Background()
	h := newTestHub(t, newTestStore(t), nil)

	alice, err := h.Join(ctx, "doc", "alice")
	require.NoError(t, err)

	shutdownCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err = h.Shutdown(shutdownCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Повторный Leave не ломает счетчик
	h.Leave(alice)
	h.Leave(alice)
	require.NoError(t, h.Shutdown(ctx))
}
