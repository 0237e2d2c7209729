package replica

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/client/storage"
	"github.com/iudanet/notesync/internal/client/storage/boltdb"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/transport"
)

func fixedActor(actor string) *storage.MetadataStorageMock {
	return &storage.MetadataStorageMock{
		GetActorIDFunc: func(ctx context.Context) (string, error) {
			return actor, nil
		},
		SaveLastSyncFunc: func(ctx context.Context, docID string, at time.Time) error {
			return nil
		},
	}
}

func emptyDocuments() *storage.DocumentStorageMock {
	return &storage.DocumentStorageMock{
		LoadDocumentFunc: func(ctx context.Context, docID string) (*storage.StoredDocument, error) {
			return nil, storage.ErrDocumentNotFound
		},
		SaveOperationsFunc: func(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error {
			return nil
		},
	}
}

// waitSummarized ждет, пока все n пиров обменяются сводками с сервером
func waitSummarized(t *testing.T, relay *relayServer, n int) {
	t.Helper()

	require.Eventually(t, func() bool { return len(relay.session.Peers()) == n }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		for _, id := range relay.session.Peers() {
			if p, ok := relay.session.Peer(id); !ok || !p.Summarized {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
}

// newTestReplica реплика поверх настоящего bbolt файла
func newTestReplica(t *testing.T, serverURL, docID string) *Replica {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "replica.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	r, err := Open(context.Background(), docID, store, store, Config{
		ServerURL: serverURL,
		Awareness: awareness.Config{HeartbeatInterval: 20 * time.Millisecond, OfflineTimeout: time.Second},
		Reconnect: transport.ReconnectConfig{InitialInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond},
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(r.Close)

	return r
}

func TestActorID(t *testing.T) {
	t.Run("first start creates actor", func(t *testing.T) {
		var saved string
		meta := &storage.MetadataStorageMock{
			GetActorIDFunc: func(ctx context.Context) (string, error) {
				return "", storage.ErrActorNotFound
			},
			SaveActorIDFunc: func(ctx context.Context, actorID string) error {
				saved = actorID
				return nil
			},
		}

		actor, err := ActorID(context.Background(), meta)
		require.NoError(t, err)
		assert.NotEmpty(t, actor)
		assert.Equal(t, saved, actor)
	})

	t.Run("existing actor is reused", func(t *testing.T) {
		meta := fixedActor("alice")
		actor, err := ActorID(context.Background(), meta)
		require.NoError(t, err)
		assert.Equal(t, "alice", actor)
	})

	t.Run("storage error", func(t *testing.T) {
		meta := &storage.MetadataStorageMock{
			GetActorIDFunc: func(ctx context.Context) (string, error) {
				return "", storage.ErrStorageClosed
			},
		}
		_, err := ActorID(context.Background(), meta)
		assert.ErrorIs(t, err, storage.ErrStorageClosed)
		assert.Empty(t, meta.SaveActorIDCalls())
	})
}

func TestOpen_RestoresAndPersists(t *testing.T) {
	author := crdt.NewEngine(crdt.NewClockWithActor("alice"), testLogger())
	_, err := author.Insert(0, "hello")
	require.NoError(t, err)

	docs := &storage.DocumentStorageMock{
		LoadDocumentFunc: func(ctx context.Context, docID string) (*storage.StoredDocument, error) {
			return &storage.StoredDocument{ID: docID, Operations: author.Operations(), Clock: author.ClockState()}, nil
		},
		SaveOperationsFunc: func(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error {
			return nil
		},
	}

	r, err := Open(context.Background(), "notes", docs, fixedActor("alice"), Config{}, testLogger())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "hello", r.Text())
	assert.Empty(t, docs.SaveOperationsCalls(), "restore does not write the log again")

	ops, err := r.Insert(5, "!")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), ops[0].Seq)

	calls := docs.SaveOperationsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "notes", calls[0].DocID)
	assert.Equal(t, ops, calls[0].Ops)
	assert.Equal(t, crdt.ClockState{Counter: 6, Seq: 6}, calls[0].Clock)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), "", emptyDocuments(), fixedActor("a"), Config{}, testLogger())
	assert.Error(t, err)

	docs := &storage.DocumentStorageMock{
		LoadDocumentFunc: func(ctx context.Context, docID string) (*storage.StoredDocument, error) {
			return nil, errors.New("disk failure")
		},
	}
	_, err = Open(context.Background(), "notes", docs, fixedActor("a"), Config{}, testLogger())
	assert.ErrorContains(t, err, "disk failure")
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		want    string
		wantErr bool
	}{
		{name: "ws", server: "ws://localhost:8080", want: "ws://localhost:8080/ws/my%20notes?peer=alice"},
		{name: "http becomes ws", server: "http://example.com", want: "ws://example.com/ws/my%20notes?peer=alice"},
		{name: "https becomes wss", server: "https://example.com/notesync/", want: "wss://example.com/notesync/ws/my%20notes?peer=alice"},
		{name: "unsupported scheme", server: "ftp://example.com", wantErr: true},
		{name: "broken url", server: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(context.Background(), "my notes", emptyDocuments(), fixedActor("alice"), Config{ServerURL: tt.server}, testLogger())
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Endpoint()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSync_OfflineEditsConverge(t *testing.T) {
	relay := newRelayServer()
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice := newTestReplica(t, srv.URL, "doc")
	bob := newTestReplica(t, srv.URL, "doc")

	_, err := alice.Insert(0, "hi")
	require.NoError(t, err)
	_, err = bob.Insert(0, "yo")
	require.NoError(t, err)

	res, err := alice.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	require.Eventually(t, func() bool { return relay.engine.VisibleLen() == 2 }, 5*time.Second, 10*time.Millisecond)

	_, err = bob.Sync(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return relay.engine.VisibleLen() == 4 }, 5*time.Second, 10*time.Millisecond)

	_, err = alice.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, relay.engine.Text(), alice.Text())
	assert.Equal(t, relay.engine.Text(), bob.Text())
	assert.Len(t, alice.Text(), 4)

	last, err := alice.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestSync_NothingToExchange(t *testing.T) {
	srv := httptest.NewServer(newRelayServer())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := newTestReplica(t, srv.URL, "doc")
	res, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
	assert.Zero(t, res.Received)
}

func TestSync_ServerNeverAnswers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Upgrade(w, r)
		if err != nil {
			return
		}
		defer conn.Close()
		// читаем, но ничего не отвечаем
		for {
			if _, err := conn.Receive(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	r := newTestReplica(t, srv.URL, "doc")
	_, err := r.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncIncomplete)
}

func TestRun_LiveEditsAndPresence(t *testing.T) {
	relay := newRelayServer()
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice := newTestReplica(t, srv.URL, "doc")
	bob := newTestReplica(t, srv.URL, "doc")

	done := make(chan error, 2)
	go func() { done <- alice.Run(ctx) }()
	go func() { done <- bob.Run(ctx) }()

	waitSummarized(t, relay, 2)

	_, err := alice.Insert(0, "hello")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return bob.Text() == "hello" }, 5*time.Second, 10*time.Millisecond)

	_, err = bob.Delete(0, 1)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return alice.Text() == "ello" }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, alice.SetCursor(ctx, awareness.CursorState{Name: "Alice", Cursor: 2}))
	require.Eventually(t, func() bool {
		state, ok := bob.Peers()[alice.Actor()]
		return ok && state.Online
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	for range 2 {
		assert.NoError(t, <-done)
	}
}

// Удаление локальной копии не сбрасывает нумерацию операций
func TestSync_RemovedDocumentKeepsNumbering(t *testing.T) {
	relay := newRelayServer()
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "replica.db"))
	require.NoError(t, err)
	defer store.Close()

	cfg := Config{ServerURL: srv.URL}

	first, err := Open(ctx, "doc", store, store, cfg, testLogger())
	require.NoError(t, err)
	_, err = first.Insert(0, "a")
	require.NoError(t, err)
	_, err = first.Sync(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return relay.engine.Text() == "a" }, 5*time.Second, 10*time.Millisecond)
	first.Close()

	require.NoError(t, store.DeleteDocument(ctx, "doc"))

	second, err := Open(ctx, "doc", store, store, cfg, testLogger())
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, "", second.Text())

	ops, err := second.Insert(0, "b")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, uint64(2), ops[0].ID.Counter, "the removed copy's ids are not issued again")
	assert.Equal(t, uint64(2), ops[0].Seq)

	res, err := second.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)

	require.Eventually(t, func() bool { return relay.engine.VisibleLen() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, relay.engine.Text(), second.Text(), "replica and server converge")
	assert.Equal(t, "ba", second.Text())
}

func TestRun_UnsavedEditsAreNotSent(t *testing.T) {
	relay := newRelayServer()
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var failing atomic.Bool
	failing.Store(true)

	docs := emptyDocuments()
	docs.SaveOperationsFunc = func(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error {
		if failing.Load() {
			return errors.New("disk full")
		}
		return nil
	}

	r, err := Open(ctx, "doc", docs, fixedActor("alice"), Config{
		ServerURL: srv.URL,
		Awareness: awareness.Config{HeartbeatInterval: 20 * time.Millisecond, OfflineTimeout: time.Second},
		Reconnect: transport.ReconnectConfig{InitialInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond},
	}, testLogger())
	require.NoError(t, err)
	defer r.Close()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	waitSummarized(t, relay, 1)

	ops, err := r.Insert(0, "hi")
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.Len(t, ops, 2)
	assert.Equal(t, "hi", r.Text(), "the edit stays in the document")
	assert.Never(t, func() bool { return relay.engine.VisibleLen() > 0 }, 200*time.Millisecond, 10*time.Millisecond)

	// Хранилище снова доступно: ранее не записанные операции уходят вместе с новой
	failing.Store(false)
	_, err = r.Insert(2, "!")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return relay.engine.Text() == "hi!" }, 5*time.Second, 10*time.Millisecond)

	calls := docs.SaveOperationsCalls()
	require.NotEmpty(t, calls)
	assert.Len(t, calls[len(calls)-1].Ops, 3)

	cancel()
	assert.NoError(t, <-done)
}

func TestSync_FailsWhileEditsAreUnsaved(t *testing.T) {
	relay := newRelayServer()
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs := emptyDocuments()
	docs.SaveOperationsFunc = func(ctx context.Context, docID string, ops []models.Operation, clock crdt.ClockState) error {
		return errors.New("disk full")
	}

	r, err := Open(ctx, "doc", docs, fixedActor("alice"), Config{ServerURL: srv.URL}, testLogger())
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Insert(0, "x")
	require.ErrorIs(t, err, ErrNotPersisted)

	_, err = r.Sync(ctx)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.Equal(t, 0, relay.engine.VisibleLen())
}
