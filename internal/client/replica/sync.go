package replica

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

// serverPeer имя сервера в сессии синхронизации реплики
const serverPeer = "server"

// outboxSize размер очереди исходящих кадров одного соединения
const outboxSize = 256

// ErrSyncIncomplete returned by Sync when the connection ended before the
// replica caught up with the server.
var ErrSyncIncomplete = errors.New("sync did not complete")

var (
	errLinkClosed = errors.New("link is closed")
	errOutboxFull = errors.New("outbox is full")
)

// SyncResult contains sync results
type SyncResult struct {
	Sent     int // количество отправленных серверу операций
	Received int // количество полученных от сервера операций
}

// link одно соединение с сервером
type link struct {
	outbox chan api.Frame
	cancel context.CancelFunc
	// server сводка, присланная сервером при подключении
	server models.VersionVector
	closed bool
	mu     sync.Mutex
}

func newLink(cancel context.CancelFunc) *link {
	return &link{
		outbox: make(chan api.Frame, outboxSize),
		cancel: cancel,
	}
}

func (l *link) send(frame api.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errLinkClosed
	}
	select {
	case l.outbox <- frame:
		return nil
	default:
		// Соединение переподключится и заново обменяется сводками
		l.cancel()
		return errOutboxFull
	}
}

// close закрывает очередь: Serve допишет накопленные кадры и закроет соединение
func (l *link) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		close(l.outbox)
	}
}

func (l *link) setServerSummary(v models.VersionVector) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.server = v
}

// caughtUp сервер прислал сводку, и у реплики есть все, что есть у сервера
func (l *link) caughtUp(local models.VersionVector) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.server != nil && local.Covers(l.server)
}

// Endpoint returns the websocket URL of the document on the server.
func (r *Replica) Endpoint() (string, error) {
	u, err := url.Parse(r.cfg.ServerURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", r.cfg.ServerURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server url %q: unsupported scheme", r.cfg.ServerURL)
	}

	u.Path = path.Join("/", u.Path, "ws", r.docID)
	u.RawPath = ""
	q := u.Query()
	q.Set("peer", r.actor)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Sync connects to the server, exchanges summaries and deltas, and
// disconnects as soon as both sides have each other's operations.
func (r *Replica) Sync(ctx context.Context) (*SyncResult, error) {
	endpoint, err := r.Endpoint()
	if err != nil {
		return nil, err
	}

	r.logger.Info("Starting synchronization", "url", endpoint)

	conn, err := transport.Dial(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	result, synced, err := r.serve(ctx, conn, true)
	if err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}
	if !synced {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyncIncomplete, cause)
		}
		return nil, ErrSyncIncomplete
	}

	r.logger.Info("Synchronization completed", "sent", result.Sent, "received", result.Received)
	return result, nil
}

// Run keeps the replica connected to the server and exchanges operations
// and presence live. Dropped connections are re-established with backoff.
// It blocks until ctx is done or the server rejects the connection.
func (r *Replica) Run(ctx context.Context) error {
	endpoint, err := r.Endpoint()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return transport.Reconnect(gctx, endpoint, r.cfg.Reconnect, r.logger,
			func(ctx context.Context, conn *transport.Conn) error {
				_, _, err := r.serve(ctx, conn, false)
				return err
			})
	})

	g.Go(func() error {
		return r.aware.Run(gctx)
	})

	return g.Wait()
}

// LastSync returns the time the document last exchanged data with the server.
func (r *Replica) LastSync(ctx context.Context) (time.Time, error) {
	return r.meta.GetLastSync(ctx, r.docID)
}

// serve ведет одно соединение. При untilSynced соединение закрывается,
// как только реплика догнала сервер.
func (r *Replica) serve(ctx context.Context, conn *transport.Conn, untilSynced bool) (*SyncResult, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := newLink(cancel)

	r.session.Open(serverPeer)
	r.mu.Lock()
	r.link = l
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.link == l {
			r.link = nil
		}
		r.mu.Unlock()
	}()

	// Первым кадром идет сводка, затем текущее присутствие
	_ = l.send(transport.SummaryFrame(r.docID, r.actor, r.engine.Summary()))
	if err := r.aware.Heartbeat(ctx); err != nil {
		r.logger.Debug("Failed to send presence", "error", err)
	}

	var synced bool
	handle := func(ctx context.Context, frame api.Frame) error {
		if err := r.handle(ctx, l, frame); err != nil {
			return err
		}
		if untilSynced && l.caughtUp(r.engine.Summary()) {
			synced = true
			l.close()
		}
		return nil
	}

	err := transport.Serve(ctx, conn, l.outbox, handle, r.logger)

	state, _ := r.session.Peer(serverPeer)
	r.session.Close(serverPeer)

	return &SyncResult{Sent: state.Sent, Received: state.Received}, synced, err
}

// handle обрабатывает кадр от сервера
func (r *Replica) handle(ctx context.Context, l *link, frame api.Frame) error {
	if frame.Document != r.docID {
		r.logger.Warn("Ignoring frame for another document", "frame_document", frame.Document, "type", frame.Type)
		return nil
	}

	switch frame.Type {
	case api.FrameSummary:
		summary := transport.SummaryFromWire(frame.Summary)
		l.setServerSummary(summary)

		// Дельта берется из журнала движка: сначала дописываем несохраненное
		r.saveMu.Lock()
		err := r.flushLocked(ctx)
		var delta []models.Operation
		if err == nil {
			delta, err = r.session.HandleSummary(serverPeer, summary)
		}
		r.saveMu.Unlock()
		if err != nil {
			return err
		}
		if len(delta) > 0 {
			if err := l.send(transport.OpsFrame(r.docID, r.actor, delta)); errors.Is(err, errOutboxFull) {
				r.logger.Warn("Outbox is full, dropping connection", "frame", api.FrameOps)
			}
		}
		r.touch(ctx)

	case api.FrameOps:
		ops, err := transport.OperationsFromWire(frame.Ops)
		if err != nil {
			r.logger.Warn("Skipping invalid operations frame", "error", err)
			return nil
		}
		res, err := r.session.ReceiveDelta(serverPeer, ops)
		if err != nil {
			r.logger.Warn("Some operations were rejected", "error", err)
		}
		r.logger.Debug("Operations received",
			"applied", res.Applied,
			"duplicate", res.Duplicate,
			"buffered", res.Buffered)
		r.touch(ctx)

	case api.FrameAwareness:
		r.aware.Receive(transport.AwarenessFromWire(frame.Awareness))
	}

	return nil
}

func (r *Replica) touch(ctx context.Context) {
	if err := r.meta.SaveLastSync(ctx, r.docID, time.Now()); err != nil {
		r.logger.Warn("Failed to save last sync time", "error", err)
	}
}
