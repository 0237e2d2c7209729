package replica

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"sync"

	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/session"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// relayServer минимальный сервер одного документа: хранит операции
// и пересылает их и присутствие остальным подключенным пирам
type relayServer struct {
	engine  *crdt.Engine
	session *session.Session
	peers   map[string]chan api.Frame
	mu      sync.Mutex
}

func newRelayServer() *relayServer {
	engine := crdt.NewEngine(crdt.NewClockWithActor("server"), testLogger())
	return &relayServer{
		engine:  engine,
		session: session.New(engine, testLogger()),
		peers:   make(map[string]chan api.Frame),
	}
}

func (s *relayServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	peer := r.URL.Query().Get("peer")
	docID := path.Base(r.URL.Path)

	conn, err := transport.Upgrade(w, r)
	if err != nil {
		return
	}

	outbox := make(chan api.Frame, 64)
	s.session.Open(peer)
	s.mu.Lock()
	s.peers[peer] = outbox
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.peers, peer)
		s.mu.Unlock()
		s.session.Close(peer)
	}()

	outbox <- transport.SummaryFrame(docID, "server", s.engine.Summary())

	_ = transport.Serve(r.Context(), conn, outbox, func(ctx context.Context, frame api.Frame) error {
		switch frame.Type {
		case api.FrameSummary:
			delta, err := s.session.HandleSummary(peer, transport.SummaryFromWire(frame.Summary))
			if err != nil {
				return err
			}
			if len(delta) > 0 {
				outbox <- transport.OpsFrame(docID, "server", delta)
			}
		case api.FrameOps:
			ops, err := transport.OperationsFromWire(frame.Ops)
			if err != nil {
				return nil
			}
			if _, err := s.session.ReceiveDelta(peer, ops); err != nil {
				return err
			}
			for to, batch := range s.session.Forward(ops, peer) {
				s.deliver(to, transport.OpsFrame(docID, "server", batch))
			}
		case api.FrameAwareness:
			s.mu.Lock()
			for to := range s.peers {
				if to != peer {
					s.deliverLocked(to, frame)
				}
			}
			s.mu.Unlock()
		}
		return nil
	}, testLogger())
}

func (s *relayServer) deliver(to string, frame api.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliverLocked(to, frame)
}

func (s *relayServer) deliverLocked(to string, frame api.Frame) {
	select {
	case s.peers[to] <- frame:
	default:
	}
}
