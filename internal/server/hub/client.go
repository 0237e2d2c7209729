package hub

import (
	"context"
	"sync"

	"github.com/iudanet/notesync/pkg/api"
)

// Client is one connected peer of a document. The transport writes frames
// from Outbox to the connection and passes every received frame to Handle.
type Client struct {
	room   *room
	outbox chan api.Frame
	peerID string
	closed bool
	mu     sync.Mutex

	// left защищен мьютексом хаба
	left bool
}

func newClient(r *room, peerID string, size int) *Client {
	return &Client{
		room:   r,
		peerID: peerID,
		outbox: make(chan api.Frame, size),
	}
}

// PeerID returns the actor id the client connected with.
func (c *Client) PeerID() string {
	return c.peerID
}

// DocumentID returns the id of the document the client is connected to.
func (c *Client) DocumentID() string {
	return c.room.id
}

// Outbox returns frames queued for the peer. The channel is closed when
// the client is disconnected by the hub.
func (c *Client) Outbox() <-chan api.Frame {
	return c.outbox
}

// Handle processes a frame received from the peer.
func (c *Client) Handle(ctx context.Context, frame api.Frame) error {
	return c.room.handle(ctx, c, frame)
}

// send ставит кадр в очередь без блокировки. Медленный клиент отключается:
// после переподключения он получит пропущенное через обмен сводками.
func (c *Client) send(frame api.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.outbox <- frame:
		return true
	default:
	}

	c.closed = true
	close(c.outbox)
	droppedClients.Inc()
	c.room.logger.Warn("Client outbox full, disconnecting",
		"document_id", c.room.id,
		"peer_id", c.peerID)
	return false
}

// close закрывает очередь; соединение завершится после отправки уже поставленных кадров
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.outbox)
	}
}
