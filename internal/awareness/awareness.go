// Package awareness keeps ephemeral per-peer presence state (cursor,
// selection, online badge). Nothing here is merged or persisted.
package awareness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/notesync/internal/models"
)

const (
	// DefaultHeartbeatInterval период повторной рассылки локального состояния
	DefaultHeartbeatInterval = time.Second
	// DefaultOfflineTimeout после этого времени без heartbeat пир считается offline
	DefaultOfflineTimeout = 5 * time.Second
)

// Config содержит настройки канала присутствия
type Config struct {
	HeartbeatInterval time.Duration
	OfflineTimeout    time.Duration
}

// DefaultConfig returns the default heartbeat and offline timeout.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: DefaultHeartbeatInterval,
		OfflineTimeout:    DefaultOfflineTimeout,
	}
}

//go:generate moq -out broadcaster_mock.go . Broadcaster

// Broadcaster delivers the local awareness entry to peers.
type Broadcaster interface {
	BroadcastAwareness(ctx context.Context, entry models.AwarenessEntry) error
}

// CursorState is the state the editor publishes for its user.
type CursorState struct {
	Selection *[2]int `json:"selection"`
	Name      string  `json:"name,omitempty"`
	Cursor    int     `json:"cursor"`
}

// RemoteState is what the UI renders for a remote peer.
type RemoteState struct {
	LastSeen time.Time       `json:"last_seen"`
	State    json.RawMessage `json:"state"`
	Online   bool            `json:"online"`
}

// Event is delivered to listeners when a peer's state or online status changes.
type Event struct {
	PeerID string
	State  RemoteState
}

// Option настраивает Channel
type Option func(*Channel)

// WithNow подменяет источник времени (для тестов).
func WithNow(now func() time.Time) Option {
	return func(c *Channel) {
		c.now = now
	}
}

type listener struct {
	fn func(Event)
	id int
}

// Channel is the awareness channel of one replica.
type Channel struct {
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time

	local  *models.AwarenessEntry
	peers  map[string]*models.AwarenessEntry
	online map[string]bool // статус на момент последней проверки

	peerID string

	listeners    []listener
	nextListener int

	cfg Config
	mu  sync.Mutex
}

// New creates an awareness channel for peerID. Zero config values are
// replaced with defaults. broadcaster may be nil for a receive-only channel.
func New(peerID string, cfg Config, broadcaster Broadcaster, logger *slog.Logger, opts ...Option) *Channel {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.OfflineTimeout <= 0 {
		cfg.OfflineTimeout = DefaultOfflineTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Channel{
		peerID:      peerID,
		cfg:         cfg,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
		peers:       make(map[string]*models.AwarenessEntry),
		online:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLocalState stores the local state and broadcasts it immediately.
// state must be JSON-serializable; json.RawMessage is sent as is.
func (c *Channel) SetLocalState(ctx context.Context, state any) error {
	raw, err := encodeState(state)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.local = &models.AwarenessEntry{
		PeerID:    c.peerID,
		State:     raw,
		Timestamp: c.now(),
	}
	entry := c.local.Clone()
	c.mu.Unlock()

	return c.broadcast(ctx, *entry)
}

// LocalState returns the last state set with SetLocalState, or nil.
func (c *Channel) LocalState() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.local == nil {
		return nil
	}
	return c.local.Clone().State
}

// Run re-broadcasts the local state on every heartbeat, even when it did
// not change, and recomputes the online status of remote peers. It blocks
// until ctx is done.
func (c *Channel) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.Heartbeat(ctx); err != nil {
				c.logger.Warn("Failed to send awareness heartbeat", "peer_id", c.peerID, "error", err)
			}
			c.Sweep()
		}
	}
}

// Heartbeat re-broadcasts the local state with a fresh timestamp.
// Does nothing until SetLocalState has been called.
func (c *Channel) Heartbeat(ctx context.Context) error {
	c.mu.Lock()
	if c.local == nil {
		c.mu.Unlock()
		return nil
	}
	c.local.Timestamp = c.now()
	entry := c.local.Clone()
	c.mu.Unlock()

	return c.broadcast(ctx, *entry)
}

// Receive records an entry received from a peer. Entries of the local peer
// and entries older than the stored one are ignored. Returns true when the
// entry was recorded.
func (c *Channel) Receive(entry models.AwarenessEntry) bool {
	if entry.PeerID == "" || entry.PeerID == c.peerID {
		return false
	}

	c.mu.Lock()
	existing, ok := c.peers[entry.PeerID]
	if ok && entry.Timestamp.Before(existing.Timestamp) {
		c.mu.Unlock()
		return false
	}

	stored := entry.Clone()
	// время получения по локальным часам: часы пиров не синхронизированы
	stored.LastSeen = c.now()
	c.peers[entry.PeerID] = stored
	c.online[entry.PeerID] = true

	event := Event{PeerID: entry.PeerID, State: c.remoteState(stored)}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("New peer joined", "peer_id", entry.PeerID)
	}

	notify(listeners, []Event{event})
	return true
}

// Sweep recomputes online flags and notifies listeners about peers whose
// status changed since the previous sweep.
func (c *Channel) Sweep() {
	c.mu.Lock()
	var events []Event
	for peerID, entry := range c.peers {
		state := c.remoteState(entry)
		if state.Online != c.online[peerID] {
			c.online[peerID] = state.Online
			events = append(events, Event{PeerID: peerID, State: state})
		}
	}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, ev := range events {
		if !ev.State.Online {
			c.logger.Debug("Peer went offline", "peer_id", ev.PeerID, "last_seen", ev.State.LastSeen)
		}
	}

	notify(listeners, events)
}

// RemoteStates returns every known remote peer with its last state. Offline
// peers keep their state; only Online changes.
func (c *Channel) RemoteStates() map[string]RemoteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]RemoteState, len(c.peers))
	for peerID, entry := range c.peers {
		result[peerID] = c.remoteState(entry)
	}
	return result
}

// Entries returns the local entry (when set) and every remote entry.
// Used to bring a newly connected peer up to date.
func (c *Channel) Entries() []models.AwarenessEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]models.AwarenessEntry, 0, len(c.peers)+1)
	if c.local != nil {
		result = append(result, *c.local.Clone())
	}
	for _, entry := range c.peers {
		result = append(result, *entry.Clone())
	}
	return result
}

// Online reports whether the peer has sent a heartbeat within the offline timeout.
func (c *Channel) Online(peerID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.peers[peerID]
	return ok && c.remoteState(entry).Online
}

// PeerID returns the id of the local peer.
func (c *Channel) PeerID() string {
	return c.peerID
}

// Subscribe registers fn for awareness events. Listeners run in
// registration order, outside the channel lock.
func (c *Channel) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// remoteState вызывается под c.mu
func (c *Channel) remoteState(entry *models.AwarenessEntry) RemoteState {
	return RemoteState{
		State:    entry.State,
		LastSeen: entry.LastSeen,
		Online:   c.now().Sub(entry.LastSeen) <= c.cfg.OfflineTimeout,
	}
}

func (c *Channel) broadcast(ctx context.Context, entry models.AwarenessEntry) error {
	if c.broadcaster == nil {
		return nil
	}
	if err := c.broadcaster.BroadcastAwareness(ctx, entry); err != nil {
		return fmt.Errorf("failed to broadcast awareness: %w", err)
	}
	return nil
}

func (c *Channel) snapshotListeners() []listener {
	if len(c.listeners) == 0 {
		return nil
	}
	result := make([]listener, len(c.listeners))
	copy(result, c.listeners)
	return result
}

func notify(listeners []listener, events []Event) {
	for _, ev := range events {
		for _, l := range listeners {
			l.fn(ev)
		}
	}
}

func encodeState(state any) (json.RawMessage, error) {
	if raw, ok := state.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("awareness state is not valid JSON")
		}
		return append(json.RawMessage(nil), raw...), nil
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal awareness state: %w", err)
	}
	return raw, nil
}
