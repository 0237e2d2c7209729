// Package replica is the local copy of one shared document: the merge
// engine restored from the bbolt log, the presence channel, and the sync
// link to the server.
package replica

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/client/storage"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
	"github.com/iudanet/notesync/internal/session"
	"github.com/iudanet/notesync/internal/transport"
	"github.com/iudanet/notesync/pkg/api"
)

// ErrNotPersisted returned by an edit whose operations could not be written
// to local storage. The edit stays in the document but is not sent to the
// server until a later write succeeds.
var ErrNotPersisted = errors.New("operations not persisted")

// Config настройки реплики
type Config struct {
	// ServerURL адрес сервера синхронизации (ws://, wss://, http:// или https://)
	ServerURL string
	Awareness awareness.Config
	Reconnect transport.ReconnectConfig
}

// Replica is a document replica backed by local storage.
// Every operation the engine learns is written to storage before the
// edit call returns, and a local operation leaves the replica only after
// it was written.
type Replica struct {
	docs    storage.DocumentStorage
	meta    storage.MetadataStorage
	engine  *crdt.Engine
	aware   *awareness.Channel
	session *session.Session
	logger  *slog.Logger

	// link текущее соединение с сервером, nil если не подключены
	link        *link
	unsubscribe func()

	cfg   Config
	docID string
	actor string

	mu sync.Mutex

	// unsaved локальные операции, которые не удалось записать: они не уходят
	// на сервер, иначе после перезапуска часы выдадут их идентификаторы снова
	unsaved []models.Operation
	saveMu  sync.Mutex
}

// ActorID returns the actor id of this installation, creating and saving
// a new one on the first start.
func ActorID(ctx context.Context, meta storage.MetadataStorage) (string, error) {
	actor, err := meta.GetActorID(ctx)
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, storage.ErrActorNotFound) {
		return "", fmt.Errorf("failed to get actor id: %w", err)
	}

	actor = uuid.NewString()
	if err := meta.SaveActorID(ctx, actor); err != nil {
		return "", fmt.Errorf("failed to save actor id: %w", err)
	}
	return actor, nil
}

// Open restores the replica of docID from storage. A document that was
// never saved starts empty.
func Open(ctx context.Context, docID string, docs storage.DocumentStorage, meta storage.MetadataStorage, cfg Config, logger *slog.Logger) (*Replica, error) {
	if docID == "" {
		return nil, fmt.Errorf("document id is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	actor, err := ActorID(ctx, meta)
	if err != nil {
		return nil, err
	}

	logger = logger.With("document", docID, "actor", actor)
	engine := crdt.NewEngine(crdt.NewClockWithActor(actor), logger)

	stored, err := docs.LoadDocument(ctx, docID)
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound):
		logger.Debug("Starting new document")
	case err != nil:
		return nil, fmt.Errorf("failed to load document: %w", err)
	default:
		if err := engine.Restore(stored.Operations, stored.Clock); err != nil {
			// Битые записи пропускаются, остальное восстанавливаем
			logger.Warn("Skipped invalid operations while restoring", "error", err)
		}
		logger.Debug("Document restored", "operations", len(stored.Operations), "length", engine.VisibleLen())
	}

	r := &Replica{
		docs:    docs,
		meta:    meta,
		engine:  engine,
		session: session.New(engine, logger),
		logger:  logger,
		cfg:     cfg,
		docID:   docID,
		actor:   actor,
	}
	r.aware = awareness.New(actor, cfg.Awareness, r, logger)
	r.unsubscribe = engine.Subscribe(r.onChange)

	return r, nil
}

// onChange сохраняет новые операции и отправляет локальные на сервер
func (r *Replica) onChange(change crdt.Change) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	batch := slices.Concat(r.unsaved, change.Ops)
	if err := r.docs.SaveOperations(context.Background(), r.docID, batch, r.engine.ClockState()); err != nil {
		r.logger.Error("Failed to persist operations", "count", len(batch), "error", err)
		if change.Local {
			r.unsaved = slices.Concat(r.unsaved, change.Ops)
		}
		return
	}

	local := r.unsaved
	r.unsaved = nil
	if change.Local {
		local = slices.Concat(local, change.Ops)
	}
	if len(local) == 0 {
		return
	}
	if batch := r.session.Forward(local, r.actor)[serverPeer]; len(batch) > 0 {
		r.send(transport.OpsFrame(r.docID, r.actor, batch))
	}
}

// flushLocked повторяет запись несохраненных операций. Вызывается под saveMu.
func (r *Replica) flushLocked(ctx context.Context) error {
	if len(r.unsaved) == 0 {
		return nil
	}
	if err := r.docs.SaveOperations(ctx, r.docID, r.unsaved, r.engine.ClockState()); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	r.unsaved = nil
	return nil
}

// persisted проверяет, что операции правки записаны в хранилище
func (r *Replica) persisted(ops []models.Operation, err error) ([]models.Operation, error) {
	if err != nil || len(ops) == 0 {
		return ops, err
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	last := ops[len(ops)-1].ID
	if slices.ContainsFunc(r.unsaved, func(op models.Operation) bool { return op.ID == last }) {
		return ops, fmt.Errorf("%w: %d operation(s) wait for the next write", ErrNotPersisted, len(r.unsaved))
	}
	return ops, nil
}

// Close detaches the replica from the engine. Storage is owned by the caller.
func (r *Replica) Close() {
	r.unsubscribe()
}

// DocumentID returns the id of the replicated document.
func (r *Replica) DocumentID() string {
	return r.docID
}

// Actor returns the actor id of this replica.
func (r *Replica) Actor() string {
	return r.actor
}

// Text returns the visible text.
func (r *Replica) Text() string {
	return r.engine.Text()
}

// Summary returns the version vector of the local log.
func (r *Replica) Summary() models.VersionVector {
	return r.engine.Summary()
}

// Pending returns the number of operations waiting for their dependencies.
func (r *Replica) Pending() (inserts, deletes int) {
	return r.engine.Pending()
}

// Insert inserts text at a visible offset.
func (r *Replica) Insert(index int, text string) ([]models.Operation, error) {
	return r.persisted(r.engine.Insert(index, text))
}

// Delete removes length characters starting at a visible offset.
func (r *Replica) Delete(index, length int) ([]models.Operation, error) {
	return r.persisted(r.engine.Delete(index, length))
}

// SetText replaces the whole text with the smallest splice.
func (r *Replica) SetText(text string) ([]models.Operation, error) {
	return r.persisted(r.engine.SetText(text))
}

// Subscribe registers fn for every change of the document.
func (r *Replica) Subscribe(fn func(crdt.Change)) (unsubscribe func()) {
	return r.engine.Subscribe(fn)
}

// SetCursor publishes the local cursor and selection.
func (r *Replica) SetCursor(ctx context.Context, cursor awareness.CursorState) error {
	return r.aware.SetLocalState(ctx, cursor)
}

// Peers returns the presence of remote peers.
func (r *Replica) Peers() map[string]awareness.RemoteState {
	return r.aware.RemoteStates()
}

// SubscribePresence registers fn for presence changes of remote peers.
func (r *Replica) SubscribePresence(fn func(awareness.Event)) (unsubscribe func()) {
	return r.aware.Subscribe(fn)
}

// BroadcastAwareness sends the local presence to the server. Without a
// connection the entry is dropped: presence is not stored.
func (r *Replica) BroadcastAwareness(ctx context.Context, entry models.AwarenessEntry) error {
	r.send(transport.AwarenessFrame(r.docID, r.actor, entry))
	return nil
}

// send ставит кадр в очередь текущего соединения
func (r *Replica) send(frame api.Frame) {
	r.mu.Lock()
	l := r.link
	r.mu.Unlock()

	if l == nil {
		return
	}
	if err := l.send(frame); errors.Is(err, errOutboxFull) {
		r.logger.Warn("Outbox is full, dropping connection", "frame", frame.Type)
	}
}
