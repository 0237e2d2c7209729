package crdt

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/notesync/internal/models"
)

// Edit is a splice at a visible offset: Delete runes are removed starting at
// Index, then Text is inserted at Index.
type Edit struct {
	Text   string
	Index  int
	Delete int
}

// Change is delivered to listeners whenever the engine learns new
// operations. Text is the visible text after they were applied.
type Change struct {
	Text  string
	Ops   []models.Operation
	Local bool
}

// BatchResult counts the outcome of ApplyRemoteOps.
type BatchResult struct {
	Applied   int
	Duplicate int
	Buffered  int
}

type listener struct {
	fn func(Change)
	id int
}

// Engine is the merge engine of a single replica. It turns local edits into
// operations, integrates remote operations exactly once, and keeps the log
// of every operation it knows about so that peers can be brought up to date.
type Engine struct {
	clock  *Clock
	doc    *Document
	logger *slog.Logger

	seen map[models.OperationID]struct{}
	log  []models.Operation

	// summary хранит последний непрерывный seq каждого актора,
	// ahead - номера, пришедшие с разрывом
	summary models.VersionVector
	ahead   map[string]map[uint64]struct{}

	listeners    []listener
	nextListener int

	mu sync.Mutex
}

// NewEngine creates an engine over an empty document.
func NewEngine(clock *Clock, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		clock:   clock,
		doc:     NewDocument(),
		logger:  logger,
		seen:    make(map[models.OperationID]struct{}),
		summary: make(models.VersionVector),
		ahead:   make(map[string]map[uint64]struct{}),
	}
}

// ApplyLocalEdit applies the edit to the local document and returns the
// operations to broadcast. The whole edit is rejected with ErrOutOfRange
// when it does not fit the current text; nothing is changed in that case.
func (e *Engine) ApplyLocalEdit(edit Edit) ([]models.Operation, error) {
	e.mu.Lock()
	ops, err := e.applyLocal(edit)
	listeners, change := e.localChange(ops)
	e.mu.Unlock()

	notify(listeners, change)
	return ops, err
}

// Insert inserts text at a visible offset.
func (e *Engine) Insert(index int, text string) ([]models.Operation, error) {
	return e.ApplyLocalEdit(Edit{Index: index, Text: text})
}

// Delete removes length characters starting at a visible offset.
func (e *Engine) Delete(index, length int) ([]models.Operation, error) {
	return e.ApplyLocalEdit(Edit{Index: index, Delete: length})
}

// SetText replaces the visible text with text, producing the smallest
// single splice between the common prefix and the common suffix. The splice
// is computed and applied under one lock, so a concurrent remote batch
// cannot shift it.
func (e *Engine) SetText(text string) ([]models.Operation, error) {
	e.mu.Lock()
	ops, err := e.applyLocal(Diff([]rune(e.doc.Text()), []rune(text)))
	listeners, change := e.localChange(ops)
	e.mu.Unlock()

	notify(listeners, change)
	return ops, err
}

// applyLocal применяет локальную правку. Вызывается под e.mu.
func (e *Engine) applyLocal(edit Edit) ([]models.Operation, error) {
	runes := []rune(edit.Text)

	length := e.doc.VisibleLen()
	if edit.Index < 0 || edit.Delete < 0 || edit.Index+edit.Delete > length {
		return nil, fmt.Errorf("%w: edit at %d deleting %d, length %d", ErrOutOfRange, edit.Index, edit.Delete, length)
	}
	if edit.Delete == 0 && len(runes) == 0 {
		return nil, nil
	}
	if need := uint64(edit.Delete + len(runes)); need > e.clock.Headroom() {
		return nil, fmt.Errorf("%w: edit needs %d ids", ErrClockExhausted, need)
	}

	ops := make([]models.Operation, 0, edit.Delete+len(runes))

	for k := 0; k < edit.Delete; k++ {
		target, err := e.doc.DeleteVisible(edit.Index)
		if err != nil {
			// диапазон проверен выше
			return ops, fmt.Errorf("failed to delete at %d: %w", edit.Index, err)
		}
		id, seq := e.clock.Next()
		op := models.Operation{ID: id, Seq: seq, Type: models.OpDelete, Target: target}
		e.record(op)
		ops = append(ops, op)
	}

	for k, r := range runes {
		id, seq := e.clock.Next()
		el, err := e.doc.InsertVisible(edit.Index+k, id, r)
		if err != nil {
			return ops, fmt.Errorf("failed to insert at %d: %w", edit.Index+k, err)
		}
		op := el.Operation(seq)
		e.record(op)
		ops = append(ops, op)
	}

	return ops, nil
}

// localChange готовит уведомление о локальной правке. Вызывается под e.mu.
// Уже записанные в журнал операции уведомляются даже при ошибке.
func (e *Engine) localChange(ops []models.Operation) ([]listener, Change) {
	if len(ops) == 0 {
		return nil, Change{}
	}
	return e.snapshotListeners(), Change{Text: e.doc.Text(), Ops: ops, Local: true}
}

// Diff returns the splice that turns before into after.
func Diff(before, after []rune) Edit {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	return Edit{
		Index:  prefix,
		Delete: len(before) - prefix - suffix,
		Text:   string(after[prefix : len(after)-suffix]),
	}
}

// ApplyRemoteOp integrates one operation received from a peer.
// An operation seen before is a silent no-op (Duplicate).
func (e *Engine) ApplyRemoteOp(op models.Operation) (ApplyResult, error) {
	if err := op.Validate(); err != nil {
		return Duplicate, fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}

	e.mu.Lock()
	result := e.apply(op)

	var (
		listeners []listener
		change    Change
	)
	if result != Duplicate {
		change = Change{Text: e.doc.Text(), Ops: []models.Operation{op}}
		listeners = e.snapshotListeners()
	}
	e.mu.Unlock()

	notify(listeners, change)
	return result, nil
}

// ApplyRemoteOps integrates a batch of operations. Invalid operations are
// skipped and reported in the returned error; the rest of the batch is
// applied. Listeners are notified once per batch, unless every operation
// was a duplicate.
func (e *Engine) ApplyRemoteOps(ops []models.Operation) (BatchResult, error) {
	var (
		res     BatchResult
		errs    []error
		applied []models.Operation
	)

	e.mu.Lock()
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidOperation, err))
			continue
		}
		switch e.apply(op) {
		case Applied:
			res.Applied++
			applied = append(applied, op)
		case Buffered:
			res.Buffered++
			applied = append(applied, op)
		case Duplicate:
			res.Duplicate++
		}
	}

	var (
		listeners []listener
		change    Change
	)
	if len(applied) > 0 {
		change = Change{Text: e.doc.Text(), Ops: applied}
		listeners = e.snapshotListeners()
	}
	e.mu.Unlock()

	if res.Buffered > 0 {
		inserts, deletes := e.Pending()
		e.logger.Debug("Operations buffered until dependencies arrive",
			"buffered", res.Buffered, "pending_inserts", inserts, "pending_deletes", deletes)
	}

	notify(listeners, change)
	return res, errors.Join(errs...)
}

// apply применяет проверенную удаленную операцию. Вызывается под e.mu.
func (e *Engine) apply(op models.Operation) ApplyResult {
	if _, ok := e.seen[op.ID]; ok {
		return Duplicate
	}

	e.record(op)
	e.clock.Observe(op.ID, op.Seq)

	switch op.Type {
	case models.OpInsert:
		return e.doc.ApplyRemoteInsert(CharElement{ID: op.ID, Origin: op.Origin, Value: op.Value})
	case models.OpDelete:
		if e.doc.ApplyRemoteDelete(op.Target) == Buffered {
			return Buffered
		}
		// повторное удаление того же символа другим актором - новая операция
		return Applied
	}

	return Duplicate
}

// record добавляет операцию в журнал и продвигает сводку. Вызывается под e.mu.
func (e *Engine) record(op models.Operation) {
	e.seen[op.ID] = struct{}{}
	e.log = append(e.log, op)

	actor := op.ID.Actor
	if !e.summary.Observe(actor, op.Seq) {
		if op.Seq > e.summary.Get(actor) {
			if e.ahead[actor] == nil {
				e.ahead[actor] = make(map[uint64]struct{})
			}
			e.ahead[actor][op.Seq] = struct{}{}
		}
		return
	}

	// разрыв мог закрыться: подтягиваем ранее пришедшие номера
	pending := e.ahead[actor]
	for len(pending) > 0 {
		next := e.summary.Get(actor) + 1
		if _, ok := pending[next]; !ok {
			break
		}
		delete(pending, next)
		e.summary.Observe(actor, next)
	}
	if len(pending) == 0 {
		delete(e.ahead, actor)
	}
}

// Restore replays persisted operations and restores the clock.
// Listeners are not notified. Invalid operations are skipped and reported.
func (e *Engine) Restore(ops []models.Operation, state ClockState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock.Restore(state)

	var errs []error
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidOperation, err))
			continue
		}
		e.apply(op)
	}

	return errors.Join(errs...)
}

// Summary returns the version vector of operations known to this replica.
func (e *Engine) Summary() models.VersionVector {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.summary.Clone()
}

// OperationsSince returns every known operation not covered by v, in the
// order they were applied locally.
func (e *Engine) OperationsSince(v models.VersionVector) []models.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]models.Operation, 0)
	for _, op := range e.log {
		if !v.Includes(op) {
			result = append(result, op)
		}
	}
	return result
}

// Operations returns a copy of the operation log.
func (e *Engine) Operations() []models.Operation {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]models.Operation, len(e.log))
	copy(result, e.log)
	return result
}

// Text returns the visible string.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.doc.Text()
}

// VisibleLen returns the number of visible characters.
func (e *Engine) VisibleLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.doc.VisibleLen()
}

// Elements returns the total order including tombstones.
func (e *Engine) Elements() []CharElement {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.doc.Elements()
}

// Pending returns the number of buffered inserts and pending tombstones.
func (e *Engine) Pending() (inserts, deletes int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.doc.Pending()
}

// Actor returns the actor id of the local replica.
func (e *Engine) Actor() string {
	return e.clock.Actor()
}

// ClockState returns the clock state to persist together with the log.
func (e *Engine) ClockState() ClockState {
	return e.clock.State()
}

// Subscribe registers fn to be called after every local edit and every
// remote batch that brought new operations, so every change of the visible
// text is seen. Listeners run in registration order, outside the engine
// lock, on the goroutine that made the change. The returned func
// unregisters fn.
func (e *Engine) Subscribe(fn func(Change)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextListener
	e.nextListener++
	e.listeners = append(e.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			for i, l := range e.listeners {
				if l.id == id {
					e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (e *Engine) snapshotListeners() []listener {
	if len(e.listeners) == 0 {
		return nil
	}
	result := make([]listener, len(e.listeners))
	copy(result, e.listeners)
	return result
}

func notify(listeners []listener, change Change) {
	for _, l := range listeners {
		l.fn(change)
	}
}
