package crdt

import (
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/notesync/internal/models"
)

// Clock представляет логические часы Лампорта одного актора.
//
// Counter упорядочивает символы: новый идентификатор всегда больше любого
// увиденного, поэтому локальная вставка встает сразу за своим origin.
// Seq нумерует операции актора без пропусков (1, 2, 3...) и используется
// в векторах версий для вычисления дельты.
type Clock struct {
	actor   string     // идентификатор актора (реплики)
	counter uint64     // счетчик Лампорта
	seq     uint64     // последний выданный порядковый номер операции
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// ClockState is the persisted part of a clock.
type ClockState struct {
	Counter uint64 `json:"counter"`
	Seq     uint64 `json:"seq"`
}

// NewClock creates a clock with a fresh random actor id (UUID).
func NewClock() *Clock {
	return &Clock{
		actor: uuid.New().String(),
	}
}

// NewClockWithActor creates a clock for a known actor id.
// Used when the actor id was persisted earlier or in tests.
func NewClockWithActor(actor string) *Clock {
	return &Clock{
		actor: actor,
	}
}

// Next выдает идентификатор и порядковый номер для новой локальной операции.
func (c *Clock) Next() (models.OperationID, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	c.seq++
	return models.OperationID{Actor: c.actor, Counter: c.counter}, c.seq
}

// Observe учитывает операцию, полученную от пира.
// Согласно алгоритму Лампорта: counter = max(counter, remote).
// Если это наша собственная операция, о которой мы забыли (например, после
// потери локальной базы), seq тоже сдвигается вперед, чтобы не выдать тот же номер повторно.
func (c *Clock) Observe(id models.OperationID, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id.Counter > c.counter {
		c.counter = id.Counter
	}
	if id.Actor == c.actor && seq > c.seq {
		c.seq = seq
	}
}

// Restore восстанавливает состояние часов из хранилища. Значения никогда не уменьшаются.
func (c *Clock) Restore(state ClockState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state.Counter > c.counter {
		c.counter = state.Counter
	}
	if state.Seq > c.seq {
		c.seq = state.Seq
	}
}

// Headroom возвращает, сколько еще идентификаторов могут выдать часы.
func (c *Clock) Headroom() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return min(models.MaxCounter-min(c.counter, models.MaxCounter), models.MaxCounter-min(c.seq, models.MaxCounter))
}

// State возвращает текущее состояние часов для сохранения.
func (c *Clock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ClockState{Counter: c.counter, Seq: c.seq}
}

// Actor returns the actor id of this clock.
func (c *Clock) Actor() string {
	return c.actor
}
