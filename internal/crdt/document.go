package crdt

import (
	"fmt"
	"strings"

	"github.com/iudanet/notesync/internal/models"
)

// Document is the character store: every element ever inserted, kept in
// total order, tombstones included.
//
// The sequence is the pre-order walk of the insertion tree (every element
// is a child of its origin) with siblings sorted by descending id. Any
// replica that has integrated the same set of elements holds the same
// sequence, whatever the delivery order was.
//
// Document is not safe for concurrent use; Engine serializes access.
type Document struct {
	elements []*CharElement
	byID     map[models.OperationID]*CharElement

	// вставки, ожидающие свой origin: origin -> элементы
	waiting map[models.OperationID][]CharElement
	// идентификаторы буферизованных вставок (для дедупликации)
	buffered map[models.OperationID]struct{}
	// удаления, пришедшие раньше вставки
	tombstones map[models.OperationID]struct{}

	visible int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		byID:       make(map[models.OperationID]*CharElement),
		waiting:    make(map[models.OperationID][]CharElement),
		buffered:   make(map[models.OperationID]struct{}),
		tombstones: make(map[models.OperationID]struct{}),
	}
}

// InsertVisible inserts ch so that it becomes the character at visible
// offset index. The new element's origin is the visible character at
// index-1, or the document head when index is 0.
func (d *Document) InsertVisible(index int, id models.OperationID, ch rune) (CharElement, error) {
	if index < 0 || index > d.visible {
		return CharElement{}, fmt.Errorf("%w: insert at %d, length %d", ErrOutOfRange, index, d.visible)
	}
	if _, ok := d.byID[id]; ok {
		return CharElement{}, fmt.Errorf("%w: id %s already used", ErrInvalidOperation, id)
	}

	var origin models.OperationID
	if index > 0 {
		origin = d.elements[d.position(index-1)].ID
	}

	el := &CharElement{ID: id, Origin: origin, Value: ch, Visible: true}
	d.integrate(el)
	d.release(el.ID)

	return *el, nil
}

// DeleteVisible tombstones the character at visible offset index and
// returns its id.
func (d *Document) DeleteVisible(index int) (models.OperationID, error) {
	if index < 0 || index >= d.visible {
		return models.OperationID{}, fmt.Errorf("%w: delete at %d, length %d", ErrOutOfRange, index, d.visible)
	}

	el := d.elements[d.position(index)]
	d.hide(el)

	return el.ID, nil
}

// ApplyRemoteInsert integrates an element created by another replica.
// Applying the same element again is a no-op. An element whose origin is
// not known yet is kept aside and integrated as soon as the origin arrives.
func (d *Document) ApplyRemoteInsert(el CharElement) ApplyResult {
	if _, ok := d.byID[el.ID]; ok {
		return Duplicate
	}
	if _, ok := d.buffered[el.ID]; ok {
		return Duplicate
	}

	if !el.Origin.IsZero() {
		if _, ok := d.byID[el.Origin]; !ok {
			d.waiting[el.Origin] = append(d.waiting[el.Origin], el)
			d.buffered[el.ID] = struct{}{}
			return Buffered
		}
	}

	n := &CharElement{ID: el.ID, Origin: el.Origin, Value: el.Value, Visible: true}
	d.integrate(n)
	d.release(n.ID)

	return Applied
}

// ApplyRemoteDelete tombstones the element with the given id. When the
// element is not known yet the delete is remembered and applied once the
// insert arrives.
func (d *Document) ApplyRemoteDelete(id models.OperationID) ApplyResult {
	el, ok := d.byID[id]
	if !ok {
		if _, pending := d.tombstones[id]; pending {
			return Duplicate
		}
		d.tombstones[id] = struct{}{}
		return Buffered
	}
	if !el.Visible {
		return Duplicate
	}

	d.hide(el)
	return Applied
}

// integrate вставляет элемент в общий порядок.
// Сканируем вправо от origin: братья (тот же origin) с большим id
// пропускаются вместе со всем своим поддеревом; вставляем перед первым
// братом с меньшим id или перед первым элементом вне поддерева origin.
func (d *Document) integrate(el *CharElement) {
	i := 0
	if !el.Origin.IsZero() {
		i = d.indexOf(el.Origin) + 1
	}

	// поддеревья пропущенных братьев, создается лениво
	var skipped map[models.OperationID]struct{}

	for ; i < len(d.elements); i++ {
		cur := d.elements[i]
		if cur.Origin == el.Origin {
			if cur.ID.Less(el.ID) {
				break
			}
			if skipped == nil {
				skipped = make(map[models.OperationID]struct{})
			}
			skipped[cur.ID] = struct{}{}
			continue
		}
		if _, ok := skipped[cur.Origin]; ok {
			skipped[cur.ID] = struct{}{}
			continue
		}
		break
	}

	d.elements = append(d.elements, nil)
	copy(d.elements[i+1:], d.elements[i:])
	d.elements[i] = el
	d.byID[el.ID] = el

	if _, ok := d.tombstones[el.ID]; ok {
		delete(d.tombstones, el.ID)
		el.Visible = false
	}
	if el.Visible {
		d.visible++
	}
}

// release интегрирует буферизованные вставки, дождавшиеся своего origin (каскадно).
func (d *Document) release(id models.OperationID) {
	queue := []models.OperationID{id}
	for len(queue) > 0 {
		origin := queue[0]
		queue = queue[1:]

		children, ok := d.waiting[origin]
		if !ok {
			continue
		}
		delete(d.waiting, origin)

		for _, child := range children {
			delete(d.buffered, child.ID)
			n := &CharElement{ID: child.ID, Origin: child.Origin, Value: child.Value, Visible: true}
			d.integrate(n)
			queue = append(queue, n.ID)
		}
	}
}

func (d *Document) hide(el *CharElement) {
	el.Visible = false
	d.visible--
}

// position возвращает индекс в общем порядке для видимого смещения.
// Вызывающий гарантирует 0 <= index < d.visible.
func (d *Document) position(index int) int {
	seen := 0
	for i, el := range d.elements {
		if !el.Visible {
			continue
		}
		if seen == index {
			return i
		}
		seen++
	}
	return -1
}

func (d *Document) indexOf(id models.OperationID) int {
	for i, el := range d.elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// Text returns the visible string.
func (d *Document) Text() string {
	var b strings.Builder
	b.Grow(d.visible)
	for _, el := range d.elements {
		if el.Visible {
			b.WriteRune(el.Value)
		}
	}
	return b.String()
}

// VisibleLen returns the number of visible characters.
func (d *Document) VisibleLen() int {
	return d.visible
}

// Len returns the number of elements including tombstones.
func (d *Document) Len() int {
	return len(d.elements)
}

// Elements returns a copy of the total order, tombstones included.
func (d *Document) Elements() []CharElement {
	result := make([]CharElement, len(d.elements))
	for i, el := range d.elements {
		result[i] = *el
	}
	return result
}

// Contains reports whether the element has been integrated.
func (d *Document) Contains(id models.OperationID) bool {
	_, ok := d.byID[id]
	return ok
}

// VisibleIndex returns the visible offset of the element.
// The second value is false for unknown elements and tombstones.
func (d *Document) VisibleIndex(id models.OperationID) (int, bool) {
	index := 0
	for _, el := range d.elements {
		if el.ID == id {
			return index, el.Visible
		}
		if el.Visible {
			index++
		}
	}
	return 0, false
}

// IDAt returns the id of the visible character at index.
func (d *Document) IDAt(index int) (models.OperationID, error) {
	if index < 0 || index >= d.visible {
		return models.OperationID{}, fmt.Errorf("%w: %d, length %d", ErrOutOfRange, index, d.visible)
	}
	return d.elements[d.position(index)].ID, nil
}

// Pending returns the number of buffered inserts and pending tombstones.
func (d *Document) Pending() (inserts, deletes int) {
	return len(d.buffered), len(d.tombstones)
}
