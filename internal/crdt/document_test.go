package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notesync/internal/models"
)

func id(actor string, counter uint64) models.OperationID {
	return models.OperationID{Actor: actor, Counter: counter}
}

func el(actor string, counter uint64, origin models.OperationID, value rune) CharElement {
	return CharElement{ID: id(actor, counter), Origin: origin, Value: value}
}

func TestDocument_InsertAndDelete(t *testing.T) {
	doc := NewDocument()

	for i, ch := range "abc" {
		_, err := doc.InsertVisible(i, id("alice", uint64(i+1)), ch)
		require.NoError(t, err)
	}
	require.Equal(t, "abc", doc.Text())

	deleted, err := doc.DeleteVisible(1)
	require.NoError(t, err)
	assert.Equal(t, id("alice", 2), deleted)

	assert.Equal(t, "ac", doc.Text())
	assert.Equal(t, 2, doc.VisibleLen())

	// Надгробие остается в общем порядке
	elements := doc.Elements()
	require.Len(t, elements, 3)
	assert.Equal(t, 'b', elements[1].Value)
	assert.False(t, elements[1].Visible)
	assert.Equal(t, 3, doc.Len())
}

func TestDocument_InsertVisible_Origin(t *testing.T) {
	doc := NewDocument()

	first, err := doc.InsertVisible(0, id("a", 1), 'x')
	require.NoError(t, err)
	assert.True(t, first.Origin.IsZero(), "insert at offset 0 is anchored at the head")

	second, err := doc.InsertVisible(1, id("a", 2), 'y')
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.Origin)

	// Вставка перед надгробием привязывается к видимому соседу слева
	_, err = doc.DeleteVisible(1)
	require.NoError(t, err)
	third, err := doc.InsertVisible(1, id("a", 3), 'z')
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.Origin)
	assert.Equal(t, "xz", doc.Text())
}

func TestDocument_OutOfRange(t *testing.T) {
	doc := NewDocument()
	_, err := doc.InsertVisible(0, id("a", 1), 'a')
	require.NoError(t, err)

	tests := []struct {
		run  func() error
		name string
	}{
		{
			name: "insert before start",
			run: func() error {
				_, err := doc.InsertVisible(-1, id("a", 10), 'x')
				return err
			},
		},
		{
			name: "insert past end",
			run: func() error {
				_, err := doc.InsertVisible(2, id("a", 11), 'x')
				return err
			},
		},
		{
			name: "delete past end",
			run: func() error {
				_, err := doc.DeleteVisible(1)
				return err
			},
		},
		{
			name: "delete negative",
			run: func() error {
				_, err := doc.DeleteVisible(-1)
				return err
			},
		},
		{
			name: "id at past end",
			run: func() error {
				_, err := doc.IDAt(1)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, "a", doc.Text(), "rejected edit must not change the document")
			assert.Equal(t, 1, doc.Len())
		})
	}
}

func TestDocument_ConcurrentInsertTieBreak(t *testing.T) {
	low := el("alice", 1, models.OperationID{}, 'a')
	high := el("bob", 1, models.OperationID{}, 'b')
	require.True(t, low.ID.Less(high.ID))

	first := NewDocument()
	assert.Equal(t, Applied, first.ApplyRemoteInsert(low))
	assert.Equal(t, Applied, first.ApplyRemoteInsert(high))

	second := NewDocument()
	assert.Equal(t, Applied, second.ApplyRemoteInsert(high))
	assert.Equal(t, Applied, second.ApplyRemoteInsert(low))

	// Больший id идет первым на обеих репликах
	assert.Equal(t, "ba", first.Text())
	assert.Equal(t, "ba", second.Text())
}

func TestDocument_SiblingSubtreeIsSkipped(t *testing.T) {
	head := models.OperationID{}
	x := el("x", 5, head, 'X')
	y := el("y", 6, id("x", 5), 'Y') // потомок X
	lower := el("z", 3, head, 'Z')   // брат X с меньшим id
	higher := el("w", 9, head, 'W')  // брат X с большим id

	orders := [][]CharElement{
		{x, y, lower, higher},
		{lower, x, y, higher},
		{higher, lower, y, x},
		{y, higher, x, lower},
		{lower, higher, y, x},
	}

	for _, order := range orders {
		doc := NewDocument()
		for _, e := range order {
			doc.ApplyRemoteInsert(e)
		}
		assert.Equal(t, "WXYZ", doc.Text(), "order %v", order)
	}
}

func TestDocument_DeleteBeforeInsert(t *testing.T) {
	doc := NewDocument()
	target := el("alice", 1, models.OperationID{}, 'q')

	assert.Equal(t, Buffered, doc.ApplyRemoteDelete(target.ID))
	assert.Equal(t, Duplicate, doc.ApplyRemoteDelete(target.ID))

	inserts, deletes := doc.Pending()
	assert.Equal(t, 0, inserts)
	assert.Equal(t, 1, deletes)

	assert.Equal(t, Applied, doc.ApplyRemoteInsert(target))

	assert.Equal(t, "", doc.Text())
	assert.Equal(t, 1, doc.Len())
	assert.False(t, doc.Elements()[0].Visible)

	inserts, deletes = doc.Pending()
	assert.Equal(t, 0, inserts)
	assert.Equal(t, 0, deletes)
}

func TestDocument_UnknownOriginIsBuffered(t *testing.T) {
	doc := NewDocument()
	a := el("alice", 1, models.OperationID{}, 'a')
	b := el("alice", 2, a.ID, 'b')
	c := el("alice", 3, b.ID, 'c')

	assert.Equal(t, Buffered, doc.ApplyRemoteInsert(c))
	assert.Equal(t, Buffered, doc.ApplyRemoteInsert(b))
	assert.Equal(t, Duplicate, doc.ApplyRemoteInsert(b), "buffered insert is deduplicated too")
	assert.Equal(t, "", doc.Text())

	inserts, _ := doc.Pending()
	assert.Equal(t, 2, inserts)

	// Приход корня разворачивает цепочку целиком
	assert.Equal(t, Applied, doc.ApplyRemoteInsert(a))
	assert.Equal(t, "abc", doc.Text())

	inserts, _ = doc.Pending()
	assert.Equal(t, 0, inserts)
}

func TestDocument_Idempotence(t *testing.T) {
	doc := NewDocument()
	a := el("alice", 1, models.OperationID{}, 'a')

	assert.Equal(t, Applied, doc.ApplyRemoteInsert(a))
	assert.Equal(t, Duplicate, doc.ApplyRemoteInsert(a))
	assert.Equal(t, Applied, doc.ApplyRemoteDelete(a.ID))
	assert.Equal(t, Duplicate, doc.ApplyRemoteDelete(a.ID))

	assert.Equal(t, 1, doc.Len())
	assert.Equal(t, 0, doc.VisibleLen())
}

func TestDocument_VisibleIndex(t *testing.T) {
	doc := NewDocument()
	for i, ch := range "abcd" {
		_, err := doc.InsertVisible(i, id("a", uint64(i+1)), ch)
		require.NoError(t, err)
	}
	_, err := doc.DeleteVisible(1) // b
	require.NoError(t, err)

	index, ok := doc.VisibleIndex(id("a", 3))
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	_, ok = doc.VisibleIndex(id("a", 2))
	assert.False(t, ok, "tombstone has no visible index")

	_, ok = doc.VisibleIndex(id("nobody", 1))
	assert.False(t, ok)

	at, err := doc.IDAt(2)
	require.NoError(t, err)
	assert.Equal(t, id("a", 4), at)

	assert.True(t, doc.Contains(id("a", 2)))
	assert.False(t, doc.Contains(id("a", 9)))
}

func TestApplyResult_String(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "buffered", Buffered.String())
	assert.Equal(t, "unknown", ApplyResult(42).String())
}
