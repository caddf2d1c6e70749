package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[int](2)
	for i := 1; i <= 5; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 5, q.Len())

	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, head)

	for i := 1; i <= 5; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueue_WrapAroundAndGrow(t *testing.T) {
	q := NewQueue[string](3)
	q.Enqueue("a")
	q.Enqueue("b")
	v, _ := q.Dequeue()
	assert.Equal(t, "a", v)

	q.Enqueue("c")
	q.Enqueue("d")
	q.Enqueue("e")

	assert.Equal(t, []string{"b", "c", "d", "e"}, q.Drain())
	assert.True(t, q.IsEmpty())
}

func TestQueue_RemoveFunc(t *testing.T) {
	q := NewQueue[int](4)
	for i := 0; i < 6; i++ {
		q.Enqueue(i)
	}
	removed := q.RemoveFunc(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, q.RemoveFunc(func(v int) bool { return v > 100 }))

	q.Enqueue(7)
	assert.Equal(t, []int{1, 3, 5, 7}, q.Drain())
}
