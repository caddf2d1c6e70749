package containers

import "errors"

var ErrQueueEmpty = errors.New("queue is empty")

// Queue is a FIFO ring buffer that grows when full. Not safe for concurrent
// use.
type Queue[T any] struct {
	data       []T
	readIndex  int
	writeIndex int
	count      int
}

// Create a new Queue with an initial capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		data: make([]T, capacity),
	}
}

// Enqueue adds an element to the back of the queue.
func (q *Queue[T]) Enqueue(value T) {
	if q.count == len(q.data) {
		q.grow()
	}
	q.data[q.writeIndex] = value
	q.writeIndex = (q.writeIndex + 1) % len(q.data)
	q.count++
}

// Dequeue removes and returns the front element in the queue
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if q.IsEmpty() {
		return zero, ErrQueueEmpty
	}

	value := q.data[q.readIndex]
	q.data[q.readIndex] = zero
	q.readIndex = (q.readIndex + 1) % len(q.data)
	q.count--
	return value, nil
}

// Peek returns the front element without removing it
func (q *Queue[T]) Peek() (T, error) {
	if q.IsEmpty() {
		var zero T
		return zero, ErrQueueEmpty
	}
	return q.data[q.readIndex], nil
}

// RemoveFunc drops every element for which match returns true, keeping the
// order of the others. Returns the number of removed elements.
func (q *Queue[T]) RemoveFunc(match func(T) bool) int {
	kept := make([]T, 0, len(q.data))
	removed := 0
	for i := 0; i < q.count; i++ {
		v := q.data[(q.readIndex+i)%len(q.data)]
		if match(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	if removed == 0 {
		return 0
	}
	q.reset(kept, len(q.data))
	return removed
}

// Drain empties the queue and returns its elements in FIFO order.
func (q *Queue[T]) Drain() []T {
	out := make([]T, 0, q.count)
	for !q.IsEmpty() {
		v, _ := q.Dequeue()
		out = append(out, v)
	}
	return out
}

// IsEmpty checks if the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.count == 0
}

func (q *Queue[T]) Len() int {
	return q.count
}

func (q *Queue[T]) grow() {
	items := make([]T, 0, q.count)
	for i := 0; i < q.count; i++ {
		items = append(items, q.data[(q.readIndex+i)%len(q.data)])
	}
	q.reset(items, len(q.data)*2)
}

func (q *Queue[T]) reset(items []T, capacity int) {
	q.data = make([]T, capacity)
	copy(q.data, items)
	q.readIndex = 0
	q.count = len(items)
	q.writeIndex = q.count % capacity
}
