package containers

import (
	"slices"
	"sync"

	"golang.org/x/exp/constraints"
)

// Ascending builds a comparer ordering items by ascending key.
func Ascending[T any, K constraints.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	}
}

// OrderedList keeps its items sorted by compare. Equal items keep their
// insertion order. Every method takes the list lock for the duration of the
// copy or mutation only.
type OrderedList[T comparable] struct {
	mu      sync.Mutex
	items   []T
	compare func(a, b T) int
}

func NewOrderedList[T comparable](compare func(a, b T) int) *OrderedList[T] {
	return &OrderedList[T]{
		compare: compare,
	}
}

// Insert scans for the first item that sorts after value and inserts value
// before it, or appends when there is none.
func (l *OrderedList[T]) Insert(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.insertLocked(value)
}

func (l *OrderedList[T]) insertLocked(value T) {
	i := slices.IndexFunc(l.items, func(existing T) bool {
		return l.compare(existing, value) > 0
	})
	if i < 0 {
		l.items = append(l.items, value)
		return
	}
	l.items = slices.Insert(l.items, i, value)
}

// Remove deletes value. Returns false when it is not in the list.
func (l *OrderedList[T]) Remove(value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeLocked(value)
}

func (l *OrderedList[T]) removeLocked(value T) bool {
	i := slices.Index(l.items, value)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// Resort moves value to the position matching its current key. Returns false
// when it is not in the list.
func (l *OrderedList[T]) Resort(value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.removeLocked(value) {
		return false
	}
	l.insertLocked(value)
	return true
}

func (l *OrderedList[T]) Contains(value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.items, value)
}

func (l *OrderedList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Snapshot copies the items into buf, reusing its storage, and returns it.
func (l *OrderedList[T]) Snapshot(buf []T) []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(buf[:0], l.items...)
}

// IsSorted reports whether the list currently honours compare.
func (l *OrderedList[T]) IsSorted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.IsSortedFunc(l.items, l.compare)
}
