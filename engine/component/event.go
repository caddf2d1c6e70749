package component

import (
	"sync"

	"github.com/google/uuid"
)

// Event is a multicast notification. Handlers run synchronously, in
// subscription order, on the goroutine that raised the event.
type Event struct {
	mu       sync.Mutex
	handlers []subscription
}

type subscription struct {
	id uuid.UUID
	fn func()
}

// Subscribe registers fn and returns the token needed to unsubscribe.
func (e *Event) Subscribe(fn func()) uuid.UUID {
	id := uuid.New()
	e.mu.Lock()
	e.handlers = append(e.handlers, subscription{id: id, fn: fn})
	e.mu.Unlock()
	return id
}

// Unsubscribe removes the handler registered under id.
func (e *Event) Unsubscribe(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.handlers {
		if s.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Raise calls every handler. Handlers may subscribe or unsubscribe while the
// event is being raised; the change applies to the next Raise.
func (e *Event) Raise() {
	e.mu.Lock()
	handlers := make([]func(), len(e.handlers))
	for i, s := range e.handlers {
		handlers[i] = s.fn
	}
	e.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
