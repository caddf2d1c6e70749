package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type listener struct {
	name string
}

func TestEventBus_RegisterAndFire(t *testing.T) {
	bus := NewEventBus()
	l := &listener{name: "a"}

	var got EventContext
	var gotSender interface{}
	ok := bus.Register(EVENT_CODE_RESIZED, l, func(code SystemEventCode, sender interface{}, li interface{}, data EventContext) bool {
		got = data
		gotSender = sender
		assert.Same(t, l, li)
		return true
	})
	assert.True(t, ok)

	handled := bus.Fire(EVENT_CODE_RESIZED, "window", EventContext{Data: &SystemEvent{WindowWidth: 10, WindowHeight: 20}})
	assert.True(t, handled)
	assert.Equal(t, "window", gotSender)
	assert.Equal(t, EVENT_CODE_RESIZED, got.Type)
	assert.Equal(t, 10, got.Data.(*SystemEvent).WindowWidth)
}

func TestEventBus_DuplicateListener(t *testing.T) {
	bus := NewEventBus()
	l := &listener{}
	fn := func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }

	assert.True(t, bus.Register(EVENT_CODE_APPLICATION_QUIT, l, fn))
	assert.False(t, bus.Register(EVENT_CODE_APPLICATION_QUIT, l, fn))
	assert.Equal(t, 1, bus.Listeners(EVENT_CODE_APPLICATION_QUIT))
}

func TestEventBus_HandledStopsPropagation(t *testing.T) {
	bus := NewEventBus()
	calls := []string{}
	bus.Register(EVENT_CODE_KEY_PRESSED, &listener{name: "first"}, func(_ SystemEventCode, _ interface{}, li interface{}, _ EventContext) bool {
		calls = append(calls, li.(*listener).name)
		return true
	})
	bus.Register(EVENT_CODE_KEY_PRESSED, &listener{name: "second"}, func(_ SystemEventCode, _ interface{}, li interface{}, _ EventContext) bool {
		calls = append(calls, li.(*listener).name)
		return true
	})

	assert.True(t, bus.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{}))
	assert.Equal(t, []string{"first"}, calls)
}

func TestEventBus_Unregister(t *testing.T) {
	bus := NewEventBus()
	a, b := &listener{name: "a"}, &listener{name: "b"}
	calls := 0
	fn := func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		calls++
		return false
	}
	bus.Register(EVENT_CODE_WINDOW_CLOSING, a, fn)
	bus.Register(EVENT_CODE_WINDOW_CLOSING, b, fn)

	assert.True(t, bus.Unregister(EVENT_CODE_WINDOW_CLOSING, a))
	assert.False(t, bus.Unregister(EVENT_CODE_WINDOW_CLOSING, a))
	assert.False(t, bus.Fire(EVENT_CODE_WINDOW_CLOSING, nil, EventContext{}))
	assert.Equal(t, 1, calls)

	bus.Reset()
	assert.Equal(t, 0, bus.Listeners(EVENT_CODE_WINDOW_CLOSING))
}

func TestEventBus_HandlerCanUnregisterItself(t *testing.T) {
	bus := NewEventBus()
	l := &listener{}
	calls := 0
	bus.Register(EVENT_CODE_MOUSE_MOVED, l, func(code SystemEventCode, _ interface{}, li interface{}, _ EventContext) bool {
		calls++
		bus.Unregister(code, li)
		return false
	})

	bus.Fire(EVENT_CODE_MOUSE_MOVED, nil, EventContext{})
	bus.Fire(EVENT_CODE_MOUSE_MOVED, nil, EventContext{})
	assert.Equal(t, 1, calls)
}
