package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
)

func TestHeadless_PumpDeliversInput(t *testing.T) {
	bus := core.NewEventBus()
	in := core.NewInputDevice(bus)
	w := NewHeadless("test", bus, in)
	p := graphics.DefaultParameters()
	require.NoError(t, w.Initialize(&p))

	w.Post(Message{Kind: MessageKey, Key: core.KEY_W, Pressed: true})
	w.Post(Message{Kind: MessageMouseMove, X: 3, Y: 4})
	w.Post(Message{Kind: MessageButton, Button: core.BUTTON_RIGHT, Pressed: true})
	assert.False(t, in.IsKeyDown(core.KEY_W), "nothing happens before the pump")

	w.PumpMessages()
	assert.True(t, in.IsKeyDown(core.KEY_W))
	assert.True(t, in.IsButtonDown(core.BUTTON_RIGHT))
	x, y := in.MousePosition()
	assert.Equal(t, int32(3), x)
	assert.Equal(t, int32(4), y)
	assert.Equal(t, uint64(3), w.Pumped())
}

func TestHeadless_ResizeFiresOnChange(t *testing.T) {
	bus := core.NewEventBus()
	w := NewHeadless("test", bus, nil)
	p := graphics.Parameters{Width: 100, Height: 100}
	require.NoError(t, w.Initialize(&p))

	var sizes [][2]int
	bus.Register(core.EVENT_CODE_RESIZED, t, func(_ core.SystemEventCode, _ interface{}, _ interface{}, data core.EventContext) bool {
		se := data.Data.(*core.SystemEvent)
		sizes = append(sizes, [2]int{se.WindowWidth, se.WindowHeight})
		return false
	})

	require.NoError(t, w.Resize(100, 100))
	require.NoError(t, w.Resize(200, 50))
	assert.Error(t, w.Resize(-1, 10))
	w.PumpMessages()

	assert.Equal(t, [][2]int{{200, 50}}, sizes)
	width, height := w.Size()
	assert.Equal(t, 200, width)
	assert.Equal(t, 50, height)
}

func TestHeadless_RequestClose(t *testing.T) {
	bus := core.NewEventBus()
	w := NewHeadless("test", bus, nil)
	p := graphics.DefaultParameters()
	require.NoError(t, w.Initialize(&p))

	order := []core.SystemEventCode{}
	record := func(code core.SystemEventCode, _ interface{}, _ interface{}, _ core.EventContext) bool {
		order = append(order, code)
		return false
	}
	bus.Register(core.EVENT_CODE_WINDOW_CLOSING, w, record)
	bus.Register(core.EVENT_CODE_WINDOW_CLOSED, w, record)

	w.RequestClose()
	assert.False(t, w.IsClosed())
	w.PumpMessages()

	assert.True(t, w.IsClosed())
	assert.Equal(t, []core.SystemEventCode{core.EVENT_CODE_WINDOW_CLOSING, core.EVENT_CODE_WINDOW_CLOSED}, order)
}
