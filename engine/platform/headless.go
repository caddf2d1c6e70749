package platform

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
)

type MessageKind uint8

const (
	MessageKey MessageKind = iota
	MessageButton
	MessageMouseMove
	MessageMouseWheel
	MessageResize
	MessageClose
)

// Message is an OS-style message queued on a headless window.
type Message struct {
	Kind    MessageKind
	Key     core.KeyCode
	Button  core.Button
	Pressed bool
	Repeat  bool
	X, Y    int32
	Scroll  int8
	Width   int
	Height  int
}

// Headless is a window without an OS surface. Messages posted from any
// goroutine are delivered on the next PumpMessages call.
type Headless struct {
	mu       sync.Mutex
	queue    []Message
	width    int
	height   int
	title    string
	created  bool
	closed   bool
	bus      *core.EventBus
	input    *core.InputDevice
	messages uint64
}

func NewHeadless(title string, bus *core.EventBus, input *core.InputDevice) *Headless {
	return &Headless{
		title: title,
		bus:   bus,
		input: input,
	}
}

func (w *Headless) Initialize(params *graphics.Parameters) error {
	if params == nil {
		return fmt.Errorf("headless window %q: nil parameters", w.title)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = params.Width
	w.height = params.Height
	w.created = true
	w.closed = false
	core.LogDebug("Headless window %q created (%dx%d)", w.title, w.width, w.height)
	return nil
}

func (w *Headless) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("headless window %q: invalid size %dx%d", w.title, width, height)
	}
	w.Post(Message{Kind: MessageResize, Width: width, Height: height})
	return nil
}

// Post queues a message.
func (w *Headless) Post(m Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, m)
}

// RequestClose behaves like the user clicking the close button.
func (w *Headless) RequestClose() {
	w.Post(Message{Kind: MessageClose})
}

func (w *Headless) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Headless) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Pumped returns the number of messages delivered so far.
func (w *Headless) Pumped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.messages
}

func (w *Headless) PumpMessages() {
	w.mu.Lock()
	pending := w.queue
	w.queue = nil
	w.messages += uint64(len(pending))
	w.mu.Unlock()

	for _, m := range pending {
		w.dispatch(m)
	}
}

func (w *Headless) dispatch(m Message) {
	switch m.Kind {
	case MessageKey:
		if w.input != nil {
			w.input.ProcessKey(m.Key, m.Pressed, m.Repeat)
		}
	case MessageButton:
		if w.input != nil {
			w.input.ProcessButton(m.Button, m.Pressed)
		}
	case MessageMouseMove:
		if w.input != nil {
			w.input.ProcessMouseMove(m.X, m.Y)
		}
	case MessageMouseWheel:
		if w.input != nil {
			w.input.ProcessMouseWheel(m.Scroll)
		}
	case MessageResize:
		w.mu.Lock()
		changed := w.width != m.Width || w.height != m.Height
		w.width, w.height = m.Width, m.Height
		w.mu.Unlock()
		if changed {
			w.fire(core.EVENT_CODE_RESIZED, &core.SystemEvent{WindowWidth: m.Width, WindowHeight: m.Height})
		}
	case MessageClose:
		w.fire(core.EVENT_CODE_WINDOW_CLOSING, nil)
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		w.fire(core.EVENT_CODE_WINDOW_CLOSED, nil)
	}
}

func (w *Headless) fire(code core.SystemEventCode, data interface{}) {
	if w.bus == nil {
		return
	}
	w.bus.Fire(code, w, core.EventContext{Data: data})
}

func (w *Headless) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.queue = nil
	return nil
}
