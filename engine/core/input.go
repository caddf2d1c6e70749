package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE    KeyCode = 0x08
	KEY_ENTER        KeyCode = 0x0D
	KEY_TAB          KeyCode = 0x09
	KEY_SHIFT        KeyCode = 0x10
	KEY_PAUSE        KeyCode = 0x13
	KEY_CAPITAL      KeyCode = 0x14
	KEY_ESCAPE       KeyCode = 0x1B
	KEY_CONVERT      KeyCode = 0x1C
	KEY_NONCONVERT   KeyCode = 0x1D
	KEY_ACCEPT       KeyCode = 0x1E
	KEY_MODECHANGE   KeyCode = 0x1F
	KEY_SPACE        KeyCode = 0x20
	KEY_PRIOR        KeyCode = 0x21
	KEY_NEXT         KeyCode = 0x22
	KEY_END          KeyCode = 0x23
	KEY_HOME         KeyCode = 0x24
	KEY_LEFT         KeyCode = 0x25
	KEY_UP           KeyCode = 0x26
	KEY_RIGHT        KeyCode = 0x27
	KEY_DOWN         KeyCode = 0x28
	KEY_SELECT       KeyCode = 0x29
	KEY_PRINT        KeyCode = 0x2A
	KEY_EXECUTE      KeyCode = 0x2B
	KEY_SNAPSHOT     KeyCode = 0x2C
	KEY_INSERT       KeyCode = 0x2D
	KEY_DELETE       KeyCode = 0x2E
	KEY_HELP         KeyCode = 0x2F
	KEY_A            KeyCode = 0x41
	KEY_B            KeyCode = 0x42
	KEY_C            KeyCode = 0x43
	KEY_D            KeyCode = 0x44
	KEY_E            KeyCode = 0x45
	KEY_F            KeyCode = 0x46
	KEY_G            KeyCode = 0x47
	KEY_H            KeyCode = 0x48
	KEY_I            KeyCode = 0x49
	KEY_J            KeyCode = 0x4A
	KEY_K            KeyCode = 0x4B
	KEY_L            KeyCode = 0x4C
	KEY_M            KeyCode = 0x4D
	KEY_N            KeyCode = 0x4E
	KEY_O            KeyCode = 0x4F
	KEY_P            KeyCode = 0x50
	KEY_Q            KeyCode = 0x51
	KEY_R            KeyCode = 0x52
	KEY_S            KeyCode = 0x53
	KEY_T            KeyCode = 0x54
	KEY_U            KeyCode = 0x55
	KEY_V            KeyCode = 0x56
	KEY_W            KeyCode = 0x57
	KEY_X            KeyCode = 0x58
	KEY_Y            KeyCode = 0x59
	KEY_Z            KeyCode = 0x5A
	KEY_LWIN         KeyCode = 0x5B
	KEY_RWIN         KeyCode = 0x5C
	KEY_APPS         KeyCode = 0x5D
	KEY_SLEEP        KeyCode = 0x5F
	KEY_NUMPAD0      KeyCode = 0x60
	KEY_NUMPAD1      KeyCode = 0x61
	KEY_NUMPAD2      KeyCode = 0x62
	KEY_NUMPAD3      KeyCode = 0x63
	KEY_NUMPAD4      KeyCode = 0x64
	KEY_NUMPAD5      KeyCode = 0x65
	KEY_NUMPAD6      KeyCode = 0x66
	KEY_NUMPAD7      KeyCode = 0x67
	KEY_NUMPAD8      KeyCode = 0x68
	KEY_NUMPAD9      KeyCode = 0x69
	KEY_MULTIPLY     KeyCode = 0x6A
	KEY_ADD          KeyCode = 0x6B
	KEY_SEPARATOR    KeyCode = 0x6C
	KEY_SUBTRACT     KeyCode = 0x6D
	KEY_DECIMAL      KeyCode = 0x6E
	KEY_DIVIDE       KeyCode = 0x6F
	KEY_F1           KeyCode = 0x70
	KEY_F2           KeyCode = 0x71
	KEY_F3           KeyCode = 0x72
	KEY_F4           KeyCode = 0x73
	KEY_F5           KeyCode = 0x74
	KEY_F6           KeyCode = 0x75
	KEY_F7           KeyCode = 0x76
	KEY_F8           KeyCode = 0x77
	KEY_F9           KeyCode = 0x78
	KEY_F10          KeyCode = 0x79
	KEY_F11          KeyCode = 0x7A
	KEY_F12          KeyCode = 0x7B
	KEY_F13          KeyCode = 0x7C
	KEY_F14          KeyCode = 0x7D
	KEY_F15          KeyCode = 0x7E
	KEY_F16          KeyCode = 0x7F
	KEY_F17          KeyCode = 0x80
	KEY_F18          KeyCode = 0x81
	KEY_F19          KeyCode = 0x82
	KEY_F20          KeyCode = 0x83
	KEY_F21          KeyCode = 0x84
	KEY_F22          KeyCode = 0x85
	KEY_F23          KeyCode = 0x86
	KEY_F24          KeyCode = 0x87
	KEY_NUMLOCK      KeyCode = 0x90
	KEY_SCROLL       KeyCode = 0x91
	KEY_NUMPAD_EQUAL KeyCode = 0x92
	KEY_LSHIFT       KeyCode = 0xA0
	KEY_RSHIFT       KeyCode = 0xA1
	KEY_LCONTROL     KeyCode = 0xA2
	KEY_RCONTROL     KeyCode = 0xA3
	KEY_LMENU        KeyCode = 0xA4
	KEY_RMENU        KeyCode = 0xA5
	KEY_SEMICOLON    KeyCode = 0xBA
	KEY_PLUS         KeyCode = 0xBB
	KEY_COMMA        KeyCode = 0xBC
	KEY_MINUS        KeyCode = 0xBD
	KEY_PERIOD       KeyCode = 0xBE
	KEY_SLASH        KeyCode = 0xBF
	KEY_GRAVE        KeyCode = 0xC0
	KEYS_MAX_KEYS    KeyCode = 0x100
)

// KeyEvent is delivered to key handlers and fired on the event bus.
type KeyEvent struct {
	KeyCode KeyCode
	Pressed bool
	Repeat  bool
}

type MouseEventKind uint8

const (
	MouseEventButton MouseEventKind = iota
	MouseEventMove
	MouseEventWheel
)

// MouseEvent is delivered to mouse handlers and fired on the event bus.
type MouseEvent struct {
	Kind    MouseEventKind
	Button  Button
	Pressed bool
	PosX    int32
	PosY    int32
	Scroll  int8
}

// KeyHandler receives raw key events from the input device.
type KeyHandler interface {
	HandleKey(e KeyEvent)
}

// MouseHandler receives raw mouse events from the input device.
type MouseHandler interface {
	HandleMouse(e MouseEvent)
}

// Mouse state structure
type MouseState struct {
	X       int32
	Y       int32
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputDevice holds current and previous keyboard and mouse state and fans
// raw events out to registered handlers and the event bus.
type InputDevice struct {
	mu sync.RWMutex

	keyboardCurrent  KeyboardState
	keyboardPrevious KeyboardState
	mouseCurrent     MouseState
	mousePrevious    MouseState

	keyHandlers   []KeyHandler
	mouseHandlers []MouseHandler

	bus *EventBus
}

// NewInputDevice creates an input device. bus may be nil.
func NewInputDevice(bus *EventBus) *InputDevice {
	return &InputDevice{bus: bus}
}

func (in *InputDevice) RegisterKeyHandler(h KeyHandler) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, existing := range in.keyHandlers {
		if existing == h {
			return false
		}
	}
	in.keyHandlers = append(in.keyHandlers, h)
	return true
}

func (in *InputDevice) UnregisterKeyHandler(h KeyHandler) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, existing := range in.keyHandlers {
		if existing == h {
			in.keyHandlers = append(in.keyHandlers[:i:i], in.keyHandlers[i+1:]...)
			return true
		}
	}
	return false
}

func (in *InputDevice) RegisterMouseHandler(h MouseHandler) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, existing := range in.mouseHandlers {
		if existing == h {
			return false
		}
	}
	in.mouseHandlers = append(in.mouseHandlers, h)
	return true
}

func (in *InputDevice) UnregisterMouseHandler(h MouseHandler) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, existing := range in.mouseHandlers {
		if existing == h {
			in.mouseHandlers = append(in.mouseHandlers[:i:i], in.mouseHandlers[i+1:]...)
			return true
		}
	}
	return false
}

// KeyHandlers returns the number of registered key handlers.
func (in *InputDevice) KeyHandlers() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.keyHandlers)
}

// MouseHandlers returns the number of registered mouse handlers.
func (in *InputDevice) MouseHandlers() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.mouseHandlers)
}

// Update copies current states to previous states. Called once per frame
// after every input for the frame has been recorded.
func (in *InputDevice) Update() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.keyboardPrevious = in.keyboardCurrent
	in.mousePrevious = in.mouseCurrent
}

// keyboard input
func (in *InputDevice) IsKeyDown(key KeyCode) bool {
	if key >= KEYS_MAX_KEYS {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboardCurrent.Keys[key]
}

func (in *InputDevice) IsKeyUp(key KeyCode) bool {
	return !in.IsKeyDown(key)
}

func (in *InputDevice) WasKeyDown(key KeyCode) bool {
	if key >= KEYS_MAX_KEYS {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboardPrevious.Keys[key]
}

func (in *InputDevice) WasKeyUp(key KeyCode) bool {
	return !in.WasKeyDown(key)
}

// ProcessKey records a key transition. Handlers and the event bus are only
// notified when the state actually changed, unless repeat is set.
func (in *InputDevice) ProcessKey(key KeyCode, pressed bool, repeat bool) {
	if key >= KEYS_MAX_KEYS {
		return
	}
	in.mu.Lock()
	changed := in.keyboardCurrent.Keys[key] != pressed
	in.keyboardCurrent.Keys[key] = pressed
	handlers := append([]KeyHandler(nil), in.keyHandlers...)
	in.mu.Unlock()

	if !changed && !repeat {
		return
	}

	e := KeyEvent{KeyCode: key, Pressed: pressed, Repeat: repeat && !changed}
	for _, h := range handlers {
		h.HandleKey(e)
	}

	if in.bus != nil {
		code := EVENT_CODE_KEY_RELEASED
		if pressed {
			code = EVENT_CODE_KEY_PRESSED
		}
		in.bus.Fire(code, in, EventContext{Data: &e})
	}
}

// mouse input
func (in *InputDevice) IsButtonDown(button Button) bool {
	if button >= BUTTON_MAX_BUTTONS {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mouseCurrent.Buttons[button]
}

func (in *InputDevice) IsButtonUp(button Button) bool {
	return !in.IsButtonDown(button)
}

func (in *InputDevice) WasButtonDown(button Button) bool {
	if button >= BUTTON_MAX_BUTTONS {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mousePrevious.Buttons[button]
}

func (in *InputDevice) WasButtonUp(button Button) bool {
	return !in.WasButtonDown(button)
}

func (in *InputDevice) MousePosition() (int32, int32) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mouseCurrent.X, in.mouseCurrent.Y
}

func (in *InputDevice) PreviousMousePosition() (int32, int32) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mousePrevious.X, in.mousePrevious.Y
}

func (in *InputDevice) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS {
		return
	}
	in.mu.Lock()
	if in.mouseCurrent.Buttons[button] == pressed {
		in.mu.Unlock()
		return
	}
	in.mouseCurrent.Buttons[button] = pressed
	e := MouseEvent{
		Kind:    MouseEventButton,
		Button:  button,
		Pressed: pressed,
		PosX:    in.mouseCurrent.X,
		PosY:    in.mouseCurrent.Y,
	}
	handlers := append([]MouseHandler(nil), in.mouseHandlers...)
	in.mu.Unlock()

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	in.dispatchMouse(code, e, handlers)
}

func (in *InputDevice) ProcessMouseMove(x int32, y int32) {
	in.mu.Lock()
	if in.mouseCurrent.X == x && in.mouseCurrent.Y == y {
		in.mu.Unlock()
		return
	}
	in.mouseCurrent.X = x
	in.mouseCurrent.Y = y
	handlers := append([]MouseHandler(nil), in.mouseHandlers...)
	in.mu.Unlock()

	in.dispatchMouse(EVENT_CODE_MOUSE_MOVED, MouseEvent{Kind: MouseEventMove, PosX: x, PosY: y}, handlers)
}

func (in *InputDevice) ProcessMouseWheel(zDelta int8) {
	in.mu.RLock()
	e := MouseEvent{
		Kind:   MouseEventWheel,
		Scroll: zDelta,
		PosX:   in.mouseCurrent.X,
		PosY:   in.mouseCurrent.Y,
	}
	handlers := append([]MouseHandler(nil), in.mouseHandlers...)
	in.mu.RUnlock()

	in.dispatchMouse(EVENT_CODE_MOUSE_WHEEL, e, handlers)
}

func (in *InputDevice) dispatchMouse(code SystemEventCode, e MouseEvent, handlers []MouseHandler) {
	for _, h := range handlers {
		h.HandleMouse(e)
	}
	if in.bus != nil {
		in.bus.Fire(code, in, EventContext{Data: &e})
	}
}
