// Package desktop provides a GLFW backed window. GLFW must be driven from the
// main OS thread, so importing this package locks it.
//
// The window only carries input, resize and close messages. Frames are still
// rendered by graphics.HeadlessDevice, whose back buffer is not presented to
// the window, so the client area stays blank.
package desktop

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
	"github.com/spaghettifunk/kiln/engine/platform"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var _ platform.Window = (*Window)(nil)

type Window struct {
	title  string
	posX   int
	posY   int
	window *glfw.Window
	bus    *core.EventBus
	input  *core.InputDevice
}

func New(title string, posX, posY int, bus *core.EventBus, input *core.InputDevice) *Window {
	return &Window{
		title: title,
		posX:  posX,
		posY:  posY,
		bus:   bus,
		input: input,
	}
}

func (w *Window) Initialize(params *graphics.Parameters) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if params.RefreshRate > 0 {
		glfw.WindowHint(glfw.RefreshRate, params.RefreshRate)
	}

	var monitor *glfw.Monitor
	if params.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	window, err := glfw.CreateWindow(params.Width, params.Height, w.title, monitor, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	w.window = window

	w.window.SetKeyCallback(w.keyCallback)
	w.window.SetMouseButtonCallback(w.mouseButtonCallback)
	w.window.SetCursorPosCallback(w.cursorPosCallback)
	w.window.SetScrollCallback(w.scrollCallback)
	w.window.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	w.window.SetCloseCallback(w.closeCallback)
	if !params.Fullscreen {
		w.window.SetPos(w.posX, w.posY)
	}
	w.window.Show()

	// the framebuffer can differ from the requested size on high-dpi screens
	params.Width, params.Height = w.window.GetFramebufferSize()
	return nil
}

func (w *Window) Resize(width, height int) error {
	if w.window == nil {
		return fmt.Errorf("window %q is not initialized", w.title)
	}
	w.window.SetSize(width, height)
	return nil
}

func (w *Window) PumpMessages() {
	glfw.PollEvents()
}

func (w *Window) Close() error {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	glfw.Terminate()
	return nil
}

func (w *Window) fire(code core.SystemEventCode, data interface{}) {
	w.bus.Fire(code, w, core.EventContext{Data: data})
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	w.input.ProcessKey(code, action != glfw.Release, action == glfw.Repeat)
}

func (w *Window) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	w.input.ProcessButton(b, action == glfw.Press)
}

func (w *Window) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	w.input.ProcessMouseMove(int32(xpos), int32(ypos))
}

func (w *Window) scrollCallback(_ *glfw.Window, _, yoff float64) {
	switch {
	case yoff > 0:
		w.input.ProcessMouseWheel(1)
	case yoff < 0:
		w.input.ProcessMouseWheel(-1)
	}
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	w.fire(core.EVENT_CODE_RESIZED, &core.SystemEvent{WindowWidth: width, WindowHeight: height})
}

func (w *Window) closeCallback(gw *glfw.Window) {
	// the host decides when the loop ends
	gw.SetShouldClose(false)
	w.fire(core.EVENT_CODE_WINDOW_CLOSING, nil)
}

func translateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		// digits share their ASCII value with the virtual key code
		return core.KeyCode(key), true
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KEY_A + core.KeyCode(key-glfw.KeyA), true
	case key >= glfw.KeyF1 && key <= glfw.KeyF24:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1), true
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_NUMPAD0 + core.KeyCode(key-glfw.KeyKP0), true
	}
	code, ok := keyMap[key]
	return code, ok
}

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyPrintScreen:  core.KEY_SNAPSHOT,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyKPMultiply:   core.KEY_MULTIPLY,
	glfw.KeyKPAdd:        core.KEY_ADD,
	glfw.KeyKPSubtract:   core.KEY_SUBTRACT,
	glfw.KeyKPDecimal:    core.KEY_DECIMAL,
	glfw.KeyKPDivide:     core.KEY_DIVIDE,
	glfw.KeyKPEqual:      core.KEY_NUMPAD_EQUAL,
	glfw.KeyNumLock:      core.KEY_NUMLOCK,
	glfw.KeyScrollLock:   core.KEY_SCROLL,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
	glfw.KeyLeftSuper:    core.KEY_LWIN,
	glfw.KeyRightSuper:   core.KEY_RWIN,
	glfw.KeyMenu:         core.KEY_APPS,
	glfw.KeySemicolon:    core.KEY_SEMICOLON,
	glfw.KeyEqual:        core.KEY_PLUS,
	glfw.KeyComma:        core.KEY_COMMA,
	glfw.KeyMinus:        core.KEY_MINUS,
	glfw.KeyPeriod:       core.KEY_PERIOD,
	glfw.KeySlash:        core.KEY_SLASH,
	glfw.KeyGraveAccent:  core.KEY_GRAVE,
}
