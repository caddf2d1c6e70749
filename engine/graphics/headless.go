package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/spaghettifunk/kiln/engine/core"
)

// PresentFunc receives the back buffer on every presented frame. The image is
// only valid for the duration of the call.
type PresentFunc func(frame uint64, backBuffer *image.RGBA)

// HeadlessDevice renders into an in-memory RGBA back buffer. It is the device
// used by servers, tests and the default window.
type HeadlessDevice struct {
	mu sync.Mutex

	params      Parameters
	initialized bool
	inFrame     bool

	backBuffer *image.RGBA
	target     *RenderTarget

	pendingResize bool
	pendingWidth  int
	pendingHeight int

	frames  uint64
	present PresentFunc
}

func NewHeadlessDevice() *HeadlessDevice {
	return &HeadlessDevice{}
}

// OnPresent installs a callback invoked by EndFrame.
func (d *HeadlessDevice) OnPresent(fn PresentFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.present = fn
}

func (d *HeadlessDevice) Initialize(params *Parameters) error {
	if params == nil {
		return fmt.Errorf("%w: nil parameters", ErrInvalidParameters)
	}
	if err := params.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.params = *params
	d.backBuffer = image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	d.initialized = true
	core.LogInfo("Headless device initialized (%dx%d, %d buffers)", params.Width, params.Height, params.BufferCount)
	return nil
}

func (d *HeadlessDevice) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pendingResize = true
	d.pendingWidth = width
	d.pendingHeight = height
}

func (d *HeadlessDevice) BeginFrame() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return false
	}
	if d.pendingResize {
		d.applyResizeLocked()
	}
	// minimized
	if d.params.Width == 0 || d.params.Height == 0 {
		return false
	}
	d.inFrame = true
	return true
}

func (d *HeadlessDevice) applyResizeLocked() {
	d.pendingResize = false
	w, h := d.pendingWidth, d.pendingHeight
	if w == d.params.Width && h == d.params.Height {
		return
	}
	d.params.Width = w
	d.params.Height = h
	if w <= 0 || h <= 0 {
		core.LogDebug("Headless device minimized")
		return
	}

	resized := image.NewRGBA(image.Rect(0, 0, w, h))
	if d.backBuffer != nil && !d.backBuffer.Bounds().Empty() {
		xdraw.ApproxBiLinear.Scale(resized, resized.Bounds(), d.backBuffer, d.backBuffer.Bounds(), xdraw.Src, nil)
	}
	d.backBuffer = resized
	core.LogDebug("Headless device resized to %dx%d", w, h)
}

func (d *HeadlessDevice) EndFrame() error {
	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return core.ErrDeviceNotInitialized
	}
	if !d.inFrame {
		d.mu.Unlock()
		return fmt.Errorf("end frame called without a matching begin frame")
	}
	d.inFrame = false
	d.frames++
	frame, buf, present := d.frames, d.backBuffer, d.present
	d.mu.Unlock()

	if present != nil {
		present(frame, buf)
	}
	return nil
}

func (d *HeadlessDevice) Clear(c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dst := d.currentLocked()
	if dst == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (d *HeadlessDevice) SetRenderTarget(target *RenderTarget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
}

// Surface returns the image draw calls currently go to.
func (d *HeadlessDevice) Surface() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentLocked()
}

func (d *HeadlessDevice) currentLocked() *image.RGBA {
	if d.target != nil {
		return d.target.Image
	}
	return d.backBuffer
}

func (d *HeadlessDevice) IsFullscreen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params.Fullscreen
}

func (d *HeadlessDevice) SetFullscreen(fullscreen bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return core.ErrDeviceNotInitialized
	}
	d.params.Fullscreen = fullscreen
	return nil
}

func (d *HeadlessDevice) Parameters() Parameters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

func (d *HeadlessDevice) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *HeadlessDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialized = false
	d.backBuffer = nil
	d.target = nil
	return nil
}
