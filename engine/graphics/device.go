package graphics

import (
	"image"
	"image/color"
)

// Device is the graphics device the game host drives. The host only calls
// Initialize, BeginFrame, EndFrame and Resize; the rest is for components.
type Device interface {
	Initialize(params *Parameters) error
	// Resize requests a new back buffer size. The change is applied at the
	// start of the next frame.
	Resize(width, height int)
	// BeginFrame reports whether the frame can be drawn.
	BeginFrame() bool
	// EndFrame presents the frame.
	EndFrame() error
	Clear(c color.Color)
	// SetRenderTarget redirects drawing; nil restores the back buffer.
	SetRenderTarget(target *RenderTarget)
	IsFullscreen() bool
	SetFullscreen(fullscreen bool) error
	Parameters() Parameters
	Close() error
}

// RenderTarget is an off-screen surface.
type RenderTarget struct {
	Name  string
	Image *image.RGBA
}

func NewRenderTarget(name string, width, height int) *RenderTarget {
	return &RenderTarget{
		Name:  name,
		Image: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (rt *RenderTarget) Bounds() image.Rectangle {
	return rt.Image.Bounds()
}
