package graphics

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/kiln/engine/core"
)

func TestParameters_Validate(t *testing.T) {
	assert.NoError(t, DefaultParameters().Validate())

	tests := []struct {
		name   string
		mutate func(p *Parameters)
	}{
		{name: "zero width", mutate: func(p *Parameters) { p.Width = 0 }},
		{name: "negative height", mutate: func(p *Parameters) { p.Height = -1 }},
		{name: "no buffers", mutate: func(p *Parameters) { p.BufferCount = 0 }},
		{name: "no samples", mutate: func(p *Parameters) { p.SampleCount = 0 }},
		{name: "negative refresh", mutate: func(p *Parameters) { p.RefreshRate = -60 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParameters)
		})
	}
	assert.InDelta(t, 16.0/9.0, DefaultParameters().AspectRatio(), 0.001)
}

func TestHeadlessDevice_FrameBeforeInitialize(t *testing.T) {
	d := NewHeadlessDevice()
	assert.False(t, d.BeginFrame())
	assert.ErrorIs(t, d.EndFrame(), core.ErrDeviceNotInitialized)
	assert.ErrorIs(t, d.SetFullscreen(true), core.ErrDeviceNotInitialized)
}

func TestHeadlessDevice_ClearAndPresent(t *testing.T) {
	d := NewHeadlessDevice()
	p := Parameters{Width: 4, Height: 2, BufferCount: 1, SampleCount: 1}
	require.NoError(t, d.Initialize(&p))

	var presented []uint64
	var pixel color.RGBA
	d.OnPresent(func(frame uint64, bb *image.RGBA) {
		presented = append(presented, frame)
		pixel = bb.RGBAAt(3, 1)
	})

	require.True(t, d.BeginFrame())
	d.Clear(color.RGBA{R: 255, A: 255})
	require.NoError(t, d.EndFrame())

	assert.Equal(t, []uint64{1}, presented)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, pixel)
	assert.Equal(t, uint64(1), d.Frames())

	assert.Error(t, d.EndFrame(), "end without begin")
}

func TestHeadlessDevice_DeferredResize(t *testing.T) {
	d := NewHeadlessDevice()
	p := Parameters{Width: 8, Height: 8, BufferCount: 1, SampleCount: 1}
	require.NoError(t, d.Initialize(&p))

	d.Resize(16, 4)
	assert.Equal(t, 8, d.Parameters().Width, "resize applies on the next frame")

	require.True(t, d.BeginFrame())
	assert.Equal(t, 16, d.Parameters().Width)
	assert.Equal(t, image.Rect(0, 0, 16, 4), d.Surface().Bounds())
	require.NoError(t, d.EndFrame())

	d.Resize(0, 0)
	assert.False(t, d.BeginFrame(), "minimized device does not draw")

	d.Resize(2, 2)
	assert.True(t, d.BeginFrame())
}

func TestHeadlessDevice_RenderTarget(t *testing.T) {
	d := NewHeadlessDevice()
	p := DefaultParameters()
	require.NoError(t, d.Initialize(&p))

	rt := NewRenderTarget("shadow", 2, 2)
	d.SetRenderTarget(rt)
	d.Clear(color.RGBA{G: 255, A: 255})
	assert.Equal(t, color.RGBA{G: 255, A: 255}, rt.Image.RGBAAt(1, 1))
	assert.Same(t, rt.Image, d.Surface())

	d.SetRenderTarget(nil)
	assert.Equal(t, image.Rect(0, 0, p.Width, p.Height), d.Surface().Bounds())

	require.NoError(t, d.SetFullscreen(true))
	assert.True(t, d.IsFullscreen())
	require.NoError(t, d.Close())
	assert.False(t, d.BeginFrame())
}
