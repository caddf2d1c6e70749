package testbed

import (
	"image/color"
	"math"

	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
	"github.com/spaghettifunk/kiln/engine/services"
)

// Backdrop clears the frame with a colour that follows the spinner.
type Backdrop struct {
	component.Renderer

	registry *services.Registry
	spinner  *Spinner
	device   graphics.Device
	last     color.RGBA
}

func NewBackdrop(registry *services.Registry, spinner *Spinner) *Backdrop {
	b := &Backdrop{registry: registry, spinner: spinner}
	// drawn before everything else
	b.SetDrawOrder(math.MinInt32)
	return b
}

func (b *Backdrop) Name() string {
	return "testbed.backdrop"
}

func (b *Backdrop) Initialize() error {
	device, err := services.GetService[graphics.Device](b.registry)
	if err != nil {
		return err
	}
	b.device = device
	return nil
}

func (b *Backdrop) Draw(core.GameTime) error {
	a := b.spinner.Angle()
	b.last = color.RGBA{
		R: channel(a),
		G: channel(a + 2*math.Pi/3),
		B: channel(a + 4*math.Pi/3),
		A: 0xff,
	}
	b.device.Clear(b.last)
	return nil
}

// Colour returns the colour of the last drawn frame.
func (b *Backdrop) Colour() color.RGBA {
	return b.last
}

func channel(phase float64) uint8 {
	return uint8(math.Round((math.Sin(phase)*0.5 + 0.5) * 0xff))
}
