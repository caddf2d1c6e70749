package engine

import (
	"github.com/spaghettifunk/kiln/engine/content"
	"github.com/spaghettifunk/kiln/engine/core"
	"github.com/spaghettifunk/kiln/engine/graphics"
	"github.com/spaghettifunk/kiln/engine/platform"
)

// WindowFactory builds the game window once the event bus and input device of
// the game exist.
type WindowFactory func(cfg *Config, bus *core.EventBus, input *core.InputDevice) platform.Window

type Option func(*Game)

// WithWindow replaces the default headless window.
func WithWindow(factory WindowFactory) Option {
	return func(g *Game) {
		g.windowFactory = factory
	}
}

// WithDevice replaces the default headless graphics device.
func WithDevice(device graphics.Device) Option {
	return func(g *Game) {
		g.device = device
	}
}

// WithGraphicsParametersHook lets the caller adjust the graphics parameters
// after they are read from the configuration and before the window and the
// device see them.
func WithGraphicsParametersHook(hook func(*graphics.Parameters)) Option {
	return func(g *Game) {
		g.paramsHooks = append(g.paramsHooks, hook)
	}
}

// WithContentOptions forwards options to the content manager.
func WithContentOptions(opts ...content.Option) Option {
	return func(g *Game) {
		g.contentOpts = append(g.contentOpts, opts...)
	}
}
