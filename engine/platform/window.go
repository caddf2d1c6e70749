// Package platform holds the window abstraction the game host pumps every
// frame.
package platform

import (
	"github.com/spaghettifunk/kiln/engine/graphics"
)

// Window is the OS window, or a stand-in for one. Windows report closing,
// closed and resized through the event bus and raw input through the input
// device they were created with.
type Window interface {
	// Initialize creates the window. It may adjust params, for example to the
	// real client size.
	Initialize(params *graphics.Parameters) error
	Resize(width, height int) error
	// PumpMessages handles every pending OS message without blocking.
	PumpMessages()
	Close() error
}
