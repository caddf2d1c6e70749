// Package component defines the roles a game object can take on inside the
// game host. A single value may implement any number of them; the host
// inspects each role independently when the value is added.
package component

import (
	"github.com/spaghettifunk/kiln/engine/content"
	"github.com/spaghettifunk/kiln/engine/core"
)

// Named components can be looked up by name on the host. Names are unique per
// host; the empty name is never registered.
type Named interface {
	Name() string
}

// Initializable components are initialized once, either when they are added
// to an initialized host or when the host drains its pending queue.
type Initializable interface {
	Initialize() error
}

// Contentable components load their assets when the host loads content and
// release them when it unloads.
type Contentable interface {
	LoadContent(cm *content.Manager) error
	UnloadContent() error
}

// Updateable components are updated every running frame in ascending
// UpdateOrder. Changing the order must raise UpdateOrderChanged.
type Updateable interface {
	Enabled() bool
	UpdateOrder() int
	Update(gt core.GameTime) error
	UpdateOrderChanged() *Event
}

// Drawable components are drawn every presented frame in ascending DrawOrder.
// Draw only runs when BeginDraw returns true, and is always followed by
// EndDraw. Changing the order must raise DrawOrderChanged.
type Drawable interface {
	Visible() bool
	DrawOrder() int
	BeginDraw() bool
	Draw(gt core.GameTime) error
	EndDraw()
	DrawOrderChanged() *Event
}
