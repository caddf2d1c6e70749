package component

import "github.com/spaghettifunk/kiln/engine/containers"

var (
	byUpdateOrder = containers.Ascending(Updateable.UpdateOrder)
	byDrawOrder   = containers.Ascending(Drawable.DrawOrder)
)

// CompareUpdateOrder orders updateables by ascending UpdateOrder.
func CompareUpdateOrder(a, b Updateable) int {
	if a == b {
		return 0
	}
	return byUpdateOrder(a, b)
}

// CompareDrawOrder orders drawables by ascending DrawOrder.
func CompareDrawOrder(a, b Drawable) int {
	if a == b {
		return 0
	}
	return byDrawOrder(a, b)
}
