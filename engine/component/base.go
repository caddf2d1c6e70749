package component

import (
	"sync/atomic"
)

// Updater implements the bookkeeping part of Updateable. Embed it and add an
// Update method. The zero value is enabled with order 0.
type Updater struct {
	disabled    atomic.Bool
	updateOrder atomic.Int64

	enabledChanged     Event
	updateOrderChanged Event
}

func (u *Updater) Enabled() bool {
	return !u.disabled.Load()
}

func (u *Updater) SetEnabled(enabled bool) {
	if u.disabled.Swap(!enabled) == enabled {
		u.enabledChanged.Raise()
	}
}

func (u *Updater) UpdateOrder() int {
	return int(u.updateOrder.Load())
}

func (u *Updater) SetUpdateOrder(order int) {
	if u.updateOrder.Swap(int64(order)) != int64(order) {
		u.updateOrderChanged.Raise()
	}
}

func (u *Updater) EnabledChanged() *Event {
	return &u.enabledChanged
}

func (u *Updater) UpdateOrderChanged() *Event {
	return &u.updateOrderChanged
}

// Renderer implements the bookkeeping part of Drawable. Embed it and add a
// Draw method; BeginDraw and EndDraw default to always drawing. The zero
// value is visible with order 0.
type Renderer struct {
	hidden    atomic.Bool
	drawOrder atomic.Int64

	visibleChanged   Event
	drawOrderChanged Event
}

func (r *Renderer) Visible() bool {
	return !r.hidden.Load()
}

func (r *Renderer) SetVisible(visible bool) {
	if r.hidden.Swap(!visible) == visible {
		r.visibleChanged.Raise()
	}
}

func (r *Renderer) DrawOrder() int {
	return int(r.drawOrder.Load())
}

func (r *Renderer) SetDrawOrder(order int) {
	if r.drawOrder.Swap(int64(order)) != int64(order) {
		r.drawOrderChanged.Raise()
	}
}

func (r *Renderer) BeginDraw() bool {
	return true
}

func (r *Renderer) EndDraw() {}

func (r *Renderer) VisibleChanged() *Event {
	return &r.visibleChanged
}

func (r *Renderer) DrawOrderChanged() *Event {
	return &r.drawOrderChanged
}
