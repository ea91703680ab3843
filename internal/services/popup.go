package services

import (
	"time"

	"github.com/xvierd/desk-pet/internal/timer"
)

// Popup is a transient piece of UI that hides itself after a delay
// unless the pointer is resting on it.
type Popup struct {
	registry  *timer.Registry
	slot      timer.Slot
	hideAfter time.Duration
	onHide    func()
	visible   bool
	pinned    bool
}

// NewPopup creates a popup whose hide timer lives in slot.
// A zero hideAfter disables auto-hide.
func NewPopup(registry *timer.Registry, slot timer.Slot, hideAfter time.Duration, onHide func()) *Popup {
	return &Popup{
		registry:  registry,
		slot:      slot,
		hideAfter: hideAfter,
		onHide:    onHide,
	}
}

// Show marks the popup visible and restarts its hide timer.
func (p *Popup) Show() {
	p.visible = true
	p.pinned = false
	p.restart()
}

// PointerEnter pins the popup open.
func (p *Popup) PointerEnter() {
	if !p.visible {
		return
	}
	p.pinned = true
	p.registry.Cancel(p.slot)
}

// PointerLeave restarts the hide timer.
func (p *Popup) PointerLeave() {
	if !p.visible {
		return
	}
	p.pinned = false
	p.restart()
}

// Hide cancels the timer and hides the popup immediately.
func (p *Popup) Hide() {
	p.registry.Cancel(p.slot)
	p.pinned = false
	if !p.visible {
		return
	}
	p.visible = false
	if p.onHide != nil {
		p.onHide()
	}
}

// Visible reports whether the popup is showing.
func (p *Popup) Visible() bool {
	return p.visible
}

// Pinned reports whether the pointer is holding the popup open.
func (p *Popup) Pinned() bool {
	return p.pinned
}

func (p *Popup) restart() {
	if p.hideAfter <= 0 {
		p.registry.Cancel(p.slot)
		return
	}
	p.registry.Schedule(p.slot, p.hideAfter, p.Hide)
}
