package services

import (
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/timer"
)

// IdleTracker puts the pet to sleep after a stretch without pointer activity.
type IdleTracker struct {
	registry   *timer.Registry
	visual     *VisualStateController
	sleepAfter time.Duration
	asleep     bool
}

// NewIdleTracker creates a tracker; call Start to arm the first sleep timer.
func NewIdleTracker(registry *timer.Registry, visual *VisualStateController, sleepAfter time.Duration) *IdleTracker {
	return &IdleTracker{
		registry:   registry,
		visual:     visual,
		sleepAfter: sleepAfter,
	}
}

// Start arms the sleep timer.
func (t *IdleTracker) Start() {
	t.restart()
}

// Stop disarms the sleep timer.
func (t *IdleTracker) Stop() {
	t.registry.Cancel(timer.SlotSleep)
}

// PointerEnter shows the hover pose and pushes the sleep deadline back.
func (t *IdleTracker) PointerEnter() {
	t.visual.Request(domain.StateHover)
	t.Reset()
}

// PointerLeave returns to the normal pose unless asleep.
func (t *IdleTracker) PointerLeave() {
	if t.visual.Current() != domain.StateSleep {
		t.visual.Request(domain.StateNormal)
	}
	t.visual.HideBubble()
	t.restart()
}

// DragStart wakes the pet and pushes the sleep deadline back.
func (t *IdleTracker) DragStart() {
	t.visual.Request(domain.StateNormal)
	t.Reset()
	t.visual.HideBubble()
}

// Reset cancels the pending sleep, wakes the pet and restarts the timer.
func (t *IdleTracker) Reset() {
	t.registry.Cancel(timer.SlotSleep)
	if t.visual.Current() == domain.StateSleep {
		t.visual.Request(domain.StateNormal)
	}
	t.restart()
}

// Asleep reports whether the last sleep timer fired with no activity since.
func (t *IdleTracker) Asleep() bool {
	return t.asleep && t.visual.Current() == domain.StateSleep
}

func (t *IdleTracker) restart() {
	t.asleep = false
	t.registry.Schedule(timer.SlotSleep, t.sleepAfter, t.sleep)
}

func (t *IdleTracker) sleep() {
	t.asleep = true
	t.visual.Request(domain.StateSleep)
	t.visual.HideBubble()
}
