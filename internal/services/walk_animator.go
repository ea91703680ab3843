package services

import (
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/timer"
)

// WalkAnimator moves the pet back and forth along the bottom of the screen.
type WalkAnimator struct {
	registry *timer.Registry
	visual   *VisualStateController
	sink     ports.RenderSink
	config   domain.WalkConfig

	walking   bool
	x         int
	direction int
	// distance walked since the last turn; nothing reads it yet
	distance int
	parity   int
}

// NewWalkAnimator creates a stopped animator parked at the right edge.
func NewWalkAnimator(registry *timer.Registry, visual *VisualStateController, sink ports.RenderSink, config domain.WalkConfig) *WalkAnimator {
	return &WalkAnimator{
		registry:  registry,
		visual:    visual,
		sink:      sink,
		config:    config,
		x:         config.MaxX(),
		direction: 1,
		parity:    1,
	}
}

// Walking reports whether the animation is running.
func (w *WalkAnimator) Walking() bool {
	return w.walking
}

// Position returns the current horizontal position.
func (w *WalkAnimator) Position() int {
	return w.x
}

// Direction returns +1 when heading right and -1 when heading left.
func (w *WalkAnimator) Direction() int {
	return w.direction
}

// SetPosition moves the pet, clamped to the screen.
func (w *WalkAnimator) SetPosition(x int) {
	w.x = clamp(x, 0, w.config.MaxX())
}

// SetScreenWidth updates the walkable width, e.g. after a terminal resize.
func (w *WalkAnimator) SetScreenWidth(width int) {
	w.config.ScreenWidth = width
	w.SetPosition(w.x)
}

// Start begins walking to the right.
func (w *WalkAnimator) Start() {
	if w.walking {
		return
	}
	w.walking = true
	w.direction = 1
	w.distance = 0
	w.parity = 1
	w.registry.Every(timer.SlotWalkTick, w.config.FrameDelay, w.tick)
}

// Stop halts the animation and returns to the normal pose.
func (w *WalkAnimator) Stop() {
	if !w.walking {
		return
	}
	w.walking = false
	w.registry.Cancel(timer.SlotWalkTick)
	w.visual.Request(domain.StateNormal)
}

// Toggle starts or stops walking.
func (w *WalkAnimator) Toggle() {
	if w.walking {
		w.Stop()
		return
	}
	w.Start()
}

func (w *WalkAnimator) tick() {
	if !w.walking {
		return
	}
	maxX := w.config.MaxX()
	next := w.x + w.config.Speed*w.direction
	if next <= 0 || next >= maxX {
		// The move still applies; the new direction takes effect next tick.
		w.direction = -w.direction
		w.distance = 0
	} else {
		w.distance += w.config.Speed
	}
	w.x = clamp(next, 0, maxX)

	w.parity = 3 - w.parity
	w.visual.Request(domain.WalkFrame(w.parity, w.direction))
	w.sink.OnPetMoved(w.x)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
