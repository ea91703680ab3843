package services

import (
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// VisualStateController owns the pose the pet is displayed in.
//
// Any subsystem may request any state; the last request wins. Hover and
// sleep requests from the idle tracker are applied even while pomodoro
// or walking own the display.
type VisualStateController struct {
	sink    ports.RenderSink
	bubble  *Popup
	latest  func() (domain.Reminder, bool)
	current domain.VisualState
}

// NewVisualStateController creates a controller starting in StateNormal.
// latest supplies the reminder shown in the bubble on hover.
func NewVisualStateController(sink ports.RenderSink, bubble *Popup, latest func() (domain.Reminder, bool)) *VisualStateController {
	return &VisualStateController{
		sink:    sink,
		bubble:  bubble,
		latest:  latest,
		current: domain.StateNormal,
	}
}

// Current returns the displayed state.
func (c *VisualStateController) Current() domain.VisualState {
	return c.current
}

// Request adopts state and reports whether anything changed.
func (c *VisualStateController) Request(state domain.VisualState) bool {
	if state == c.current || !state.IsValid() {
		return false
	}
	previous := c.current
	c.current = state
	c.sink.OnVisualStateChanged(state)

	switch {
	case state == domain.StateHover:
		if r, ok := c.latest(); ok {
			c.ShowBubble(r.Text)
		}
	case previous == domain.StateHover:
		c.HideBubble()
	}
	return true
}

// ShowBubble displays text in the speech bubble.
func (c *VisualStateController) ShowBubble(text string) {
	c.sink.OnBubbleShow(text)
	c.bubble.Show()
}

// HideBubble hides the speech bubble if it is showing.
func (c *VisualStateController) HideBubble() {
	c.bubble.Hide()
}

// BubbleVisible reports whether the speech bubble is showing.
func (c *VisualStateController) BubbleVisible() bool {
	return c.bubble.Visible()
}
