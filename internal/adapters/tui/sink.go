package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

type visualStateMsg domain.VisualState

type bubbleShowMsg string

type bubbleHideMsg struct{}

type timerDisplayMsg struct {
	label string
	clock string
}

type timerHideMsg struct{}

type notifyMsg string

type menuShowMsg domain.MenuState

type menuHideMsg struct{}

type petMovedMsg int

type reminderDueMsg domain.Reminder

// Sink queues render events for the terminal program.
// Its methods never block; when the queue is full the event is dropped.
type Sink struct {
	events chan tea.Msg
}

// NewSink creates a sink holding up to buffer undelivered events.
func NewSink(buffer int) *Sink {
	if buffer <= 0 {
		buffer = 256
	}
	return &Sink{events: make(chan tea.Msg, buffer)}
}

// Forward delivers queued events through send until ctx is done.
func (s *Sink) Forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.events:
			send(msg)
		}
	}
}

func (s *Sink) push(msg tea.Msg) {
	select {
	case s.events <- msg:
	default:
	}
}

func (s *Sink) OnVisualStateChanged(state domain.VisualState) { s.push(visualStateMsg(state)) }
func (s *Sink) OnBubbleShow(text string)                      { s.push(bubbleShowMsg(text)) }
func (s *Sink) OnBubbleHide()                                 { s.push(bubbleHideMsg{}) }
func (s *Sink) OnTimerDisplay(label, clock string) {
	s.push(timerDisplayMsg{label: label, clock: clock})
}
func (s *Sink) OnTimerHide()                           { s.push(timerHideMsg{}) }
func (s *Sink) OnNotify(message string)                { s.push(notifyMsg(message)) }
func (s *Sink) OnMenuShow(menu domain.MenuState)       { s.push(menuShowMsg(menu)) }
func (s *Sink) OnMenuHide()                            { s.push(menuHideMsg{}) }
func (s *Sink) OnPetMoved(x int)                       { s.push(petMovedMsg(x)) }
func (s *Sink) OnReminderDue(reminder domain.Reminder) { s.push(reminderDueMsg(reminder)) }

// Ensure Sink implements ports.RenderSink.
var _ ports.RenderSink = (*Sink)(nil)
