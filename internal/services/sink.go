package services

import (
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// NopSink discards every render event.
type NopSink struct{}

func (NopSink) OnVisualStateChanged(domain.VisualState) {}
func (NopSink) OnBubbleShow(string)                     {}
func (NopSink) OnBubbleHide()                           {}
func (NopSink) OnTimerDisplay(string, string)           {}
func (NopSink) OnTimerHide()                            {}
func (NopSink) OnNotify(string)                         {}
func (NopSink) OnMenuShow(domain.MenuState)             {}
func (NopSink) OnMenuHide()                             {}
func (NopSink) OnPetMoved(int)                          {}
func (NopSink) OnReminderDue(domain.Reminder)           {}

var _ ports.RenderSink = NopSink{}
