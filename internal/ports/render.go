package ports

import "github.com/xvierd/desk-pet/internal/domain"

// RenderSink receives everything the companion wants shown.
// This is a driven port; the core never draws on its own.
// All methods are called from the event loop and must not block.
type RenderSink interface {
	// OnVisualStateChanged is called once per actual state change.
	OnVisualStateChanged(state domain.VisualState)

	// OnBubbleShow displays the transient speech bubble.
	OnBubbleShow(text string)

	// OnBubbleHide hides the speech bubble.
	OnBubbleHide()

	// OnTimerDisplay shows the pomodoro countdown.
	OnTimerDisplay(phaseLabel, clock string)

	// OnTimerHide removes the countdown once pomodoro stops.
	OnTimerHide()

	// OnNotify shows a status message.
	OnNotify(message string)

	// OnMenuShow opens the action menu.
	OnMenuShow(menu domain.MenuState)

	// OnMenuHide closes the action menu.
	OnMenuHide()

	// OnPetMoved reports the horizontal position while walking.
	OnPetMoved(x int)

	// OnReminderDue asks the user to snooze or dismiss a due reminder.
	OnReminderDue(reminder domain.Reminder)
}

// Command represents a user action fed in by an input source.
type Command string

const (
	// CmdPointerEnter reports the pointer entering the pet.
	CmdPointerEnter Command = "pointer_enter"

	// CmdPointerLeave reports the pointer leaving the pet.
	CmdPointerLeave Command = "pointer_leave"

	// CmdDragStart reports the user starting to drag the pet.
	CmdDragStart Command = "drag_start"

	// CmdMenuShow opens the action menu.
	CmdMenuShow Command = "menu_show"

	// CmdMenuEnter pins the action menu open.
	CmdMenuEnter Command = "menu_enter"

	// CmdMenuLeave restarts the menu hide timer.
	CmdMenuLeave Command = "menu_leave"

	// CmdMenuHide closes the action menu immediately.
	CmdMenuHide Command = "menu_hide"

	// CmdTogglePomodoro starts or stops pomodoro from the menu.
	CmdTogglePomodoro Command = "toggle_pomodoro"

	// CmdStartPomodoro starts pomodoro.
	CmdStartPomodoro Command = "start_pomodoro"

	// CmdStopPomodoro stops pomodoro.
	CmdStopPomodoro Command = "stop_pomodoro"

	// CmdToggleWalk starts or stops walking.
	CmdToggleWalk Command = "toggle_walk"

	// CmdQuit exits the application.
	CmdQuit Command = "quit"
)

// IsValid reports whether c is a known command.
func (c Command) IsValid() bool {
	switch c {
	case CmdPointerEnter, CmdPointerLeave, CmdDragStart,
		CmdMenuShow, CmdMenuEnter, CmdMenuLeave, CmdMenuHide,
		CmdTogglePomodoro, CmdStartPomodoro, CmdStopPomodoro,
		CmdToggleWalk, CmdQuit:
		return true
	}
	return false
}
