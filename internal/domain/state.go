package domain

import "time"

// PetStatus is a point-in-time copy of everything the companion tracks.
type PetStatus struct {
	Timestamp   time.Time
	VisualState VisualState
	Pomodoro    PomodoroSession
	Walking     bool
	PositionX   int
	Reminders   []Reminder
	Stats       Statistics

	// Asleep is set once the sleep timer fired with no activity since.
	Asleep     bool
	MenuOpen   bool
	MenuPinned bool
}

// LatestReminder returns the most recently added reminder, if any.
func (ps *PetStatus) LatestReminder() (Reminder, bool) {
	if len(ps.Reminders) == 0 {
		return Reminder{}, false
	}
	return ps.Reminders[len(ps.Reminders)-1], true
}

// DueReminders returns the reminders due at the given time.
func (ps *PetStatus) DueReminders(now time.Time) []Reminder {
	var due []Reminder
	for i := range ps.Reminders {
		if ps.Reminders[i].IsDue(now) {
			due = append(due, ps.Reminders[i])
		}
	}
	return due
}
