package domain

import (
	"fmt"
	"math"
	"time"
)

// Phase represents one state of the Pomodoro cycle.
type Phase string

const (
	PhaseInactive  Phase = "inactive"
	PhaseWork      Phase = "work"
	PhaseBreak     Phase = "break"
	PhaseLongBreak Phase = "long_break"
)

// PomodoroConfig holds configuration for pomodoro sessions.
type PomodoroConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	SessionsBeforeLong int
}

// DefaultPomodoroConfig returns the standard pomodoro configuration.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		WorkDuration:       25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		SessionsBeforeLong: 4,
	}
}

// PhaseDuration returns the configured length of a phase.
func (c PomodoroConfig) PhaseDuration(phase Phase) time.Duration {
	switch phase {
	case PhaseWork:
		return c.WorkDuration
	case PhaseBreak:
		return c.ShortBreakDuration
	case PhaseLongBreak:
		return c.LongBreakDuration
	default:
		return 0
	}
}

// NextBreak returns the break phase that follows the given completed count.
func (c PomodoroConfig) NextBreak(sessionsCompleted int) Phase {
	if c.SessionsBeforeLong > 0 && sessionsCompleted%c.SessionsBeforeLong == 0 {
		return PhaseLongBreak
	}
	return PhaseBreak
}

// PomodoroSession is the run state of the focus timer.
type PomodoroSession struct {
	Phase             Phase
	SecondsRemaining  int
	SessionsCompleted int
}

// IsActive returns true while a work or break phase is running.
func (s PomodoroSession) IsActive() bool {
	return s.Phase != PhaseInactive && s.Phase != ""
}

// Enter switches to a phase with its full configured duration.
func (s *PomodoroSession) Enter(phase Phase, config PomodoroConfig) {
	s.Phase = phase
	s.SecondsRemaining = int(config.PhaseDuration(phase) / time.Second)
}

// Remaining returns the time left in the current phase.
func (s PomodoroSession) Remaining() time.Duration {
	return time.Duration(s.SecondsRemaining) * time.Second
}

// VisualState returns the pose that matches the phase.
func (s PomodoroSession) VisualState() VisualState {
	switch s.Phase {
	case PhaseWork:
		return StateWork
	case PhaseBreak:
		return StateBreak
	case PhaseLongBreak:
		return StateLongBreak
	default:
		return StateNormal
	}
}

// GetPhaseLabel returns a human-readable label for the phase.
func GetPhaseLabel(p Phase) string {
	switch p {
	case PhaseWork:
		return "Work"
	case PhaseBreak:
		return "Break"
	case PhaseLongBreak:
		return "Long Break"
	case PhaseInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// FormatClock formats whole seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// WholeMinutes rounds d to the nearest minute.
func WholeMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

// FormatDelay renders d as "N minutes" when it is a whole number of
// minutes, and in time.Duration notation otherwise.
func FormatDelay(d time.Duration) string {
	if d%time.Minute != 0 {
		return d.String()
	}
	if d == time.Minute {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
