package domain

import (
	"strings"
	"time"
)

// DateTimeLayout is the persisted minute-precision timestamp format.
const DateTimeLayout = "2006-01-02 15:04"

// Reminder is a text note that becomes due at a point in time.
type Reminder struct {
	ID        string
	Text      string
	DueAt     time.Time
	CreatedAt time.Time
}

// NewReminder validates the input and creates a reminder.
// Timestamps are truncated to the minute, matching what is persisted.
func NewReminder(text string, dueAt, now time.Time) (*Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReminderText
	}
	if dueAt.IsZero() {
		return nil, ErrInvalidDueTime
	}
	return &Reminder{
		ID:        generateID(),
		Text:      text,
		DueAt:     dueAt.Truncate(time.Minute),
		CreatedAt: now.Truncate(time.Minute),
	}, nil
}

// IsDue reports whether the reminder's due time has been reached.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.DueAt.After(now)
}

// Snooze moves the due time to now plus the given delay.
// CreatedAt is left untouched.
func (r *Reminder) Snooze(now time.Time, delay time.Duration) {
	r.DueAt = now.Add(delay).Truncate(time.Minute)
}

// ParseDateTime parses a persisted timestamp in the local time zone.
func ParseDateTime(value string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, strings.TrimSpace(value), time.Local)
}

// FormatDateTime renders a timestamp in the persisted format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
