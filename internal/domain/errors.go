package domain

import "errors"

var (
	ErrEmptyReminderText = errors.New("reminder text cannot be empty")
	ErrInvalidDueTime    = errors.New("invalid reminder due time")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrMalformedData     = errors.New("malformed stored data")
	ErrCorruptDocument   = errors.New("stored document cannot be decoded")
	ErrPomodoroActive    = errors.New("pomodoro already active")
)
