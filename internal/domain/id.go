package domain

import "github.com/google/uuid"

// generateID creates a new unique identifier.
func generateID() string {
	return uuid.New().String()
}

// NewID exposes identifier generation to adapters that rebuild reminders.
func NewID() string {
	return generateID()
}
