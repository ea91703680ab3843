package ports

import (
	"context"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// PetController is the goroutine-safe face of a running pet.
// It is implemented by the services layer and driven by the terminal UI
// and the MCP server.
type PetController interface {
	// Status returns a snapshot of the companion.
	Status(ctx context.Context) (*domain.PetStatus, error)

	// Dispatch feeds an input command into the companion.
	Dispatch(ctx context.Context, cmd Command) error

	// AddReminder stores a new reminder.
	AddReminder(ctx context.Context, text string, dueAt time.Time) (*domain.Reminder, error)

	// SnoozeReminder pushes a reminder back by the snooze delay.
	SnoozeReminder(ctx context.Context, id string) (*domain.Reminder, error)

	// DismissReminder deletes a reminder.
	DismissReminder(ctx context.Context, id string) error
}
