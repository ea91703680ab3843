// Package ports defines the interfaces (driven and driving ports)
// for the desk pet following hexagonal architecture principles.
// These interfaces define the contracts between the companion core and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
)

// Gateway defines the persistence contract for reminders and statistics.
// This is a driven port (implemented by adapters).
//
// Missing data is not an error: loads return an empty collection or
// zeroed statistics. Malformed data yields the usable part together with
// an error wrapping domain.ErrMalformedData. A reminder document that
// cannot be decoded at all additionally wraps domain.ErrCorruptDocument.
type Gateway interface {
	// LoadReminders returns the stored reminders in display order.
	LoadReminders(ctx context.Context) ([]domain.Reminder, error)

	// SaveReminders replaces the stored collection.
	SaveReminders(ctx context.Context, reminders []domain.Reminder) error

	// LoadStats returns the lifetime statistics.
	LoadStats(ctx context.Context) (domain.Statistics, error)

	// SaveStats replaces the stored statistics.
	SaveStats(ctx context.Context, stats domain.Statistics) error

	// Close releases the underlying resources.
	Close() error
}

// ReminderBackup is implemented by gateways that can set the stored
// reminder document aside, so a corrupt one survives the next save.
type ReminderBackup interface {
	// BackupReminders copies the stored reminder document and returns
	// where the copy went.
	BackupReminders(ctx context.Context) (string, error)
}

// StatsClock is implemented by gateways that know when the statistics were
// last written.
type StatsClock interface {
	// StatsUpdatedAt returns the last write time, or the zero time if the
	// statistics were never saved.
	StatsUpdatedAt(ctx context.Context) (time.Time, error)
}
