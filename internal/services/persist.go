package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

const saveTimeout = 5 * time.Second

// writeThrough saves every mutation to the gateway as it happens.
// Failures are logged and otherwise ignored.
type writeThrough struct {
	gateway ports.Gateway
	logger  *slog.Logger
}

func (w writeThrough) saveReminders(reminders []domain.Reminder) {
	if w.gateway == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.gateway.SaveReminders(ctx, reminders); err != nil {
		w.logger.Warn("failed to save reminders", "count", len(reminders), "error", err)
	}
}

func (w writeThrough) saveStats(stats domain.Statistics) {
	if w.gateway == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.gateway.SaveStats(ctx, stats); err != nil {
		w.logger.Warn("failed to save statistics", "error", err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
