package services

import (
	"context"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/timer"
)

// StateService implements the PetController interface by running every
// request on the companion's event loop.
type StateService struct {
	loop      *timer.Loop
	companion *Companion
}

// NewStateService creates a new state service.
func NewStateService(loop *timer.Loop, companion *Companion) *StateService {
	return &StateService{loop: loop, companion: companion}
}

// Status implements ports.PetController.
func (s *StateService) Status(ctx context.Context) (*domain.PetStatus, error) {
	var status domain.PetStatus
	if err := s.loop.Call(ctx, func() { status = s.companion.Snapshot() }); err != nil {
		return nil, err
	}
	return &status, nil
}

// Dispatch implements ports.PetController.
func (s *StateService) Dispatch(ctx context.Context, cmd ports.Command) error {
	var dispatchErr error
	if err := s.loop.Call(ctx, func() { dispatchErr = s.companion.Dispatch(cmd) }); err != nil {
		return err
	}
	return dispatchErr
}

// AddReminder implements ports.PetController.
func (s *StateService) AddReminder(ctx context.Context, text string, dueAt time.Time) (*domain.Reminder, error) {
	var (
		reminder *domain.Reminder
		addErr   error
	)
	if err := s.loop.Call(ctx, func() { reminder, addErr = s.companion.AddReminder(text, dueAt) }); err != nil {
		return nil, err
	}
	return reminder, addErr
}

// SnoozeReminder implements ports.PetController.
func (s *StateService) SnoozeReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	var (
		reminder  *domain.Reminder
		snoozeErr error
	)
	if err := s.loop.Call(ctx, func() { reminder, snoozeErr = s.companion.SnoozeReminder(id) }); err != nil {
		return nil, err
	}
	return reminder, snoozeErr
}

// DismissReminder implements ports.PetController.
func (s *StateService) DismissReminder(ctx context.Context, id string) error {
	var dismissErr error
	if err := s.loop.Call(ctx, func() { dismissErr = s.companion.DismissReminder(id) }); err != nil {
		return err
	}
	return dismissErr
}

// Ensure StateService implements PetController.
var _ ports.PetController = (*StateService)(nil)
