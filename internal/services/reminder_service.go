package services

import (
	"fmt"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/timer"
)

// ReminderScheduler keeps the reminder list and polls it for due entries.
type ReminderScheduler struct {
	registry     *timer.Registry
	sink         ports.RenderSink
	store        writeThrough
	notify       func(string)
	pollInterval time.Duration
	snoozeFor    time.Duration
	reminders    []domain.Reminder
	// held stops write-through, leaving the stored document as it is.
	held bool
}

// NewReminderScheduler creates an empty scheduler.
func NewReminderScheduler(registry *timer.Registry, sink ports.RenderSink, store writeThrough, notify func(string), pollInterval, snoozeFor time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		registry:     registry,
		sink:         sink,
		store:        store,
		notify:       notify,
		pollInterval: pollInterval,
		snoozeFor:    snoozeFor,
	}
}

// SetReminders replaces the list without persisting it.
func (s *ReminderScheduler) SetReminders(reminders []domain.Reminder) {
	s.reminders = append([]domain.Reminder(nil), reminders...)
}

// HoldSaves keeps later changes in memory only.
func (s *ReminderScheduler) HoldSaves() {
	s.held = true
}

// Start begins the due-check poll.
func (s *ReminderScheduler) Start() {
	s.registry.Every(timer.SlotReminderPoll, s.pollInterval, s.Poll)
}

// Stop ends the poll.
func (s *ReminderScheduler) Stop() {
	s.registry.Cancel(timer.SlotReminderPoll)
}

// List returns a copy of the reminders in display order.
func (s *ReminderScheduler) List() []domain.Reminder {
	return append([]domain.Reminder(nil), s.reminders...)
}

// Latest returns the most recently added reminder.
func (s *ReminderScheduler) Latest() (domain.Reminder, bool) {
	if len(s.reminders) == 0 {
		return domain.Reminder{}, false
	}
	return s.reminders[len(s.reminders)-1], true
}

// Find returns the reminder with the given ID.
func (s *ReminderScheduler) Find(id string) (domain.Reminder, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Reminder{}, fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
	}
	return s.reminders[i], nil
}

// Add creates a reminder and persists the list.
func (s *ReminderScheduler) Add(text string, dueAt time.Time) (*domain.Reminder, error) {
	reminder, err := domain.NewReminder(text, dueAt, s.registry.Now())
	if err != nil {
		return nil, err
	}
	s.reminders = append(s.reminders, *reminder)
	s.persist()
	return reminder, nil
}

// Delete removes a reminder and persists the list.
func (s *ReminderScheduler) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
	}
	s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
	s.persist()
	return nil
}

// Snooze pushes a reminder's due time back and persists the list.
func (s *ReminderScheduler) Snooze(id string) (*domain.Reminder, error) {
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
	}
	s.reminders[i].Snooze(s.registry.Now(), s.snoozeFor)
	s.persist()
	s.notify("Reminder snoozed for " + domain.FormatDelay(s.snoozeFor))

	snoozed := s.reminders[i]
	return &snoozed, nil
}

// Poll raises every reminder that is due. Due reminders stay in the list
// until snoozed or dismissed, so they are raised again on the next pass.
func (s *ReminderScheduler) Poll() {
	now := s.registry.Now()
	snapshot := s.List()
	for i := range snapshot {
		if !snapshot[i].IsDue(now) {
			continue
		}
		s.notify("REMINDER: " + snapshot[i].Text)
		s.sink.OnReminderDue(snapshot[i])
	}
}

func (s *ReminderScheduler) index(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ReminderScheduler) persist() {
	if s.held {
		s.store.logger.Warn("reminders not saved, the stored document is unreadable", "count", len(s.reminders))
		return
	}
	s.store.saveReminders(s.List())
}
