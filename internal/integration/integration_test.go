package integration

import (
	"context"
	"testing"
	"time"

	"github.com/xvierd/desk-pet/internal/adapters/storage"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/services"
	"github.com/xvierd/desk-pet/internal/timer"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

// capturingSink keeps the notifications and due reminders it receives.
type capturingSink struct {
	services.NopSink
	notices []string
	due     []string
}

func (s *capturingSink) OnNotify(message string) { s.notices = append(s.notices, message) }

func (s *capturingSink) OnReminderDue(reminder domain.Reminder) {
	s.due = append(s.due, reminder.Text)
}

// setupTestStorage opens a fresh gateway of the given backend in dir.
func setupTestStorage(t *testing.T, backend, dir string) (ports.Gateway, func()) {
	t.Helper()

	gateway, err := storage.Open(backend, dir)
	if err != nil {
		t.Fatalf("failed to open %s storage: %v", backend, err)
	}

	cleanup := func() {
		if err := gateway.Close(); err != nil {
			t.Errorf("failed to close storage: %v", err)
		}
	}
	return gateway, cleanup
}

func startCompanion(t *testing.T, gateway ports.Gateway, sink ports.RenderSink) (*timer.Registry, *services.Companion) {
	t.Helper()

	registry := timer.NewRegistry(epoch)
	companion := services.NewCompanion(registry, services.CompanionOptions{
		Config:  domain.DefaultPetConfig(),
		Gateway: gateway,
		Sink:    sink,
	})
	if err := companion.Load(context.Background()); err != nil {
		t.Fatalf("failed to load companion: %v", err)
	}
	companion.Start()
	return registry, companion
}

// TestPetLifecycle runs a pomodoro and a reminder to completion, then
// restarts the pet on the same storage and checks what survived.
func TestPetLifecycle(t *testing.T) {
	for _, backend := range []string{storage.BackendJSON, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			gateway, cleanup := setupTestStorage(t, backend, dir)

			sink := &capturingSink{}
			registry, companion := startCompanion(t, gateway, sink)

			if _, err := companion.AddReminder("stand up", epoch.Add(10*time.Minute)); err != nil {
				t.Fatalf("failed to add reminder: %v", err)
			}
			if err := companion.Dispatch(ports.CmdStartPomodoro); err != nil {
				t.Fatalf("failed to start pomodoro: %v", err)
			}

			registry.Advance(25 * time.Minute)

			status := companion.Snapshot()
			if status.Pomodoro.Phase != domain.PhaseBreak {
				t.Errorf("expected short break after 25 minutes, got %s", status.Pomodoro.Phase)
			}
			if status.VisualState != domain.StateBreak {
				t.Errorf("expected break visual state, got %s", status.VisualState)
			}
			if len(sink.due) == 0 || sink.due[0] != "stand up" {
				t.Errorf("expected reminder to come due, got %v", sink.due)
			}
			if !contains(sink.notices, services.MsgShortBreak) {
				t.Errorf("expected %q in notices %v", services.MsgShortBreak, sink.notices)
			}

			companion.Shutdown()
			if registry.Len() != 0 {
				t.Errorf("expected no pending timers after shutdown, got %d", registry.Len())
			}
			cleanup()

			// restart on the same data directory
			gateway, cleanup = setupTestStorage(t, backend, dir)
			defer cleanup()
			_, restarted := startCompanion(t, gateway, &capturingSink{})

			status = restarted.Snapshot()
			if status.Pomodoro.IsActive() {
				t.Error("pomodoro should not survive a restart")
			}
			if status.Stats.TotalWorkSessions != 1 || status.Stats.TotalWorkMinutes != 25 {
				t.Errorf("expected 1 session of 25 minutes, got %d sessions / %d minutes",
					status.Stats.TotalWorkSessions, status.Stats.TotalWorkMinutes)
			}
			if got := status.Stats.TodaySessions(epoch); got != 1 {
				t.Errorf("expected 1 session today, got %d", got)
			}
			if len(status.Reminders) != 1 || status.Reminders[0].Text != "stand up" {
				t.Fatalf("expected the reminder to survive, got %+v", status.Reminders)
			}
			if got := domain.FormatDateTime(status.Reminders[0].DueAt); got != "2026-03-02 09:10" {
				t.Errorf("expected due time 2026-03-02 09:10, got %s", got)
			}
		})
	}
}

// TestReminderDismissPersists dismisses a due reminder and checks that the
// deletion reaches storage.
func TestReminderDismissPersists(t *testing.T) {
	dir := t.TempDir()
	gateway, cleanup := setupTestStorage(t, storage.BackendSQLite, dir)
	defer cleanup()

	registry, companion := startCompanion(t, gateway, &capturingSink{})

	keep, err := companion.AddReminder("water the plants", epoch.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("failed to add reminder: %v", err)
	}
	drop, err := companion.AddReminder("call the dentist", epoch.Add(time.Minute))
	if err != nil {
		t.Fatalf("failed to add reminder: %v", err)
	}

	registry.Advance(2 * time.Minute)
	snoozed, err := companion.SnoozeReminder(drop.ID)
	if err != nil {
		t.Fatalf("failed to snooze: %v", err)
	}
	if got := domain.FormatDateTime(snoozed.DueAt); got != "2026-03-02 09:07" {
		t.Errorf("expected snooze until 09:07, got %s", got)
	}

	if err := companion.DismissReminder(drop.ID); err != nil {
		t.Fatalf("failed to dismiss: %v", err)
	}
	if err := companion.DismissReminder(drop.ID); err == nil {
		t.Error("dismissing twice should fail")
	}

	stored, err := gateway.LoadReminders(context.Background())
	if err != nil {
		t.Fatalf("failed to load reminders: %v", err)
	}
	if len(stored) != 1 || stored[0].Text != keep.Text {
		t.Errorf("expected only %q in storage, got %+v", keep.Text, stored)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
