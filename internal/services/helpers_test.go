package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/timer"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

type event struct {
	kind  string
	value string
}

// recordingSink captures render events in order.
type recordingSink struct {
	events []event
	due    []domain.Reminder
	moves  []int
	menus  []domain.MenuState
}

func (s *recordingSink) add(kind, value string) {
	s.events = append(s.events, event{kind: kind, value: value})
}

func (s *recordingSink) OnVisualStateChanged(state domain.VisualState) {
	s.add("state", string(state))
}
func (s *recordingSink) OnBubbleShow(text string) { s.add("bubble_show", text) }
func (s *recordingSink) OnBubbleHide()            { s.add("bubble_hide", "") }
func (s *recordingSink) OnTimerDisplay(label, clock string) {
	s.add("timer", label+" "+clock)
}
func (s *recordingSink) OnTimerHide()            { s.add("timer_hide", "") }
func (s *recordingSink) OnNotify(message string) { s.add("notify", message) }
func (s *recordingSink) OnMenuShow(menu domain.MenuState) {
	s.menus = append(s.menus, menu)
	s.add("menu_show", "")
}
func (s *recordingSink) OnMenuHide() { s.add("menu_hide", "") }
func (s *recordingSink) OnPetMoved(x int) {
	s.moves = append(s.moves, x)
}
func (s *recordingSink) OnReminderDue(r domain.Reminder) {
	s.due = append(s.due, r)
	s.add("due", r.Text)
}

func (s *recordingSink) values(kind string) []string {
	var out []string
	for _, e := range s.events {
		if e.kind == kind {
			out = append(out, e.value)
		}
	}
	return out
}

func (s *recordingSink) count(kind string) int {
	return len(s.values(kind))
}

func (s *recordingSink) last(kind string) string {
	values := s.values(kind)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func (s *recordingSink) reset() {
	s.events = nil
	s.due = nil
	s.moves = nil
	s.menus = nil
}

// fakeGateway is an in-memory ports.Gateway.
type fakeGateway struct {
	mu               sync.Mutex
	reminders        []domain.Reminder
	stats            domain.Statistics
	loadRemindersErr error
	loadStatsErr     error
	saveErr          error
	reminderSaves    int
	statsSaves       int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{stats: domain.NewStatistics()}
}

func (g *fakeGateway) LoadReminders(ctx context.Context) ([]domain.Reminder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Reminder(nil), g.reminders...), g.loadRemindersErr
}

func (g *fakeGateway) SaveReminders(ctx context.Context, reminders []domain.Reminder) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reminderSaves++
	if g.saveErr != nil {
		return g.saveErr
	}
	g.reminders = append([]domain.Reminder(nil), reminders...)
	return nil
}

func (g *fakeGateway) LoadStats(ctx context.Context) (domain.Statistics, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats.Clone(), g.loadStatsErr
}

func (g *fakeGateway) SaveStats(ctx context.Context, stats domain.Statistics) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statsSaves++
	if g.saveErr != nil {
		return g.saveErr
	}
	g.stats = stats.Clone()
	return nil
}

func (g *fakeGateway) Close() error { return nil }

// backupGateway is a fakeGateway that can set reminders aside.
type backupGateway struct {
	*fakeGateway
	backups   int
	backupErr error
}

func (g *backupGateway) BackupReminders(ctx context.Context) (string, error) {
	if g.backupErr != nil {
		return "", g.backupErr
	}
	g.backups++
	return "reminders.json.bak", nil
}

type fixture struct {
	registry  *timer.Registry
	sink      *recordingSink
	gateway   *fakeGateway
	companion *Companion
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	config := domain.DefaultPetConfig()
	config.Walk.ScreenWidth = 1000
	config.Walk.PetWidth = 200
	return newFixtureWithConfig(t, config)
}

func newFixtureWithConfig(t *testing.T, config domain.PetConfig) *fixture {
	t.Helper()
	f := &fixture{
		registry: timer.NewRegistry(epoch),
		sink:     &recordingSink{},
		gateway:  newFakeGateway(),
	}
	f.companion = NewCompanion(f.registry, CompanionOptions{
		Config:  config,
		Gateway: f.gateway,
		Sink:    f.sink,
	})
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.registry.Advance(d)
}
