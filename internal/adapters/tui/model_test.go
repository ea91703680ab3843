package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// fakeController records every call made by the model.
type fakeController struct {
	mu         sync.Mutex
	status     domain.PetStatus
	dispatched []ports.Command
	added      []domain.Reminder
	snoozed    []string
	dismissed  []string
}

func (f *fakeController) Status(ctx context.Context) (*domain.PetStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.status
	return &status, nil
}

func (f *fakeController) Dispatch(ctx context.Context, cmd ports.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, cmd)
	return nil
}

func (f *fakeController) AddReminder(ctx context.Context, text string, dueAt time.Time) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, err := domain.NewReminder(text, dueAt, dueAt)
	if err != nil {
		return nil, err
	}
	f.added = append(f.added, *r)
	return r, nil
}

func (f *fakeController) SnoozeReminder(ctx context.Context, id string) (*domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snoozed = append(f.snoozed, id)
	return &domain.Reminder{ID: id}, nil
}

func (f *fakeController) DismissReminder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, id)
	return nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key to the model and runs the resulting command, feeding
// its message back in.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, ok := msg.(resultMsg); ok {
				next, _ = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestNewModel(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel(ctrl, nil, nil)

	assert.Equal(t, domain.StateNormal, m.visual)
	assert.Equal(t, "#A0AEC0", m.theme.ColorNormal, "nil theme resolves to defaults")
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_KeysDispatchCommands(t *testing.T) {
	tests := []struct {
		key  string
		want ports.Command
	}{
		{"e", ports.CmdPointerEnter},
		{"l", ports.CmdPointerLeave},
		{"d", ports.CmdDragStart},
		{"m", ports.CmdMenuShow},
		{"p", ports.CmdTogglePomodoro},
		{"w", ports.CmdToggleWalk},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ctrl := &fakeController{}
			m := sized(NewModel(ctrl, nil, nil))

			press(t, m, keyRunes(tt.key))

			assert.Equal(t, []ports.Command{tt.want}, ctrl.dispatched)
		})
	}
}

func TestModel_MenuKeyHidesOpenMenu(t *testing.T) {
	ctrl := &fakeController{}
	m := sized(NewModel(ctrl, nil, nil))

	next, _ := m.Update(menuShowMsg(domain.MenuState{PomodoroActive: true}))
	m = next.(Model)
	assert.Contains(t, m.View(), "Stop Pomodoro")
	assert.Contains(t, m.View(), "Start Walking")

	press(t, m, keyRunes("m"))
	assert.Equal(t, []ports.Command{ports.CmdMenuHide}, ctrl.dispatched)
}

func TestModel_RenderEvents(t *testing.T) {
	m := sized(NewModel(&fakeController{}, nil, nil))

	msgs := []tea.Msg{
		visualStateMsg(domain.StateWork),
		timerDisplayMsg{label: "Work", clock: "24:59"},
		bubbleShowMsg("drink water"),
		notifyMsg("Pomodoro started! Time to focus!"),
		petMovedMsg(160),
	}
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	assert.Equal(t, domain.StateWork, m.visual)
	assert.True(t, m.timerShown)
	assert.Equal(t, 20, m.petColumn())

	view := m.View()
	assert.Contains(t, view, "drink water")
	assert.Contains(t, view, "Pomodoro started! Time to focus!")
	assert.Contains(t, view, "[___]", "work sprite")

	for _, msg := range []tea.Msg{timerHideMsg{}, bubbleHideMsg{}} {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	assert.False(t, m.timerShown)
	assert.NotContains(t, m.View(), "drink water")
}

func TestModel_PetColumnClamped(t *testing.T) {
	m := sized(NewModel(&fakeController{}, nil, nil))

	next, _ := m.Update(petMovedMsg(10000))
	m = next.(Model)
	assert.Equal(t, 80-spriteWidth, m.petColumn())

	next, _ = m.Update(petMovedMsg(-5))
	m = next.(Model)
	assert.Equal(t, 0, m.petColumn())
}

func TestModel_ResizeReportsScreenWidth(t *testing.T) {
	var reported []int
	m := NewModel(&fakeController{}, nil, func(w int) { reported = append(reported, w) })

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, []int{100 * pixelsPerColumn}, reported)
}

func TestModel_InitAppliesStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	ctrl := &fakeController{status: domain.PetStatus{
		Timestamp:   now,
		VisualState: domain.StateBreak,
		PositionX:   400,
		Pomodoro:    domain.PomodoroSession{Phase: domain.PhaseBreak, SecondsRemaining: 120},
		Reminders: []domain.Reminder{
			{ID: "r1", Text: "stretch", DueAt: now.Add(-time.Minute)},
		},
	}}
	m := sized(NewModel(ctrl, nil, nil))

	next, _ := m.Update(m.Init()())
	m = next.(Model)

	assert.Equal(t, domain.StateBreak, m.visual)
	assert.Equal(t, 400, m.x)
	assert.Equal(t, "Break", m.timerLabel)
	assert.Equal(t, "02:00", m.timerClock)
	require.NotNil(t, m.due)
	assert.Equal(t, "r1", m.due.ID)
}

func TestModel_SnoozeAndDismissDueReminder(t *testing.T) {
	tests := []struct {
		key       string
		snoozed   []string
		dismissed []string
	}{
		{key: "s", snoozed: []string{"r1"}},
		{key: "x", dismissed: []string{"r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ctrl := &fakeController{}
			m := sized(NewModel(ctrl, nil, nil))

			// no due reminder yet: nothing happens
			m = press(t, m, keyRunes(tt.key))
			assert.Empty(t, ctrl.snoozed)
			assert.Empty(t, ctrl.dismissed)

			next, _ := m.Update(reminderDueMsg(domain.Reminder{ID: "r1", Text: "stand up"}))
			m = next.(Model)
			assert.Contains(t, m.View(), "stand up")

			m = press(t, m, keyRunes(tt.key))
			assert.Equal(t, tt.snoozed, ctrl.snoozed)
			assert.Equal(t, tt.dismissed, ctrl.dismissed)
			assert.Nil(t, m.due)
		})
	}
}

func TestModel_AddReminderFlow(t *testing.T) {
	ctrl := &fakeController{}
	m := sized(NewModel(ctrl, nil, nil))

	m = press(t, m, keyRunes("a"))
	require.Equal(t, addText, m.step)

	// keys are typed into the prompt, not dispatched
	m = press(t, m, keyRunes("drink water"))
	assert.Empty(t, ctrl.dispatched)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, addDue, m.step)
	assert.Equal(t, "drink water", m.reminderText)

	m = press(t, m, keyRunes("tomorrow"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, addDue, m.step, "bad due time keeps the prompt open")
	assert.Error(t, m.lastError)

	m.input.SetValue("2026-03-02 10:30")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, addNone, m.step)
	require.Len(t, ctrl.added, 1)
	assert.Equal(t, "drink water", ctrl.added[0].Text)
	assert.Equal(t, "2026-03-02 10:30", domain.FormatDateTime(ctrl.added[0].DueAt))
	assert.Contains(t, m.notice, "Reminder set for 2026-03-02 10:30")
}

func TestModel_AddReminderCancelAndEmpty(t *testing.T) {
	ctrl := &fakeController{}
	m := sized(NewModel(ctrl, nil, nil))

	m = press(t, m, keyRunes("a"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, addText, m.step)
	assert.ErrorIs(t, m.lastError, domain.ErrEmptyReminderText)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, addNone, m.step)
	assert.Empty(t, ctrl.added)
}

func TestModel_View(t *testing.T) {
	m := sized(NewModel(&fakeController{}, nil, nil))

	view := m.View()

	assert.Contains(t, view, "Desk Pet")
	assert.Contains(t, view, "( o.o )")
	assert.Contains(t, view, "[a]dd reminder")
	assert.False(t, strings.Contains(view, "Error:"))
}

func TestRenderClock(t *testing.T) {
	narrow := renderClock("25:00", "#fff", 30)
	assert.Contains(t, narrow, "25:00")

	wide := renderClock("25:00", "#fff", 80)
	assert.Len(t, strings.Split(wide, "\n"), 3)
}
