// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/desk-pet/internal/config"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// pixelsPerColumn converts pet positions to terminal columns.
const pixelsPerColumn = 8

// callTimeout bounds every request posted to the event loop.
const callTimeout = 5 * time.Second

// addStep tracks the add-reminder prompt.
type addStep int

const (
	addNone addStep = iota
	addText
	addDue
)

// statusMsg carries a snapshot fetched from the controller.
type statusMsg struct {
	status *domain.PetStatus
	err    error
}

// resultMsg reports the outcome of a posted command.
type resultMsg struct {
	notice string
	err    error
}

// Model represents the TUI state.
type Model struct {
	controller ports.PetController
	theme      config.ThemeConfig
	onResize   func(screenWidth int)

	width  int
	height int

	visual       domain.VisualState
	x            int
	bubble       string
	bubbleShown  bool
	timerLabel   string
	timerClock   string
	timerShown   bool
	menu         domain.MenuState
	menuShown    bool
	due          *domain.Reminder
	notice       string
	lastError    error
	reminderText string

	step  addStep
	input textinput.Model
}

// NewModel creates a new TUI model driving the given controller.
// onResize receives the walkable width in pet pixels whenever the
// terminal is resized; it may be nil.
func NewModel(controller ports.PetController, theme *config.ThemeConfig, onResize func(int)) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		controller: controller,
		theme:      resolveTheme(theme),
		onResize:   onResize,
		visual:     domain.StateNormal,
		input:      ti,
	}
}

// Init fetches the initial pet status.
func (m Model) Init() tea.Cmd {
	return fetchStatusCmd(m.controller)
}

func fetchStatusCmd(controller ports.PetController) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		status, err := controller.Status(ctx)
		return statusMsg{status: status, err: err}
	}
}

// dispatchCmd posts an input command to the pet.
func dispatchCmd(controller ports.PetController, cmd ports.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return resultMsg{err: controller.Dispatch(ctx, cmd)}
	}
}

func addReminderCmd(controller ports.PetController, text string, dueAt time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		reminder, err := controller.AddReminder(ctx, text, dueAt)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Reminder set for %s", domain.FormatDateTime(reminder.DueAt))}
	}
}

func snoozeCmd(controller ports.PetController, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		_, err := controller.SnoozeReminder(ctx, id)
		return resultMsg{err: err}
	}
}

func dismissCmd(controller ports.PetController, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		if err := controller.DismissReminder(ctx, id); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: "Reminder dismissed"}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step != addNone {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateAddReminder(key)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10
		if m.onResize != nil {
			m.onResize(msg.Width * pixelsPerColumn)
		}

	case statusMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.applyStatus(msg.status)

	case resultMsg:
		m.lastError = msg.err
		if msg.notice != "" {
			m.notice = msg.notice
		}

	case visualStateMsg:
		m.visual = domain.VisualState(msg)
	case bubbleShowMsg:
		m.bubble = string(msg)
		m.bubbleShown = true
	case bubbleHideMsg:
		m.bubbleShown = false
	case timerDisplayMsg:
		m.timerLabel = msg.label
		m.timerClock = msg.clock
		m.timerShown = true
	case timerHideMsg:
		m.timerShown = false
	case notifyMsg:
		m.notice = string(msg)
	case menuShowMsg:
		m.menu = domain.MenuState(msg)
		m.menuShown = true
	case menuHideMsg:
		m.menuShown = false
	case petMovedMsg:
		m.x = int(msg)
	case reminderDueMsg:
		reminder := domain.Reminder(msg)
		m.due = &reminder
	default:
		// cursor blink
		if m.step != addNone {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// applyStatus seeds the view from a snapshot taken before any render
// events arrived.
func (m *Model) applyStatus(status *domain.PetStatus) {
	if status == nil {
		return
	}
	m.visual = status.VisualState
	m.x = status.PositionX
	if status.Pomodoro.IsActive() {
		m.timerLabel = domain.GetPhaseLabel(status.Pomodoro.Phase)
		m.timerClock = domain.FormatClock(status.Pomodoro.SecondsRemaining)
		m.timerShown = true
	}
	if due := status.DueReminders(status.Timestamp); len(due) > 0 {
		reminder := due[len(due)-1]
		m.due = &reminder
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Sequence(dispatchCmd(m.controller, ports.CmdQuit), tea.Quit)
	case "e":
		return m, dispatchCmd(m.controller, ports.CmdPointerEnter)
	case "l":
		return m, dispatchCmd(m.controller, ports.CmdPointerLeave)
	case "d":
		return m, dispatchCmd(m.controller, ports.CmdDragStart)
	case "m":
		if m.menuShown {
			return m, dispatchCmd(m.controller, ports.CmdMenuHide)
		}
		return m, dispatchCmd(m.controller, ports.CmdMenuShow)
	case "p":
		return m, dispatchCmd(m.controller, ports.CmdTogglePomodoro)
	case "w":
		return m, dispatchCmd(m.controller, ports.CmdToggleWalk)
	case "a":
		m.step = addText
		m.reminderText = ""
		m.input.Reset()
		m.input.Placeholder = "What should I remind you of?"
		m.input.Focus()
		return m, textinput.Blink
	case "s":
		if m.due == nil {
			return m, nil
		}
		id := m.due.ID
		m.due = nil
		return m, snoozeCmd(m.controller, id)
	case "x":
		if m.due == nil {
			return m, nil
		}
		id := m.due.ID
		m.due = nil
		return m, dismissCmd(m.controller, id)
	}
	return m, nil
}

// updateAddReminder handles input while the add-reminder prompt is open.
func (m Model) updateAddReminder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Sequence(dispatchCmd(m.controller, ports.CmdQuit), tea.Quit)
	case "esc":
		m.step = addNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.step == addText {
			if value == "" {
				m.lastError = domain.ErrEmptyReminderText
				return m, nil
			}
			m.reminderText = value
			m.step = addDue
			m.input.Reset()
			m.input.Placeholder = domain.DateTimeLayout
			m.lastError = nil
			return m, nil
		}
		dueAt, err := domain.ParseDateTime(value)
		if err != nil {
			m.lastError = fmt.Errorf("due time must look like %s", domain.DateTimeLayout)
			return m, nil
		}
		m.step = addNone
		m.input.Blur()
		m.lastError = nil
		return m, addReminderCmd(m.controller, m.reminderText, dueAt)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// petColumn maps the pet position onto the terminal.
func (m Model) petColumn() int {
	col := m.x / pixelsPerColumn
	if maxCol := m.width - spriteWidth; col > maxCol {
		col = maxCol
	}
	if col < 0 {
		col = 0
	}
	return col
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	header := titleStyle(m.theme).Render(fmt.Sprintf("%s Desk Pet", m.theme.IconApp))
	if m.timerShown {
		header += "  " + lipgloss.NewStyle().Foreground(stateColor(m.theme, m.visual)).Render(m.timerLabel)
	}
	sections = append(sections, header, "")

	if m.timerShown {
		sections = append(sections, renderClock(m.timerClock, stateColor(m.theme, m.visual), m.width), "")
	}

	pad := strings.Repeat(" ", m.petColumn())
	if m.bubbleShown {
		bubble := bubbleStyle(m.theme).Render(fmt.Sprintf("%s %s", m.theme.IconReminder, m.bubble))
		for _, line := range strings.Split(bubble, "\n") {
			sections = append(sections, pad+line)
		}
	}
	petStyle := lipgloss.NewStyle().Foreground(stateColor(m.theme, m.visual))
	for _, line := range sprite(m.visual) {
		sections = append(sections, pad+petStyle.Render(line))
	}
	sections = append(sections, helpStyle(m.theme).Render(strings.Repeat("─", m.width)))

	if m.notice != "" {
		sections = append(sections, m.notice)
	}

	if m.due != nil {
		dueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorBubble))
		sections = append(sections,
			dueStyle.Render(fmt.Sprintf("%s %s (due %s)", m.theme.IconReminder, m.due.Text, domain.FormatDateTime(m.due.DueAt))),
			helpStyle(m.theme).Render("[s]nooze  [x] dismiss"),
		)
	}

	if m.menuShown {
		pomodoro := "Start Pomodoro"
		if m.menu.PomodoroActive {
			pomodoro = "Stop Pomodoro"
		}
		walk := "Start Walking"
		if m.menu.Walking {
			walk = "Stop Walking"
		}
		menu := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).
			Render(fmt.Sprintf("[p] %s\n[w] %s", pomodoro, walk))
		sections = append(sections, menu)
	}

	switch m.step {
	case addText:
		sections = append(sections, "Reminder: "+m.input.View())
	case addDue:
		sections = append(sections, fmt.Sprintf("Due for %q: %s", m.reminderText, m.input.View()))
	}

	if m.lastError != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.lastError.Error()))
	}

	sections = append(sections, "", helpStyle(m.theme).Render(
		"[e]nter [l]eave [d]rag [m]enu [p]omodoro [w]alk [a]dd reminder [q]uit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
