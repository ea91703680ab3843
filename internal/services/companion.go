package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/timer"
)

// NotificationTitle is the title used for desktop notifications.
const NotificationTitle = "Desk Pet"

// CompanionOptions holds the collaborators of a Companion.
type CompanionOptions struct {
	Config   domain.PetConfig
	Gateway  ports.Gateway
	Sink     ports.RenderSink
	Notifier ports.Notifier
	Logger   *slog.Logger
	// OnQuit is called when a quit command is dispatched.
	OnQuit func()
}

// Companion wires the pet's behaviours onto one timer registry.
// Every method must be called from the goroutine that owns the registry.
type Companion struct {
	registry *timer.Registry
	config   domain.PetConfig
	gateway  ports.Gateway
	sink     ports.RenderSink
	notifier ports.Notifier
	logger   *slog.Logger
	onQuit   func()

	visual    *VisualStateController
	idle      *IdleTracker
	menu      *Popup
	pomodoro  *PomodoroEngine
	walker    *WalkAnimator
	reminders *ReminderScheduler
	started   bool
}

// NewCompanion creates a companion. Nothing is scheduled until Start.
func NewCompanion(registry *timer.Registry, opts CompanionOptions) *Companion {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	c := &Companion{
		registry: registry,
		config:   opts.Config,
		gateway:  opts.Gateway,
		sink:     sink,
		notifier: opts.Notifier,
		logger:   logger,
		onQuit:   opts.OnQuit,
	}
	store := writeThrough{gateway: opts.Gateway, logger: logger}

	bubble := NewPopup(registry, timer.SlotBubble, opts.Config.BubbleHideAfter, sink.OnBubbleHide)
	c.reminders = NewReminderScheduler(registry, sink, store, c.notify,
		opts.Config.ReminderPollInterval, opts.Config.SnoozeFor)
	c.visual = NewVisualStateController(sink, bubble, c.reminders.Latest)
	c.idle = NewIdleTracker(registry, c.visual, opts.Config.SleepAfter)
	c.menu = NewPopup(registry, timer.SlotMenu, opts.Config.MenuHideAfter, sink.OnMenuHide)
	c.pomodoro = NewPomodoroEngine(registry, c.visual, sink, store, c.notify, opts.Config.Pomodoro)
	c.walker = NewWalkAnimator(registry, c.visual, sink, opts.Config.Walk)
	return c
}

// Load reads reminders and statistics from the gateway. Malformed data
// is logged and whatever could be recovered is used.
func (c *Companion) Load(ctx context.Context) error {
	if c.gateway == nil {
		return nil
	}

	reminders, err := c.gateway.LoadReminders(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptDocument):
		c.setAsideReminders(ctx, err)
	case errors.Is(err, domain.ErrMalformedData):
		c.logger.Warn("skipped malformed reminders", "error", err)
	case err != nil:
		return fmt.Errorf("failed to load reminders: %w", err)
	}
	c.reminders.SetReminders(reminders)

	stats, err := c.gateway.LoadStats(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrMalformedData) {
			return fmt.Errorf("failed to load statistics: %w", err)
		}
		c.logger.Warn("statistics reset to defaults", "error", err)
		stats = domain.NewStatistics()
	}
	c.pomodoro.SetStats(stats)

	c.logger.Info("companion loaded", "reminders", len(reminders), "work_sessions", stats.TotalWorkSessions)
	return nil
}

// setAsideReminders keeps an unreadable reminder document from being
// replaced by the first save. It is backed up when the gateway can do
// that; otherwise reminders stop being saved for this run.
func (c *Companion) setAsideReminders(ctx context.Context, cause error) {
	if backup, ok := c.gateway.(ports.ReminderBackup); ok {
		location, err := backup.BackupReminders(ctx)
		if err == nil {
			c.logger.Warn("unreadable reminders backed up", "backup", location, "error", cause)
			return
		}
		c.logger.Error("failed to back up unreadable reminders", "error", err)
	}
	c.logger.Error("reminders will not be saved this run", "error", cause)
	c.reminders.HoldSaves()
}

// Start arms the sleep timer and the reminder poll.
func (c *Companion) Start() {
	if c.started {
		return
	}
	c.started = true
	c.idle.Start()
	c.reminders.Start()
}

// Shutdown cancels every timer. No further callbacks run afterwards.
func (c *Companion) Shutdown() {
	c.started = false
	c.registry.CancelAll()
}

// Dispatch feeds an input command into the companion.
func (c *Companion) Dispatch(cmd ports.Command) error {
	switch cmd {
	case ports.CmdPointerEnter:
		c.PointerEnter()
	case ports.CmdPointerLeave:
		c.PointerLeave()
	case ports.CmdDragStart:
		c.DragStart()
	case ports.CmdMenuShow:
		c.ShowMenu()
	case ports.CmdMenuEnter:
		c.menu.PointerEnter()
	case ports.CmdMenuLeave:
		c.menu.PointerLeave()
	case ports.CmdMenuHide:
		c.menu.Hide()
	case ports.CmdTogglePomodoro:
		c.TogglePomodoro()
	case ports.CmdStartPomodoro:
		return c.StartPomodoro()
	case ports.CmdStopPomodoro:
		c.StopPomodoro()
	case ports.CmdToggleWalk:
		c.ToggleWalk()
	case ports.CmdQuit:
		c.Shutdown()
		if c.onQuit != nil {
			c.onQuit()
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// PointerEnter handles the pointer moving onto the pet.
func (c *Companion) PointerEnter() {
	c.idle.PointerEnter()
}

// PointerLeave handles the pointer moving off the pet.
func (c *Companion) PointerLeave() {
	c.idle.PointerLeave()
}

// DragStart handles the user grabbing the pet.
func (c *Companion) DragStart() {
	c.idle.DragStart()
}

// DragTo moves the pet to x after a drag.
func (c *Companion) DragTo(x int) {
	c.walker.SetPosition(x)
	c.sink.OnPetMoved(c.walker.Position())
}

// ShowMenu opens the action menu with its hide timer running.
func (c *Companion) ShowMenu() {
	c.sink.OnMenuShow(c.menuState())
	c.menu.Show()
}

// TogglePomodoro starts or stops the pomodoro cycle and closes the menu.
func (c *Companion) TogglePomodoro() {
	c.pomodoro.Toggle()
	c.menu.Hide()
}

// StartPomodoro begins a pomodoro cycle.
func (c *Companion) StartPomodoro() error {
	return c.pomodoro.Start()
}

// StopPomodoro ends the pomodoro cycle. It reports false if none was running.
func (c *Companion) StopPomodoro() bool {
	return c.pomodoro.Stop()
}

// ToggleWalk starts or stops walking and closes the menu.
func (c *Companion) ToggleWalk() {
	c.walker.Toggle()
	c.menu.Hide()
}

// SetScreenWidth updates how far the pet may walk.
func (c *Companion) SetScreenWidth(width int) {
	c.walker.SetScreenWidth(width)
}

// AddReminder stores a new reminder.
func (c *Companion) AddReminder(text string, dueAt time.Time) (*domain.Reminder, error) {
	reminder, err := c.reminders.Add(text, dueAt)
	if err != nil {
		return nil, err
	}
	c.logger.Info("reminder added", "id", reminder.ID, "due", domain.FormatDateTime(reminder.DueAt))
	return reminder, nil
}

// DeleteReminder removes a reminder. If the bubble is showing, it moves on
// to the next latest reminder or hides.
func (c *Companion) DeleteReminder(id string) error {
	if err := c.reminders.Delete(id); err != nil {
		return err
	}
	if c.visual.BubbleVisible() {
		if latest, ok := c.reminders.Latest(); ok {
			c.visual.ShowBubble(latest.Text)
		} else {
			c.visual.HideBubble()
		}
	}
	return nil
}

// DismissReminder removes a due reminder.
func (c *Companion) DismissReminder(id string) error {
	return c.DeleteReminder(id)
}

// SnoozeReminder pushes a reminder back by the snooze delay.
func (c *Companion) SnoozeReminder(id string) (*domain.Reminder, error) {
	return c.reminders.Snooze(id)
}

// Reminders returns the reminders in display order.
func (c *Companion) Reminders() []domain.Reminder {
	return c.reminders.List()
}

// Snapshot returns a copy of the companion's state.
func (c *Companion) Snapshot() domain.PetStatus {
	return domain.PetStatus{
		Timestamp:   c.registry.Now(),
		VisualState: c.visual.Current(),
		Pomodoro:    c.pomodoro.Session(),
		Walking:     c.walker.Walking(),
		PositionX:   c.walker.Position(),
		Reminders:   c.reminders.List(),
		Stats:       c.pomodoro.Stats(),
		Asleep:      c.idle.Asleep(),
		MenuOpen:    c.menu.Visible(),
		MenuPinned:  c.menu.Pinned(),
	}
}

func (c *Companion) menuState() domain.MenuState {
	return domain.MenuState{
		PomodoroActive: c.pomodoro.Active(),
		Walking:        c.walker.Walking(),
	}
}

func (c *Companion) notify(message string) {
	c.sink.OnNotify(message)
	if c.notifier == nil {
		return
	}
	go func() {
		if err := c.notifier.Notify(NotificationTitle, message); err != nil {
			c.logger.Warn("desktop notification failed", "error", err)
		}
	}()
}
