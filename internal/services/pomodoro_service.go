package services

import (
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/timer"
)

// Messages shown when the pomodoro cycle moves on.
const (
	MsgPomodoroStarted = "Pomodoro started! Time to focus!"
	MsgShortBreak      = "Good job! Take a short break!"
	MsgLongBreak       = "Great work! Time for a long break!"
	MsgBackToWork      = "Break's over! Back to work!"
	MsgPomodoroEnded   = "Pomodoro session ended!"
)

const pomodoroTick = time.Second

// PomodoroEngine runs the work / break / long break cycle.
type PomodoroEngine struct {
	registry *timer.Registry
	visual   *VisualStateController
	sink     ports.RenderSink
	store    writeThrough
	notify   func(string)
	config   domain.PomodoroConfig
	session  domain.PomodoroSession
	stats    domain.Statistics
}

// NewPomodoroEngine creates an inactive engine.
func NewPomodoroEngine(registry *timer.Registry, visual *VisualStateController, sink ports.RenderSink, store writeThrough, notify func(string), config domain.PomodoroConfig) *PomodoroEngine {
	return &PomodoroEngine{
		registry: registry,
		visual:   visual,
		sink:     sink,
		store:    store,
		notify:   notify,
		config:   config,
		session:  domain.PomodoroSession{Phase: domain.PhaseInactive},
		stats:    domain.NewStatistics(),
	}
}

// SetStats replaces the lifetime statistics, typically after loading them.
func (e *PomodoroEngine) SetStats(stats domain.Statistics) {
	if stats.DailySessions == nil {
		stats.DailySessions = make(map[string]int)
	}
	e.stats = stats
}

// Stats returns a copy of the lifetime statistics.
func (e *PomodoroEngine) Stats() domain.Statistics {
	return e.stats.Clone()
}

// Session returns the current run state.
func (e *PomodoroEngine) Session() domain.PomodoroSession {
	return e.session
}

// Active reports whether a cycle is running.
func (e *PomodoroEngine) Active() bool {
	return e.session.IsActive()
}

// Start begins a fresh cycle with a work phase.
func (e *PomodoroEngine) Start() error {
	if e.session.IsActive() {
		return domain.ErrPomodoroActive
	}
	e.session = domain.PomodoroSession{}
	e.session.Enter(domain.PhaseWork, e.config)

	e.display()
	e.visual.Request(domain.StateWork)
	e.notify(MsgPomodoroStarted)
	e.registry.Every(timer.SlotPomodoroTick, pomodoroTick, e.tick)
	return nil
}

// Stop ends the cycle. It reports false if nothing was running.
func (e *PomodoroEngine) Stop() bool {
	if !e.session.IsActive() {
		return false
	}
	e.registry.Cancel(timer.SlotPomodoroTick)
	e.session.Phase = domain.PhaseInactive
	e.session.SecondsRemaining = 0

	e.sink.OnTimerHide()
	e.visual.Request(domain.StateNormal)
	e.notify(MsgPomodoroEnded)
	return true
}

// Toggle starts an inactive cycle or stops a running one.
func (e *PomodoroEngine) Toggle() {
	if e.Stop() {
		return
	}
	_ = e.Start()
}

func (e *PomodoroEngine) tick() {
	if !e.session.IsActive() {
		return
	}
	if e.session.SecondsRemaining > 0 {
		e.session.SecondsRemaining--
	}
	if e.session.SecondsRemaining == 0 {
		e.completePhase()
	}
	e.display()
}

func (e *PomodoroEngine) completePhase() {
	var message string
	if e.session.Phase == domain.PhaseWork {
		e.session.SessionsCompleted++
		// Break minutes are never added here, only work time.
		e.stats.RecordWorkSession(e.registry.Now(), domain.WholeMinutes(e.config.WorkDuration))

		next := e.config.NextBreak(e.session.SessionsCompleted)
		e.session.Enter(next, e.config)
		message = MsgShortBreak
		if next == domain.PhaseLongBreak {
			message = MsgLongBreak
		}
	} else {
		e.session.Enter(domain.PhaseWork, e.config)
		message = MsgBackToWork
	}

	e.notify(message)
	e.visual.Request(e.session.VisualState())
	e.store.saveStats(e.stats.Clone())
}

func (e *PomodoroEngine) display() {
	e.sink.OnTimerDisplay(domain.GetPhaseLabel(e.session.Phase), domain.FormatClock(e.session.SecondsRemaining))
}
