package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/adapters/tui"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

var runHeadless bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the desk pet",
	Long: `Run the desk pet in the terminal. With --headless the pet runs without
a screen: timers, reminders and desktop notifications keep working and
everything it would show is written to the log on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPet(cmd.Context(), runOptions{headless: runHeadless})
	},
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without the terminal UI")
}

// runOptions selects how runPet presents the pet.
type runOptions struct {
	headless      bool
	startPomodoro bool
}

// runPet runs a pet until the user quits or an interrupt arrives.
func runPet(parent context.Context, opts runOptions) error {
	ctx, cancel := setupSignalHandler(parent)
	defer cancel()

	var (
		logger *slog.Logger
		sink   ports.RenderSink
		screen *tui.Sink
	)
	if opts.headless {
		logger = newLogger(os.Stderr)
		sink = logSink{logger: logger}
	} else {
		logFile, err := openLogFile()
		if err != nil {
			return err
		}
		defer func() { _ = logFile.Close() }()
		logger = newLogger(logFile)
		screen = tui.NewSink(0)
		sink = screen
	}

	rt, err := startPet(ctx, sink, logger, cancel)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()

	if opts.startPomodoro {
		if err := rt.controller.Dispatch(ctx, ports.CmdStartPomodoro); err != nil {
			return fmt.Errorf("failed to start pomodoro: %w", err)
		}
	}

	if opts.headless {
		<-ctx.Done()
		logger.Info("desk pet stopped")
		return nil
	}

	return tui.Run(ctx, screen, rt.controller, tui.Options{
		Theme:    &app.config.Theme,
		OnResize: rt.setScreenWidth,
	})
}

// logSink renders the pet into a logger.
type logSink struct {
	logger *slog.Logger
}

func (s logSink) OnVisualStateChanged(state domain.VisualState) {
	s.logger.Debug("visual state", "state", string(state))
}

func (s logSink) OnBubbleShow(text string) {
	s.logger.Debug("bubble shown", "text", text)
}

func (s logSink) OnBubbleHide() {
	s.logger.Debug("bubble hidden")
}

func (s logSink) OnTimerDisplay(label, clock string) {
	s.logger.Debug("timer", "phase", label, "remaining", clock)
}

func (s logSink) OnTimerHide() {
	s.logger.Debug("timer hidden")
}

func (s logSink) OnNotify(message string) {
	s.logger.Info(message)
}

func (s logSink) OnMenuShow(menu domain.MenuState) {
	s.logger.Debug("menu shown", "pomodoro_active", menu.PomodoroActive, "walking", menu.Walking)
}

func (s logSink) OnMenuHide() {
	s.logger.Debug("menu hidden")
}

func (s logSink) OnPetMoved(x int) {
	s.logger.Debug("pet moved", "x", x)
}

func (s logSink) OnReminderDue(reminder domain.Reminder) {
	s.logger.Info("reminder due", "text", reminder.Text, "due", domain.FormatDateTime(reminder.DueAt))
}

var _ ports.RenderSink = logSink{}
