package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/desk-pet/internal/adapters/instance"
	"github.com/xvierd/desk-pet/internal/adapters/notification"
	"github.com/xvierd/desk-pet/internal/adapters/storage"
	"github.com/xvierd/desk-pet/internal/config"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"github.com/xvierd/desk-pet/internal/services"
	"github.com/xvierd/desk-pet/internal/timer"
)

// loopBuffer is the number of posted requests the event loop queues.
const loopBuffer = 64

// appDeps groups the dependencies initialized at startup.
type appDeps struct {
	config *config.Config
}

// app holds the initialized dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices loads the configuration and applies the global flags.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
		home, homeErr := config.GetHomeDir()
		if homeErr != nil {
			return homeErr
		}
		app.config.Storage.DataDir = home
	}

	if dataDirFlag != "" {
		app.config.Storage.DataDir = dataDirFlag
	}
	if backendFlag != "" {
		app.config.Storage.Backend = backendFlag
	}
	return nil
}

// cleanupServices releases anything initializeServices acquired.
func cleanupServices() error {
	return nil
}

// openGateway opens the configured storage backend.
func openGateway() (ports.Gateway, error) {
	gateway, err := storage.Open(app.config.Storage.Backend, app.config.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return gateway, nil
}

// withOfflineGateway runs fn against storage while holding the instance
// lock, so files are never edited underneath a running pet.
func withOfflineGateway(fn func(ctx context.Context, gateway ports.Gateway) error) error {
	err := instance.Briefly(app.config.Storage.DataDir, func() error {
		gateway, err := openGateway()
		if err != nil {
			return err
		}
		defer func() { _ = gateway.Close() }()
		return fn(context.Background(), gateway)
	})
	if errors.Is(err, instance.ErrAlreadyRunning) {
		return fmt.Errorf("%w: stop it first or use its MCP tools", err)
	}
	return err
}

// newLogger returns a text logger writing to w.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLogFile opens the log file used while the terminal UI owns the screen.
func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(app.config.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(config.GetLogPath(app.config), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// petRuntime is a running pet: the event loop, its companion and the
// resources they hold.
type petRuntime struct {
	loop       *timer.Loop
	companion  *services.Companion
	controller *services.StateService
	gateway    ports.Gateway
	guard      *instance.Guard
	stop       context.CancelFunc
	done       chan error
}

// startPet claims the instance lock, loads persisted data and starts the
// event loop. onQuit runs on the loop when a quit command is dispatched.
func startPet(ctx context.Context, sink ports.RenderSink, logger *slog.Logger, onQuit func()) (*petRuntime, error) {
	guard, err := instance.Acquire(app.config.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	gateway, err := openGateway()
	if err != nil {
		_ = guard.Release()
		return nil, err
	}

	opts := services.CompanionOptions{
		Config:  app.config.ToPetConfig(),
		Gateway: gateway,
		Sink:    sink,
		Logger:  logger,
		OnQuit:  onQuit,
	}
	if notifier := notification.New(&app.config.Notifications); notifier.IsEnabled() {
		opts.Notifier = notifier
	}

	loop := timer.NewLoop(loopBuffer)
	companion := services.NewCompanion(loop.Registry(), opts)
	if err := companion.Load(ctx); err != nil {
		_ = gateway.Close()
		_ = guard.Release()
		return nil, err
	}

	loopCtx, stop := context.WithCancel(ctx)
	rt := &petRuntime{
		loop:       loop,
		companion:  companion,
		controller: services.NewStateService(loop, companion),
		gateway:    gateway,
		guard:      guard,
		stop:       stop,
		done:       make(chan error, 1),
	}

	loop.Post(companion.Start)
	go func() { rt.done <- loop.Run(loopCtx) }()

	logger.Info("desk pet started",
		"data_dir", app.config.Storage.DataDir,
		"backend", app.config.Storage.Backend,
		"instance", guard.Address(),
	)
	return rt, nil
}

// setScreenWidth posts a walkable-width change onto the loop.
func (rt *petRuntime) setScreenWidth(width int) {
	rt.loop.Post(func() { rt.companion.SetScreenWidth(width) })
}

// Close stops the loop and releases storage and the instance lock.
func (rt *petRuntime) Close() error {
	rt.stop()
	<-rt.done
	var errs []error
	if err := rt.gateway.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := rt.guard.Release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// setupSignalHandler returns a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// loadReminders reads reminders, tolerating malformed records.
func loadReminders(ctx context.Context, gateway ports.Gateway) ([]domain.Reminder, error) {
	reminders, err := gateway.LoadReminders(ctx)
	if err != nil && !errors.Is(err, domain.ErrMalformedData) {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	return reminders, nil
}

// loadRemindersForEdit is loadReminders for commands that write the list
// back. An undecodable document is left alone instead of being replaced.
func loadRemindersForEdit(ctx context.Context, gateway ports.Gateway) ([]domain.Reminder, error) {
	reminders, err := gateway.LoadReminders(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptDocument):
		return nil, fmt.Errorf("stored reminders were left untouched, fix or move them first: %w", err)
	case err != nil && !errors.Is(err, domain.ErrMalformedData):
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	return reminders, nil
}

// loadStats reads statistics, tolerating a malformed file.
func loadStats(ctx context.Context, gateway ports.Gateway) (domain.Statistics, error) {
	stats, err := gateway.LoadStats(ctx)
	if err != nil && !errors.Is(err, domain.ErrMalformedData) {
		return domain.Statistics{}, fmt.Errorf("failed to load stats: %w", err)
	}
	if stats.DailySessions == nil {
		stats.DailySessions = make(map[string]int)
	}
	return stats, nil
}
