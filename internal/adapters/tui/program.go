package tui

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/desk-pet/internal/config"
	"github.com/xvierd/desk-pet/internal/ports"
)

// Options configures Run.
type Options struct {
	Theme *config.ThemeConfig

	// OnResize receives the walkable width in pet pixels. It is called once
	// with the current terminal width before the program starts.
	OnResize func(screenWidth int)
}

// TerminalWidth returns the current terminal width, defaulting to 80.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// Run shows the pet in the terminal and blocks until the user quits or
// ctx is cancelled. Render events queued on sink are forwarded to the
// program; keys are dispatched through controller.
func Run(ctx context.Context, sink *Sink, controller ports.PetController, opts Options) error {
	if opts.OnResize != nil {
		opts.OnResize(TerminalWidth() * pixelsPerColumn)
	}

	program := tea.NewProgram(
		NewModel(controller, opts.Theme, opts.OnResize),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sink.Forward(runCtx, program.Send)
	}()

	_, err := program.Run()

	// Signal cancellation and wait for the forwarder
	cancel()
	wg.Wait()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
