// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server     *server.MCPServer
	controller ports.PetController
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(controller ports.PetController) *Server {
	s := &Server{
		controller: controller,
	}

	s.server = server.NewMCPServer(
		"desk-pet",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_pet_state",
			mcp.WithDescription("Get the pet's pose, position, walk state and running pomodoro"),
		),
		s.handleGetPetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Get lifetime and today's pomodoro statistics"),
		),
		s.handleGetStats,
	)

	listTool := mcp.NewTool(
		"list_reminders",
		mcp.WithDescription("List reminders, optionally only those already due"),
		mcp.WithString(
			"filter",
			mcp.Description("Which reminders to list: all or due"),
			mcp.Enum("all", "due"),
		),
	)
	s.server.AddTool(listTool, s.handleListReminders)

	addTool := mcp.NewTool(
		"add_reminder",
		mcp.WithDescription("Add a reminder that fires at the given local time"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The reminder text"),
		),
		mcp.WithString(
			"due",
			mcp.Required(),
			mcp.Description("Due time as YYYY-MM-DD HH:MM in local time"),
		),
	)
	s.server.AddTool(addTool, s.handleAddReminder)

	snoozeTool := mcp.NewTool(
		"snooze_reminder",
		mcp.WithDescription("Push a reminder back by the configured snooze delay"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the reminder to snooze"),
		),
	)
	s.server.AddTool(snoozeTool, s.handleSnoozeReminder)

	dismissTool := mcp.NewTool(
		"dismiss_reminder",
		mcp.WithDescription("Delete a reminder"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the reminder to dismiss"),
		),
	)
	s.server.AddTool(dismissTool, s.handleDismissReminder)

	s.server.AddTool(
		mcp.NewTool(
			"start_pomodoro",
			mcp.WithDescription("Start a pomodoro cycle with a work phase"),
		),
		s.commandHandler(ports.CmdStartPomodoro),
	)

	s.server.AddTool(
		mcp.NewTool(
			"stop_pomodoro",
			mcp.WithDescription("Stop the running pomodoro cycle"),
		),
		s.commandHandler(ports.CmdStopPomodoro),
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_walk",
			mcp.WithDescription("Start or stop the pet walking across the screen"),
		),
		s.commandHandler(ports.CmdToggleWalk),
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) handleGetPetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.controller.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet state: %w", err)
	}

	pomodoro := map[string]interface{}{
		"active":             status.Pomodoro.IsActive(),
		"phase":              domain.GetPhaseLabel(status.Pomodoro.Phase),
		"remaining":          domain.FormatClock(status.Pomodoro.SecondsRemaining),
		"sessions_completed": status.Pomodoro.SessionsCompleted,
	}

	result := map[string]interface{}{
		"visual_state":   string(status.VisualState),
		"walking":        status.Walking,
		"asleep":         status.Asleep,
		"menu_open":      status.MenuOpen,
		"position_x":     status.PositionX,
		"pomodoro":       pomodoro,
		"reminder_count": len(status.Reminders),
		"due_count":      len(status.DueReminders(status.Timestamp)),
	}
	if latest, ok := status.LatestReminder(); ok {
		result["latest_reminder"] = reminderData(latest)
	}

	return jsonResult(result)
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.controller.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats := status.Stats
	result := map[string]interface{}{
		"total_work_sessions": stats.TotalWorkSessions,
		"total_work_minutes":  stats.TotalWorkMinutes,
		"total_break_minutes": stats.TotalBreakMinutes,
		"today_sessions":      stats.TodaySessions(status.Timestamp),
		"daily_sessions":      stats.DailySessions,
	}

	return jsonResult(result)
}

func (s *Server) handleListReminders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := request.GetString("filter", "all")

	status, err := s.controller.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	reminders := status.Reminders
	if filter == "due" {
		reminders = status.DueReminders(status.Timestamp)
	}

	list := make([]map[string]interface{}, 0, len(reminders))
	for _, reminder := range reminders {
		list = append(list, reminderData(reminder))
	}

	return jsonResult(map[string]interface{}{
		"reminders":   list,
		"total_count": len(list),
		"filter":      filter,
	})
}

func (s *Server) handleAddReminder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	due, err := request.RequireString("due")
	if err != nil {
		return mcp.NewToolResultError("due is required: " + err.Error()), nil
	}

	dueAt, err := domain.ParseDateTime(due)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("due must be formatted as %s", domain.DateTimeLayout)), nil
	}

	reminder, err := s.controller.AddReminder(ctx, text, dueAt)
	if err != nil {
		if isUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to add reminder: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"added":    true,
		"reminder": reminderData(*reminder),
	})
}

func (s *Server) handleSnoozeReminder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	reminder, err := s.controller.SnoozeReminder(ctx, id)
	if err != nil {
		if isUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to snooze reminder: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"snoozed":  true,
		"reminder": reminderData(*reminder),
	})
}

func (s *Server) handleDismissReminder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	if err := s.controller.DismissReminder(ctx, id); err != nil {
		if isUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to dismiss reminder: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"dismissed": true,
		"id":        id,
	})
}

// commandHandler returns a tool handler that dispatches cmd and reports the
// resulting pomodoro and walk state.
func (s *Server) commandHandler(cmd ports.Command) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.controller.Dispatch(ctx, cmd); err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("failed to run %s: %w", cmd, err)
		}

		status, err := s.controller.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get pet state: %w", err)
		}

		return jsonResult(map[string]interface{}{
			"command":        string(cmd),
			"visual_state":   string(status.VisualState),
			"walking":        status.Walking,
			"pomodoro_phase": domain.GetPhaseLabel(status.Pomodoro.Phase),
			"remaining":      domain.FormatClock(status.Pomodoro.SecondsRemaining),
		})
	}
}

// isUserError reports errors caused by the tool arguments rather than the server.
func isUserError(err error) bool {
	return errors.Is(err, domain.ErrReminderNotFound) ||
		errors.Is(err, domain.ErrEmptyReminderText) ||
		errors.Is(err, domain.ErrInvalidDueTime) ||
		errors.Is(err, domain.ErrPomodoroActive)
}

func reminderData(r domain.Reminder) map[string]interface{} {
	return map[string]interface{}{
		"id":         r.ID,
		"text":       r.Text,
		"due":        domain.FormatDateTime(r.DueAt),
		"created_at": domain.FormatDateTime(r.CreatedAt),
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
