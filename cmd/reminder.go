package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
)

var (
	reminderAt      string
	reminderIn      time.Duration
	reminderDueOnly bool

	// now is replaced in tests.
	now = time.Now
)

// reminderCmd represents the reminder command
var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"reminders", "r"},
	Short:   "Manage reminders",
	Long: `Add, list, delete and snooze reminders while the pet is not running.
A running pet owns its reminders; use its window or MCP tools instead.`,
}

var reminderAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a reminder",
	Long: `Add a reminder due at --at "YYYY-MM-DD HH:MM" (local time) or after
--in a duration such as 45m.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dueAt, err := reminderDueTime(now())
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")

		var added *domain.Reminder
		err = withOfflineGateway(func(ctx context.Context, gateway ports.Gateway) error {
			reminders, err := loadRemindersForEdit(ctx, gateway)
			if err != nil {
				return err
			}
			added, err = domain.NewReminder(text, dueAt, now())
			if err != nil {
				return err
			}
			return gateway.SaveReminders(ctx, append(reminders, *added))
		})
		if err != nil {
			return fmt.Errorf("failed to add reminder: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, reminderData(*added, now()))
		}
		fmt.Fprintf(out, "✅ Reminder added: %s (due %s)\n", added.Text, domain.FormatDateTime(added.DueAt))
		return nil
	},
}

var reminderListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reminders",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := openGateway()
		if err != nil {
			return err
		}
		defer func() { _ = gateway.Close() }()

		reminders, err := loadReminders(cmd.Context(), gateway)
		if err != nil {
			return err
		}

		return printReminders(cmd.OutOrStdout(), reminders, now(), reminderDueOnly)
	},
}

var reminderDeleteCmd = &cobra.Command{
	Use:     "delete [number or text]",
	Aliases: []string{"rm"},
	Short:   "Delete a reminder",
	Long: `Delete a reminder picked by its number in "reminder list" or by a
fuzzy match on its text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		var deleted domain.Reminder
		err := withOfflineGateway(func(ctx context.Context, gateway ports.Gateway) error {
			reminders, err := loadRemindersForEdit(ctx, gateway)
			if err != nil {
				return err
			}
			i, err := matchReminder(reminders, query)
			if err != nil {
				return err
			}
			deleted = reminders[i]
			reminders = append(reminders[:i], reminders[i+1:]...)
			return gateway.SaveReminders(ctx, reminders)
		})
		if err != nil {
			return fmt.Errorf("failed to delete reminder: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]interface{}{"deleted": true, "text": deleted.Text})
		}
		fmt.Fprintf(out, "✅ Reminder '%s' deleted.\n", deleted.Text)
		return nil
	},
}

var reminderSnoozeCmd = &cobra.Command{
	Use:   "snooze [number or text]",
	Short: "Snooze a reminder",
	Long:  `Push a reminder back by the configured snooze delay (reminders.snooze_for).`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		delay := app.config.ToPetConfig().SnoozeFor

		var snoozed domain.Reminder
		err := withOfflineGateway(func(ctx context.Context, gateway ports.Gateway) error {
			reminders, err := loadRemindersForEdit(ctx, gateway)
			if err != nil {
				return err
			}
			i, err := matchReminder(reminders, query)
			if err != nil {
				return err
			}
			reminders[i].Snooze(now(), delay)
			snoozed = reminders[i]
			return gateway.SaveReminders(ctx, reminders)
		})
		if err != nil {
			return fmt.Errorf("failed to snooze reminder: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, reminderData(snoozed, now()))
		}
		fmt.Fprintf(out, "⏰ Reminder '%s' snoozed until %s\n", snoozed.Text, domain.FormatDateTime(snoozed.DueAt))
		return nil
	},
}

func init() {
	reminderAddCmd.Flags().StringVar(&reminderAt, "at", "", `Due time as "YYYY-MM-DD HH:MM"`)
	reminderAddCmd.Flags().DurationVar(&reminderIn, "in", 0, "Due after this long, e.g. 45m")
	reminderListCmd.Flags().BoolVar(&reminderDueOnly, "due", false, "Only list reminders that are due")

	reminderCmd.AddCommand(reminderAddCmd)
	reminderCmd.AddCommand(reminderListCmd)
	reminderCmd.AddCommand(reminderDeleteCmd)
	reminderCmd.AddCommand(reminderSnoozeCmd)
}

// reminderDueTime resolves the --at and --in flags.
func reminderDueTime(current time.Time) (time.Time, error) {
	switch {
	case reminderAt != "" && reminderIn != 0:
		return time.Time{}, fmt.Errorf("use either --at or --in, not both")
	case reminderAt != "":
		dueAt, err := domain.ParseDateTime(reminderAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("--at must look like %s: %w", domain.DateTimeLayout, domain.ErrInvalidDueTime)
		}
		return dueAt, nil
	case reminderIn > 0:
		return current.Add(reminderIn), nil
	default:
		return time.Time{}, fmt.Errorf("a due time is required (--at or --in): %w", domain.ErrInvalidDueTime)
	}
}

// matchReminder picks a reminder by its 1-based list number or, failing
// that, by the best fuzzy match on its text.
func matchReminder(reminders []domain.Reminder, query string) (int, error) {
	query = strings.TrimSpace(query)
	if n, err := strconv.Atoi(query); err == nil {
		if n < 1 || n > len(reminders) {
			return 0, fmt.Errorf("no reminder number %d: %w", n, domain.ErrReminderNotFound)
		}
		return n - 1, nil
	}

	texts := make([]string, len(reminders))
	for i, reminder := range reminders {
		texts[i] = reminder.Text
	}
	matches := fuzzy.Find(query, texts)
	if len(matches) == 0 {
		return 0, fmt.Errorf("nothing matches %q: %w", query, domain.ErrReminderNotFound)
	}
	return matches[0].Index, nil
}

func printReminders(out io.Writer, reminders []domain.Reminder, current time.Time, dueOnly bool) error {
	if jsonOutput {
		list := make([]map[string]interface{}, 0, len(reminders))
		for _, reminder := range reminders {
			if dueOnly && !reminder.IsDue(current) {
				continue
			}
			list = append(list, reminderData(reminder, current))
		}
		return writeJSON(out, map[string]interface{}{"reminders": list, "total_count": len(list)})
	}

	if len(reminders) == 0 {
		fmt.Fprintln(out, "No reminders.")
		return nil
	}

	dueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorBubble))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))

	for i, reminder := range reminders {
		due := reminder.IsDue(current)
		if dueOnly && !due {
			continue
		}
		line := fmt.Sprintf("%2d. %s  %s", i+1, domain.FormatDateTime(reminder.DueAt), reminder.Text)
		if due {
			fmt.Fprintf(out, "%s %s\n", dueStyle.Render(line), app.config.Theme.IconReminder)
		} else {
			fmt.Fprintln(out, dimStyle.Render(line))
		}
	}
	return nil
}

func reminderData(reminder domain.Reminder, current time.Time) map[string]interface{} {
	return map[string]interface{}{
		"text":       reminder.Text,
		"due":        domain.FormatDateTime(reminder.DueAt),
		"created_at": domain.FormatDateTime(reminder.CreatedAt),
		"is_due":     reminder.IsDue(current),
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(out, string(jsonData))
	return nil
}
