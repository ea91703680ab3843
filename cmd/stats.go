package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/domain"
	"github.com/xvierd/desk-pet/internal/ports"
	"gopkg.in/yaml.v3"
)

var (
	statsFormat string
	statsDays   int
	statsForce  bool
)

// statsReport is the serialisable view of the statistics.
type statsReport struct {
	TotalWorkSessions int            `json:"total_work_sessions" yaml:"total_work_sessions"`
	TotalWorkMinutes  int            `json:"total_work_minutes" yaml:"total_work_minutes"`
	TotalBreakMinutes int            `json:"total_break_minutes" yaml:"total_break_minutes"`
	TodaySessions     int            `json:"today_sessions" yaml:"today_sessions"`
	DailySessions     map[string]int `json:"daily_sessions" yaml:"daily_sessions"`
	UpdatedAt         string         `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func newStatsReport(stats domain.Statistics, current time.Time) statsReport {
	return statsReport{
		TotalWorkSessions: stats.TotalWorkSessions,
		TotalWorkMinutes:  stats.TotalWorkMinutes,
		TotalBreakMinutes: stats.TotalBreakMinutes,
		TodaySessions:     stats.TodaySessions(current),
		DailySessions:     stats.Clone().DailySessions,
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pomodoro statistics",
	Long:  `Show lifetime pomodoro totals, today's session count and a chart of recent days.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := openGateway()
		if err != nil {
			return err
		}
		defer func() { _ = gateway.Close() }()

		stats, err := loadStats(cmd.Context(), gateway)
		if err != nil {
			return err
		}
		updated, err := statsUpdatedAt(cmd.Context(), gateway)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report := newStatsReport(stats, now())
		if !updated.IsZero() {
			report.UpdatedAt = domain.FormatDateTime(updated)
		}
		format := statsFormat
		if jsonOutput {
			format = "json"
		}
		switch format {
		case "json":
			return writeJSON(out, report)
		case "yaml":
			return writeYAML(out, report)
		case "text", "":
			renderStats(out, stats, updated, now(), statsDays)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}
	},
}

var statsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all pomodoro statistics",
	Long:  `Clear every pomodoro total and daily count. Refused while the pet is running.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !statsForce {
			fmt.Fprint(out, "Reset all pomodoro statistics? [y/N]: ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.TrimSpace(answer)
			if answer != "y" && answer != "Y" {
				fmt.Fprintln(out, "Reset cancelled.")
				return nil
			}
		}

		err := withOfflineGateway(func(ctx context.Context, gateway ports.Gateway) error {
			return gateway.SaveStats(ctx, domain.NewStatistics())
		})
		if err != nil {
			return fmt.Errorf("failed to reset stats: %w", err)
		}

		fmt.Fprintln(out, "✅ Statistics reset.")
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format: text, json or yaml")
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 7, "Number of recent days to chart")
	statsResetCmd.Flags().BoolVar(&statsForce, "force", false, "Do not ask for confirmation")
	statsCmd.AddCommand(statsResetCmd)
}

// statsUpdatedAt returns when the statistics were last saved, or the zero
// time when the backend cannot tell.
func statsUpdatedAt(ctx context.Context, gateway ports.Gateway) (time.Time, error) {
	clock, ok := gateway.(ports.StatsClock)
	if !ok {
		return time.Time{}, nil
	}
	updated, err := clock.StatsUpdatedAt(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read stats timestamp: %w", err)
	}
	return updated, nil
}

func renderStats(out io.Writer, stats domain.Statistics, updated, current time.Time, days int) {
	theme := app.config.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTitle))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorBreak))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork))

	fmt.Fprintf(out, "\n  %s\n", titleStyle.Render(theme.IconStats+" Pomodoro Statistics"))
	fmt.Fprintf(out, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(out, "  Total Work Sessions: %s\n", valueStyle.Render(fmt.Sprintf("%d", stats.TotalWorkSessions)))
	fmt.Fprintf(out, "  Total Work Time:     %s\n", valueStyle.Render(formatHours(float64(stats.TotalWorkMinutes)/60)))
	fmt.Fprintf(out, "  Total Break Time:    %s\n", valueStyle.Render(formatHours(float64(stats.TotalBreakMinutes)/60)))
	fmt.Fprintf(out, "  Today's Sessions:    %s\n", valueStyle.Render(fmt.Sprintf("%d", stats.TodaySessions(current))))
	if !updated.IsZero() {
		fmt.Fprintf(out, "  Last Updated:        %s\n", dimStyle.Render(domain.FormatDateTime(updated)))
	}
	fmt.Fprintln(out)

	if days <= 0 {
		return
	}

	counts := recentDays(stats, current, days)
	maxCount := 0
	for _, day := range counts {
		if day.sessions > maxCount {
			maxCount = day.sessions
		}
	}

	fmt.Fprintf(out, "  %s\n", dimStyle.Render(fmt.Sprintf("Last %d days", days)))
	const maxBarWidth = 30
	for _, day := range counts {
		barWidth := 0
		if maxCount > 0 {
			barWidth = int(math.Round(float64(day.sessions) / float64(maxCount) * maxBarWidth))
		}
		if barWidth < 1 && day.sessions > 0 {
			barWidth = 1
		}
		fmt.Fprintf(out, "  %s %s %d\n",
			dimStyle.Render(day.label),
			barColor.Render(strings.Repeat("█", barWidth)),
			day.sessions,
		)
	}
	fmt.Fprintln(out)
}

type dayCount struct {
	date     string
	label    string
	sessions int
}

// recentDays returns the session counts of the last n days, oldest first.
func recentDays(stats domain.Statistics, current time.Time, n int) []dayCount {
	out := make([]dayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := current.AddDate(0, 0, -i)
		date := day.Format(domain.DateLayout)
		out = append(out, dayCount{
			date:     date,
			label:    day.Format("Mon Jan 02"),
			sessions: stats.DailySessions[date],
		})
	}
	return out
}

// sortedDays returns the recorded dates in ascending order.
func sortedDays(stats domain.Statistics) []string {
	days := make([]string, 0, len(stats.DailySessions))
	for day := range stats.DailySessions {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func formatHours(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%dm", int(math.Round(hours*60)))
	}
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func writeYAML(out io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
