package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/desk-pet/internal/domain"
)

var (
	exportFormat string
	exportOutput string
	exportRender bool
)

// exportDocument is everything the pet has persisted.
type exportDocument struct {
	Generated string           `yaml:"generated"`
	Stats     statsReport      `yaml:"stats"`
	Reminders []exportReminder `yaml:"reminders"`
}

type exportReminder struct {
	Text      string `yaml:"text"`
	Due       string `yaml:"due"`
	CreatedAt string `yaml:"created_at"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics and reminders",
	Long: `Export pomodoro statistics and reminders as markdown, CSV or YAML.
CSV output holds one row per day with recorded sessions.`,
	Args: cobra.NoArgs,
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
		reminders, err := loadReminders(cmd.Context(), gateway)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		current := now()
		switch exportFormat {
		case "csv":
			return exportCSV(out, stats)
		case "yaml":
			return exportYAML(out, stats, reminders, current)
		case "md", "":
			if exportRender {
				return exportRendered(out, stats, reminders, current)
			}
			return exportMarkdown(out, stats, reminders, current)
		default:
			return fmt.Errorf("unknown format %q (want md, csv or yaml)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportRender, "render", false, "Render markdown for the terminal")
}

func exportMarkdown(out io.Writer, stats domain.Statistics, reminders []domain.Reminder, current time.Time) error {
	fmt.Fprintf(out, "# Desk Pet Export\n\n")
	fmt.Fprintf(out, "Generated: %s\n\n", domain.FormatDateTime(current))

	fmt.Fprintf(out, "## Pomodoro\n\n")
	fmt.Fprintf(out, "- Work sessions: %d\n", stats.TotalWorkSessions)
	fmt.Fprintf(out, "- Work time: %s\n", formatHours(float64(stats.TotalWorkMinutes)/60))
	fmt.Fprintf(out, "- Break time: %s\n", formatHours(float64(stats.TotalBreakMinutes)/60))
	fmt.Fprintf(out, "- Today: %d\n\n", stats.TodaySessions(current))

	if days := sortedDays(stats); len(days) > 0 {
		fmt.Fprintf(out, "| Date | Sessions |\n|---|---|\n")
		for _, day := range days {
			fmt.Fprintf(out, "| %s | %d |\n", day, stats.DailySessions[day])
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "## Reminders\n\n")
	if len(reminders) == 0 {
		fmt.Fprintf(out, "None.\n")
		return nil
	}
	for _, reminder := range reminders {
		mark := " "
		if reminder.IsDue(current) {
			mark = "!"
		}
		fmt.Fprintf(out, "- [%s] %s (due %s)\n", mark, reminder.Text, domain.FormatDateTime(reminder.DueAt))
	}
	return nil
}

// exportRendered renders the markdown export for reading in a terminal.
// Styles are only applied when writing to a terminal.
func exportRendered(out io.Writer, stats domain.Statistics, reminders []domain.Reminder, current time.Time) error {
	var md bytes.Buffer
	if err := exportMarkdown(&md, stats, reminders, current); err != nil {
		return err
	}

	style := "notty"
	if exportOutput == "" && term.IsTerminal(os.Stdout.Fd()) {
		style = "dark"
	}
	rendered, err := glamour.Render(md.String(), style)
	if err != nil {
		_, err = out.Write(md.Bytes())
		return err
	}
	_, err = fmt.Fprintln(out, strings.TrimSpace(rendered))
	return err
}

func exportCSV(out io.Writer, stats domain.Statistics) error {
	w := csv.NewWriter(out)

	_ = w.Write([]string{"date", "sessions"})
	for _, day := range sortedDays(stats) {
		_ = w.Write([]string{day, strconv.Itoa(stats.DailySessions[day])})
	}

	w.Flush()
	return w.Error()
}

func exportYAML(out io.Writer, stats domain.Statistics, reminders []domain.Reminder, current time.Time) error {
	doc := exportDocument{
		Generated: domain.FormatDateTime(current),
		Stats:     newStatsReport(stats, current),
		Reminders: make([]exportReminder, 0, len(reminders)),
	}
	for _, reminder := range reminders {
		doc.Reminders = append(doc.Reminders, exportReminder{
			Text:      reminder.Text,
			Due:       domain.FormatDateTime(reminder.DueAt),
			CreatedAt: domain.FormatDateTime(reminder.CreatedAt),
		})
	}
	return writeYAML(out, doc)
}
