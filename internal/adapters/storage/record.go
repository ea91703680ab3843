package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xvierd/desk-pet/internal/domain"
)

// reminderRecord is the stored shape of one reminder.
type reminderRecord struct {
	Text        string `json:"text"`
	DueDateTime string `json:"due_datetime"`
	CreatedAt   string `json:"created_at"`
}

// statsRecord is the stored shape of the statistics.
type statsRecord struct {
	TotalWorkSessions int            `json:"total_work_sessions"`
	TotalWorkMinutes  int            `json:"total_work_minutes"`
	TotalBreakMinutes int            `json:"total_break_minutes"`
	DailySessions     map[string]int `json:"daily_sessions"`
}

func encodeReminders(reminders []domain.Reminder) ([]byte, error) {
	records := make([]reminderRecord, 0, len(reminders))
	for _, r := range reminders {
		records = append(records, reminderRecord{
			Text:        r.Text,
			DueDateTime: domain.FormatDateTime(r.DueAt),
			CreatedAt:   domain.FormatDateTime(r.CreatedAt),
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}
	return data, nil
}

// decodeReminders parses a stored reminder list. Entries with an unusable
// due_datetime are dropped and reported through an ErrMalformedData error
// alongside the entries that did parse. A document that is not a list at
// all also wraps ErrCorruptDocument: nothing was recovered from it and it
// must not be overwritten blindly.
func decodeReminders(data []byte) ([]domain.Reminder, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []domain.Reminder{}, nil
	}

	var records []reminderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return []domain.Reminder{}, fmt.Errorf("%w: %w: reminders: %v", domain.ErrMalformedData, domain.ErrCorruptDocument, err)
	}

	reminders := make([]domain.Reminder, 0, len(records))
	var rejected []string
	for i, rec := range records {
		due, err := domain.ParseDateTime(rec.DueDateTime)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("#%d %q", i, rec.DueDateTime))
			continue
		}
		created, err := domain.ParseDateTime(rec.CreatedAt)
		if err != nil {
			created = due
		}
		reminders = append(reminders, domain.Reminder{
			ID:        domain.NewID(),
			Text:      rec.Text,
			DueAt:     due,
			CreatedAt: created,
		})
	}

	if len(rejected) > 0 {
		return reminders, fmt.Errorf("%w: invalid due_datetime in %s", domain.ErrMalformedData, strings.Join(rejected, ", "))
	}
	return reminders, nil
}

func encodeStats(stats domain.Statistics) ([]byte, error) {
	rec := statsRecord{
		TotalWorkSessions: stats.TotalWorkSessions,
		TotalWorkMinutes:  stats.TotalWorkMinutes,
		TotalBreakMinutes: stats.TotalBreakMinutes,
		DailySessions:     stats.DailySessions,
	}
	if rec.DailySessions == nil {
		rec.DailySessions = map[string]int{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode statistics: %w", err)
	}
	return data, nil
}

// decodeStats parses stored statistics, returning zeroed statistics and an
// ErrMalformedData error when the document cannot be read.
func decodeStats(data []byte) (domain.Statistics, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return domain.NewStatistics(), nil
	}

	var rec statsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.NewStatistics(), fmt.Errorf("%w: statistics: %v", domain.ErrMalformedData, err)
	}

	stats := domain.Statistics{
		TotalWorkSessions: rec.TotalWorkSessions,
		TotalWorkMinutes:  rec.TotalWorkMinutes,
		TotalBreakMinutes: rec.TotalBreakMinutes,
		DailySessions:     rec.DailySessions,
	}
	if stats.DailySessions == nil {
		stats.DailySessions = make(map[string]int)
	}
	return stats, nil
}
