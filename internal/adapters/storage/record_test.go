package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/desk-pet/internal/domain"
)

func TestDecodeReminders(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantTexts []string
		malformed bool
		corrupt   bool
	}{
		{
			name:      "empty document",
			data:      "",
			wantTexts: nil,
		},
		{
			name:      "empty list",
			data:      "[]",
			wantTexts: nil,
		},
		{
			name: "valid records keep order",
			data: `[{"text":"a","due_datetime":"2026-03-02 10:00","created_at":"2026-03-01 08:00"},
				{"text":"b","due_datetime":"2026-03-02 11:30","created_at":"2026-03-01 08:05"}]`,
			wantTexts: []string{"a", "b"},
		},
		{
			name: "bad due_datetime dropped",
			data: `[{"text":"good","due_datetime":"2026-03-02 10:00","created_at":"2026-03-01 08:00"},
				{"text":"bad","due_datetime":"tomorrow","created_at":"2026-03-01 08:00"}]`,
			wantTexts: []string{"good"},
			malformed: true,
		},
		{
			name:      "not json",
			data:      "{nope",
			wantTexts: nil,
			malformed: true,
			corrupt:   true,
		},
		{
			name:      "truncated list",
			data:      `[{"text":"pay rent","due_datetime":"2026-03-02 10:00","created_at":"2026-03-01 08:00"},{"text":"dentist",`,
			wantTexts: nil,
			malformed: true,
			corrupt:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeReminders([]byte(tt.data))
			if tt.malformed != errors.Is(err, domain.ErrMalformedData) {
				t.Fatalf("decodeReminders() error = %v, malformed want %v", err, tt.malformed)
			}
			if tt.corrupt != errors.Is(err, domain.ErrCorruptDocument) {
				t.Fatalf("decodeReminders() error = %v, corrupt want %v", err, tt.corrupt)
			}
			if !tt.malformed && err != nil {
				t.Fatalf("decodeReminders() unexpected error = %v", err)
			}
			if len(got) != len(tt.wantTexts) {
				t.Fatalf("decodeReminders() returned %d reminders, want %d", len(got), len(tt.wantTexts))
			}
			for i, r := range got {
				if r.Text != tt.wantTexts[i] {
					t.Errorf("reminder %d text = %q, want %q", i, r.Text, tt.wantTexts[i])
				}
				if r.ID == "" {
					t.Errorf("reminder %d has no ID", i)
				}
			}
		})
	}
}

func TestEncodeReminders_Format(t *testing.T) {
	due := time.Date(2026, 3, 2, 17, 45, 0, 0, time.Local)
	created := time.Date(2026, 3, 1, 8, 5, 0, 0, time.Local)
	data, err := encodeReminders([]domain.Reminder{{ID: "x", Text: "Buy milk", DueAt: due, CreatedAt: created}})
	if err != nil {
		t.Fatalf("encodeReminders() error = %v", err)
	}

	s := string(data)
	for _, want := range []string{`"text": "Buy milk"`, `"due_datetime": "2026-03-02 17:45"`, `"created_at": "2026-03-01 08:05"`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded reminders missing %s:\n%s", want, s)
		}
	}
	if strings.Contains(s, `"x"`) {
		t.Errorf("in-memory IDs must not be stored:\n%s", s)
	}
}

func TestDecodeStats(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		stats, err := decodeStats([]byte(`{"total_work_sessions":3,"total_work_minutes":75,"total_break_minutes":0,"daily_sessions":{"2026-03-02":3}}`))
		if err != nil {
			t.Fatalf("decodeStats() error = %v", err)
		}
		if stats.TotalWorkSessions != 3 || stats.TotalWorkMinutes != 75 {
			t.Errorf("decodeStats() = %+v", stats)
		}
		if stats.DailySessions["2026-03-02"] != 3 {
			t.Errorf("daily sessions = %v", stats.DailySessions)
		}
	})

	t.Run("null daily sessions", func(t *testing.T) {
		stats, err := decodeStats([]byte(`{"total_work_sessions":1}`))
		if err != nil {
			t.Fatalf("decodeStats() error = %v", err)
		}
		if stats.DailySessions == nil {
			t.Error("DailySessions should be an empty map")
		}
	})

	t.Run("malformed falls back to zero", func(t *testing.T) {
		stats, err := decodeStats([]byte(`{"total_work_sessions":"many"}`))
		if !errors.Is(err, domain.ErrMalformedData) {
			t.Fatalf("decodeStats() error = %v, want ErrMalformedData", err)
		}
		if stats.TotalWorkSessions != 0 || stats.DailySessions == nil {
			t.Errorf("decodeStats() = %+v, want zero stats", stats)
		}
	})
}
