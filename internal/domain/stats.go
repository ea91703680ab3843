package domain

import "time"

// DateLayout keys the daily session counts.
const DateLayout = "2006-01-02"

// Statistics accumulates lifetime Pomodoro totals.
type Statistics struct {
	TotalWorkSessions int
	TotalWorkMinutes  int
	TotalBreakMinutes int
	DailySessions     map[string]int
}

// NewStatistics returns zeroed statistics.
func NewStatistics() Statistics {
	return Statistics{DailySessions: make(map[string]int)}
}

// RecordWorkSession adds one completed work phase of the given length.
func (s *Statistics) RecordWorkSession(at time.Time, minutes int) {
	if s.DailySessions == nil {
		s.DailySessions = make(map[string]int)
	}
	s.TotalWorkSessions++
	s.TotalWorkMinutes += minutes
	s.DailySessions[at.Format(DateLayout)]++
}

// TodaySessions returns the number of work sessions completed on now's date.
func (s Statistics) TodaySessions(now time.Time) int {
	return s.DailySessions[now.Format(DateLayout)]
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s Statistics) Clone() Statistics {
	out := s
	out.DailySessions = make(map[string]int, len(s.DailySessions))
	for day, count := range s.DailySessions {
		out.DailySessions[day] = count
	}
	return out
}
