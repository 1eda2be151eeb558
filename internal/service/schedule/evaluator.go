package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

// GraceWindow is how long after its scheduled minute a reminder still counts as due.
// It covers the slack of a 30s poll interval.
const GraceWindow = 2 * time.Minute

const slotDateLayout = "2006-01-02"

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseReminderTime parses "H:MM" or "HH:MM". Only the first two colon-separated
// parts are read.
func ParseReminderTime(s string) (TimeOfDay, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return TimeOfDay{}, false
	}

	hour, ok := parseBounded(parts[0], 23)
	if !ok {
		return TimeOfDay{}, false
	}
	minute, ok := parseBounded(parts[1], 59)
	if !ok {
		return TimeOfDay{}, false
	}

	return TimeOfDay{Hour: hour, Minute: minute}, true
}

func parseBounded(s string, upper int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > upper {
		return 0, false
	}
	return v, true
}

// DayMatches reports whether t falls on one of days. An empty list matches every day.
// Entries are compared on their first three lowercased characters, so "Mon" and
// "monday" both match a Monday.
func DayMatches(days []string, t time.Time) bool {
	if len(days) == 0 {
		return true
	}

	weekday := strings.ToLower(t.Weekday().String()[:3])
	for _, d := range days {
		d = strings.ToLower(d)
		if len(d) > 3 {
			d = d[:3]
		}
		if d == weekday {
			return true
		}
	}
	return false
}

// DueDate returns today's occurrence of r in now's location, or false when r is
// disabled, has an unparseable time or is not scheduled for today.
func DueDate(r domain.Reminder, now time.Time) (time.Time, bool) {
	if !r.IsEnabled() {
		return time.Time{}, false
	}

	tod, ok := ParseReminderTime(r.Time)
	if !ok {
		return time.Time{}, false
	}

	due := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour, tod.Minute, 0, 0, now.Location())
	if !DayMatches(r.DaysOfWeek, due) {
		return time.Time{}, false
	}
	return due, true
}

// IsDueNow reports whether now lies in [due, due+GraceWindow]. The upper bound is
// compared at millisecond precision.
func IsDueNow(r domain.Reminder, now time.Time) bool {
	due, ok := DueDate(r, now)
	if !ok {
		return false
	}

	if now.Before(due) {
		return false
	}

	elapsed := now.Sub(due).Truncate(time.Millisecond)
	return elapsed <= GraceWindow
}

// SlotToken identifies one occurrence of r: "YYYY-MM-DD:" followed by the raw time string.
func SlotToken(r domain.Reminder, due time.Time) string {
	return due.Format(slotDateLayout) + ":" + r.Time
}
