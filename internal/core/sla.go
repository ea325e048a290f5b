package core

import (
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// DateLayout is the YYYY-MM-DD format used for task and SLA dates.
const DateLayout = "2006-01-02"

// dueThisWeekDays is the window, in calendar days after today, that counts
// as due_this_week.
const dueThisWeekDays = 7

// SLAStatusFor derives the SLA bucket for a task SLA date relative to now.
// An empty or unparseable date is no_sla. Comparison is by calendar day:
// a date before today is overdue, today is due_today, within the next seven
// days is due_this_week, anything later is on_track.
func SLAStatusFor(slaDate string, now time.Time) models.SLAStatus {
	if slaDate == "" {
		return models.SLANone
	}
	due, err := time.Parse(DateLayout, slaDate)
	if err != nil {
		return models.SLANone
	}

	today := truncateToDay(now)
	due = truncateToDay(due)

	switch {
	case due.Before(today):
		return models.SLAOverdue
	case due.Equal(today):
		return models.SLADueToday
	case !due.After(today.AddDate(0, 0, dueThisWeekDays)):
		return models.SLADueThisWeek
	default:
		return models.SLAOnTrack
	}
}

// TaskSLAStatus derives the SLA bucket for a task.
func TaskSLAStatus(task models.Task, now time.Time) models.SLAStatus {
	return SLAStatusFor(task.SLADate, now)
}

// DefaultSLADate is the default SLA policy: the deadline for newly
// synthesized or manually added tasks, days calendar days from now.
func DefaultSLADate(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(DateLayout)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
