package core

import (
	"testing"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

func TestSLAStatusFor(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		slaDate string
		want    models.SLAStatus
	}{
		{"empty date", "", models.SLANone},
		{"unparseable date", "next tuesday", models.SLANone},
		{"wrong layout", "03/10/2026", models.SLANone},
		{"yesterday", "2026-03-09", models.SLAOverdue},
		{"long overdue", "2025-01-01", models.SLAOverdue},
		{"today", "2026-03-10", models.SLADueToday},
		{"tomorrow", "2026-03-11", models.SLADueThisWeek},
		{"seventh day", "2026-03-17", models.SLADueThisWeek},
		{"eighth day", "2026-03-18", models.SLAOnTrack},
		{"far out", "2027-01-01", models.SLAOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SLAStatusFor(tt.slaDate, now); got != tt.want {
				t.Fatalf("SLAStatusFor(%q) = %q, want %q", tt.slaDate, got, tt.want)
			}
		})
	}
}

func TestSLAStatusForIgnoresTimeOfDay(t *testing.T) {
	early := time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC)
	late := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)

	for _, date := range []string{"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-17", "2026-03-18"} {
		if a, b := SLAStatusFor(date, early), SLAStatusFor(date, late); a != b {
			t.Fatalf("SLAStatusFor(%q) differs by time of day: %q vs %q", date, a, b)
		}
	}
}

func TestTaskSLAStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := models.Task{Description: "Follow up", SLADate: "2026-03-08"}
	if got := TaskSLAStatus(task, now); got != models.SLAOverdue {
		t.Fatalf("got %q, want overdue", got)
	}
}

func TestDefaultSLADate(t *testing.T) {
	now := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{7, "2026-04-04"},
		{1, "2026-03-29"},
		{0, "2026-03-28"},
		{30, "2026-04-27"},
	}
	for _, tt := range tests {
		if got := DefaultSLADate(now, tt.days); got != tt.want {
			t.Fatalf("DefaultSLADate(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}
